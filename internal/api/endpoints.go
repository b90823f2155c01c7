package api

import "fmt"

// Endpoint paths, relative to the configured base URL.
const (
	EndpointAuthLogin              = "/auth/login"
	EndpointAuthRegister           = "/auth/register"
	EndpointAuthRefresh            = "/auth/refresh"
	EndpointAuthLogout             = "/auth/logout"
	EndpointAuthMe                 = "/auth/me"
	EndpointAuthVerifyEmail        = "/auth/verify-email"
	EndpointAuthResendVerification = "/auth/resend-verification"
	EndpointAuthForgotPassword     = "/auth/forgot-password"
	EndpointAuthResetPassword      = "/auth/reset-password"
	EndpointAuthChangePassword     = "/auth/change-password"
	EndpointAuthCheckEmail         = "/auth/check-email"

	EndpointUsersProfile    = "/users/profile"
	EndpointUsersPoints     = "/users/points"
	EndpointUsersDeactivate = "/users/account"

	EndpointProducts           = "/products"
	EndpointProductsFeatured   = "/products/featured"
	EndpointProductsCategories = "/products/categories"

	EndpointCart              = "/cart"
	EndpointCartAdd           = "/cart/add"
	EndpointCartItems         = "/cart/items"
	EndpointCartClear         = "/cart/clear"
	EndpointCartSummary       = "/cart/summary"
	EndpointCartCount         = "/cart/count"
	EndpointCartValidate      = "/cart/validate"
	EndpointCartShippingRates = "/cart/shipping-rates"
	EndpointCartSyncPrices    = "/cart/sync-prices"

	EndpointOrders         = "/orders"
	EndpointOrdersByNumber = "/orders/number"

	EndpointCourses              = "/courses"
	EndpointCoursesFeatured      = "/courses/featured"
	EndpointCoursesPopular       = "/courses/popular"
	EndpointCoursesMyEnrollments = "/courses/enrollments/my"
	EndpointCoursesMyLearning    = "/courses/analytics/my-learning"

	EndpointMerchantsApply             = "/merchants/apply"
	EndpointMerchantsProfile           = "/merchants/profile"
	EndpointMerchantsApplicationStatus = "/merchants/application/status"
	EndpointMerchantsAnalytics         = "/merchants/analytics"
	EndpointMerchantsReferrals         = "/merchants/referrals"
	EndpointMerchantsPayouts           = "/merchants/payouts"
)

func EndpointProductDetail(id int64) string      { return fmt.Sprintf("/products/%d", id) }
func EndpointProductBySlug(slug string) string   { return "/products/slug/" + slug }
func EndpointProductsByCategory(id int64) string { return fmt.Sprintf("/products/category/%d", id) }
func EndpointProductCategory(id int64) string    { return fmt.Sprintf("/products/categories/%d", id) }

func EndpointCartItem(itemID int64) string { return fmt.Sprintf("/cart/items/%d", itemID) }

func EndpointOrderDetail(id int64) string        { return fmt.Sprintf("/orders/%d", id) }
func EndpointOrderByNumber(number string) string { return "/orders/number/" + number }
func EndpointOrderCancel(id int64) string        { return fmt.Sprintf("/orders/%d/cancel", id) }
func EndpointOrderPayments(id int64) string      { return fmt.Sprintf("/orders/%d/payments", id) }
func EndpointOrderPaymentIntent(id int64) string {
	return fmt.Sprintf("/orders/%d/payment-intent", id)
}
