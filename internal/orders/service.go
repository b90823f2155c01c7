package orders

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/corepath-impact/storefront-client/internal/api"
	"github.com/corepath-impact/storefront-client/internal/notify"
	"github.com/corepath-impact/storefront-client/internal/storage"
	pkgerrors "github.com/corepath-impact/storefront-client/pkg/errors"
	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/pagination"
	"github.com/corepath-impact/storefront-client/pkg/types"
	"github.com/corepath-impact/storefront-client/pkg/validate"
)

const (
	msgOrderPlaced    = "Order placed successfully!"
	msgOrderCancelled = "Order cancelled successfully!"
)

const notifyTitle = "Orders"

type client interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Service exposes order placement and history. Plain request/response
// operations; orders are too consequential for optimistic effects.
type Service interface {
	Create(ctx context.Context, payload types.OrderCreate) (*types.OrderDetail, error)
	List(ctx context.Context, params pagination.Params) (*types.PaginatedResponse[types.Order], error)
	Detail(ctx context.Context, orderID int64) (*types.OrderDetail, error)
	ByNumber(ctx context.Context, orderNumber string) (*types.OrderDetail, error)
	Cancel(ctx context.Context, orderID int64) error
	CreatePayment(ctx context.Context, payload types.PaymentCreate) (*types.MessageResponse, error)
	PaymentIntent(ctx context.Context, orderID int64) (*types.PaymentIntent, error)
}

type service struct {
	api      client
	cart     *storage.CartStore
	forms    *storage.FormStore
	notifier notify.Notifier
	log      *logger.Logger
}

type Params struct {
	API      client
	Cart     *storage.CartStore
	Forms    *storage.FormStore
	Notifier notify.Notifier
	Logger   *logger.Logger
}

func NewService(params Params) (Service, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Forms == nil {
		return nil, fmt.Errorf("form store required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		api:      params.API,
		cart:     params.Cart,
		forms:    params.Forms,
		notifier: params.Notifier,
		log:      params.Logger,
	}, nil
}

// Create places the order. A confirmed order empties the cached cart and the
// checkout draft; their server-side counterparts are consumed by the order.
func (s *service) Create(ctx context.Context, payload types.OrderCreate) (*types.OrderDetail, error) {
	if err := validate.Struct(payload); err != nil {
		s.notifier.Error(ctx, notifyTitle, pkgerrors.UserMessage(err))
		return nil, err
	}

	var order types.OrderDetail
	if err := s.api.Post(ctx, api.EndpointOrders, payload, &order); err != nil {
		s.notifier.Error(ctx, notifyTitle, pkgerrors.UserMessage(err))
		return nil, err
	}

	s.cart.Clear(ctx)
	s.forms.ClearCheckout(ctx)
	s.notifier.Success(ctx, notifyTitle, msgOrderPlaced)
	if s.log != nil {
		s.log.Info(s.log.WithFields(ctx, map[string]any{"order_number": order.OrderNumber}),
			"order placed")
	}
	return &order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*types.PaginatedResponse[types.Order], error) {
	params = params.Normalize()
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("per_page", strconv.Itoa(params.PerPage))

	var envelope types.APIResponse[types.PaginatedResponse[types.Order]]
	if err := s.api.Get(ctx, api.EndpointOrders, query, &envelope); err != nil {
		return nil, err
	}
	page := envelope.Data
	return &page, nil
}

func (s *service) Detail(ctx context.Context, orderID int64) (*types.OrderDetail, error) {
	var order types.OrderDetail
	if err := s.api.Get(ctx, api.EndpointOrderDetail(orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *service) ByNumber(ctx context.Context, orderNumber string) (*types.OrderDetail, error) {
	var order types.OrderDetail
	if err := s.api.Get(ctx, api.EndpointOrderByNumber(orderNumber), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *service) Cancel(ctx context.Context, orderID int64) error {
	if err := s.api.Post(ctx, api.EndpointOrderCancel(orderID), nil, nil); err != nil {
		s.notifier.Error(ctx, notifyTitle, pkgerrors.UserMessage(err))
		return err
	}
	s.notifier.Success(ctx, notifyTitle, msgOrderCancelled)
	return nil
}

func (s *service) CreatePayment(ctx context.Context, payload types.PaymentCreate) (*types.MessageResponse, error) {
	if err := validate.Struct(payload); err != nil {
		return nil, err
	}
	var out types.MessageResponse
	if err := s.api.Post(ctx, api.EndpointOrderPayments(payload.OrderID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) PaymentIntent(ctx context.Context, orderID int64) (*types.PaymentIntent, error) {
	var intent types.PaymentIntent
	if err := s.api.Post(ctx, api.EndpointOrderPaymentIntent(orderID), nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
