package types

// APIResponse is the backend's standard success envelope.
type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// MessageResponse carries an outcome message with no payload.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// PaginatedResponse wraps a page of items plus paging metadata.
type PaginatedResponse[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Pages   int  `json:"pages"`
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

// APIErrorBody is the error shape the backend returns on non-2xx responses.
// The message may live under "message" or "detail" depending on the handler.
type APIErrorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// BestMessage returns the most specific server-provided message, if any.
func (b APIErrorBody) BestMessage() string {
	if b.Message != "" {
		return b.Message
	}
	if b.Detail != "" {
		return b.Detail
	}
	if b.Error != nil && b.Error.Message != "" {
		return b.Error.Message
	}
	return ""
}
