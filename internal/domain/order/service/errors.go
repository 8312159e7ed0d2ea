package service

// ValidationError 业务校验失败，对应 400
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// NewValidationError 创建校验错误
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

// NotFoundError 资源不存在，对应 404
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

// AuthorizationError 无权访问，对应 403
type AuthorizationError struct {
	msg string
}

func (e *AuthorizationError) Error() string { return e.msg }

var (
	// 下单校验
	ErrCartEmpty       = NewValidationError("cart is empty")
	ErrInvalidProduct  = NewValidationError("invalid product in cart")
	ErrInvalidSize     = NewValidationError("invalid size for product")
	ErrPriceMismatch   = NewValidationError("price mismatch")
	ErrNoValidProducts = NewValidationError("no valid products in cart")

	// 支付时找不到用户的 NEW 订单，语义上是业务校验失败（400），沿用原有约定
	ErrNoOpenOrder = NewValidationError("order not found")

	ErrOrderNotFound   = &NotFoundError{msg: "order not found"}
	ErrPaymentNotFound = &NotFoundError{msg: "payment not found"}
	ErrNotOrderOwner   = &AuthorizationError{msg: "not allowed to access this order"}
)
