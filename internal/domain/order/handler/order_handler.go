package handler

import (
	"errors"
	"net/http"
	"time"

	"food_order_api/internal/domain/order/service"
	"food_order_api/pkg/response"

	"github.com/gin-gonic/gin"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	service service.OrderService
}

// NewOrderHandler 创建处理器
func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// OrderItemInput 购物车条目输入，字段名与前端购物车保持一致
type OrderItemInput struct {
	Product  string  `json:"product" binding:"required"`
	Size     string  `json:"size" binding:"required"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	Items      []OrderItemInput `json:"items"`
	TotalPrice float64          `json:"totalPrice"`
}

// PayInput 支付输入
// amount 字段接受但忽略：金额一律取订单的 totalPrice
type PayInput struct {
	PaymentID string  `json:"paymentId" binding:"required"`
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
}

// StatusInput 状态覆盖输入
type StatusInput struct {
	Status string `json:"status" binding:"required"`
}

// handleServiceError 服务层错误统一映射
func handleServiceError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	var nfErr *service.NotFoundError
	var authErr *service.AuthorizationError

	switch {
	case errors.As(err, &vErr):
		response.Error(c, http.StatusBadRequest, response.ErrOrderValidation, vErr.Error())
	case errors.As(err, &nfErr):
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, nfErr.Error())
	case errors.As(err, &authErr):
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, authErr.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Server error")
	}
}

// CreateOrder 下单
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	items := make([]service.OrderItemInput, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, service.OrderItemInput{
			FoodID:   item.Product,
			Size:     item.Size,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	order, err := h.service.Create(c.GetString("userID"), service.CreateOrderInput{
		Items:      items,
		TotalPrice: input.TotalPrice,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, order)
}

// Pay 支付当前 NEW 订单
func (h *OrderHandler) Pay(c *gin.Context) {
	var input PayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.Pay(c.GetString("userID"), service.PayInput{
		PaymentID: input.PaymentID,
		Method:    input.Method,
		Status:    input.Status,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, result)
}

// Track 订单跟踪，非管理员只能查看自己的订单
func (h *OrderHandler) Track(c *gin.Context) {
	order, err := h.service.Track(c.GetString("userID"), c.GetBool("isAdmin"), c.Param("orderId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 订单列表，路径参数 :status 可选
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.service.List(c.GetString("userID"), c.GetBool("isAdmin"), c.Param("status"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, orders)
}

// AdminListOrders 管理端订单查询 (?user= &status= &from= &to=)
func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	filter := service.AdminListFilter{
		UserID: c.Query("user"),
		Status: c.Query("status"),
	}

	if v := c.Query("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid 'from' date")
			return
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid 'to' date")
			return
		}
		filter.To = &t
	}

	orders, err := h.service.AdminList(filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, orders)
}

// Statuses 订单状态全集
func (h *OrderHandler) Statuses(c *gin.Context) {
	response.Success(c, h.service.Statuses())
}

// CurrentOpenOrder 当前用户的 NEW 订单
func (h *OrderHandler) CurrentOpenOrder(c *gin.Context) {
	order, err := h.service.CurrentOpenOrder(c.GetString("userID"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// PurchaseCount 当前用户已支付订单数
func (h *OrderHandler) PurchaseCount(c *gin.Context) {
	count, err := h.service.PurchaseCount(c.GetString("userID"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}

// GetOrder 按ID查询订单
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// SetOrderStatus 管理端覆盖订单状态
func (h *OrderHandler) SetOrderStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.SetOrderStatus(c.Param("id"), input.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// SetPaymentStatus 管理端覆盖支付状态
func (h *OrderHandler) SetPaymentStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	payment, err := h.service.SetPaymentStatus(c.Param("id"), input.Status)
	if err != nil {
		var nfErr *service.NotFoundError
		if errors.As(err, &nfErr) {
			response.Error(c, http.StatusNotFound, response.ErrPaymentNotFound, nfErr.Error())
			return
		}
		handleServiceError(c, err)
		return
	}
	response.Success(c, payment)
}

// DeleteOrder 删除订单
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Order deleted successfully"})
}

// parseDate 支持 RFC3339 或 yyyy-mm-dd
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
