package model

import (
	foodModel "food_order_api/internal/domain/food/model"
	userModel "food_order_api/internal/domain/user/model"
	baseModel "food_order_api/pkg/model"
)

// Order 订单模型
// Status 为 NEW 的订单即用户当前购物车（约定每个用户同时最多一个，未加唯一约束）
type Order struct {
	baseModel.BaseModel
	UserID     string          `gorm:"type:uuid;index;not null" json:"userId"`
	User       *userModel.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items      []OrderItem     `json:"items"`
	Status     string          `gorm:"type:varchar(20);default:'NEW';index" json:"status"`
	TotalPrice float64         `json:"totalPrice"`           // 客户端提交，服务端不重算（已知信任边界问题）
	PaymentID  string          `json:"paymentId,omitempty"`  // 外部支付处理器流水号
}

// OrderItem 订单条目：下单时的商品快照引用
type OrderItem struct {
	baseModel.BaseModel
	OrderID  string          `gorm:"type:uuid;index;not null" json:"orderId"`
	FoodID   string          `gorm:"type:uuid;index" json:"foodId"`
	Food     *foodModel.Food `gorm:"foreignKey:FoodID" json:"food,omitempty"`
	Size     string          `json:"size"`
	Price    float64         `json:"price"`
	Quantity int             `json:"quantity"`
}

// Payment 支付记录：每次支付尝试都会落库，无论结果
// 对订单是非拥有引用，一个订单可以有多条支付记录，删除订单不级联
type Payment struct {
	baseModel.BaseModel
	OrderID   string  `gorm:"type:uuid;index;not null" json:"orderId"`
	UserID    string  `gorm:"type:uuid;index;not null" json:"userId"`
	PaymentID string  `json:"paymentId"` // 外部支付处理器流水号
	Method    string  `gorm:"default:'PayPal'" json:"method"`
	Amount    float64 `json:"amount"` // 创建时从订单 totalPrice 复制
	Status    string  `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
}

// 订单状态
// NEW → PAYED 是唯一由业务逻辑驱动的迁移（支付完成）
// 其余状态仅供管理端手工流转，不做合法性校验（有意保留的逃生通道）
const (
	OrderStatusNew      = "NEW"
	OrderStatusPayed    = "PAYED"
	OrderStatusShipped  = "SHIPPED"
	OrderStatusCanceled = "CANCELED"
	OrderStatusRefunded = "REFUNDED"
)

// 支付状态
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"

	DefaultPaymentMethod = "PayPal"
)

// AllOrderStatuses 返回订单状态全集，供前端展示
func AllOrderStatuses() []string {
	return []string{
		OrderStatusNew,
		OrderStatusPayed,
		OrderStatusShipped,
		OrderStatusCanceled,
		OrderStatusRefunded,
	}
}
