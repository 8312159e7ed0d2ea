package service

import (
	"errors"
	"fmt"
	"time"

	foodRepository "food_order_api/internal/domain/food/repository"
	"food_order_api/internal/domain/order/model"
	"food_order_api/internal/domain/order/repository"
	"food_order_api/internal/pkg/mailer"
	"food_order_api/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderItemInput 购物车条目
type OrderItemInput struct {
	FoodID   string
	Size     string
	Price    float64
	Quantity int
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	Items      []OrderItemInput
	TotalPrice float64
}

// PayInput 支付输入
// Method 默认 PayPal，Status 默认 COMPLETED
type PayInput struct {
	PaymentID string
	Method    string
	Status    string
}

// PayResult 支付结果
type PayResult struct {
	OrderID       string `json:"orderId"`
	PaymentID     string `json:"paymentId"`
	PaymentStatus string `json:"paymentStatus"`
}

// AdminListFilter 管理端订单查询条件
type AdminListFilter struct {
	UserID string
	Status string
	From   *time.Time
	To     *time.Time
}

// ReceiptDispatcher 收据分发接口（异步、尽力而为）
type ReceiptDispatcher interface {
	Dispatch(r mailer.Receipt)
}

// OrderService 订单服务接口
type OrderService interface {
	Create(userID string, input CreateOrderInput) (*model.Order, error)
	Pay(userID string, input PayInput) (*PayResult, error)
	Track(callerID string, isAdmin bool, orderID string) (*model.Order, error)
	List(callerID string, isAdmin bool, status string) ([]model.Order, error)
	AdminList(filter AdminListFilter) ([]model.Order, error)
	Statuses() []string
	CurrentOpenOrder(userID string) (*model.Order, error)
	PurchaseCount(userID string) (int64, error)
	GetOrder(orderID string) (*model.Order, error)
	SetOrderStatus(orderID, status string) (*model.Order, error)
	SetPaymentStatus(paymentID, status string) (*model.Payment, error)
	Delete(orderID string) error
}

// orderService 实现
type orderService struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	foodRepo    foodRepository.FoodRepository // 只读：下单时校验购物车
	receipts    ReceiptDispatcher
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	foodRepo foodRepository.FoodRepository,
	receipts ReceiptDispatcher,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		foodRepo:    foodRepo,
		receipts:    receipts,
	}
}

// Create 下单：校验购物车后持久化 NEW 状态订单
// totalPrice 信任客户端提交值，不做服务端重算（已知信任边界问题，见 DESIGN.md）
func (s *orderService) Create(userID string, input CreateOrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrCartEmpty
	}

	// 逐条校验商品、尺寸与单价
	resolved := make(map[string]bool, len(input.Items))
	for _, item := range input.Items {
		food, err := s.foodRepo.GetByID(item.FoodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidProduct
			}
			return nil, fmt.Errorf("lookup food %s: %w", item.FoodID, err)
		}

		variant := food.VariantFor(item.Size)
		if variant == nil {
			return nil, ErrInvalidSize
		}
		if variant.Price != item.Price {
			return nil, ErrPriceMismatch
		}
		resolved[item.FoodID] = true
	}

	// 防御性二次过滤：丢弃商品引用无法解析的条目
	items := make([]model.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.FoodID == "" || !resolved[item.FoodID] {
			continue
		}
		items = append(items, model.OrderItem{
			FoodID:   item.FoodID,
			Size:     item.Size,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	if len(items) == 0 {
		return nil, ErrNoValidProducts
	}

	order := &model.Order{
		UserID:     userID,
		Items:      items,
		Status:     model.OrderStatusNew,
		TotalPrice: input.TotalPrice,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	return order, nil
}

// Pay 记录一次支付尝试
// 无论支付状态如何都会落一条 Payment；只有 COMPLETED 才推进订单到 PAYED 并发收据
func (s *orderService) Pay(userID string, input PayInput) (*PayResult, error) {
	order, err := s.orderRepo.GetLatestNewByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenOrder
		}
		return nil, err
	}

	method := input.Method
	if method == "" {
		method = model.DefaultPaymentMethod
	}
	status := input.Status
	if status == "" {
		status = model.PaymentStatusCompleted
	}

	payment := &model.Payment{
		OrderID:   order.ID,
		UserID:    userID,
		PaymentID: input.PaymentID,
		Method:    method,
		Amount:    order.TotalPrice, // 金额以订单为准，不信任请求里的 amount
		Status:    status,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	if status == model.PaymentStatusCompleted {
		if err := s.orderRepo.MarkPaid(order.ID, input.PaymentID); err != nil {
			return nil, err
		}
		order.Status = model.OrderStatusPayed
		order.PaymentID = input.PaymentID

		// 收据是尽力而为：不阻塞响应，失败只记日志
		s.receipts.Dispatch(buildReceipt(order))
	}

	return &PayResult{
		OrderID:       order.ID,
		PaymentID:     payment.ID,
		PaymentStatus: status,
	}, nil
}

// Track 按ID查询订单，非管理员只能查看自己的订单
func (s *orderService) Track(callerID string, isAdmin bool, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !isAdmin && order.UserID != callerID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

// List 订单列表：管理员看全部，普通用户只看自己的；可按状态过滤
func (s *orderService) List(callerID string, isAdmin bool, status string) ([]model.Order, error) {
	filter := repository.OrderFilter{Status: status}
	if !isAdmin {
		filter.UserID = callerID
	}
	return s.orderRepo.List(filter)
}

// AdminList 管理端订单查询：按用户、状态、创建时间范围过滤
func (s *orderService) AdminList(filter AdminListFilter) ([]model.Order, error) {
	return s.orderRepo.List(repository.OrderFilter{
		UserID:   filter.UserID,
		Status:   filter.Status,
		From:     filter.From,
		To:       filter.To,
		WithUser: true,
	})
}

// Statuses 订单状态全集
func (s *orderService) Statuses() []string {
	return model.AllOrderStatuses()
}

// CurrentOpenOrder 用户当前的 NEW 订单（最近创建优先）
func (s *orderService) CurrentOpenOrder(userID string) (*model.Order, error) {
	order, err := s.orderRepo.GetLatestNewByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// PurchaseCount 用户已支付订单数
func (s *orderService) PurchaseCount(userID string) (int64, error) {
	return s.orderRepo.CountByUserAndStatus(userID, model.OrderStatusPayed)
}

// GetOrder 按ID查询订单（不做归属校验，与 Track 不同）
func (s *orderService) GetOrder(orderID string) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// SetOrderStatus 管理端强制覆盖订单状态
// 不校验状态迁移合法性，保留为管理端逃生通道
func (s *orderService) SetOrderStatus(orderID, status string) (*model.Order, error) {
	order, err := s.orderRepo.UpdateStatus(orderID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// SetPaymentStatus 管理端覆盖支付状态
// 置为 COMPLETED 时，若关联订单尚未 PAYED，则补记为 PAYED 并回填外部流水号
// 该路径不发收据（与 Pay 的不对称行为，刻意保留）
func (s *orderService) SetPaymentStatus(paymentID, status string) (*model.Payment, error) {
	payment, err := s.paymentRepo.UpdateStatus(paymentID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if status == model.PaymentStatusCompleted {
		order, err := s.orderRepo.GetByID(payment.OrderID)
		if err != nil {
			// 支付已更新但订单取不到：记录后返回支付结果，不回滚
			logger.Log.Warn("Payment completed but linked order lookup failed",
				zap.String("payment_id", paymentID),
				zap.String("order_id", payment.OrderID),
				zap.Error(err))
			return payment, nil
		}
		if order.Status != model.OrderStatusPayed {
			if err := s.orderRepo.MarkPaid(order.ID, payment.PaymentID); err != nil {
				logger.Log.Warn("Failed to mark order paid after payment status update",
					zap.String("order_id", order.ID),
					zap.Error(err))
			}
		}
	}

	return payment, nil
}

// Delete 物理删除订单，不级联支付记录
func (s *orderService) Delete(orderID string) error {
	if err := s.orderRepo.Delete(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return nil
}

// buildReceipt 从已支付订单构造收据内容
func buildReceipt(order *model.Order) mailer.Receipt {
	r := mailer.Receipt{
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice,
	}
	if order.User != nil {
		r.Email = order.User.Email
		r.UserName = order.User.Name
	}
	for _, item := range order.Items {
		name := item.FoodID
		if item.Food != nil {
			name = item.Food.Name
		}
		r.Lines = append(r.Lines, mailer.ReceiptLine{
			Name:     name,
			Size:     item.Size,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return r
}
