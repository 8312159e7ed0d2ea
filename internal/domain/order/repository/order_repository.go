package repository

import (
	"time"

	"food_order_api/internal/domain/order/model"

	"gorm.io/gorm"
)

// OrderFilter 订单列表过滤条件
type OrderFilter struct {
	UserID   string
	Status   string
	From     *time.Time // createdAt 下界（含）
	To       *time.Time // createdAt 上界（含）
	WithUser bool       // 是否带出用户信息（管理端列表）
}

// OrderRepository 接口定义
type OrderRepository interface {
	Create(order *model.Order) error
	GetByID(id string) (*model.Order, error)
	GetLatestNewByUser(userID string) (*model.Order, error)
	List(filter OrderFilter) ([]model.Order, error)
	UpdateStatus(id, status string) (*model.Order, error)
	MarkPaid(id, paymentID string) error
	Delete(id string) error
	CountByUserAndStatus(userID, status string) (int64, error)
}

// orderRepository 实现
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建新的仓库实例
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

// GetByID 根据ID获取订单（含条目与商品详情）
func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items.Food").
		Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetLatestNewByUser 获取用户最近创建的 NEW 状态订单（当前购物车）
func (r *orderRepository) GetLatestNewByUser(userID string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("User").Preload("Items.Food").
		Where("user_id = ? AND status = ?", userID, model.OrderStatusNew).
		Order("created_at DESC").
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List 按过滤条件查询订单，按创建时间倒序
func (r *orderRepository) List(filter OrderFilter) ([]model.Order, error) {
	query := r.db.Preload("Items.Food")
	if filter.WithUser {
		query = query.Preload("User")
	}

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus 覆盖订单状态并返回更新后的订单
func (r *orderRepository) UpdateStatus(id, status string) (*model.Order, error) {
	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// MarkPaid 标记订单已支付并记录外部支付流水号
func (r *orderRepository) MarkPaid(id, paymentID string) error {
	return r.db.Model(&model.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     model.OrderStatusPayed,
		"payment_id": paymentID,
	}).Error
}

// Delete 物理删除订单及其条目，不级联支付记录
func (r *orderRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&model.Order{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error
	})
}

// CountByUserAndStatus 统计用户指定状态的订单数
func (r *orderRepository) CountByUserAndStatus(userID, status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}
