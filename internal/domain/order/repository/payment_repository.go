package repository

import (
	"food_order_api/internal/domain/order/model"

	"gorm.io/gorm"
)

// PaymentRepository 接口定义
type PaymentRepository interface {
	Create(payment *model.Payment) error
	GetByID(id string) (*model.Payment, error)
	UpdateStatus(id, status string) (*model.Payment, error)
}

// paymentRepository 实现
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建新的仓库实例
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepository) GetByID(id string) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdateStatus 覆盖支付状态并返回更新后的记录
func (r *paymentRepository) UpdateStatus(id, status string) (*model.Payment, error) {
	result := r.db.Model(&model.Payment{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}
