package repository

import (
	"food_order_api/internal/domain/food/model"

	"gorm.io/gorm"
)

// FoodRepository 接口定义
// 订单模块创建订单时通过 GetByID 只读校验购物车价格
type FoodRepository interface {
	Create(food *model.Food) error
	GetByID(id string) (*model.Food, error)
	GetList(offset, limit int) ([]model.Food, int64, error)
	Search(name string, offset, limit int) ([]model.Food, int64, error)
	Update(food *model.Food) error
	Delete(id string) error
}

// foodRepository 实现
type foodRepository struct {
	db *gorm.DB
}

// NewFoodRepository 创建新的仓库实例
func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) Create(food *model.Food) error {
	return r.db.Create(food).Error
}

// GetByID 根据ID获取商品（含规格）
func (r *foodRepository) GetByID(id string) (*model.Food, error) {
	var food model.Food
	if err := r.db.Preload("Quantities").Where("id = ?", id).First(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

// GetList 获取商品列表（分页）
func (r *foodRepository) GetList(offset, limit int) ([]model.Food, int64, error) {
	var foods []model.Food
	var total int64

	if err := r.db.Model(&model.Food{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Preload("Quantities").Offset(offset).Limit(limit).Find(&foods).Error; err != nil {
		return nil, 0, err
	}
	return foods, total, nil
}

// Search 按名称模糊搜索
func (r *foodRepository) Search(name string, offset, limit int) ([]model.Food, int64, error) {
	var foods []model.Food
	var total int64

	query := r.db.Model(&model.Food{}).Where("name ILIKE ?", "%"+name+"%")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Preload("Quantities").
		Where("name ILIKE ?", "%"+name+"%").
		Offset(offset).Limit(limit).
		Find(&foods).Error; err != nil {
		return nil, 0, err
	}
	return foods, total, nil
}

func (r *foodRepository) Update(food *model.Food) error {
	return r.db.Save(food).Error
}

// Delete 删除商品，规格由外键 ON DELETE CASCADE 连带清理
func (r *foodRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Food{}).Error
}
