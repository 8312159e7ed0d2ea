package model

import (
	baseModel "food_order_api/pkg/model"
)

// Food 商品模型
type Food struct {
	baseModel.BaseModel
	Name        string     `gorm:"type:varchar(100);not null;index" json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	Quantities  []Quantity `gorm:"constraint:OnDelete:CASCADE" json:"quantities"` // 规格列表 (size, price)
}

// Quantity 商品规格：尺寸与对应价格
// 下单时购物车条目按 (size, price) 与此校验
type Quantity struct {
	baseModel.BaseModel
	FoodID string  `gorm:"type:uuid;index;not null" json:"foodId"`
	Size   string  `gorm:"type:varchar(50);not null" json:"size"`
	Price  float64 `gorm:"not null" json:"price"`
}

// VariantFor 返回指定尺寸的规格，不存在时返回 nil
func (f *Food) VariantFor(size string) *Quantity {
	for i := range f.Quantities {
		if f.Quantities[i].Size == size {
			return &f.Quantities[i]
		}
	}
	return nil
}
