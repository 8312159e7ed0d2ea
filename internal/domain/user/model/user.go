package model

import (
	baseModel "food_order_api/pkg/model"
)

// User 用户模型
type User struct {
	baseModel.BaseModel
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // 密码不返回给前端
	Address  string `json:"address"`
	IsAdmin  bool   `gorm:"default:false" json:"isAdmin"`
}
