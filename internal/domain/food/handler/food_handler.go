package handler

import (
	"errors"
	"net/http"

	"food_order_api/internal/domain/food/service"
	"food_order_api/pkg/response"
	"food_order_api/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FoodHandler 商品处理器
type FoodHandler struct {
	service service.FoodService
}

// NewFoodHandler 创建处理器
func NewFoodHandler(service service.FoodService) *FoodHandler {
	return &FoodHandler{service: service}
}

// QuantityInput 规格输入
type QuantityInput struct {
	Size  string  `json:"size" binding:"required"`
	Price float64 `json:"price" binding:"required,gt=0"`
}

// FoodInput 创建/更新商品输入
type FoodInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Quantities  []QuantityInput `json:"quantities" binding:"required,min=1,dive"`
}

func (in *FoodInput) toServiceInput() service.CreateFoodInput {
	quantities := make([]service.QuantityInput, 0, len(in.Quantities))
	for _, q := range in.Quantities {
		quantities = append(quantities, service.QuantityInput{Size: q.Size, Price: q.Price})
	}
	return service.CreateFoodInput{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Quantities:  quantities,
	}
}

// CreateFood 创建商品 (管理员)
func (h *FoodHandler) CreateFood(c *gin.Context) {
	var input FoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	food, err := h.service.CreateFood(input.toServiceInput())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, food)
}

// GetFood 获取单个商品
func (h *FoodHandler) GetFood(c *gin.Context) {
	food, err := h.service.GetFood(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrFoodNotFound, "Food not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, food)
}

// GetFoods 获取商品列表，支持 ?search= 按名称搜索
func (h *FoodHandler) GetFoods(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	foods, total, err := h.service.GetFoods(p.Page, p.Limit, c.Query("search"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  foods,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// UpdateFood 更新商品 (管理员)
func (h *FoodHandler) UpdateFood(c *gin.Context) {
	var input FoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	food, err := h.service.UpdateFood(c.Param("id"), input.toServiceInput())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrFoodNotFound, "Food not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, food)
}

// DeleteFood 删除商品 (管理员)
func (h *FoodHandler) DeleteFood(c *gin.Context) {
	if err := h.service.DeleteFood(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrFoodNotFound, "Food not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "Food deleted successfully"})
}
