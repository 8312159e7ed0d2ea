package service

import (
	"food_order_api/internal/domain/food/model"
	"food_order_api/internal/domain/food/repository"
)

// CreateFoodInput 创建/更新商品输入
type CreateFoodInput struct {
	Name        string
	Description string
	ImageURL    string
	Quantities  []QuantityInput
}

// QuantityInput 规格输入
type QuantityInput struct {
	Size  string
	Price float64
}

// FoodService 商品服务接口
type FoodService interface {
	CreateFood(input CreateFoodInput) (*model.Food, error)
	GetFood(id string) (*model.Food, error)
	GetFoods(page, limit int, search string) ([]model.Food, int64, error)
	UpdateFood(id string, input CreateFoodInput) (*model.Food, error)
	DeleteFood(id string) error
}

// foodService 实现
type foodService struct {
	repo repository.FoodRepository
}

// NewFoodService 创建商品服务
func NewFoodService(repo repository.FoodRepository) FoodService {
	return &foodService{repo: repo}
}

func (s *foodService) CreateFood(input CreateFoodInput) (*model.Food, error) {
	food := &model.Food{
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Quantities:  toQuantities(input.Quantities),
	}
	if err := s.repo.Create(food); err != nil {
		return nil, err
	}
	return food, nil
}

func (s *foodService) GetFood(id string) (*model.Food, error) {
	return s.repo.GetByID(id)
}

// GetFoods 获取商品列表，search 非空时按名称搜索
func (s *foodService) GetFoods(page, limit int, search string) ([]model.Food, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	if search != "" {
		return s.repo.Search(search, offset, limit)
	}
	return s.repo.GetList(offset, limit)
}

func (s *foodService) UpdateFood(id string, input CreateFoodInput) (*model.Food, error) {
	food, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	food.Name = input.Name
	food.Description = input.Description
	food.ImageURL = input.ImageURL
	food.Quantities = toQuantities(input.Quantities)
	for i := range food.Quantities {
		food.Quantities[i].FoodID = food.ID
	}

	if err := s.repo.Update(food); err != nil {
		return nil, err
	}
	return food, nil
}

func (s *foodService) DeleteFood(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func toQuantities(inputs []QuantityInput) []model.Quantity {
	quantities := make([]model.Quantity, 0, len(inputs))
	for _, q := range inputs {
		quantities = append(quantities, model.Quantity{Size: q.Size, Price: q.Price})
	}
	return quantities
}
