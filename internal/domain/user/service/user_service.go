package service

import (
	"errors"

	"food_order_api/internal/domain/user/model"
	"food_order_api/internal/domain/user/repository"
	"food_order_api/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken 邮箱已注册
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserService 用户服务接口
type UserService interface {
	Register(name, email, password, address string) (string, error)
	Login(email, password string) (string, error)
	GetUser(id string) (*model.User, error)
}

// userService 实现
type userService struct {
	repo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// Register 注册并返回登录 Token
func (s *userService) Register(name, email, password, address string) (string, error) {
	// 1. 邮箱查重
	if _, err := s.repo.GetByEmail(email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	// 2. 密码加密
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Address:  address,
	}
	if err := s.repo.Create(user); err != nil {
		return "", err
	}

	return utils.GenerateToken(user.ID, user.IsAdmin)
}

// Login 登录并返回 Token
func (s *userService) Login(email, password string) (string, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateToken(user.ID, user.IsAdmin)
}

// GetUser 获取单个用户
func (s *userService) GetUser(id string) (*model.User, error) {
	return s.repo.GetByID(id)
}
