package service

import (
	"testing"
	"time"

	foodModel "food_order_api/internal/domain/food/model"
	"food_order_api/internal/domain/order/model"
	"food_order_api/internal/domain/order/repository"
	"food_order_api/internal/pkg/mailer"
	baseModel "food_order_api/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockOrderRepository is a mock of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *model.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetLatestNewByUser(userID string) (*model.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(filter repository.OrderFilter) ([]model.Order, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id, status string) (*model.Order, error) {
	args := m.Called(id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) MarkPaid(id, paymentID string) error {
	args := m.Called(id, paymentID)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockOrderRepository) CountByUserAndStatus(userID, status string) (int64, error) {
	args := m.Called(userID, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepository is a mock of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(payment *model.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(id string) (*model.Payment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatus(id, status string) (*model.Payment, error) {
	args := m.Called(id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

// MockFoodRepository is a mock of the food repository used for cart validation
type MockFoodRepository struct {
	mock.Mock
}

func (m *MockFoodRepository) Create(food *foodModel.Food) error {
	args := m.Called(food)
	return args.Error(0)
}

func (m *MockFoodRepository) GetByID(id string) (*foodModel.Food, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*foodModel.Food), args.Error(1)
}

func (m *MockFoodRepository) GetList(offset, limit int) ([]foodModel.Food, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]foodModel.Food), args.Get(1).(int64), args.Error(2)
}

func (m *MockFoodRepository) Search(name string, offset, limit int) ([]foodModel.Food, int64, error) {
	args := m.Called(name, offset, limit)
	return args.Get(0).([]foodModel.Food), args.Get(1).(int64), args.Error(2)
}

func (m *MockFoodRepository) Update(food *foodModel.Food) error {
	args := m.Called(food)
	return args.Error(0)
}

func (m *MockFoodRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockReceiptDispatcher is a mock of ReceiptDispatcher
type MockReceiptDispatcher struct {
	mock.Mock
}

func (m *MockReceiptDispatcher) Dispatch(r mailer.Receipt) {
	m.Called(r)
}

func createTestFood(id, size string, price float64) *foodModel.Food {
	return &foodModel.Food{
		BaseModel: baseModel.BaseModel{ID: id},
		Name:      "Margherita",
		Quantities: []foodModel.Quantity{
			{FoodID: id, Size: size, Price: price},
		},
	}
}

func newTestService() (*MockOrderRepository, *MockPaymentRepository, *MockFoodRepository, *MockReceiptDispatcher, OrderService) {
	orderRepo := new(MockOrderRepository)
	paymentRepo := new(MockPaymentRepository)
	foodRepo := new(MockFoodRepository)
	receipts := new(MockReceiptDispatcher)
	svc := NewOrderService(orderRepo, paymentRepo, foodRepo, receipts)
	return orderRepo, paymentRepo, foodRepo, receipts, svc
}

func TestCreateOrder(t *testing.T) {
	t.Run("Valid cart creates NEW order with same items", func(t *testing.T) {
		orderRepo, _, foodRepo, _, svc := newTestService()

		foodRepo.On("GetByID", "food-1").Return(createTestFood("food-1", "M", 9.99), nil)
		orderRepo.On("Create", mock.AnythingOfType("*model.Order")).Return(nil)

		order, err := svc.Create("user-1", CreateOrderInput{
			Items: []OrderItemInput{
				{FoodID: "food-1", Size: "M", Price: 9.99, Quantity: 2},
			},
			TotalPrice: 19.98,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.OrderStatusNew, order.Status)
		assert.Equal(t, "user-1", order.UserID)
		assert.Equal(t, 19.98, order.TotalPrice)
		assert.Len(t, order.Items, 1)
		assert.Equal(t, "food-1", order.Items[0].FoodID)
		assert.Equal(t, "M", order.Items[0].Size)
		assert.Equal(t, 9.99, order.Items[0].Price)
		assert.Equal(t, 2, order.Items[0].Quantity)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Empty cart is rejected and nothing persisted", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()

		order, err := svc.Create("user-1", CreateOrderInput{})

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrCartEmpty)
		orderRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Unknown product is rejected", func(t *testing.T) {
		orderRepo, _, foodRepo, _, svc := newTestService()

		foodRepo.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Create("user-1", CreateOrderInput{
			Items: []OrderItemInput{{FoodID: "missing", Size: "M", Price: 9.99, Quantity: 1}},
		})

		assert.ErrorIs(t, err, ErrInvalidProduct)
		orderRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Unknown size is rejected", func(t *testing.T) {
		orderRepo, _, foodRepo, _, svc := newTestService()

		foodRepo.On("GetByID", "food-1").Return(createTestFood("food-1", "M", 9.99), nil)

		_, err := svc.Create("user-1", CreateOrderInput{
			Items: []OrderItemInput{{FoodID: "food-1", Size: "XL", Price: 9.99, Quantity: 1}},
		})

		assert.ErrorIs(t, err, ErrInvalidSize)
		orderRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Price mismatch is rejected and nothing persisted", func(t *testing.T) {
		orderRepo, _, foodRepo, _, svc := newTestService()

		foodRepo.On("GetByID", "food-1").Return(createTestFood("food-1", "M", 9.99), nil)

		_, err := svc.Create("user-1", CreateOrderInput{
			Items: []OrderItemInput{{FoodID: "food-1", Size: "M", Price: 8.99, Quantity: 1}},
		})

		assert.ErrorIs(t, err, ErrPriceMismatch)
		orderRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Validation errors map to ValidationError type", func(t *testing.T) {
		_, _, _, _, svc := newTestService()

		_, err := svc.Create("user-1", CreateOrderInput{})

		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestPay(t *testing.T) {
	openOrder := func() *model.Order {
		return &model.Order{
			BaseModel:  baseModel.BaseModel{ID: "order-1", CreatedAt: time.Now()},
			UserID:     "user-1",
			Status:     model.OrderStatusNew,
			TotalPrice: 19.98,
			Items: []model.OrderItem{
				{FoodID: "food-1", Size: "M", Price: 9.99, Quantity: 2},
			},
		}
	}

	t.Run("Completed payment marks order PAYED and dispatches receipt", func(t *testing.T) {
		orderRepo, paymentRepo, _, receipts, svc := newTestService()

		orderRepo.On("GetLatestNewByUser", "user-1").Return(openOrder(), nil)
		paymentRepo.On("Create", mock.AnythingOfType("*model.Payment")).
			Run(func(args mock.Arguments) {
				p := args.Get(0).(*model.Payment)
				p.ID = "payment-1"
			}).Return(nil)
		orderRepo.On("MarkPaid", "order-1", "tx_1").Return(nil)
		receipts.On("Dispatch", mock.AnythingOfType("mailer.Receipt")).Return()

		result, err := svc.Pay("user-1", PayInput{PaymentID: "tx_1", Status: model.PaymentStatusCompleted})

		assert.NoError(t, err)
		assert.Equal(t, "order-1", result.OrderID)
		assert.Equal(t, "payment-1", result.PaymentID)
		assert.Equal(t, model.PaymentStatusCompleted, result.PaymentStatus)

		// 支付金额取订单 totalPrice
		payment := paymentRepo.Calls[0].Arguments.Get(0).(*model.Payment)
		assert.Equal(t, 19.98, payment.Amount)
		assert.Equal(t, "order-1", payment.OrderID)

		orderRepo.AssertExpectations(t)
		receipts.AssertExpectations(t)
	})

	t.Run("Pending payment is recorded but order stays NEW", func(t *testing.T) {
		orderRepo, paymentRepo, _, receipts, svc := newTestService()

		orderRepo.On("GetLatestNewByUser", "user-1").Return(openOrder(), nil)
		paymentRepo.On("Create", mock.AnythingOfType("*model.Payment")).Return(nil)

		result, err := svc.Pay("user-1", PayInput{PaymentID: "tx_2", Status: model.PaymentStatusPending})

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPending, result.PaymentStatus)
		orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
		receipts.AssertNotCalled(t, "Dispatch", mock.Anything)
		paymentRepo.AssertExpectations(t)
	})

	t.Run("Defaults apply: method PayPal, status COMPLETED", func(t *testing.T) {
		orderRepo, paymentRepo, _, receipts, svc := newTestService()

		orderRepo.On("GetLatestNewByUser", "user-1").Return(openOrder(), nil)
		paymentRepo.On("Create", mock.AnythingOfType("*model.Payment")).Return(nil)
		orderRepo.On("MarkPaid", "order-1", "tx_3").Return(nil)
		receipts.On("Dispatch", mock.AnythingOfType("mailer.Receipt")).Return()

		result, err := svc.Pay("user-1", PayInput{PaymentID: "tx_3"})

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCompleted, result.PaymentStatus)

		payment := paymentRepo.Calls[0].Arguments.Get(0).(*model.Payment)
		assert.Equal(t, model.DefaultPaymentMethod, payment.Method)
	})

	t.Run("No open order fails with validation error", func(t *testing.T) {
		orderRepo, paymentRepo, _, _, svc := newTestService()

		orderRepo.On("GetLatestNewByUser", "user-1").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Pay("user-1", PayInput{PaymentID: "tx_4"})

		assert.ErrorIs(t, err, ErrNoOpenOrder)
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestTrack(t *testing.T) {
	someOrder := &model.Order{
		BaseModel: baseModel.BaseModel{ID: "order-1"},
		UserID:    "owner",
		Status:    model.OrderStatusNew,
	}

	t.Run("Owner can view own order", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()
		orderRepo.On("GetByID", "order-1").Return(someOrder, nil)

		order, err := svc.Track("owner", false, "order-1")

		assert.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
	})

	t.Run("Non-admin cannot view another user's order", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()
		orderRepo.On("GetByID", "order-1").Return(someOrder, nil)

		_, err := svc.Track("intruder", false, "order-1")

		assert.ErrorIs(t, err, ErrNotOrderOwner)
		var authErr *AuthorizationError
		assert.ErrorAs(t, err, &authErr)
	})

	t.Run("Admin can view any order", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()
		orderRepo.On("GetByID", "order-1").Return(someOrder, nil)

		order, err := svc.Track("admin-user", true, "order-1")

		assert.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
	})

	t.Run("Missing order is not found", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()
		orderRepo.On("GetByID", "nope").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Track("owner", false, "nope")

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestSetPaymentStatus(t *testing.T) {
	t.Run("Completing payment marks unpaid order PAYED without receipt", func(t *testing.T) {
		orderRepo, paymentRepo, _, receipts, svc := newTestService()

		payment := &model.Payment{
			BaseModel: baseModel.BaseModel{ID: "payment-1"},
			OrderID:   "order-1",
			PaymentID: "tx_9",
			Status:    model.PaymentStatusCompleted,
		}
		paymentRepo.On("UpdateStatus", "payment-1", model.PaymentStatusCompleted).Return(payment, nil)
		orderRepo.On("GetByID", "order-1").Return(&model.Order{
			BaseModel: baseModel.BaseModel{ID: "order-1"},
			Status:    model.OrderStatusNew,
		}, nil)
		orderRepo.On("MarkPaid", "order-1", "tx_9").Return(nil)

		result, err := svc.SetPaymentStatus("payment-1", model.PaymentStatusCompleted)

		assert.NoError(t, err)
		assert.Equal(t, "payment-1", result.ID)
		orderRepo.AssertExpectations(t)
		// 管理端补单不发收据（与 Pay 路径刻意不对称）
		receipts.AssertNotCalled(t, "Dispatch", mock.Anything)
	})

	t.Run("Already PAYED order is left untouched", func(t *testing.T) {
		orderRepo, paymentRepo, _, _, svc := newTestService()

		payment := &model.Payment{
			BaseModel: baseModel.BaseModel{ID: "payment-1"},
			OrderID:   "order-1",
			PaymentID: "tx_9",
		}
		paymentRepo.On("UpdateStatus", "payment-1", model.PaymentStatusCompleted).Return(payment, nil)
		orderRepo.On("GetByID", "order-1").Return(&model.Order{
			BaseModel: baseModel.BaseModel{ID: "order-1"},
			Status:    model.OrderStatusPayed,
		}, nil)

		_, err := svc.SetPaymentStatus("payment-1", model.PaymentStatusCompleted)

		assert.NoError(t, err)
		orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("Non-completed status does not touch the order", func(t *testing.T) {
		orderRepo, paymentRepo, _, _, svc := newTestService()

		payment := &model.Payment{BaseModel: baseModel.BaseModel{ID: "payment-1"}, OrderID: "order-1"}
		paymentRepo.On("UpdateStatus", "payment-1", model.PaymentStatusPending).Return(payment, nil)

		_, err := svc.SetPaymentStatus("payment-1", model.PaymentStatusPending)

		assert.NoError(t, err)
		orderRepo.AssertNotCalled(t, "GetByID", mock.Anything)
		orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("Missing payment is not found", func(t *testing.T) {
		_, paymentRepo, _, _, svc := newTestService()

		paymentRepo.On("UpdateStatus", "nope", model.PaymentStatusCompleted).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.SetPaymentStatus("nope", model.PaymentStatusCompleted)

		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})
}

func TestSetOrderStatus(t *testing.T) {
	t.Run("Admin override accepts arbitrary status", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()

		updated := &model.Order{
			BaseModel: baseModel.BaseModel{ID: "order-1"},
			Status:    model.OrderStatusShipped,
		}
		orderRepo.On("UpdateStatus", "order-1", model.OrderStatusShipped).Return(updated, nil)

		order, err := svc.SetOrderStatus("order-1", model.OrderStatusShipped)

		assert.NoError(t, err)
		assert.Equal(t, model.OrderStatusShipped, order.Status)
	})

	t.Run("Missing order is not found", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()

		orderRepo.On("UpdateStatus", "nope", model.OrderStatusShipped).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.SetOrderStatus("nope", model.OrderStatusShipped)

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestDeleteOrder(t *testing.T) {
	t.Run("Deleting missing order is not found and payments untouched", func(t *testing.T) {
		orderRepo, paymentRepo, _, _, svc := newTestService()

		orderRepo.On("Delete", "nope").Return(gorm.ErrRecordNotFound)

		err := svc.Delete("nope")

		assert.ErrorIs(t, err, ErrOrderNotFound)
		paymentRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Delete success", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()

		orderRepo.On("Delete", "order-1").Return(nil)

		assert.NoError(t, svc.Delete("order-1"))
	})
}

func TestQueries(t *testing.T) {
	t.Run("List scopes non-admin to own orders", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()

		orderRepo.On("List", repository.OrderFilter{UserID: "user-1", Status: "PAYED"}).
			Return([]model.Order{}, nil)

		_, err := svc.List("user-1", false, "PAYED")

		assert.NoError(t, err)
		orderRepo.AssertExpectations(t)
	})

	t.Run("List admin sees all orders", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()

		orderRepo.On("List", repository.OrderFilter{Status: ""}).Return([]model.Order{}, nil)

		_, err := svc.List("admin-user", true, "")

		assert.NoError(t, err)
		orderRepo.AssertExpectations(t)
	})

	t.Run("AdminList forwards all filters and preloads user", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()

		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		orderRepo.On("List", repository.OrderFilter{
			UserID:   "user-1",
			Status:   "NEW",
			From:     &from,
			To:       &to,
			WithUser: true,
		}).Return([]model.Order{}, nil)

		_, err := svc.AdminList(AdminListFilter{UserID: "user-1", Status: "NEW", From: &from, To: &to})

		assert.NoError(t, err)
		orderRepo.AssertExpectations(t)
	})

	t.Run("PurchaseCount counts PAYED orders", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()

		orderRepo.On("CountByUserAndStatus", "user-1", model.OrderStatusPayed).Return(int64(3), nil)

		count, err := svc.PurchaseCount("user-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("Statuses returns the full enumeration", func(t *testing.T) {
		_, _, _, _, svc := newTestService()

		statuses := svc.Statuses()

		assert.Contains(t, statuses, model.OrderStatusNew)
		assert.Contains(t, statuses, model.OrderStatusPayed)
	})

	t.Run("CurrentOpenOrder not found maps to NotFoundError", func(t *testing.T) {
		orderRepo, _, _, _, svc := newTestService()

		orderRepo.On("GetLatestNewByUser", "user-1").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.CurrentOpenOrder("user-1")

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
