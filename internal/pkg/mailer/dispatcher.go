package mailer

import (
	"context"
	"time"

	"food_order_api/pkg/logger"

	"go.uber.org/zap"
)

// Dispatcher 异步收据分发器
// 发送是尽力而为：失败只记录日志，不重试，不影响支付主流程
type Dispatcher struct {
	queue     chan Receipt
	sender    Sender
	workerNum int
}

// NewDispatcher 创建分发器
func NewDispatcher(sender Sender, workerNum int, bufferSize int) *Dispatcher {
	return &Dispatcher{
		queue:     make(chan Receipt, bufferSize),
		sender:    sender,
		workerNum: workerNum,
	}
}

// Start 启动发送协程
func (d *Dispatcher) Start() {
	for i := 0; i < d.workerNum; i++ {
		go d.worker(i)
	}
	if logger.Log != nil {
		logger.Log.Info("Receipt dispatcher started", zap.Int("workers", d.workerNum))
	}
}

// Dispatch 投递一封收据，永不阻塞调用方
// 队列满时直接丢弃并记录日志
func (d *Dispatcher) Dispatch(r Receipt) {
	select {
	case d.queue <- r:
	default:
		if logger.Log != nil {
			logger.Log.Warn("Receipt queue full, dropping receipt",
				zap.String("order_id", r.OrderID),
				zap.String("email", r.Email))
		}
	}
}

func (d *Dispatcher) worker(id int) {
	for r := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := d.sender.Send(ctx, r)
		cancel()

		if err != nil && logger.Log != nil {
			logger.Log.Error("Failed to send receipt email",
				zap.Int("worker", id),
				zap.String("order_id", r.OrderID),
				zap.String("email", r.Email),
				zap.Error(err))
		}
	}
}
