package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"food_order_api/internal/pkg/config"
)

// ReceiptLine 收据中的一行商品
type ReceiptLine struct {
	Name     string
	Size     string
	Price    float64
	Quantity int
}

// Receipt 支付成功后发送给用户的收据内容
type Receipt struct {
	OrderID    string
	Email      string
	UserName   string
	TotalPrice float64
	Lines      []ReceiptLine
}

// Sender 收据发送接口
type Sender interface {
	Send(ctx context.Context, r Receipt) error
}

// SMTPSender 基于 SMTP 的收据邮件发送
type SMTPSender struct {
	cfg config.MailConfig
}

// NewSMTPSender 创建 SMTP 发送器
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send 发送收据邮件
func (s *SMTPSender) Send(ctx context.Context, r Receipt) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("mail config is missing")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", r.Email)
	fmt.Fprintf(&b, "Subject: Receipt for order %s\r\n", r.OrderID)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Hi %s,\r\n\r\nThanks for your order!\r\n\r\n", r.UserName)
	for _, line := range r.Lines {
		fmt.Fprintf(&b, "%d x %s (%s) - %.2f\r\n", line.Quantity, line.Name, line.Size, line.Price)
	}
	fmt.Fprintf(&b, "\r\nTotal: %.2f\r\n", r.TotalPrice)

	addr := s.cfg.Host + ":" + s.cfg.Port
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	return smtp.SendMail(addr, auth, s.cfg.From, []string{r.Email}, []byte(b.String()))
}
