package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
)

// Sender abstracts the outbound mail dependency for services and tests.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, input OrderConfirmation)
}

// OrderConfirmation carries the fields rendered into the confirmation mail.
type OrderConfirmation struct {
	To           string
	CustomerName string
	OrderNumber  string
	BusinessName string
	FinalRupees  string
}

// Mailer sends transactional email through Resend. Sends are best-effort:
// failures are logged and never surfaced to the request that triggered them.
type Mailer struct {
	client *resend.Client
	from   string
	logg   *logger.Logger
}

// New builds the mailer. A missing API key yields a disabled mailer that
// only logs, which keeps local development free of external calls.
func New(cfg config.MailConfig, logg *logger.Logger) *Mailer {
	var client *resend.Client
	if strings.TrimSpace(cfg.ResendAPIKey) != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	}
	return &Mailer{
		client: client,
		from:   cfg.DefaultFrom,
		logg:   logg,
	}
}

// SendOrderConfirmation emails the purchaser after an order is committed.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, input OrderConfirmation) {
	if m == nil || strings.TrimSpace(input.To) == "" {
		return
	}
	if m.client == nil {
		if m.logg != nil {
			m.logg.Info(ctx, "mailer disabled, skipping order confirmation")
		}
		return
	}

	subject := fmt.Sprintf("Order %s confirmed", input.OrderNumber)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your order <strong>%s</strong> with %s has been placed. Total: ₹%s.</p>",
		input.CustomerName, input.OrderNumber, input.BusinessName, input.FinalRupees,
	)

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{input.To},
		Subject: subject,
		Html:    html,
	}
	if _, err := m.client.Emails.Send(params); err != nil && m.logg != nil {
		m.logg.Error(ctx, "sending order confirmation failed", err)
	}
}
