// Package notify delivers verification payloads out of band. The log
// gateway is the development backend; production deployments plug in a
// real mail and SMS provider behind the same interface.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
)

var _ model.Notifier = (*LogGateway)(nil)

// LogGateway writes deliveries to the application log instead of
// sending them.
type LogGateway struct {
	logger *logger.Logger
}

func NewLogGateway(l *logger.Logger) *LogGateway {
	return &LogGateway{
		logger: l,
	}
}

func (g *LogGateway) SendEmail(ctx context.Context, address, subject, body string) error {
	g.logger.Info("email delivery", "to", address, "subject", subject, "body", body)
	return nil
}

func (g *LogGateway) SendSMS(ctx context.Context, phoneNumber, message string) error {
	g.logger.Info("sms delivery", "to", phoneNumber, "message", message)
	return nil
}

var _ model.Notifier = (*TimeoutGateway)(nil)

// TimeoutGateway bounds delivery calls to the inner gateway. A deadline
// hit surfaces as ErrTransient so callers can tell a slow provider from
// a rejected delivery.
type TimeoutGateway struct {
	inner   model.Notifier
	timeout time.Duration
}

func NewTimeoutGateway(inner model.Notifier, timeout time.Duration) *TimeoutGateway {
	return &TimeoutGateway{
		inner:   inner,
		timeout: timeout,
	}
}

func (g *TimeoutGateway) SendEmail(ctx context.Context, address, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.inner.SendEmail(ctx, address, subject, body); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: email delivery timed out", model.ErrTransient)
		}
		return fmt.Errorf("%w: %v", model.ErrDeliveryFailed, err)
	}
	return nil
}

func (g *TimeoutGateway) SendSMS(ctx context.Context, phoneNumber, message string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.inner.SendSMS(ctx, phoneNumber, message); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: sms delivery timed out", model.ErrTransient)
		}
		return fmt.Errorf("%w: %v", model.ErrDeliveryFailed, err)
	}
	return nil
}
