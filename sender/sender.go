//go:generate mockgen -destination mock_sender/mock_sender.go github.com/chatwire/push-relay/sender Sender

package sender

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/chatwire/push-relay/domain"
)

const CName = "push.sender"

var log = logger.NewNamed(CName)

var (
	// ErrTokenInvalid means the delivery service reports the token as no
	// longer registered. Callers must trigger re-registration, not retry.
	ErrTokenInvalid = errors.New("push token is no longer valid")
	ErrNotEnabled   = errors.New("push sending is not enabled")
)

func New() Sender {
	return new(sender)
}

type Sender interface {
	RegisterProvider(provider Provider)
	Send(ctx context.Context, push domain.Push) (deliveryId string, err error)
	Enabled() bool
	app.ComponentRunnable
}

type Provider interface {
	Send(ctx context.Context, push domain.Push) (deliveryId string, err error)
}

type sender struct {
	provider Provider
	metrics  struct {
		sendCount    atomic.Uint64
		invalidCount atomic.Uint64
		sendDuration *prometheus.SummaryVec
	}
}

func (s *sender) Init(a *app.App) (err error) {
	if m := a.Component(metric.CName); m != nil {
		registerMetrics(m.(metric.Metric).Registry(), s)
	}
	return
}

func (s *sender) Name() (name string) {
	return CName
}

func (s *sender) Run(ctx context.Context) (err error) {
	if s.provider == nil {
		log.Warn("no push provider registered, running in degraded mode")
	}
	return
}

func (s *sender) RegisterProvider(provider Provider) {
	s.provider = provider
}

func (s *sender) Enabled() bool {
	return s.provider != nil
}

func (s *sender) Send(ctx context.Context, push domain.Push) (deliveryId string, err error) {
	if s.provider == nil {
		return "", ErrNotEnabled
	}
	st := time.Now()
	deliveryId, err = s.provider.Send(ctx, push)
	s.metrics.sendCount.Add(1)
	if s.metrics.sendDuration != nil {
		s.metrics.sendDuration.WithLabelValues().Observe(time.Since(st).Seconds())
	}
	if errors.Is(err, ErrTokenInvalid) {
		s.metrics.invalidCount.Add(1)
		log.Info("token reported invalid", zap.String("token", push.Token))
	}
	return
}

func (s *sender) Close(ctx context.Context) (err error) {
	return nil
}
