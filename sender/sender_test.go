package sender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatwire/push-relay/domain"
)

var ctx = context.Background()

type stubProvider struct {
	push domain.Push
	id   string
	err  error
}

func (p *stubProvider) Send(ctx context.Context, push domain.Push) (string, error) {
	p.push = push
	return p.id, p.err
}

func TestSender_Send(t *testing.T) {
	t.Run("not enabled", func(t *testing.T) {
		s := New()
		assert.False(t, s.Enabled())
		_, err := s.Send(ctx, domain.Push{Token: "t1"})
		require.ErrorIs(t, err, ErrNotEnabled)
	})
	t.Run("delivery id passthrough", func(t *testing.T) {
		s := New()
		p := &stubProvider{id: "d1"}
		s.RegisterProvider(p)
		assert.True(t, s.Enabled())
		id, err := s.Send(ctx, domain.Push{Token: "t1", Body: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "d1", id)
		assert.Equal(t, "t1", p.push.Token)
	})
	t.Run("invalid token passthrough", func(t *testing.T) {
		s := New()
		s.RegisterProvider(&stubProvider{err: ErrTokenInvalid})
		_, err := s.Send(ctx, domain.Push{Token: "t1"})
		require.ErrorIs(t, err, ErrTokenInvalid)
		assert.EqualValues(t, 1, s.(*sender).metrics.invalidCount.Load())
	})
}
