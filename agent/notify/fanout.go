package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
)

// Fanout delivers to every channel and reports failure only when all of them
// fail. Partial failures are logged and swallowed so one broken channel does
// not degrade the capture.
type Fanout struct {
	channels []contractx.Notifier
}

var _ contractx.Notifier = (*Fanout)(nil)

func NewFanout(channels ...contractx.Notifier) (*Fanout, error) {
	live := make([]contractx.Notifier, 0, len(channels))
	for _, ch := range channels {
		if ch != nil {
			live = append(live, ch)
		}
	}
	if len(live) == 0 {
		return nil, errors.New("at least one notification channel is required")
	}
	return &Fanout{channels: live}, nil
}

func (f *Fanout) Deliver(ctx context.Context, name, email, platform string) error {
	delivered := 0
	var lastErr error
	for _, ch := range f.channels {
		if err := ch.Deliver(ctx, name, email, platform); err != nil {
			lastErr = err
			log.Warn().Err(err).
				Str("platform", platform).
				Msg("lead notification channel failed")
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return fmt.Errorf("%w: all channels failed: %v", contractx.ErrNotification, lastErr)
	}
	return nil
}
