package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
)

// LogNotifier records captured leads in the application log. It backs local
// runs where no outbound channel is configured.
type LogNotifier struct{}

var _ contractx.Notifier = LogNotifier{}

func (LogNotifier) Deliver(ctx context.Context, name, email, platform string) error {
	log.Info().
		Str("name", name).
		Str("email", email).
		Str("platform", platform).
		Msg("lead captured")
	return nil
}
