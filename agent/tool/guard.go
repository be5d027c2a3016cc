package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	leadx "github.com/autostream/leadgen-agent/agent/lead"
	statex "github.com/autostream/leadgen-agent/agent/state"
)

type OutcomeKind string

const (
	// OutcomeExecuted: arguments were complete and valid; the capture counts
	// even when the outbound delivery degraded.
	OutcomeExecuted OutcomeKind = "executed"
	// OutcomeRejected: arguments incomplete; the side effect never ran.
	OutcomeRejected OutcomeKind = "rejected"
	// OutcomeValidationFailed: an argument failed validation; Message carries
	// the corrective follow-up.
	OutcomeValidationFailed OutcomeKind = "validation_failed"
)

// Outcome is the tagged result of one capture attempt.
type Outcome struct {
	Kind    OutcomeKind
	Message string // user-visible text for executed/validation outcomes
	Reason  string // diagnostic detail for rejected outcomes
}

// Corrective follow-ups, selected deterministically from validation error
// text.
const (
	correctiveEmail   = "Hmm, that email address doesn't look right. Could you share a valid email so our team can reach you?"
	correctiveName    = "Could you share your full name? At least a couple of characters, please."
	correctiveGeneric = "I still need your name, email address, and the platform you create on. Could you share those again?"
)

// Guard validates and gates the capture side effect. It is the only path
// allowed to invoke the notifier.
type Guard struct {
	notifier contractx.Notifier
}

func NewGuard(notifier contractx.Notifier) (*Guard, error) {
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}
	return &Guard{notifier: notifier}, nil
}

// AttemptCapture runs one gated capture attempt against the session.
// The lead_captured flag transitions only on Executed; a repeat attempt
// after a successful capture returns the same confirmation without
// re-delivering.
func (g *Guard) AttemptCapture(ctx context.Context, args map[string]any, sess *statex.SessionState) Outcome {
	name := stringArg(args, leadx.FieldName)
	email := stringArg(args, leadx.FieldEmail)
	platform := stringArg(args, leadx.FieldPlatform)

	for _, slot := range []struct {
		field string
		value string
	}{
		{leadx.FieldName, name},
		{leadx.FieldEmail, email},
		{leadx.FieldPlatform, platform},
	} {
		if slot.value == "" {
			return Outcome{
				Kind:   OutcomeRejected,
				Reason: fmt.Sprintf("missing argument %q", slot.field),
			}
		}
	}

	for _, validate := range []func() error{
		func() error { return leadx.ValidateName(name) },
		func() error { return leadx.ValidateEmail(email) },
		func() error { return leadx.ValidatePlatform(platform) },
	} {
		if err := validate(); err != nil {
			return Outcome{
				Kind:    OutcomeValidationFailed,
				Message: correctiveFor(err),
			}
		}
	}

	if canonical, ok := leadx.CanonicalPlatform(platform); ok {
		platform = canonical
	}

	if sess.LeadCaptured {
		return Outcome{
			Kind:    OutcomeExecuted,
			Message: confirmationText(name, email),
		}
	}

	message := confirmationText(name, email)
	if err := g.notifier.Deliver(ctx, name, email, platform); err != nil {
		var fieldErr *leadx.FieldError
		if errors.As(err, &fieldErr) {
			return Outcome{
				Kind:    OutcomeValidationFailed,
				Message: correctiveFor(err),
			}
		}
		// Delivery is fire-and-forget: the capture decision stands.
		log.Error().Err(err).
			Str("session_id", sess.SessionID).
			Msg("lead notification delivery failed")
		message = degradedText(name)
	}

	sess.MarkLeadCaptured()
	freezeRecord(sess, name, email, platform)

	return Outcome{
		Kind:    OutcomeExecuted,
		Message: message,
	}
}

// freezeRecord writes the captured values into any still-open slot. Filled
// slots keep their first-written value.
func freezeRecord(sess *statex.SessionState, name, email, platform string) {
	if sess.Lead.Name == "" {
		sess.Lead.Name = name
	}
	if sess.Lead.Email == "" {
		sess.Lead.Email = email
	}
	if sess.Lead.Platform == "" {
		sess.Lead.Platform = platform
	}
}

func correctiveFor(err error) string {
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, leadx.FieldEmail):
		return correctiveEmail
	case strings.Contains(text, leadx.FieldName):
		return correctiveName
	default:
		return correctiveGeneric
	}
}

func confirmationText(name, email string) string {
	return fmt.Sprintf(
		"Thank you, %s! Your information has been received. Our team will reach out to you at %s shortly to help you get started with AutoStream!",
		name, email,
	)
}

func degradedText(name string) string {
	return fmt.Sprintf(
		"Thank you for your interest, %s! We've noted your details and will be in touch soon.",
		name,
	)
}

func stringArg(args map[string]any, key string) string {
	raw, ok := args[key]
	if !ok {
		return ""
	}
	value, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
