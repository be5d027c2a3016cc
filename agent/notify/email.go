package notify

import (
	"context"
	"errors"
	"fmt"
	"html"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	resendx "github.com/autostream/leadgen-agent/pkg/resend"
)

// EmailNotifier mails each captured lead to the sales team.
type EmailNotifier struct {
	client *resendx.Client
	from   string
	to     []string
}

var _ contractx.Notifier = (*EmailNotifier)(nil)

func NewEmailNotifier(client *resendx.Client, from string, to []string) (*EmailNotifier, error) {
	if client == nil {
		return nil, errors.New("resend client is required")
	}
	if from == "" {
		return nil, errors.New("sender address is required")
	}
	if len(to) == 0 {
		return nil, errors.New("at least one recipient is required")
	}

	return &EmailNotifier{client: client, from: from, to: to}, nil
}

func (n *EmailNotifier) Deliver(ctx context.Context, name, email, platform string) error {
	msg := resendx.Message{
		From:    n.from,
		To:      n.to,
		Subject: fmt.Sprintf("New lead: %s from %s", name, platform),
		HTML:    leadHTML(name, email, platform),
	}
	if err := n.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrNotification, err)
	}
	return nil
}

func leadHTML(name, email, platform string) string {
	return fmt.Sprintf(
		"<h2>New AutoStream Lead</h2>"+
			"<ul>"+
			"<li><strong>Name:</strong> %s</li>"+
			"<li><strong>Email:</strong> %s</li>"+
			"<li><strong>Platform:</strong> %s</li>"+
			"</ul>",
		html.EscapeString(name),
		html.EscapeString(email),
		html.EscapeString(platform),
	)
}
