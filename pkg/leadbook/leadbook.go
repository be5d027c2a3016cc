// Package leadbook persists captured leads in Postgres so the sales team has
// a durable ledger alongside the email notification.
package leadbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
)

type Config struct {
	DSN     string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"5s"`
}

// CapturedLead is one row in the ledger. Repeat captures for the same email
// are allowed; dedup is a reporting concern.
type CapturedLead struct {
	bun.BaseModel `bun:"table:captured_leads"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Name       string    `bun:"name,notnull"`
	Email      string    `bun:"email,notnull"`
	Platform   string    `bun:"platform,notnull"`
	CapturedAt time.Time `bun:"captured_at,notnull,default:current_timestamp"`
}

type Ledger struct {
	db      *bun.DB
	timeout time.Duration
}

var _ contractx.Notifier = (*Ledger)(nil)

func New(cfg Config) (*Ledger, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("leadbook dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &Ledger{db: db, timeout: timeout}, nil
}

// EnsureSchema creates the ledger table when it does not exist yet.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if _, err := l.db.NewCreateTable().
		Model((*CapturedLead)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create captured_leads table: %w", err)
	}
	return nil
}

func (l *Ledger) Deliver(ctx context.Context, name, email, platform string) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	lead := &CapturedLead{
		Name:       name,
		Email:      email,
		Platform:   platform,
		CapturedAt: time.Now().UTC(),
	}
	if _, err := l.db.NewInsert().Model(lead).Exec(ctx); err != nil {
		return fmt.Errorf("%w: insert captured lead: %v", contractx.ErrNotification, err)
	}
	return nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}
