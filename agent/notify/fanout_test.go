package notify

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
)

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) Deliver(ctx context.Context, name, email, platform string) error {
	s.calls++
	return s.err
}

func TestFanoutDeliversToAllChannels(t *testing.T) {
	t.Parallel()

	a := &stubNotifier{}
	b := &stubNotifier{}
	f, err := NewFanout(a, b)
	if err != nil {
		t.Fatalf("NewFanout() error = %v", err)
	}

	if err := f.Deliver(context.Background(), "Jane Doe", "jane@example.com", "YouTube"); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("expected both channels called once, got %d and %d", a.calls, b.calls)
	}
}

func TestFanoutToleratesPartialFailure(t *testing.T) {
	t.Parallel()

	broken := &stubNotifier{err: errors.New("smtp down")}
	ok := &stubNotifier{}
	f, err := NewFanout(broken, ok)
	if err != nil {
		t.Fatalf("NewFanout() error = %v", err)
	}

	if err := f.Deliver(context.Background(), "Jane Doe", "jane@example.com", "YouTube"); err != nil {
		t.Fatalf("partial failure must not error, got %v", err)
	}
}

func TestFanoutAllChannelsFailed(t *testing.T) {
	t.Parallel()

	f, err := NewFanout(&stubNotifier{err: errors.New("down")})
	if err != nil {
		t.Fatalf("NewFanout() error = %v", err)
	}

	err = f.Deliver(context.Background(), "Jane Doe", "jane@example.com", "YouTube")
	if !errors.Is(err, contractx.ErrNotification) {
		t.Fatalf("expected ErrNotification, got %v", err)
	}
}

func TestFanoutSkipsNilChannels(t *testing.T) {
	t.Parallel()

	if _, err := NewFanout(nil, nil); err == nil {
		t.Fatal("expected error when no live channel remains")
	}

	ok := &stubNotifier{}
	f, err := NewFanout(nil, ok)
	if err != nil {
		t.Fatalf("NewFanout() error = %v", err)
	}
	if err := f.Deliver(context.Background(), "Jane Doe", "jane@example.com", "YouTube"); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if ok.calls != 1 {
		t.Fatalf("expected one call, got %d", ok.calls)
	}
}
