package toolloop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	retrievalx "github.com/autostream/leadgen-agent/agent/retrieval"
	statex "github.com/autostream/leadgen-agent/agent/state"
	toolx "github.com/autostream/leadgen-agent/agent/tool"
)

type fakeAssistant struct {
	responses []contractx.AssistantResponse
	err       error
	calls     int
	lastReqs  []contractx.AssistantRequest
}

func (f *fakeAssistant) Run(ctx context.Context, req contractx.AssistantRequest) (contractx.AssistantResponse, error) {
	f.calls++
	f.lastReqs = append(f.lastReqs, req)
	if f.err != nil {
		return contractx.AssistantResponse{}, f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		return contractx.AssistantResponse{}, fmt.Errorf("no assistant response left at call=%d", f.calls)
	}
	return f.responses[idx], nil
}

type fakeRetriever struct {
	passages []contractx.Passage
}

func (f *fakeRetriever) Search(ctx context.Context, query string, k int) ([]contractx.Passage, error) {
	return f.passages, nil
}

type delivery struct {
	name, email, platform string
}

type fakeNotifier struct {
	err        error
	deliveries []delivery
}

func (f *fakeNotifier) Deliver(ctx context.Context, name, email, platform string) error {
	f.deliveries = append(f.deliveries, delivery{name: name, email: email, platform: platform})
	return f.err
}

func newTestService(t *testing.T, store statex.Store, assistant contractx.Assistant, notifier contractx.Notifier) *Service {
	t.Helper()

	builder, err := retrievalx.NewContextBuilder(&fakeRetriever{}, 0)
	if err != nil {
		t.Fatalf("NewContextBuilder() error = %v", err)
	}
	guard, err := toolx.NewGuard(notifier)
	if err != nil {
		t.Fatalf("NewGuard() error = %v", err)
	}
	svc, err := New(store, assistant, builder, guard)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc
}

func TestHandleMessagePlainReply(t *testing.T) {
	t.Parallel()

	store := statex.NewMemoryStore()
	assistant := &fakeAssistant{
		responses: []contractx.AssistantResponse{
			{Message: "AutoStream removes silences automatically."},
		},
	}
	svc := newTestService(t, store, assistant, &fakeNotifier{})

	reply, err := svc.HandleMessage(context.Background(), "session-1", "what does it do?")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "AutoStream removes silences automatically." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if assistant.calls != 1 {
		t.Fatalf("expected one assistant call, got %d", assistant.calls)
	}
	if assistant.lastReqs[0].Mode != contractx.ModeAct {
		t.Fatalf("unexpected mode: %q", assistant.lastReqs[0].Mode)
	}
	if assistant.lastReqs[0].Grounding != retrievalx.PlaceholderGrounding {
		t.Fatalf("expected placeholder grounding, got %q", assistant.lastReqs[0].Grounding)
	}

	saved, err := store.Load(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if saved.Window.Len() != 2 {
		t.Fatalf("expected 2 window entries, got %d", saved.Window.Len())
	}
}

func TestHandleMessageCaptureRound(t *testing.T) {
	t.Parallel()

	store := statex.NewMemoryStore()
	notifier := &fakeNotifier{}
	assistant := &fakeAssistant{
		responses: []contractx.AssistantResponse{
			{
				ToolRequests: []contractx.ToolRequest{
					{
						Tool: toolx.ToolLeadCapture,
						Args: map[string]any{
							"name":     "Jane Doe",
							"email":    "jane@example.com",
							"platform": "youtube",
						},
					},
				},
			},
			{Message: "You're all set, Jane! We'll email you shortly."},
		},
	}
	svc := newTestService(t, store, assistant, notifier)

	reply, err := svc.HandleMessage(context.Background(), "session-2", "sign me up: Jane Doe, jane@example.com, YouTube")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "You're all set, Jane! We'll email you shortly." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if assistant.calls != 2 {
		t.Fatalf("expected draft and finalize calls, got %d", assistant.calls)
	}
	if assistant.lastReqs[1].Mode != contractx.ModeFinalize {
		t.Fatalf("unexpected second mode: %q", assistant.lastReqs[1].Mode)
	}
	if len(assistant.lastReqs[1].ToolResults) != 1 {
		t.Fatalf("expected tool result passed to finalize, got %d", len(assistant.lastReqs[1].ToolResults))
	}
	if len(notifier.deliveries) != 1 {
		t.Fatalf("expected one delivery, got %d", len(notifier.deliveries))
	}
	if notifier.deliveries[0].platform != "YouTube" {
		t.Fatalf("expected canonical platform, got %q", notifier.deliveries[0].platform)
	}

	saved, err := store.Load(context.Background(), "session-2")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !saved.LeadCaptured {
		t.Fatal("expected lead_captured flag set")
	}
}

func TestHandleMessagePrematureToolCallRejected(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	assistant := &fakeAssistant{
		responses: []contractx.AssistantResponse{
			{
				ToolRequests: []contractx.ToolRequest{
					{
						Tool: toolx.ToolLeadCapture,
						Args: map[string]any{"name": "Jane Doe"},
					},
				},
			},
		},
	}
	svc := newTestService(t, statex.NewMemoryStore(), assistant, notifier)

	reply, err := svc.HandleMessage(context.Background(), "session-3", "I'm Jane Doe and I want in")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != fallbackAskText {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(notifier.deliveries) != 0 {
		t.Fatalf("premature call must not deliver, got %d", len(notifier.deliveries))
	}
	if assistant.calls != 1 {
		t.Fatalf("expected no finalize round after rejection, got %d calls", assistant.calls)
	}
}

func TestHandleMessageValidationFailureCorrective(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	assistant := &fakeAssistant{
		responses: []contractx.AssistantResponse{
			{
				ToolRequests: []contractx.ToolRequest{
					{
						Tool: toolx.ToolLeadCapture,
						Args: map[string]any{
							"name":     "Jane Doe",
							"email":    "not-an-email",
							"platform": "YouTube",
						},
					},
				},
			},
		},
	}
	svc := newTestService(t, statex.NewMemoryStore(), assistant, notifier)

	reply, err := svc.HandleMessage(context.Background(), "session-4", "my email is not-an-email")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(strings.ToLower(reply), "email") {
		t.Fatalf("corrective should mention email, got %q", reply)
	}
	if len(notifier.deliveries) != 0 {
		t.Fatalf("invalid args must not deliver, got %d", len(notifier.deliveries))
	}
}

func TestHandleMessageFinalizeFailureKeepsConfirmation(t *testing.T) {
	t.Parallel()

	store := statex.NewMemoryStore()
	notifier := &fakeNotifier{}
	assistant := &fakeAssistant{
		responses: []contractx.AssistantResponse{
			{
				ToolRequests: []contractx.ToolRequest{
					{
						Tool: toolx.ToolLeadCapture,
						Args: map[string]any{
							"name":     "Jane Doe",
							"email":    "jane@example.com",
							"platform": "Twitch",
						},
					},
				},
			},
			// Second call returns an empty message; the confirmation must win.
			{Message: "   "},
		},
	}
	svc := newTestService(t, store, assistant, notifier)

	reply, err := svc.HandleMessage(context.Background(), "session-5", "capture me")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(reply, "Jane Doe") || !strings.Contains(reply, "jane@example.com") {
		t.Fatalf("expected confirmation text, got %q", reply)
	}
	saved, err := store.Load(context.Background(), "session-5")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !saved.LeadCaptured {
		t.Fatal("expected lead_captured flag set")
	}
}

func TestHandleMessageUnknownToolFails(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{
		responses: []contractx.AssistantResponse{
			{
				ToolRequests: []contractx.ToolRequest{
					{Tool: "delete_everything"},
				},
			},
		},
	}
	store := statex.NewMemoryStore()
	svc := newTestService(t, store, assistant, &fakeNotifier{})

	_, err := svc.HandleMessage(context.Background(), "session-6", "hello")
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
	if _, loadErr := store.Load(context.Background(), "session-6"); !errors.Is(loadErr, statex.ErrStateNotFound) {
		t.Fatalf("failed turn must not persist state, got %v", loadErr)
	}
}

func TestHandleMessageAssistantErrorLeavesStateUnsaved(t *testing.T) {
	t.Parallel()

	store := statex.NewMemoryStore()
	assistant := &fakeAssistant{err: errors.New("model unavailable")}
	svc := newTestService(t, store, assistant, &fakeNotifier{})

	if _, err := svc.HandleMessage(context.Background(), "session-7", "hello"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := store.Load(context.Background(), "session-7"); !errors.Is(err, statex.ErrStateNotFound) {
		t.Fatalf("failed turn must not persist state, got %v", err)
	}
}
