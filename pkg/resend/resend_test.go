package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendPostsEmail(t *testing.T) {
	t.Parallel()

	var got Message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "re_test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	msg := Message{
		From:    "AutoStream Agent <onboarding@resend.dev>",
		To:      []string{"sales@example.com"},
		Subject: "New lead: Jane Doe from YouTube",
		HTML:    "<p>hi</p>",
	}
	if err := client.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if auth != "Bearer re_test" {
		t.Fatalf("unexpected authorization header: %q", auth)
	}
	if got.Subject != msg.Subject || len(got.To) != 1 || got.To[0] != "sales@example.com" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestSendErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "re_test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	err = client.Send(context.Background(), Message{
		From: "bad",
		To:   []string{"sales@example.com"},
	})
	if err == nil || !strings.Contains(err.Error(), "invalid from address") {
		t.Fatalf("expected status error with body message, got %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient(Config{APIKey: "re_test", BaseURL: "::bad::"}); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}

func TestAdminEmailList(t *testing.T) {
	t.Parallel()

	cfg := Config{AdminEmails: " a@example.com, ,b@example.com "}
	got := cfg.AdminEmailList()
	if len(got) != 2 || got[0] != "a@example.com" || got[1] != "b@example.com" {
		t.Fatalf("unexpected list: %v", got)
	}
}
