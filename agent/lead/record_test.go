package lead

import (
	"errors"
	"reflect"
	"testing"
)

func TestIsComplete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record Record
		want   bool
	}{
		{name: "empty", record: Record{}, want: false},
		{
			name:   "missing platform",
			record: Record{Name: "Jane Doe", Email: "jane@example.com"},
			want:   false,
		},
		{
			name:   "missing email",
			record: Record{Name: "Jane Doe", Platform: "YouTube"},
			want:   false,
		},
		{
			name:   "missing name",
			record: Record{Email: "jane@example.com", Platform: "YouTube"},
			want:   false,
		},
		{
			name:   "all valid",
			record: Record{Name: "Jane Doe", Email: "jane@example.com", Platform: "YouTube"},
			want:   true,
		},
		{
			name:   "invalid email",
			record: Record{Name: "Jane Doe", Email: "not-an-email", Platform: "YouTube"},
			want:   false,
		},
		{
			name:   "unknown platform",
			record: Record{Name: "Jane Doe", Email: "jane@example.com", Platform: "MySpace"},
			want:   false,
		},
		{
			name:   "one-char name",
			record: Record{Name: "J", Email: "jane@example.com", Platform: "YouTube"},
			want:   false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.record.IsComplete(); got != tt.want {
				t.Fatalf("IsComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMissingFieldsOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record Record
		want   []string
	}{
		{name: "all missing", record: Record{}, want: []string{"name", "email", "platform"}},
		{name: "name set", record: Record{Name: "Jane"}, want: []string{"email", "platform"}},
		{name: "email set", record: Record{Email: "jane@example.com"}, want: []string{"name", "platform"}},
		{
			name:   "complete",
			record: Record{Name: "Jane", Email: "jane@example.com", Platform: "Twitch"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.record.MissingFields(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("MissingFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanonicalPlatform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "youtube", want: "YouTube", wantOK: true},
		{in: "TIKTOK", want: "TikTok", wantOK: true},
		{in: "Linkedin", want: "LinkedIn", wantOK: true},
		{in: " twitch ", want: "Twitch", wantOK: true},
		{in: "myspace", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		got, ok := CanonicalPlatform(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("CanonicalPlatform(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"jane@example.com", "first.last+tag@sub.domain.org"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Fatalf("ValidateEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{"", "jane", "jane@", "@example.com", "jane@example", "Jane <jane@example.com>"}
	for _, email := range invalid {
		err := ValidateEmail(email)
		if err == nil {
			t.Fatalf("ValidateEmail(%q) = nil, want error", email)
		}
		var fieldErr *FieldError
		if !errors.As(err, &fieldErr) || fieldErr.Field != FieldEmail {
			t.Fatalf("ValidateEmail(%q) error = %v, want FieldError on email", email, err)
		}
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	if err := ValidateName("Jo"); err != nil {
		t.Fatalf("ValidateName(Jo) = %v, want nil", err)
	}
	if err := ValidateName(" J "); err == nil {
		t.Fatal("ValidateName of one trimmed character should fail")
	}
}
