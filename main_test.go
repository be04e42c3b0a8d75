package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/harrisonrobin/schedalize/pkg/api"
)

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", errors.New("boom"), "Error: boom"},
		{"server message", &api.Error{Kind: api.KindServer, Status: 409, Message: "Task already completed"}, "Task already completed"},
		{"wrapped unauthorized", fmt.Errorf("listing: %w", &api.Error{Kind: api.KindUnauthorized, Status: 401}), "schedalize login"},
		{"transport", &api.Error{Kind: api.KindTransport, Err: errors.New("dial tcp")}, "Network error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorText(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("errorText() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo", 10); got != "héllo" {
		t.Errorf("Expected short string unchanged, got %q", got)
	}
	if got := truncate("héllo world", 5); got != "héll…" {
		t.Errorf("Expected rune-aware truncation, got %q", got)
	}
}
