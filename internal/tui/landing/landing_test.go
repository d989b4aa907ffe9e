// ABOUTME: Tests for the landing screen
// ABOUTME: Validates options, health display, and notices

package landing

import (
	"strings"
	"testing"
)

func TestLandingOptions(t *testing.T) {
	l := New()

	if len(l.options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(l.options))
	}
	if l.options[0].value != ChoiceLogin {
		t.Errorf("expected login first, got %s", l.options[0].value)
	}
	if l.selected != ChoiceLogin {
		t.Errorf("expected login preselected, got %s", l.selected)
	}
}

func TestChoiceString(t *testing.T) {
	tests := []struct {
		choice   Choice
		expected string
	}{
		{ChoiceLogin, "login"},
		{ChoiceHealth, "health"},
		{ChoiceQuit, "quit"},
		{Choice(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.choice.String(); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestLandingViewHero(t *testing.T) {
	view := New().View()

	if !strings.Contains(view, "Share books") {
		t.Error("expected hero text in view")
	}
	if strings.Contains(view, "Backend:") {
		t.Error("expected no health status before a check")
	}
}

func TestLandingHealth(t *testing.T) {
	l := New()

	l.SetChecking()
	if !strings.Contains(l.View(), "Checking backend") {
		t.Error("expected checking message")
	}

	l.SetHealth(true)
	if !strings.Contains(l.View(), "ONLINE") {
		t.Error("expected ONLINE badge")
	}

	l.SetHealth(false)
	if !strings.Contains(l.View(), "OFFLINE") {
		t.Error("expected OFFLINE badge")
	}
}

func TestLandingNotice(t *testing.T) {
	l := New()
	l.SetNotice("Session expired, please log in again.")

	if !strings.Contains(l.View(), "Session expired") {
		t.Error("expected notice in view")
	}
}
