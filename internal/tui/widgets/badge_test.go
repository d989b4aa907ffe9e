package widgets

import (
	"strings"
	"testing"
)

func TestBadges(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"free", FreeBadge(), "Free"},
		{"ai pick", AIPickBadge(), "AI pick"},
		{"online", HealthBadge(true), "ONLINE"},
		{"offline", HealthBadge(false), "OFFLINE"},
		{"custom", Badge("3 new", StatusInfo), "3 new"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("expected %q in %q", tt.want, tt.got)
			}
		})
	}
}

func TestStatusText(t *testing.T) {
	out := StatusText("Session expired", StatusWarning)
	if !strings.Contains(out, "Session expired") {
		t.Errorf("expected text in %q", out)
	}
}

func TestColorsFallBackToNeutral(t *testing.T) {
	bg, fg := colors(StatusLevel(99))
	if bg != BadgeNeutralBg || fg != BadgeNeutralFg {
		t.Errorf("expected neutral colors, got %v/%v", bg, fg)
	}
}
