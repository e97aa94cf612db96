package services

import (
	"testing"
	"time"

	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/services/repositories"
	"github.com/lumina-edu/lumina_api/shared"
)

func TestIsOnline(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		flag     bool
		lastSeen time.Time
		role     string
		expected bool
	}{
		{"student recent heartbeat", true, now.Add(-30 * time.Second), shared.RoleStudent, true},
		{"student at window edge", true, now.Add(-60 * time.Second), shared.RoleStudent, true},
		{"student past window", true, now.Add(-90 * time.Second), shared.RoleStudent, false},
		{"teacher inside wider window", true, now.Add(-90 * time.Second), shared.RoleTeacher, true},
		{"teacher past window", true, now.Add(-150 * time.Second), shared.RoleTeacher, false},
		{"admin uses teacher window", true, now.Add(-90 * time.Second), shared.RoleAdmin, true},
		// Flag cleared by an explicit sign-out beats a recent heartbeat.
		{"flag off with recent heartbeat", false, now.Add(-5 * time.Second), shared.RoleStudent, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOnline(tc.flag, tc.lastSeen, tc.role, now); got != tc.expected {
				t.Errorf("IsOnline = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestBuildPresenceList(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	rows := []repositories.PresenceRow{
		{
			PresenceRecord: model.PresenceRecord{UserID: "u1", IsOnline: true, LastSeenAt: now.Add(-10 * time.Second), CurrentPage: "/lessons/les-1"},
			Username:       "student_minh",
			Role:           shared.RoleStudent,
		},
		{
			// Stale flag from a crashed session.
			PresenceRecord: model.PresenceRecord{UserID: "u2", IsOnline: true, LastSeenAt: now.Add(-10 * time.Minute)},
			Username:       "student_linh",
			Role:           shared.RoleStudent,
		},
		{
			PresenceRecord: model.PresenceRecord{UserID: "u3", IsOnline: false, LastSeenAt: now.Add(-5 * time.Second)},
			Username:       "student_khoa",
			Role:           shared.RoleStudent,
		},
	}

	resp := BuildPresenceList(rows, now)

	if resp.OnlineCount != 1 {
		t.Fatalf("expected 1 online user, got %d", resp.OnlineCount)
	}
	if len(resp.Users) != 3 {
		t.Fatalf("every row appears in the list, got %d", len(resp.Users))
	}
	if !resp.Users[0].IsOnline || resp.Users[1].IsOnline || resp.Users[2].IsOnline {
		t.Fatal("online resolution wrong")
	}
	if resp.Users[0].CurrentPage != "/lessons/les-1" {
		t.Fatalf("current page should pass through, got %q", resp.Users[0].CurrentPage)
	}
}
