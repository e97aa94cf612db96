package services

import (
	"testing"

	"github.com/lumina-edu/lumina_api/services/repositories"
)

func leaderboardRows() []repositories.PointsRow {
	return []repositories.PointsRow{
		{StudentID: "u1", Username: "student_minh", Points: 540},
		{StudentID: "u2", Username: "student_linh", Points: 410},
		{StudentID: "u3", Username: "student_khoa", Points: 220},
	}
}

func TestRankOf(t *testing.T) {
	rows := leaderboardRows()

	if got := RankOf(rows, "u1"); got != 1 {
		t.Errorf("top student rank = %d, want 1", got)
	}
	if got := RankOf(rows, "u3"); got != 3 {
		t.Errorf("last student rank = %d, want 3", got)
	}
	if got := RankOf(rows, "stranger"); got != 0 {
		t.Errorf("unranked student should get 0, got %d", got)
	}
	if got := RankOf(nil, "u1"); got != 0 {
		t.Errorf("empty board should give 0, got %d", got)
	}
}

func TestBuildLeaderboard(t *testing.T) {
	resp := BuildLeaderboard(leaderboardRows(), "u2")

	if resp.Total != 3 || len(resp.Entries) != 3 {
		t.Fatalf("expected 3 entries, got total=%d len=%d", resp.Total, len(resp.Entries))
	}
	if resp.Entries[0].Rank != 1 || resp.Entries[2].Rank != 3 {
		t.Fatal("ranks must follow row order")
	}
	if !resp.Entries[1].IsViewer {
		t.Fatal("viewer row should be marked")
	}
	if resp.Entries[0].IsViewer || resp.Entries[2].IsViewer {
		t.Fatal("only the viewer row is marked")
	}
	if resp.Entries[0].Points != 540 || resp.Entries[0].Username != "student_minh" {
		t.Fatalf("entry payload wrong: %+v", resp.Entries[0])
	}
}

func TestBuildLeaderboardEmpty(t *testing.T) {
	resp := BuildLeaderboard(nil, "u1")
	if resp.Total != 0 || len(resp.Entries) != 0 {
		t.Fatalf("empty board should produce empty response, got %+v", resp)
	}
}
