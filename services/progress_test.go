package services

import (
	"testing"
	"time"

	"github.com/lumina-edu/lumina_api/shared"
)

func TestClampPercentage(t *testing.T) {
	tests := []struct {
		name     string
		in       int
		expected int
	}{
		{"negative clamps to zero", -20, 0},
		{"zero passes", 0, 0},
		{"mid-range passes", 55, 55},
		{"hundred passes", 100, 100},
		{"overshoot clamps to hundred", 140, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampPercentage(tc.in); got != tc.expected {
				t.Errorf("ClampPercentage(%d) = %d, want %d", tc.in, got, tc.expected)
			}
		})
	}
}

func TestActivityTypeFor(t *testing.T) {
	tests := []struct {
		contentType string
		expected    string
	}{
		{shared.ContentTypeVideo, shared.ActivityVideoWatch},
		{shared.ContentTypeDocument, shared.ActivityDocumentRead},
		{shared.ContentTypeLesson, shared.ActivityDocumentRead},
		{shared.ContentTypeProject, shared.ActivityProjectSubmit},
		{shared.ContentTypeGame, shared.ActivityGamePlay},
		{"quiz", ""},
	}

	for _, tc := range tests {
		if got := ActivityTypeFor(tc.contentType); got != tc.expected {
			t.Errorf("ActivityTypeFor(%q) = %q, want %q", tc.contentType, got, tc.expected)
		}
	}
}

func TestComputeStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2026, 3, 10+offset, 9, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		dates    []time.Time
		expected int
	}{
		{"no activity", nil, 0},
		{"single day today", []time.Time{day(0)}, 1},
		{"three consecutive ending today", []time.Time{day(0), day(-1), day(-2)}, 3},
		{"no activity today breaks the chain", []time.Time{day(-1), day(-2)}, 0},
		{"gap two days ago ends streak", []time.Time{day(0), day(-1), day(-3), day(-4)}, 2},
		{"stale activity only", []time.Time{day(-5), day(-6)}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeStreak(tc.dates, now); got != tc.expected {
				t.Errorf("ComputeStreak = %d, want %d", got, tc.expected)
			}
		})
	}
}
