package services

import (
	"testing"

	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/shared"
)

func TestTaskCompletionPercentage(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []model.ProjectTask
		expected int
	}{
		{"no tasks", nil, 0},
		{"none completed", []model.ProjectTask{{}, {}}, 0},
		{"half completed", []model.ProjectTask{{IsCompleted: true}, {}}, 50},
		{"all completed", []model.ProjectTask{{IsCompleted: true}, {IsCompleted: true}}, 100},
		{"one of three", []model.ProjectTask{{IsCompleted: true}, {}, {}}, 33},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TaskCompletionPercentage(tc.tasks); got != tc.expected {
				t.Errorf("TaskCompletionPercentage = %d, want %d", got, tc.expected)
			}
		})
	}
}

func TestNextProjectStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		completed bool
		pct       int
		expected  string
	}{
		{"draft single task completes in one toggle", shared.ProjectStatusDraft, true, 100, shared.ProjectStatusCompleted},
		{"draft partial completion starts progress", shared.ProjectStatusDraft, true, 50, shared.ProjectStatusInProgress},
		{"unchecking in draft stays draft", shared.ProjectStatusDraft, false, 0, shared.ProjectStatusDraft},
		{"in progress reaches completed", shared.ProjectStatusInProgress, true, 100, shared.ProjectStatusCompleted},
		{"in progress stays below full", shared.ProjectStatusInProgress, true, 66, shared.ProjectStatusInProgress},
		{"unchecking a completed project leaves status alone", shared.ProjectStatusCompleted, false, 50, shared.ProjectStatusCompleted},
		{"reviewed is never touched", shared.ProjectStatusReviewed, true, 100, shared.ProjectStatusReviewed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextProjectStatus(tc.current, tc.completed, tc.pct); got != tc.expected {
				t.Errorf("NextProjectStatus(%q, %v, %d) = %q, want %q", tc.current, tc.completed, tc.pct, got, tc.expected)
			}
		})
	}
}
