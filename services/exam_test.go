package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lumina-edu/lumina_api/model"
)

func validDraft(now time.Time) *model.ExamDraft {
	start := now.Add(24 * time.Hour)
	end := now.Add(26 * time.Hour)
	return &model.ExamDraft{
		Title:             "Unit 3 Checkpoint",
		GradeLevel:        5,
		TopicIDs:          json.RawMessage(`["top-1","top-2"]`),
		DurationMinutes:   45,
		QuestionsCount:    12,
		PointsPerQuestion: 5,
		DifficultyMode:    "balanced",
		StartTime:         &start,
		EndTime:           &end,
	}
}

func TestValidateExamStepBasics(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	draft := validDraft(now)
	if errs := ValidateExamStep(draft, 1, 100, now); len(errs) != 0 {
		t.Fatalf("valid step 1 should pass, got %v", errs)
	}

	draft.Title = ""
	draft.GradeLevel = 13
	errs := ValidateExamStep(draft, 1, 100, now)
	if len(errs) != 2 {
		t.Fatalf("expected title and grade errors, got %v", errs)
	}
}

func TestValidateExamStepTopicScope(t *testing.T) {
	now := time.Now()
	draft := validDraft(now)

	draft.TopicIDs = nil
	if errs := ValidateExamStep(draft, 2, 100, now); len(errs) != 1 {
		t.Fatalf("empty topic scope should fail, got %v", errs)
	}

	draft.TopicIDs = json.RawMessage(`[]`)
	if errs := ValidateExamStep(draft, 2, 100, now); len(errs) != 1 {
		t.Fatalf("empty topic list should fail, got %v", errs)
	}
}

func TestValidateExamStepDuration(t *testing.T) {
	now := time.Now()
	tests := []struct {
		minutes int
		valid   bool
	}{
		{4, false},
		{5, true},
		{180, true},
		{181, false},
	}

	for _, tc := range tests {
		draft := validDraft(now)
		draft.DurationMinutes = tc.minutes
		errs := ValidateExamStep(draft, 3, 100, now)
		if tc.valid && len(errs) != 0 {
			t.Errorf("duration %d should be valid, got %v", tc.minutes, errs)
		}
		if !tc.valid && len(errs) == 0 {
			t.Errorf("duration %d should be rejected", tc.minutes)
		}
	}
}

func TestValidateExamStepPoolGate(t *testing.T) {
	now := time.Now()
	draft := validDraft(now)
	draft.QuestionsCount = 20

	if errs := ValidateExamStep(draft, 4, 15, now); len(errs) != 1 {
		t.Fatalf("count above pool should fail, got %v", errs)
	}
	if errs := ValidateExamStep(draft, 4, 20, now); len(errs) != 0 {
		t.Fatalf("count equal to pool should pass, got %v", errs)
	}
}

func TestValidateExamStepDifficulty(t *testing.T) {
	now := time.Now()

	draft := validDraft(now)
	draft.DifficultyMode = "custom"
	draft.EasyPercent, draft.MediumPercent, draft.HardPercent = 40, 40, 20
	if errs := ValidateExamStep(draft, 5, 100, now); len(errs) != 0 {
		t.Fatalf("valid custom split should pass, got %v", errs)
	}

	draft.HardPercent = 30
	if errs := ValidateExamStep(draft, 5, 100, now); len(errs) != 1 {
		t.Fatalf("split summing to 110 should fail, got %v", errs)
	}

	draft.DifficultyMode = "random"
	if errs := ValidateExamStep(draft, 5, 100, now); len(errs) == 0 {
		t.Fatal("unknown difficulty mode should fail")
	}
}

func TestValidateExamStepSchedule(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	draft := validDraft(now)
	draft.StartTime = nil
	draft.EndTime = nil
	if errs := ValidateExamStep(draft, 6, 100, now); len(errs) != 1 {
		t.Fatalf("missing schedule should fail, got %v", errs)
	}

	start := now.Add(2 * time.Hour)
	end := now.Add(1 * time.Hour)
	draft.StartTime, draft.EndTime = &start, &end
	if errs := ValidateExamStep(draft, 6, 100, now); len(errs) == 0 {
		t.Fatal("end before start should fail")
	}

	past := now.Add(-2 * time.Hour)
	pastEnd := now.Add(-1 * time.Hour)
	draft.StartTime, draft.EndTime = &past, &pastEnd
	if errs := ValidateExamStep(draft, 6, 100, now); len(errs) == 0 {
		t.Fatal("end in the past should fail")
	}
}

func TestValidateExamStepFinalRerunsEverything(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	draft := validDraft(now)
	if errs := ValidateExamStep(draft, 7, 100, now); len(errs) != 0 {
		t.Fatalf("fully valid draft should submit, got %v", errs)
	}

	// A schedule that went stale while the draft sat parked must block
	// submission even though step 6 was once valid.
	stale := now.Add(30 * 24 * time.Hour)
	if errs := ValidateExamStep(draft, 7, 100, stale); len(errs) == 0 {
		t.Fatal("stale schedule should block submission")
	}

	draft.Title = ""
	if errs := ValidateExamStep(draft, 7, 100, now); len(errs) == 0 {
		t.Fatal("step 1 failures should surface at the review step")
	}
}

func TestDistributeDifficultyBalanced(t *testing.T) {
	tests := []struct {
		count              int
		easy, medium, hard int
	}{
		{12, 4, 4, 4},
		{13, 5, 4, 4},
		{14, 5, 5, 4},
		{1, 1, 0, 0},
		{2, 1, 1, 0},
		{0, 0, 0, 0},
	}

	for _, tc := range tests {
		easy, medium, hard := DistributeDifficulty(tc.count, "balanced", 0, 0, 0)
		if easy != tc.easy || medium != tc.medium || hard != tc.hard {
			t.Errorf("balanced(%d) = %d/%d/%d, want %d/%d/%d",
				tc.count, easy, medium, hard, tc.easy, tc.medium, tc.hard)
		}
		if easy+medium+hard != tc.count {
			t.Errorf("balanced(%d) loses questions", tc.count)
		}
	}
}

func TestDistributeDifficultyCustom(t *testing.T) {
	tests := []struct {
		count                     int
		easyPct, mediumPct, hardPct int
		easy, medium, hard        int
	}{
		{10, 40, 40, 20, 4, 4, 2},
		// Floors go to easy and hard; medium absorbs the remainder.
		{7, 30, 40, 30, 2, 3, 2},
		{20, 50, 25, 25, 10, 5, 5},
	}

	for _, tc := range tests {
		easy, medium, hard := DistributeDifficulty(tc.count, "custom", tc.easyPct, tc.mediumPct, tc.hardPct)
		if easy != tc.easy || medium != tc.medium || hard != tc.hard {
			t.Errorf("custom(%d, %d/%d/%d) = %d/%d/%d, want %d/%d/%d",
				tc.count, tc.easyPct, tc.mediumPct, tc.hardPct,
				easy, medium, hard, tc.easy, tc.medium, tc.hard)
		}
		if easy+medium+hard != tc.count {
			t.Errorf("custom(%d) loses questions", tc.count)
		}
	}
}

func TestDecodeTopicIDs(t *testing.T) {
	if ids := DecodeTopicIDs(nil); ids != nil {
		t.Fatalf("nil raw should decode to nil, got %v", ids)
	}
	if ids := DecodeTopicIDs(json.RawMessage(`not json`)); ids != nil {
		t.Fatalf("malformed raw should decode to nil, got %v", ids)
	}
	ids := DecodeTopicIDs(json.RawMessage(`["a","b"]`))
	if len(ids) != 2 || ids[0] != "a" {
		t.Fatalf("unexpected ids %v", ids)
	}
}
