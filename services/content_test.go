package services

import (
	"testing"
	"time"

	"github.com/lumina-edu/lumina_api/model"
)

func sampleSections() []model.Section {
	return []model.Section{
		{
			ID:    "sec-1",
			Title: "Introduction to Programming",
			Topics: []model.Topic{
				{
					ID:        "top-1",
					SectionID: "sec-1",
					Title:     "Thinking Like a Computer",
					Lessons: []model.Lesson{
						{ID: "les-1", TopicID: "top-1", Title: "What is an algorithm?", IsActive: true},
						{ID: "les-2", TopicID: "top-1", Title: "Writing instructions", IsActive: true},
						{
							ID: "les-3", TopicID: "top-1", Title: "Loops", IsActive: true,
							Media: []model.LessonMedia{
								{ID: "med-1", LessonID: "les-3", MediaType: "video", FilePath: "lessons/les-3/intro.mp4", FileName: "intro.mp4", OrderIndex: 0},
								{ID: "med-2", LessonID: "les-3", MediaType: "code", FileName: "loop-example", OrderIndex: 1},
							},
						},
					},
				},
				{ID: "top-2", SectionID: "sec-1", Title: "Empty Topic"},
			},
		},
	}
}

func TestBuildContentTreeRollups(t *testing.T) {
	completed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	progress := map[string]*model.StudentProgress{
		"les-1": {ContentID: "les-1", ProgressPercentage: 100, PointsEarned: 10, CompletedAt: &completed},
		"les-2": {ContentID: "les-2", ProgressPercentage: 40},
	}

	tree := BuildContentTree(sampleSections(), progress, nil)

	if len(tree.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(tree.Sections))
	}
	section := tree.Sections[0]
	if section.TotalLessons != 3 || section.CompletedLessons != 1 {
		t.Fatalf("section rollup wrong: total=%d completed=%d", section.TotalLessons, section.CompletedLessons)
	}
	if section.ProgressPercentage != 33 {
		t.Fatalf("expected section progress 33, got %d", section.ProgressPercentage)
	}

	topic := section.Topics[0]
	if topic.TotalLessons != 3 || topic.CompletedLessons != 1 {
		t.Fatalf("topic rollup wrong: total=%d completed=%d", topic.TotalLessons, topic.CompletedLessons)
	}

	// A lesson at 40% counts toward total but not completed.
	if topic.Lessons[1].Progress == nil || topic.Lessons[1].Progress.ProgressPercentage != 40 {
		t.Fatal("in-progress lesson should carry its snapshot")
	}
	if topic.Lessons[1].Progress.CompletedAt != nil {
		t.Fatal("40% lesson must not be completed")
	}

	// A lesson with no progress row has a nil snapshot.
	if topic.Lessons[2].Progress != nil {
		t.Fatal("untouched lesson should have no progress snapshot")
	}
}

func TestBuildContentTreeRoundsPercentages(t *testing.T) {
	done := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	progress := map[string]*model.StudentProgress{
		"les-1": {ContentID: "les-1", ProgressPercentage: 100, CompletedAt: &done},
		"les-2": {ContentID: "les-2", ProgressPercentage: 100, CompletedAt: &done},
	}

	tree := BuildContentTree(sampleSections(), progress, nil)

	// 2 of 3 rounds to 67, not 66.
	if got := tree.Sections[0].ProgressPercentage; got != 67 {
		t.Fatalf("expected section progress 67, got %d", got)
	}
	if got := tree.Sections[0].Topics[0].ProgressPercentage; got != 67 {
		t.Fatalf("expected topic progress 67, got %d", got)
	}
}

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		name             string
		completed, total int
		want             int
	}{
		{"zero total", 0, 0, 0},
		{"exact third floors", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"exact half", 1, 2, 50},
		{"all complete", 3, 3, 100},
		{"one of seven", 1, 7, 14},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := roundPercent(tc.completed, tc.total); got != tc.want {
				t.Errorf("roundPercent(%d, %d) = %d, want %d", tc.completed, tc.total, got, tc.want)
			}
		})
	}
}

func TestBuildContentTreeEmptyTopic(t *testing.T) {
	tree := BuildContentTree(sampleSections(), nil, nil)

	empty := tree.Sections[0].Topics[1]
	if empty.TotalLessons != 0 || empty.ProgressPercentage != 0 {
		t.Fatalf("empty topic should report zero progress, got total=%d pct=%d", empty.TotalLessons, empty.ProgressPercentage)
	}
	if len(empty.Lessons) != 0 {
		t.Fatalf("empty topic should have no lessons, got %d", len(empty.Lessons))
	}
}

func TestBuildContentTreeMediaResolution(t *testing.T) {
	resolver := func(m model.LessonMedia) string {
		if m.MediaType == "code" || m.FilePath == "" {
			return ""
		}
		return "https://cdn.example/" + m.FilePath
	}

	tree := BuildContentTree(sampleSections(), nil, resolver)

	media := tree.Sections[0].Topics[0].Lessons[2].Media
	if len(media) != 2 {
		t.Fatalf("expected 2 media items, got %d", len(media))
	}
	if media[0].URL != "https://cdn.example/lessons/les-3/intro.mp4" {
		t.Fatalf("video media should get a resolved URL, got %q", media[0].URL)
	}
	if media[1].URL != "" {
		t.Fatalf("code media must not get a URL, got %q", media[1].URL)
	}
	if media[0].OrderIndex != 0 || media[1].OrderIndex != 1 {
		t.Fatal("media order must be preserved")
	}
}

func TestCollectLessonIDs(t *testing.T) {
	ids := collectLessonIDs(sampleSections())
	if len(ids) != 3 {
		t.Fatalf("expected 3 lesson ids, got %d", len(ids))
	}
	if ids[0] != "les-1" || ids[2] != "les-3" {
		t.Fatalf("unexpected ids %v", ids)
	}
}
