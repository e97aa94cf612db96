package dto

import "time"

// ==================== EXAM BUILDER DTOs ====================

// ExamStepUpdateRequest carries the fields for whichever step is being
// saved. Only the step being validated is checked; cross-step checks run
// at submission.
type ExamStepUpdateRequest struct {
	Step int `json:"step" validate:"required,gte=1,lte=7"`

	Title       string `json:"title"`
	Description string `json:"description"`
	GradeLevel  int    `json:"grade_level"`

	TopicIDs []string `json:"topic_ids"`

	DurationMinutes  int  `json:"duration_minutes"`
	ShuffleQuestions bool `json:"shuffle_questions"`
	ShowResults      bool `json:"show_results"`

	QuestionsCount    int `json:"questions_count"`
	PointsPerQuestion int `json:"points_per_question"`

	DifficultyMode string `json:"difficulty_mode" validate:"omitempty,oneof=balanced custom"`
	EasyPercent    int    `json:"easy_percent"`
	MediumPercent  int    `json:"medium_percent"`
	HardPercent    int    `json:"hard_percent"`

	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Status    string     `json:"status" validate:"omitempty,oneof=draft published"`
}

func (r ExamStepUpdateRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ExamStepResult struct {
	Allowed     bool     `json:"allowed"`
	CurrentStep int      `json:"current_step"`
	Errors      []string `json:"errors,omitempty"`
}

type ExamDraftResponse struct {
	ID                string     `json:"id"`
	CurrentStep       int        `json:"current_step"`
	Title             string     `json:"title,omitempty"`
	Description       string     `json:"description,omitempty"`
	GradeLevel        int        `json:"grade_level,omitempty"`
	TopicIDs          []string   `json:"topic_ids,omitempty"`
	DurationMinutes   int        `json:"duration_minutes,omitempty"`
	ShuffleQuestions  bool       `json:"shuffle_questions"`
	ShowResults       bool       `json:"show_results"`
	QuestionsCount    int        `json:"questions_count,omitempty"`
	PointsPerQuestion int        `json:"points_per_question,omitempty"`
	DifficultyMode    string     `json:"difficulty_mode,omitempty"`
	EasyPercent       int        `json:"easy_percent,omitempty"`
	MediumPercent     int        `json:"medium_percent,omitempty"`
	HardPercent       int        `json:"hard_percent,omitempty"`
	StartTime         *time.Time `json:"start_time,omitempty"`
	EndTime           *time.Time `json:"end_time,omitempty"`
	Status            string     `json:"status"`
	AvailableQuestions int       `json:"available_questions"`
}

type ExamResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	GradeLevel      int        `json:"grade_level"`
	QuestionsCount  int        `json:"questions_count"`
	DurationMinutes int        `json:"duration_minutes"`
	EasyCount       int        `json:"easy_count"`
	MediumCount     int        `json:"medium_count"`
	HardCount       int        `json:"hard_count"`
	TotalPoints     int        `json:"total_points"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Status          string     `json:"status"`
}
