package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	appContext "github.com/alphabatem/common/context"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/shared"
)

type ExamService struct {
	appContext.DefaultService

	db *PostgresService
}

const EXAM_SVC = "exam_svc"

const examFinalStep = 7

func (svc ExamService) Id() string {
	return EXAM_SVC
}

func (svc *ExamService) Configure(ctx *appContext.Context) error {
	svc.db = ctx.Service(POSTGRES_SVC).(*PostgresService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *ExamService) Start() error {
	return nil
}

// ==================== DRAFT LIFECYCLE ====================

func (svc *ExamService) CreateDraft(teacherID string) (*dto.ExamDraftResponse, error) {
	draft := &model.ExamDraft{
		ID:          uuid.Must(uuid.NewV7()).String(),
		TeacherID:   teacherID,
		CurrentStep: 1,
		Status:      shared.ExamStatusDraft,
	}

	created, err := svc.db.Exams().CreateDraft(draft)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	return svc.draftResponse(created)
}

func (svc *ExamService) GetDraft(draftID, teacherID string) (*dto.ExamDraftResponse, error) {
	draft, err := svc.db.Exams().GetDraft(draftID, teacherID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	return svc.draftResponse(draft)
}

func (svc *ExamService) DeleteDraft(draftID, teacherID string) error {
	if err := svc.db.Exams().DeleteDraft(draftID, teacherID); err != nil {
		return svc.db.HandleError(err)
	}
	return nil
}

// ==================== STEP UPDATES ====================

// UpdateStep saves the fields of one builder step and validates them.
// Edits to any already-reached step are saved either way; CurrentStep
// only advances when the step being worked on passes its validator, so
// a later step can never be reached over an invalid earlier one.
func (svc *ExamService) UpdateStep(draftID, teacherID string, req dto.ExamStepUpdateRequest) (*dto.ExamStepResult, error) {
	draft, err := svc.db.Exams().GetDraft(draftID, teacherID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	if req.Step > draft.CurrentStep {
		return nil, shared.NewBadRequestError(nil, fmt.Sprintf("Step %d is not reachable yet", req.Step))
	}

	if err := applyStepFields(draft, req); err != nil {
		return nil, err
	}

	pool, err := svc.availableQuestions(draft)
	if err != nil {
		return nil, err
	}

	stepErrors := ValidateExamStep(draft, req.Step, pool, time.Now())
	allowed := len(stepErrors) == 0

	if allowed && req.Step == draft.CurrentStep && draft.CurrentStep < examFinalStep {
		draft.CurrentStep++
	}

	if err := svc.db.Exams().SaveDraft(draft); err != nil {
		return nil, svc.db.HandleError(err)
	}

	return &dto.ExamStepResult{
		Allowed:     allowed,
		CurrentStep: draft.CurrentStep,
		Errors:      stepErrors,
	}, nil
}

func applyStepFields(draft *model.ExamDraft, req dto.ExamStepUpdateRequest) error {
	switch req.Step {
	case 1:
		draft.Title = req.Title
		draft.Description = req.Description
		draft.GradeLevel = req.GradeLevel
	case 2:
		raw, err := json.Marshal(req.TopicIDs)
		if err != nil {
			return shared.NewBadRequestError(err, "Invalid topic list")
		}
		draft.TopicIDs = raw
	case 3:
		draft.DurationMinutes = req.DurationMinutes
		draft.ShuffleQuestions = req.ShuffleQuestions
		draft.ShowResults = req.ShowResults
	case 4:
		draft.QuestionsCount = req.QuestionsCount
		draft.PointsPerQuestion = req.PointsPerQuestion
	case 5:
		draft.DifficultyMode = req.DifficultyMode
		draft.EasyPercent = req.EasyPercent
		draft.MediumPercent = req.MediumPercent
		draft.HardPercent = req.HardPercent
	case 6:
		draft.StartTime = req.StartTime
		draft.EndTime = req.EndTime
		if req.Status != "" {
			draft.Status = req.Status
		}
	case 7:
		// Review step has no fields of its own.
	}
	return nil
}

// ValidateExamStep runs one step's checks against the draft. Step 7
// re-runs every earlier step plus the temporal checks, so a draft whose
// schedule went stale while parked cannot submit.
func ValidateExamStep(draft *model.ExamDraft, step int, pool int64, now time.Time) []string {
	var errs []string

	switch step {
	case 1:
		if draft.Title == "" {
			errs = append(errs, "title is required")
		}
		if len(draft.Title) > 200 {
			errs = append(errs, "title must be at most 200 characters")
		}
		if draft.GradeLevel < 1 || draft.GradeLevel > 12 {
			errs = append(errs, "grade level must be between 1 and 12")
		}
	case 2:
		if len(DecodeTopicIDs(draft.TopicIDs)) == 0 {
			errs = append(errs, "select at least one topic")
		}
	case 3:
		if draft.DurationMinutes < 5 || draft.DurationMinutes > 180 {
			errs = append(errs, "duration must be between 5 and 180 minutes")
		}
	case 4:
		if draft.QuestionsCount < 1 {
			errs = append(errs, "at least one question is required")
		}
		if int64(draft.QuestionsCount) > pool {
			errs = append(errs, fmt.Sprintf("only %d questions available for the selected topics", pool))
		}
		if draft.PointsPerQuestion < 1 {
			errs = append(errs, "points per question must be at least 1")
		}
	case 5:
		switch draft.DifficultyMode {
		case "balanced":
			// Split is derived at submission.
		case "custom":
			if draft.EasyPercent < 0 || draft.MediumPercent < 0 || draft.HardPercent < 0 {
				errs = append(errs, "difficulty percentages cannot be negative")
			}
			if draft.EasyPercent+draft.MediumPercent+draft.HardPercent != 100 {
				errs = append(errs, "difficulty percentages must sum to 100")
			}
		default:
			errs = append(errs, "difficulty mode must be balanced or custom")
		}
	case 6:
		if draft.StartTime == nil || draft.EndTime == nil {
			errs = append(errs, "start and end time are required")
		} else {
			if !draft.EndTime.After(*draft.StartTime) {
				errs = append(errs, "end time must be after start time")
			}
			if draft.EndTime.Before(now) {
				errs = append(errs, "end time must be in the future")
			}
		}
	case examFinalStep:
		for s := 1; s < examFinalStep; s++ {
			errs = append(errs, ValidateExamStep(draft, s, pool, now)...)
		}
	}

	return errs
}

// ==================== SUBMISSION ====================

// Submit freezes a valid draft into an exam: full validation, derived
// difficulty counts, total points. The draft is removed on success.
func (svc *ExamService) Submit(draftID, teacherID string) (*dto.ExamResponse, error) {
	draft, err := svc.db.Exams().GetDraft(draftID, teacherID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	pool, err := svc.availableQuestions(draft)
	if err != nil {
		return nil, err
	}

	if errs := ValidateExamStep(draft, examFinalStep, pool, time.Now()); len(errs) > 0 {
		return nil, shared.NewConflictError("Exam draft is not ready to submit", map[string]interface{}{
			"errors": errs,
		})
	}

	easy, medium, hard := DistributeDifficulty(draft.QuestionsCount, draft.DifficultyMode,
		draft.EasyPercent, draft.MediumPercent, draft.HardPercent)

	exam := &model.Exam{
		ID:               uuid.Must(uuid.NewV7()).String(),
		TeacherID:        teacherID,
		Title:            draft.Title,
		Description:      draft.Description,
		GradeLevel:       draft.GradeLevel,
		TopicIDs:         draft.TopicIDs,
		QuestionsCount:   draft.QuestionsCount,
		DurationMinutes:  draft.DurationMinutes,
		EasyCount:        easy,
		MediumCount:      medium,
		HardCount:        hard,
		TotalPoints:      draft.QuestionsCount * draft.PointsPerQuestion,
		ShuffleQuestions: draft.ShuffleQuestions,
		ShowResults:      draft.ShowResults,
		StartTime:        draft.StartTime,
		EndTime:          draft.EndTime,
		Status:           draft.Status,
	}

	created, err := svc.db.Exams().CreateExam(exam)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	if err := svc.db.Exams().DeleteDraft(draftID, teacherID); err != nil {
		return nil, svc.db.HandleError(err)
	}

	resp := examResponse(created)
	return &resp, nil
}

// DistributeDifficulty splits the question count into easy/medium/hard.
// Balanced mode splits as evenly as possible, leftovers going to easier
// buckets first. Custom mode floors each percentage and hands the
// remainder to medium.
func DistributeDifficulty(count int, mode string, easyPct, mediumPct, hardPct int) (easy, medium, hard int) {
	if mode == "balanced" {
		easy = count / 3
		medium = count / 3
		hard = count / 3
		for i := 0; i < count%3; i++ {
			if i == 0 {
				easy++
			} else {
				medium++
			}
		}
		return easy, medium, hard
	}

	easy = count * easyPct / 100
	hard = count * hardPct / 100
	medium = count - easy - hard
	return easy, medium, hard
}

// ==================== EXAMS & QUESTION BANK ====================

func (svc *ExamService) GetTeacherExams(teacherID string) ([]dto.ExamResponse, error) {
	exams, err := svc.db.Exams().GetTeacherExams(teacherID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	out := make([]dto.ExamResponse, 0, len(exams))
	for i := range exams {
		out = append(out, examResponse(&exams[i]))
	}
	return out, nil
}

// ==================== HELPERS ====================

func (svc *ExamService) availableQuestions(draft *model.ExamDraft) (int64, error) {
	topicIDs := DecodeTopicIDs(draft.TopicIDs)
	if len(topicIDs) == 0 {
		return 0, nil
	}

	pool, err := svc.db.Exams().CountAvailableQuestions(topicIDs)
	if err != nil {
		return 0, svc.db.HandleError(err)
	}
	return pool, nil
}

func DecodeTopicIDs(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	return ids
}

func (svc *ExamService) draftResponse(draft *model.ExamDraft) (*dto.ExamDraftResponse, error) {
	pool, err := svc.availableQuestions(draft)
	if err != nil {
		return nil, err
	}

	return &dto.ExamDraftResponse{
		ID:                 draft.ID,
		CurrentStep:        draft.CurrentStep,
		Title:              draft.Title,
		Description:        draft.Description,
		GradeLevel:         draft.GradeLevel,
		TopicIDs:           DecodeTopicIDs(draft.TopicIDs),
		DurationMinutes:    draft.DurationMinutes,
		ShuffleQuestions:   draft.ShuffleQuestions,
		ShowResults:        draft.ShowResults,
		QuestionsCount:     draft.QuestionsCount,
		PointsPerQuestion:  draft.PointsPerQuestion,
		DifficultyMode:     draft.DifficultyMode,
		EasyPercent:        draft.EasyPercent,
		MediumPercent:      draft.MediumPercent,
		HardPercent:        draft.HardPercent,
		StartTime:          draft.StartTime,
		EndTime:            draft.EndTime,
		Status:             draft.Status,
		AvailableQuestions: int(pool),
	}, nil
}

func examResponse(e *model.Exam) dto.ExamResponse {
	return dto.ExamResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		GradeLevel:      e.GradeLevel,
		QuestionsCount:  e.QuestionsCount,
		DurationMinutes: e.DurationMinutes,
		EasyCount:       e.EasyCount,
		MediumCount:     e.MediumCount,
		HardCount:       e.HardCount,
		TotalPoints:     e.TotalPoints,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		Status:          e.Status,
	}
}
