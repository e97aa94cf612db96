package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumina-edu/lumina_api/model"
	"gorm.io/gorm"
)

type ExamRepository struct {
	BaseRepository
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ==================== DRAFT METHODS ====================

func (ds *ExamRepository) GetDraft(id, teacherID string) (*model.ExamDraft, error) {
	var draft model.ExamDraft
	if err := ds.db.Where("id = ? AND teacher_id = ?", id, teacherID).First(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (ds *ExamRepository) CreateDraft(draft *model.ExamDraft) (*model.ExamDraft, error) {
	if draft.ID == "" {
		id, _ := uuid.NewV7()
		draft.ID = id.String()
	}
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = time.Now()

	if err := ds.db.Create(draft).Error; err != nil {
		return nil, err
	}
	return draft, nil
}

func (ds *ExamRepository) SaveDraft(draft *model.ExamDraft) error {
	draft.UpdatedAt = time.Now()
	return ds.db.Save(draft).Error
}

func (ds *ExamRepository) DeleteDraft(id, teacherID string) error {
	return ds.db.Delete(&model.ExamDraft{}, "id = ? AND teacher_id = ?", id, teacherID).Error
}

// ==================== QUESTION POOL METHODS ====================

// CountAvailableQuestions backs the step-4 gate: the draft's question
// count may not exceed the pool for its chosen topics.
func (ds *ExamRepository) CountAvailableQuestions(topicIDs []string) (int64, error) {
	if len(topicIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := ds.db.Model(&model.BankQuestion{}).
		Where("topic_id IN ?", topicIDs).
		Count(&count).Error
	return count, err
}

func (ds *ExamRepository) CreateBankQuestion(q *model.BankQuestion) (*model.BankQuestion, error) {
	if q.ID == "" {
		id, _ := uuid.NewV7()
		q.ID = id.String()
	}
	q.CreatedAt = time.Now()
	q.UpdatedAt = time.Now()

	if err := ds.db.Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// ==================== EXAM METHODS ====================

func (ds *ExamRepository) CreateExam(exam *model.Exam) (*model.Exam, error) {
	if exam.ID == "" {
		id, _ := uuid.NewV7()
		exam.ID = id.String()
	}
	exam.CreatedAt = time.Now()
	exam.UpdatedAt = time.Now()

	if err := ds.db.Create(exam).Error; err != nil {
		return nil, err
	}
	return exam, nil
}

func (ds *ExamRepository) GetTeacherExams(teacherID string) ([]model.Exam, error) {
	var exams []model.Exam
	err := ds.db.Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&exams).Error
	return exams, err
}
