package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumina-edu/lumina_api/model"
	"gorm.io/gorm"
)

type ContentRepository struct {
	BaseRepository
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetSectionTree loads the full Section→Topic→Lesson→Media hierarchy for a
// grade in one preloaded query, every level ordered by order_index. When
// includeInactive is false, inactive lessons are filtered out for the
// student-facing tree.
func (ds *ContentRepository) GetSectionTree(gradeLevel int, includeInactive bool) ([]model.Section, error) {
	var sections []model.Section

	query := ds.db.
		Where("grade_level = ?", gradeLevel).
		Order("order_index ASC").
		Preload("Topics", func(db *gorm.DB) *gorm.DB {
			return db.Order("topics.order_index ASC")
		}).
		Preload("Topics.Lessons", func(db *gorm.DB) *gorm.DB {
			if !includeInactive {
				db = db.Where("lessons.is_active = ?", true)
			}
			return db.Order("lessons.order_index ASC")
		}).
		Preload("Topics.Lessons.Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_media.order_index ASC")
		})

	if err := query.Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// ==================== SECTION METHODS ====================

func (ds *ContentRepository) CreateSection(section *model.Section) (*model.Section, error) {
	if section.ID == "" {
		id, _ := uuid.NewV7()
		section.ID = id.String()
	}
	section.CreatedAt = time.Now()
	section.UpdatedAt = time.Now()

	if err := ds.db.Create(section).Error; err != nil {
		return nil, err
	}
	return section, nil
}

func (ds *ContentRepository) GetSection(id string) (*model.Section, error) {
	var section model.Section
	if err := ds.db.Where("id = ?", id).First(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (ds *ContentRepository) UpdateSection(section *model.Section) error {
	section.UpdatedAt = time.Now()
	return ds.db.Save(section).Error
}

func (ds *ContentRepository) DeleteSection(id string) error {
	return ds.db.Delete(&model.Section{}, "id = ?", id).Error
}

// ==================== TOPIC METHODS ====================

func (ds *ContentRepository) CreateTopic(topic *model.Topic) (*model.Topic, error) {
	if topic.ID == "" {
		id, _ := uuid.NewV7()
		topic.ID = id.String()
	}
	topic.CreatedAt = time.Now()
	topic.UpdatedAt = time.Now()

	if err := ds.db.Create(topic).Error; err != nil {
		return nil, err
	}
	return topic, nil
}

func (ds *ContentRepository) GetTopic(id string) (*model.Topic, error) {
	var topic model.Topic
	if err := ds.db.Where("id = ?", id).First(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (ds *ContentRepository) UpdateTopic(topic *model.Topic) error {
	topic.UpdatedAt = time.Now()
	return ds.db.Save(topic).Error
}

func (ds *ContentRepository) DeleteTopic(id string) error {
	return ds.db.Delete(&model.Topic{}, "id = ?", id).Error
}

// ==================== LESSON METHODS ====================

func (ds *ContentRepository) CreateLesson(lesson *model.Lesson) (*model.Lesson, error) {
	if lesson.ID == "" {
		id, _ := uuid.NewV7()
		lesson.ID = id.String()
	}
	lesson.CreatedAt = time.Now()
	lesson.UpdatedAt = time.Now()

	if err := ds.db.Create(lesson).Error; err != nil {
		return nil, err
	}
	return lesson, nil
}

func (ds *ContentRepository) GetLesson(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := ds.db.Where("id = ?", id).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_media.order_index ASC")
		}).
		First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (ds *ContentRepository) UpdateLesson(lesson *model.Lesson) error {
	lesson.UpdatedAt = time.Now()
	return ds.db.Save(lesson).Error
}

func (ds *ContentRepository) DeleteLesson(id string) error {
	return ds.db.Delete(&model.Lesson{}, "id = ?", id).Error
}

// LessonIDsUnderSection collects lesson ids for the delete pre-check.
func (ds *ContentRepository) LessonIDsUnderSection(sectionID string) ([]string, error) {
	var ids []string
	err := ds.db.Model(&model.Lesson{}).
		Joins("JOIN topics ON topics.id = lessons.topic_id").
		Where("topics.section_id = ?", sectionID).
		Pluck("lessons.id", &ids).Error
	return ids, err
}

func (ds *ContentRepository) LessonIDsUnderTopic(topicID string) ([]string, error) {
	var ids []string
	err := ds.db.Model(&model.Lesson{}).
		Where("topic_id = ?", topicID).
		Pluck("id", &ids).Error
	return ids, err
}

// CountActiveLessonsForGrade feeds the dashboard completion denominator.
func (ds *ContentRepository) CountActiveLessonsForGrade(gradeLevel int) (int64, error) {
	var count int64
	err := ds.db.Model(&model.Lesson{}).
		Joins("JOIN topics ON topics.id = lessons.topic_id").
		Joins("JOIN sections ON sections.id = topics.section_id").
		Where("sections.grade_level = ? AND lessons.is_active = ?", gradeLevel, true).
		Count(&count).Error
	return count, err
}

// ==================== MEDIA METHODS ====================

func (ds *ContentRepository) CreateMedia(media *model.LessonMedia) (*model.LessonMedia, error) {
	if media.ID == "" {
		id, _ := uuid.NewV7()
		media.ID = id.String()
	}
	media.CreatedAt = time.Now()
	media.UpdatedAt = time.Now()

	if err := ds.db.Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

func (ds *ContentRepository) GetMedia(id string) (*model.LessonMedia, error) {
	var media model.LessonMedia
	if err := ds.db.Where("id = ?", id).First(&media).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

func (ds *ContentRepository) GetLessonMedia(lessonID string) ([]model.LessonMedia, error) {
	var media []model.LessonMedia
	if err := ds.db.Where("lesson_id = ?", lessonID).
		Order("order_index ASC").
		Find(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

func (ds *ContentRepository) DeleteMedia(id string) error {
	return ds.db.Delete(&model.LessonMedia{}, "id = ?", id).Error
}
