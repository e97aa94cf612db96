package seeders

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/shared"
)

// ContentSeeder handles seeding the curriculum tree
type ContentSeeder struct {
	db *gorm.DB
}

// NewContentSeeder creates a new content seeder
func NewContentSeeder(db *gorm.DB) *ContentSeeder {
	return &ContentSeeder{db: db}
}

type seedLesson struct {
	Title   string
	Content string
	Media   []seedMedia
}

type seedMedia struct {
	MediaType string
	FileName  string
	Metadata  string
}

type seedTopic struct {
	Title   string
	Content string
	Lessons []seedLesson
}

type seedSection struct {
	GradeLevel  int
	Title       string
	Description string
	Topics      []seedTopic
}

// SeedContent creates a small curriculum for grades 5 and 6. Sections are
// matched by grade and title, so the seeder is safe to re-run.
func (s *ContentSeeder) SeedContent() error {
	sections := []seedSection{
		{
			GradeLevel:  5,
			Title:       "Introduction to Programming",
			Description: "First steps with block-based and text-based coding",
			Topics: []seedTopic{
				{
					Title:   "Thinking Like a Computer",
					Content: "Sequences, instructions, and why order matters",
					Lessons: []seedLesson{
						{
							Title:   "What is an algorithm?",
							Content: "An algorithm is a list of steps to solve a problem.",
							Media: []seedMedia{
								{MediaType: shared.MediaTypeVideo, FileName: "algorithms-intro.mp4"},
								{MediaType: shared.MediaTypeLottie, FileName: "robot-walk.json", Metadata: `{"speed": 1.0, "loop": true}`},
							},
						},
						{
							Title:   "Writing your first instructions",
							Content: "Practice breaking a morning routine into exact steps.",
						},
					},
				},
				{
					Title:   "Loops and Repetition",
					Content: "Doing things more than once without repeating yourself",
					Lessons: []seedLesson{
						{
							Title:   "Counting with loops",
							Content: "A loop repeats a block of steps a fixed number of times.",
							Media: []seedMedia{
								{MediaType: shared.MediaTypeCode, FileName: "loop-example", Metadata: `{"language": "python", "content": "for i in range(5):\n    print(i)"}`},
							},
						},
					},
				},
			},
		},
		{
			GradeLevel:  6,
			Title:       "Working with Data",
			Description: "Collecting, organizing, and presenting information",
			Topics: []seedTopic{
				{
					Title:   "Tables and Charts",
					Content: "Turning raw numbers into something readable",
					Lessons: []seedLesson{
						{
							Title:   "Reading a bar chart",
							Content: "Bars compare quantities across categories.",
							Media: []seedMedia{
								{MediaType: shared.MediaTypeImage, FileName: "bar-chart-sample.png"},
							},
						},
					},
				},
			},
		},
	}

	created := 0
	for si, sec := range sections {
		var existing model.Section
		err := s.db.Where("grade_level = ? AND title = ?", sec.GradeLevel, sec.Title).First(&existing).Error
		if err == nil {
			continue
		}

		sectionID := newID()
		section := model.Section{
			ID:          sectionID,
			GradeLevel:  sec.GradeLevel,
			Title:       sec.Title,
			Description: sec.Description,
			OrderIndex:  si,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := s.db.Create(&section).Error; err != nil {
			log.Printf("Error creating section %q: %v", sec.Title, err)
			return err
		}

		for ti, top := range sec.Topics {
			topicID := newID()
			topic := model.Topic{
				ID:         topicID,
				SectionID:  sectionID,
				Title:      top.Title,
				Content:    top.Content,
				OrderIndex: ti,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}
			if err := s.db.Create(&topic).Error; err != nil {
				return err
			}

			for li, les := range top.Lessons {
				lessonID := newID()
				lesson := model.Lesson{
					ID:         lessonID,
					TopicID:    topicID,
					Title:      les.Title,
					Content:    les.Content,
					OrderIndex: li,
					IsActive:   true,
					CreatedAt:  time.Now(),
					UpdatedAt:  time.Now(),
				}
				if err := s.db.Create(&lesson).Error; err != nil {
					return err
				}

				for mi, med := range les.Media {
					media := model.LessonMedia{
						ID:         newID(),
						LessonID:   lessonID,
						MediaType:  med.MediaType,
						FileName:   med.FileName,
						FilePath:   seedMediaPath(lessonID, med),
						OrderIndex: mi,
						CreatedAt:  time.Now(),
						UpdatedAt:  time.Now(),
					}
					if med.Metadata != "" {
						media.Metadata = json.RawMessage(med.Metadata)
					}
					if err := s.db.Create(&media).Error; err != nil {
						return err
					}
				}
			}
		}
		created++
	}

	log.Printf("Seeded %d sections", created)
	return nil
}

// seedMediaPath mirrors the object layout the upload path uses. Code embeds
// live entirely in metadata and carry no object path.
func seedMediaPath(lessonID string, med seedMedia) string {
	if med.MediaType == shared.MediaTypeCode {
		return ""
	}
	return "lessons/" + lessonID + "/" + med.FileName
}

func newID() string {
	id, _ := uuid.NewV7()
	return id.String()
}
