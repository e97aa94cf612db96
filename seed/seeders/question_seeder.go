package seeders

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/lumina-edu/lumina_api/model"
)

// QuestionSeeder handles seeding the teacher question bank
type QuestionSeeder struct {
	db *gorm.DB
}

// NewQuestionSeeder creates a new question seeder
func NewQuestionSeeder(db *gorm.DB) *QuestionSeeder {
	return &QuestionSeeder{db: db}
}

type seedQuestion struct {
	Question   string
	Type       string
	Difficulty string
	Options    []string
	Answer     string
}

// SeedQuestions fills every existing topic with a small pool across all
// three difficulties, enough to exercise the exam builder locally. Topics
// that already have questions are skipped.
func (s *QuestionSeeder) SeedQuestions() error {
	var topics []model.Topic
	if err := s.db.Find(&topics).Error; err != nil {
		return err
	}
	if len(topics) == 0 {
		log.Println("No topics found, skipping question seeding")
		return nil
	}

	pool := []seedQuestion{
		{Question: "What do we call a list of steps that solves a problem?", Type: "multiple_choice", Difficulty: "easy", Options: []string{"An algorithm", "A variable", "A bug", "A byte"}, Answer: "An algorithm"},
		{Question: "A loop repeats a block of steps.", Type: "multiple_choice", Difficulty: "easy", Options: []string{"True", "False"}, Answer: "True"},
		{Question: "Fill in the blank: order of instructions ____ for a computer.", Type: "fill_blank", Difficulty: "easy", Answer: "matters"},
		{Question: "Which loop runs a known number of times?", Type: "multiple_choice", Difficulty: "medium", Options: []string{"for loop", "forever loop", "maybe loop", "event loop"}, Answer: "for loop"},
		{Question: "What does `range(5)` produce as its last value?", Type: "multiple_choice", Difficulty: "medium", Options: []string{"4", "5", "0", "1"}, Answer: "4"},
		{Question: "Fill in the blank: a chart with rectangular bars comparing categories is a ____ chart.", Type: "fill_blank", Difficulty: "medium", Answer: "bar"},
		{Question: "Rewrite a nested loop that prints a 3x3 grid as a single expression.", Type: "fill_blank", Difficulty: "hard", Answer: "print('\\n'.join('***' for _ in range(3)))"},
		{Question: "Which change makes an infinite loop terminate?", Type: "multiple_choice", Difficulty: "hard", Options: []string{"Updating the loop condition variable", "Adding a comment", "Renaming the loop", "Printing inside the loop"}, Answer: "Updating the loop condition variable"},
	}

	seeded := 0
	for _, topic := range topics {
		var count int64
		if err := s.db.Model(&model.BankQuestion{}).Where("topic_id = ?", topic.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		for _, q := range pool {
			question := model.BankQuestion{
				ID:         newID(),
				TopicID:    topic.ID,
				Question:   q.Question,
				Type:       q.Type,
				Difficulty: q.Difficulty,
				Answer:     q.Answer,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}
			if len(q.Options) > 0 {
				raw, err := json.Marshal(q.Options)
				if err != nil {
					return err
				}
				question.Options = raw
			}
			if err := s.db.Create(&question).Error; err != nil {
				return err
			}
			seeded++
		}
	}

	log.Printf("Seeded %d bank questions", seeded)
	return nil
}
