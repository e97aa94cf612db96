package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// 1. Seed users first (content has no owner, but questions and
	//    progress reference them during development)
	userSeeder := NewUserSeeder(s.db)
	if err := userSeeder.SeedUsers(); err != nil {
		log.Printf("User seeding failed: %v", err)
		return err
	}

	// 2. Seed curriculum content (sections, topics, lessons, media)
	contentSeeder := NewContentSeeder(s.db)
	if err := contentSeeder.SeedContent(); err != nil {
		log.Printf("Content seeding failed: %v", err)
		return err
	}

	// 3. Seed the question bank (depends on topics)
	questionSeeder := NewQuestionSeeder(s.db)
	if err := questionSeeder.SeedQuestions(); err != nil {
		log.Printf("Question seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedUsersOnly seeds only users
func (s *MainSeeder) SeedUsersOnly() error {
	userSeeder := NewUserSeeder(s.db)
	return userSeeder.SeedUsers()
}

// SeedContentOnly seeds only curriculum content
func (s *MainSeeder) SeedContentOnly() error {
	contentSeeder := NewContentSeeder(s.db)
	return contentSeeder.SeedContent()
}

// SeedQuestionsOnly seeds only the question bank
func (s *MainSeeder) SeedQuestionsOnly() error {
	questionSeeder := NewQuestionSeeder(s.db)
	return questionSeeder.SeedQuestions()
}
