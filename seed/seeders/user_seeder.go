package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/shared"
)

// UserSeeder handles seeding development users
type UserSeeder struct {
	db *gorm.DB
}

// NewUserSeeder creates a new user seeder
func NewUserSeeder(db *gorm.DB) *UserSeeder {
	return &UserSeeder{db: db}
}

type seedUser struct {
	Email      string
	Username   string
	Password   string
	Role       string
	GradeLevel int
}

// SeedUsers creates a default admin, one teacher, and a few students.
// Existing emails are skipped so the seeder is safe to re-run.
func (s *UserSeeder) SeedUsers() error {
	users := []seedUser{
		{Email: "admin@lumina.edu", Username: "admin", Password: "admin123", Role: shared.RoleAdmin},
		{Email: "teacher@lumina.edu", Username: "teacher_anna", Password: "teacher123", Role: shared.RoleTeacher},
		{Email: "student1@lumina.edu", Username: "student_minh", Password: "student123", Role: shared.RoleStudent, GradeLevel: 5},
		{Email: "student2@lumina.edu", Username: "student_linh", Password: "student123", Role: shared.RoleStudent, GradeLevel: 5},
		{Email: "student3@lumina.edu", Username: "student_khoa", Password: "student123", Role: shared.RoleStudent, GradeLevel: 6},
	}

	created := 0
	for _, u := range users {
		var existing model.User
		if err := s.db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		id, _ := uuid.NewV7()

		user := model.User{
			ID:           id.String(),
			Email:        u.Email,
			Username:     u.Username,
			PasswordHash: string(hashed),
			Role:         u.Role,
			GradeLevel:   u.GradeLevel,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := s.db.Create(&user).Error; err != nil {
			log.Printf("Error creating user %s: %v", u.Email, err)
			return err
		}
		created++
	}

	log.Printf("Seeded %d users", created)
	return nil
}
