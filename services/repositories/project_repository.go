package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumina-edu/lumina_api/model"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	BaseRepository
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *ProjectRepository) CreateProject(project *model.MiniProject) (*model.MiniProject, error) {
	if project.ID == "" {
		id, _ := uuid.NewV7()
		project.ID = id.String()
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	if err := ds.db.Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func (ds *ProjectRepository) GetProject(id string) (*model.MiniProject, error) {
	var project model.MiniProject
	if err := ds.db.Where("id = ?", id).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("project_tasks.order_index ASC")
		}).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (ds *ProjectRepository) GetStudentProjects(studentID string) ([]model.MiniProject, error) {
	var projects []model.MiniProject
	err := ds.db.Where("student_id = ?", studentID).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("project_tasks.order_index ASC")
		}).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (ds *ProjectRepository) UpdateProject(project *model.MiniProject) error {
	project.UpdatedAt = time.Now()
	return ds.db.Save(project).Error
}

func (ds *ProjectRepository) DeleteProject(id string) error {
	return ds.db.Delete(&model.MiniProject{}, "id = ?", id).Error
}

func (ds *ProjectRepository) CreateTask(task *model.ProjectTask) (*model.ProjectTask, error) {
	if task.ID == "" {
		id, _ := uuid.NewV7()
		task.ID = id.String()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	if err := ds.db.Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (ds *ProjectRepository) GetTask(id string) (*model.ProjectTask, error) {
	var task model.ProjectTask
	if err := ds.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (ds *ProjectRepository) UpdateTask(task *model.ProjectTask) error {
	task.UpdatedAt = time.Now()
	return ds.db.Save(task).Error
}
