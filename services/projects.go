package services

import (
	"context"

	"github.com/google/uuid"

	appContext "github.com/alphabatem/common/context"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/shared"
)

type ProjectService struct {
	appContext.DefaultService

	db       *PostgresService
	cache    *CacheService
	progress *ProgressService
}

const PROJECT_SVC = "project_svc"

func (svc ProjectService) Id() string {
	return PROJECT_SVC
}

func (svc *ProjectService) Configure(ctx *appContext.Context) error {
	svc.db = ctx.Service(POSTGRES_SVC).(*PostgresService)
	svc.cache = ctx.Service(CACHE_SVC).(*CacheService)
	svc.progress = ctx.Service(PROGRESS_SVC).(*ProgressService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProjectService) Start() error {
	return nil
}

// ==================== PROJECT CRUD ====================

func (svc *ProjectService) CreateProject(ctx context.Context, studentID string, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	project := &model.MiniProject{
		ID:          uuid.Must(uuid.NewV7()).String(),
		StudentID:   studentID,
		Title:       req.Title,
		Description: req.Description,
		Status:      shared.ProjectStatusDraft,
		DueDate:     req.DueDate,
	}

	created, err := svc.db.Projects().CreateProject(project)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	for i, title := range req.Tasks {
		task := &model.ProjectTask{
			ID:         uuid.Must(uuid.NewV7()).String(),
			ProjectID:  created.ID,
			Title:      title,
			OrderIndex: i,
		}
		if _, err := svc.db.Projects().CreateTask(task); err != nil {
			return nil, svc.db.HandleError(err)
		}
		created.Tasks = append(created.Tasks, *task)
	}

	svc.invalidate(ctx, studentID)
	resp := projectResponse(created)
	return &resp, nil
}

func (svc *ProjectService) GetStudentProjects(ctx context.Context, studentID string) ([]dto.ProjectResponse, error) {
	var out []dto.ProjectResponse
	err := svc.cache.GetOrFetch(ctx, "projects", studentID, TierShort, &out, func(ctx context.Context) (interface{}, error) {
		projects, err := svc.db.Projects().GetStudentProjects(studentID)
		if err != nil {
			return nil, svc.db.HandleError(err)
		}

		resp := make([]dto.ProjectResponse, 0, len(projects))
		for i := range projects {
			resp = append(resp, projectResponse(&projects[i]))
		}
		return resp, nil
	})
	return out, err
}

func (svc *ProjectService) UpdateProject(ctx context.Context, studentID, projectID string, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := svc.ownedProject(studentID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		project.Title = req.Title
	}
	if req.Description != "" {
		project.Description = req.Description
	}
	if req.Status != "" {
		project.Status = req.Status
	}
	if req.DueDate != nil {
		project.DueDate = req.DueDate
	}

	if err := svc.db.Projects().UpdateProject(project); err != nil {
		return nil, svc.db.HandleError(err)
	}

	// Submitting a completed project feeds the progress and achievement
	// pipeline like any other content completion.
	if req.Status == shared.ProjectStatusCompleted {
		_, err := svc.progress.UpdateProgress(ctx, studentID, dto.UpdateProgressRequest{
			ContentID:          project.ID,
			ContentType:        shared.ContentTypeProject,
			ProgressPercentage: 100,
		})
		if err != nil {
			return nil, err
		}
	}

	svc.invalidate(ctx, studentID)
	resp := projectResponse(project)
	return &resp, nil
}

func (svc *ProjectService) DeleteProject(ctx context.Context, studentID, projectID string) error {
	if _, err := svc.ownedProject(studentID, projectID); err != nil {
		return err
	}

	// A submitted project already fed the progress pipeline; deleting it
	// would orphan those rows, so block instead of letting the FK decide.
	count, err := svc.db.Progress().CountProgressForContentIDs([]string{projectID})
	if err != nil {
		return svc.db.HandleError(err)
	}
	if count > 0 {
		return shared.NewConflictError("Project has recorded progress and cannot be deleted", nil)
	}

	if err := svc.db.Projects().DeleteProject(projectID); err != nil {
		return svc.db.HandleError(err)
	}

	svc.invalidate(ctx, studentID)
	return nil
}

// ==================== TASKS ====================

// ToggleTask flips one task and recomputes the project's completion
// percentage from its task list.
func (svc *ProjectService) ToggleTask(ctx context.Context, studentID, projectID, taskID string, completed bool) (*dto.ProjectResponse, error) {
	project, err := svc.ownedProject(studentID, projectID)
	if err != nil {
		return nil, err
	}

	var task *model.ProjectTask
	for i := range project.Tasks {
		if project.Tasks[i].ID == taskID {
			task = &project.Tasks[i]
			break
		}
	}
	if task == nil {
		return nil, shared.NewNotFoundError("Task not found")
	}

	task.IsCompleted = completed
	if err := svc.db.Projects().UpdateTask(task); err != nil {
		return nil, svc.db.HandleError(err)
	}

	project.ProgressPercentage = TaskCompletionPercentage(project.Tasks)
	project.Status = NextProjectStatus(project.Status, completed, project.ProgressPercentage)

	if err := svc.db.Projects().UpdateProject(project); err != nil {
		return nil, svc.db.HandleError(err)
	}

	svc.invalidate(ctx, studentID)
	resp := projectResponse(project)
	return &resp, nil
}

// NextProjectStatus applies the task-driven transitions. Completing any
// task moves a draft into progress first, so a single-task project can
// reach completed in one toggle; a full task list finishes it.
func NextProjectStatus(current string, taskCompleted bool, pct int) string {
	if taskCompleted && current == shared.ProjectStatusDraft {
		current = shared.ProjectStatusInProgress
	}
	if pct == 100 && current == shared.ProjectStatusInProgress {
		return shared.ProjectStatusCompleted
	}
	return current
}

// TaskCompletionPercentage is completed/total, floored. Zero tasks is 0.
func TaskCompletionPercentage(tasks []model.ProjectTask) int {
	if len(tasks) == 0 {
		return 0
	}

	completed := 0
	for _, t := range tasks {
		if t.IsCompleted {
			completed++
		}
	}
	return completed * 100 / len(tasks)
}

// ==================== HELPERS ====================

func (svc *ProjectService) ownedProject(studentID, projectID string) (*model.MiniProject, error) {
	project, err := svc.db.Projects().GetProject(projectID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	if project.StudentID != studentID {
		return nil, shared.NewForbiddenError("Project belongs to another student")
	}
	return project, nil
}

func (svc *ProjectService) invalidate(ctx context.Context, studentID string) {
	svc.cache.InvalidateFamilies(ctx, studentID, "projects", "stats")
}

func projectResponse(p *model.MiniProject) dto.ProjectResponse {
	tasks := make([]dto.ProjectTaskResponse, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, dto.ProjectTaskResponse{
			ID:          t.ID,
			Title:       t.Title,
			IsCompleted: t.IsCompleted,
			OrderIndex:  t.OrderIndex,
		})
	}

	return dto.ProjectResponse{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Status:             p.Status,
		ProgressPercentage: p.ProgressPercentage,
		DueDate:            p.DueDate,
		Tasks:              tasks,
	}
}
