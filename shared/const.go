package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"

	ContentTypeVideo    = "video"
	ContentTypeDocument = "document"
	ContentTypeLesson   = "lesson"
	ContentTypeProject  = "project"
	ContentTypeGame     = "game"

	MediaTypeVideo  = "video"
	MediaTypeImage  = "image"
	MediaTypeLottie = "lottie"
	MediaTypeCode   = "code"
	MediaType3D     = "3d_model"

	ActivityVideoWatch    = "video_watch"
	ActivityProjectSubmit = "project_submit"
	ActivityGamePlay      = "game_play"
	ActivityDocumentRead  = "document_read"

	ProjectStatusDraft      = "draft"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusReviewed   = "reviewed"

	ExamStatusDraft     = "draft"
	ExamStatusPublished = "published"

	// Presence recency windows. A user counts as online only while the
	// is_online flag is set AND the last heartbeat is within the window,
	// so stale flags from ungraceful disconnects don't show ghosts.
	StudentOnlineWindowSeconds = 60
	TeacherOnlineWindowSeconds = 120
)
