package dto

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Locale   string `json:"locale"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateAttemptRequest starts a new exam attempt from the course's active blueprint.
type CreateAttemptRequest struct {
	CourseID    uint   `json:"courseId" binding:"required"`
	AttemptKind string `json:"attemptKind" binding:"omitempty,oneof=practice diagnostic final"`
}

// SubmitAttemptRequest maps item numbers to the learner's answers. Missing items count as wrong.
type SubmitAttemptRequest struct {
	Answers map[int]string `json:"answers"`
}
