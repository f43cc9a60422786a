package dto

type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

type UserDTO struct {
	ID     uint   `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Locale string `json:"locale,omitempty"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type CourseDTO struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	TestID     *uint  `json:"test_id,omitempty"`
	TestCode   string `json:"test_code,omitempty"`
	BaseLocale string `json:"base_locale"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
