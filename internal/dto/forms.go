package dto

import "github.com/noah-isme/sma-syllabus-api/internal/models"

// UserFormResponse carries the role choices for the user forms.
type UserFormResponse struct {
	Roles []models.UserRole `json:"roles"`
	User  *models.User      `json:"user,omitempty"`
}

// OptionsResponse carries the option lists a create form needs.
type OptionsResponse map[string][]models.Option
