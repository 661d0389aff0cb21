package project

import (
	"strings"
	"time"

	"github.com/frahmantamala/workspace-management/internal"
)

type CreateProjectDTO struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	BudgetCents int64      `json:"budget_cents"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

func (d *CreateProjectDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if d.BudgetCents < 0 {
		return internal.NewValidationError("budget cannot be negative", internal.ErrCodeValidationFailed)
	}
	if d.StartsAt != nil && d.EndsAt != nil && d.EndsAt.Before(*d.StartsAt) {
		return internal.NewValidationError("end date cannot be before start date", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateProjectDTO struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	BudgetCents int64      `json:"budget_cents"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

func (d *UpdateProjectDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if d.Status != "" && !ValidStatus(d.Status) {
		return internal.NewValidationError("unknown project status", internal.ErrCodeInvalidStatus)
	}
	if d.BudgetCents < 0 {
		return internal.NewValidationError("budget cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}
