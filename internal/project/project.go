package project

import "time"

const (
	StatusActive   = "active"
	StatusOnHold   = "on_hold"
	StatusArchived = "archived"
)

// Project is a tenant-scoped resource. WorkspaceID is set at creation and never
// changes; every read and mutation filters on it together with the project id.
type Project struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	WorkspaceID int64      `json:"workspace_id" gorm:"column:workspace_id;index;not null"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	Status      string     `json:"status" gorm:"not null;default:active"`
	BudgetCents int64      `json:"budget_cents" gorm:"column:budget_cents"`
	StartsAt    *time.Time `json:"starts_at,omitempty" gorm:"column:starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty" gorm:"column:ends_at"`
	CreatedBy   int64      `json:"created_by" gorm:"column:created_by;not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusOnHold, StatusArchived:
		return true
	}
	return false
}
