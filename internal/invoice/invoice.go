package invoice

import "time"

const (
	StatusDraft = "draft"
	StatusSent  = "sent"
	StatusPaid  = "paid"
	StatusVoid  = "void"
)

// Invoice is a tenant-scoped billing document. Status only moves forward:
// draft -> sent -> paid, or any non-paid state -> void.
type Invoice struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	WorkspaceID   int64      `json:"workspace_id" gorm:"column:workspace_id;index;not null"`
	ProjectID     *int64     `json:"project_id,omitempty" gorm:"column:project_id"`
	Number        string     `json:"number" gorm:"not null"`
	Status        string     `json:"status" gorm:"not null;default:draft"`
	AmountCents   int64      `json:"amount_cents" gorm:"column:amount_cents;not null"`
	Currency      string     `json:"currency" gorm:"not null"`
	CustomerName  string     `json:"customer_name" gorm:"column:customer_name;not null"`
	CustomerEmail string     `json:"customer_email" gorm:"column:customer_email"`
	DueAt         *time.Time `json:"due_at,omitempty" gorm:"column:due_at"`
	SentAt        *time.Time `json:"sent_at,omitempty" gorm:"column:sent_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty" gorm:"column:paid_at"`
	CreatedBy     int64      `json:"created_by" gorm:"column:created_by;not null"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}
