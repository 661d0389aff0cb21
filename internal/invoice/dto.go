package invoice

import (
	"strings"
	"time"

	"github.com/frahmantamala/workspace-management/internal"
)

type CreateInvoiceDTO struct {
	ProjectID     *int64     `json:"project_id"`
	Number        string     `json:"number"`
	AmountCents   int64      `json:"amount_cents"`
	Currency      string     `json:"currency"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	DueAt         *time.Time `json:"due_at"`
}

func (d *CreateInvoiceDTO) Validate() error {
	if strings.TrimSpace(d.Number) == "" {
		return internal.NewValidationError("invoice number is required", internal.ErrCodeValidationFailed)
	}
	if d.AmountCents <= 0 {
		return internal.NewValidationError("amount must be positive", internal.ErrCodeValidationFailed)
	}
	if len(d.Currency) != 3 {
		return internal.NewValidationError("currency must be a 3-letter code", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(d.CustomerName) == "" {
		return internal.NewValidationError("customer name is required", internal.ErrCodeValidationFailed)
	}
	d.Currency = strings.ToUpper(d.Currency)
	return nil
}

type UpdateInvoiceDTO struct {
	AmountCents   int64      `json:"amount_cents"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	DueAt         *time.Time `json:"due_at"`
}

func (d *UpdateInvoiceDTO) Validate() error {
	if d.AmountCents <= 0 {
		return internal.NewValidationError("amount must be positive", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(d.CustomerName) == "" {
		return internal.NewValidationError("customer name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
