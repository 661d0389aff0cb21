package inventory

import (
	"strings"

	"github.com/frahmantamala/workspace-management/internal"
)

type CreateItemDTO struct {
	Name              string `json:"name"`
	SKU               string `json:"sku"`
	QuantityAvailable int64  `json:"quantity_available"`
	UnitCostCents     int64  `json:"unit_cost_cents"`
}

func (d *CreateItemDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if d.QuantityAvailable < 0 {
		return internal.NewValidationError("quantity cannot be negative", internal.ErrCodeValidationFailed)
	}
	if d.UnitCostCents < 0 {
		return internal.NewValidationError("unit cost cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateItemDTO struct {
	Name              string `json:"name"`
	SKU               string `json:"sku"`
	QuantityAvailable int64  `json:"quantity_available"`
	UnitCostCents     int64  `json:"unit_cost_cents"`
}

func (d *UpdateItemDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if d.QuantityAvailable < 0 {
		return internal.NewValidationError("quantity cannot be negative", internal.ErrCodeValidationFailed)
	}
	if d.UnitCostCents < 0 {
		return internal.NewValidationError("unit cost cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AllocateDTO struct {
	ProjectID int64 `json:"project_id"`
	Quantity  int64 `json:"quantity"`
}

func (d AllocateDTO) Validate() error {
	if d.ProjectID == 0 {
		return internal.NewValidationError("project_id is required", internal.ErrCodeValidationFailed)
	}
	if d.Quantity <= 0 {
		return internal.NewValidationError("quantity must be positive", internal.ErrCodeValidationFailed)
	}
	return nil
}
