package inventory

import "time"

// Item is a stocked resource scoped to a workspace. QuantityAvailable only moves
// through guarded statements; it never goes negative.
type Item struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	WorkspaceID       int64     `json:"workspace_id" gorm:"column:workspace_id;index;not null"`
	Name              string    `json:"name" gorm:"not null"`
	SKU               string    `json:"sku" gorm:"column:sku"`
	QuantityAvailable int64     `json:"quantity_available" gorm:"column:quantity_available;not null;default:0"`
	UnitCostCents     int64     `json:"unit_cost_cents" gorm:"column:unit_cost_cents"`
	CreatedBy         int64     `json:"created_by" gorm:"column:created_by;not null"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Item) TableName() string {
	return "inventory_items"
}

// Allocation records stock reserved for a project. The row and the stock decrement
// commit in the same transaction.
type Allocation struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	WorkspaceID int64     `json:"workspace_id" gorm:"column:workspace_id;index;not null"`
	ItemID      int64     `json:"item_id" gorm:"column:item_id;not null"`
	ProjectID   int64     `json:"project_id" gorm:"column:project_id;not null"`
	Quantity    int64     `json:"quantity" gorm:"not null"`
	AllocatedBy int64     `json:"allocated_by" gorm:"column:allocated_by;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Allocation) TableName() string {
	return "inventory_allocations"
}
