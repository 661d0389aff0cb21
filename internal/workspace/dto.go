package workspace

import (
	"regexp"
	"strings"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/authz"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreateWorkspaceDTO is the payload for creating a workspace.
type CreateWorkspaceDTO struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Currency string `json:"currency"`
}

func (d *CreateWorkspaceDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if d.Slug == "" {
		return internal.NewValidationError("slug is required", internal.ErrCodeValidationFailed)
	}
	if !slugPattern.MatchString(d.Slug) {
		return internal.NewValidationError("slug must be lowercase letters, digits and hyphens", internal.ErrCodeValidationFailed)
	}
	if d.Currency == "" {
		d.Currency = "USD"
	}
	if len(d.Currency) != 3 {
		return internal.NewValidationError("currency must be a 3-letter code", internal.ErrCodeValidationFailed)
	}
	d.Currency = strings.ToUpper(d.Currency)
	return nil
}

// UpdateWorkspaceDTO carries the mutable workspace attributes.
type UpdateWorkspaceDTO struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func (d *UpdateWorkspaceDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if d.Currency != "" && len(d.Currency) != 3 {
		return internal.NewValidationError("currency must be a 3-letter code", internal.ErrCodeValidationFailed)
	}
	d.Currency = strings.ToUpper(d.Currency)
	return nil
}

// AddMemberDTO invites an existing user into the workspace by email.
type AddMemberDTO struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (d AddMemberDTO) Validate() error {
	if d.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if !authz.Role(d.Role).IsValid() {
		return internal.NewValidationError("unknown role", internal.ErrCodeInvalidRole)
	}
	return nil
}

// ChangeRoleDTO updates a member's role.
type ChangeRoleDTO struct {
	Role string `json:"role"`
}

func (d ChangeRoleDTO) Validate() error {
	if !authz.Role(d.Role).IsValid() {
		return internal.NewValidationError("unknown role", internal.ErrCodeInvalidRole)
	}
	return nil
}
