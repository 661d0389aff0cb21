package authz

import "fmt"

type ResourceKind string

const (
	ResourceProject   ResourceKind = "project"
	ResourceInventory ResourceKind = "inventory"
	ResourceInvoice   ResourceKind = "invoice"
	ResourceWorkspace ResourceKind = "workspace"
)

type Action string

const (
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionAllocate      Action = "allocate"
	ActionSend          Action = "send"
	ActionManageMembers Action = "manage_members"
)

type matrixKey struct {
	Kind   ResourceKind
	Action Action
}

// permittedRoles is the authorization contract. It is data, not logic: adding an
// action means adding one entry here. Allow-sets are declared independently per
// action; nothing is inferred from one entry to another.
var permittedRoles = map[matrixKey][]Role{
	{ResourceProject, ActionCreate}: {RoleAdmin, RoleProjectManager},
	{ResourceProject, ActionUpdate}: {RoleAdmin, RoleProjectManager},
	{ResourceProject, ActionDelete}: {RoleAdmin},

	{ResourceInventory, ActionCreate}:   {RoleAdmin, RoleProjectManager},
	{ResourceInventory, ActionUpdate}:   {RoleAdmin, RoleProjectManager},
	{ResourceInventory, ActionDelete}:   {RoleAdmin},
	{ResourceInventory, ActionAllocate}: {RoleAdmin, RoleProjectManager},

	{ResourceInvoice, ActionCreate}: {RoleAdmin, RoleAccountant, RoleProjectManager},
	{ResourceInvoice, ActionUpdate}: {RoleAdmin, RoleAccountant, RoleProjectManager},
	{ResourceInvoice, ActionDelete}: {RoleAdmin},
	{ResourceInvoice, ActionSend}:   {RoleAdmin, RoleAccountant},

	{ResourceWorkspace, ActionUpdate}:        {RoleAdmin},
	{ResourceWorkspace, ActionDelete}:        {RoleAdmin},
	{ResourceWorkspace, ActionManageMembers}: {RoleAdmin},
}

// PermittedRoles returns the allow-set for a declared (kind, action) pair. Looking up
// an undeclared pair is a programming error and panics rather than silently denying
// or allowing.
func PermittedRoles(kind ResourceKind, action Action) []Role {
	roles, ok := permittedRoles[matrixKey{Kind: kind, Action: action}]
	if !ok {
		panic(fmt.Sprintf("authz: undeclared permission pair %s/%s", kind, action))
	}
	return roles
}

// Allowed reports whether role is in the allow-set for (kind, action).
func Allowed(role Role, kind ResourceKind, action Action) bool {
	for _, r := range PermittedRoles(kind, action) {
		if r == role {
			return true
		}
	}
	return false
}
