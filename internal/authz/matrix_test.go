package authz_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workspace-management/internal/authz"
)

// declaredMatrix mirrors the authorization contract verbatim so the code under test
// is checked against an independent copy of the table.
var declaredMatrix = []struct {
	kind    authz.ResourceKind
	action  authz.Action
	allowed []authz.Role
}{
	{authz.ResourceProject, authz.ActionCreate, []authz.Role{authz.RoleAdmin, authz.RoleProjectManager}},
	{authz.ResourceProject, authz.ActionUpdate, []authz.Role{authz.RoleAdmin, authz.RoleProjectManager}},
	{authz.ResourceProject, authz.ActionDelete, []authz.Role{authz.RoleAdmin}},
	{authz.ResourceInventory, authz.ActionCreate, []authz.Role{authz.RoleAdmin, authz.RoleProjectManager}},
	{authz.ResourceInventory, authz.ActionUpdate, []authz.Role{authz.RoleAdmin, authz.RoleProjectManager}},
	{authz.ResourceInventory, authz.ActionDelete, []authz.Role{authz.RoleAdmin}},
	{authz.ResourceInventory, authz.ActionAllocate, []authz.Role{authz.RoleAdmin, authz.RoleProjectManager}},
	{authz.ResourceInvoice, authz.ActionCreate, []authz.Role{authz.RoleAdmin, authz.RoleAccountant, authz.RoleProjectManager}},
	{authz.ResourceInvoice, authz.ActionUpdate, []authz.Role{authz.RoleAdmin, authz.RoleAccountant, authz.RoleProjectManager}},
	{authz.ResourceInvoice, authz.ActionDelete, []authz.Role{authz.RoleAdmin}},
	{authz.ResourceInvoice, authz.ActionSend, []authz.Role{authz.RoleAdmin, authz.RoleAccountant}},
	{authz.ResourceWorkspace, authz.ActionUpdate, []authz.Role{authz.RoleAdmin}},
	{authz.ResourceWorkspace, authz.ActionDelete, []authz.Role{authz.RoleAdmin}},
	{authz.ResourceWorkspace, authz.ActionManageMembers, []authz.Role{authz.RoleAdmin}},
}

var _ = Describe("Role Matrix", func() {
	Describe("PermittedRoles", func() {
		It("matches the declared contract for every pair", func() {
			for _, entry := range declaredMatrix {
				Expect(authz.PermittedRoles(entry.kind, entry.action)).To(
					ConsistOf(entry.allowed),
					"pair %s/%s", entry.kind, entry.action)
			}
		})

		It("panics on an undeclared pair", func() {
			Expect(func() {
				authz.PermittedRoles(authz.ResourceWorkspace, authz.ActionCreate)
			}).To(Panic())
		})

		It("panics on an unknown resource kind", func() {
			Expect(func() {
				authz.PermittedRoles(authz.ResourceKind("report"), authz.ActionCreate)
			}).To(Panic())
		})
	})

	Describe("Allowed", func() {
		It("allows exactly the declared roles for every pair", func() {
			for _, entry := range declaredMatrix {
				for _, role := range authz.Roles() {
					expected := false
					for _, allowed := range entry.allowed {
						if allowed == role {
							expected = true
						}
					}
					Expect(authz.Allowed(role, entry.kind, entry.action)).To(
						Equal(expected),
						"role %s on %s/%s", role, entry.kind, entry.action)
				}
			}
		})

		It("never allows MEMBER any declared mutation", func() {
			for _, entry := range declaredMatrix {
				Expect(authz.Allowed(authz.RoleMember, entry.kind, entry.action)).To(BeFalse())
			}
		})
	})

	Describe("Role", func() {
		It("validates only the closed role set", func() {
			for _, role := range authz.Roles() {
				Expect(role.IsValid()).To(BeTrue())
			}
			Expect(authz.Role("SUPERUSER").IsValid()).To(BeFalse())
			Expect(authz.Role("").IsValid()).To(BeFalse())
		})
	})
})
