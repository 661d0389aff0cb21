package authz_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/authz"
)

var _ = Describe("Workspace Session", func() {
	var (
		store *fakeMembershipStore
		ctx   context.Context
	)

	BeforeEach(func() {
		store = newFakeMembershipStore()
		ctx = context.Background()
	})

	Describe("BuildSession", func() {
		It("fails with Unauthorized for an anonymous principal without a store lookup", func() {
			_, err := authz.BuildSession(ctx, store, 0, 1)

			Expect(err).To(Equal(internal.ErrUnauthorized))
			Expect(store.lookups).To(BeZero())
		})

		It("fails for a principal with no membership", func() {
			_, err := authz.BuildSession(ctx, store, 7, 1)

			Expect(err).To(Equal(authz.ErrNotAMember))
		})

		It("resolves the membership role for a member", func() {
			store.grant(1, 7, authz.RoleAccountant)

			session, err := authz.BuildSession(ctx, store, 7, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(session.UserID).To(Equal(int64(7)))
			Expect(session.WorkspaceID).To(Equal(int64(1)))
			Expect(session.Role).To(Equal(authz.RoleAccountant))
		})
	})

	Describe("context round-trip", func() {
		It("stores and retrieves the session", func() {
			session := &authz.Session{UserID: 7, WorkspaceID: 1, Role: authz.RoleAdmin}

			got, ok := authz.SessionFromContext(authz.ContextWithSession(ctx, session))

			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(session))
		})

		It("reports absence on a bare context", func() {
			_, ok := authz.SessionFromContext(ctx)
			Expect(ok).To(BeFalse())
		})
	})
})
