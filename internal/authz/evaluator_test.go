package authz_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workspace-management/internal/authz"
)

var _ = Describe("Permission Evaluator", func() {
	var (
		store     *fakeMembershipStore
		evaluator *authz.Evaluator
		ctx       context.Context
	)

	BeforeEach(func() {
		store = newFakeMembershipStore()
		evaluator = authz.NewEvaluator(store)
		ctx = context.Background()
	})

	Describe("non-members", func() {
		It("denies every resource and action for a user without a membership", func() {
			for _, entry := range declaredMatrix {
				decision, err := evaluator.Evaluate(ctx, 7, 1, entry.kind, entry.action)
				Expect(err).NotTo(HaveOccurred())
				Expect(decision.Allowed).To(BeFalse())
				Expect(decision.Role).To(BeEmpty())
			}
		})

		It("is indistinguishable from a workspace that does not exist", func() {
			store.grant(1, 7, authz.RoleAdmin)

			missingWorkspace, err := evaluator.Evaluate(ctx, 7, 999, authz.ResourceProject, authz.ActionDelete)
			Expect(err).NotTo(HaveOccurred())

			missingMembership, err := evaluator.Evaluate(ctx, 8, 1, authz.ResourceProject, authz.ActionDelete)
			Expect(err).NotTo(HaveOccurred())

			Expect(missingWorkspace).To(Equal(missingMembership))
		})
	})

	Describe("members", func() {
		It("allows exactly the matrix allow-set for every role", func() {
			for i, role := range authz.Roles() {
				userID := int64(100 + i)
				store.grant(1, userID, role)

				for _, entry := range declaredMatrix {
					decision, err := evaluator.Evaluate(ctx, userID, 1, entry.kind, entry.action)
					Expect(err).NotTo(HaveOccurred())
					Expect(decision.Role).To(Equal(role))
					Expect(decision.Allowed).To(Equal(authz.Allowed(role, entry.kind, entry.action)),
						"role %s on %s/%s", role, entry.kind, entry.action)
				}
			}
		})

		It("scopes membership to the workspace it was granted in", func() {
			store.grant(1, 7, authz.RoleAdmin)

			decision, err := evaluator.Evaluate(ctx, 7, 2, authz.ResourceProject, authz.ActionDelete)
			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Allowed).To(BeFalse())
		})
	})

	Describe("idempotence", func() {
		It("returns the same decision for repeated unchanged evaluations", func() {
			store.grant(1, 7, authz.RoleAccountant)

			first, err := evaluator.Evaluate(ctx, 7, 1, authz.ResourceInvoice, authz.ActionSend)
			Expect(err).NotTo(HaveOccurred())
			second, err := evaluator.Evaluate(ctx, 7, 1, authz.ResourceInvoice, authz.ActionSend)
			Expect(err).NotTo(HaveOccurred())

			Expect(first).To(Equal(second))
		})

		It("performs exactly one membership read per call", func() {
			store.grant(1, 7, authz.RoleMember)

			_, err := evaluator.Evaluate(ctx, 7, 1, authz.ResourceProject, authz.ActionCreate)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.lookups).To(Equal(1))
		})
	})

	Describe("immediate effect", func() {
		It("reflects a role change on the very next evaluation", func() {
			store.grant(1, 7, authz.RoleProjectManager)

			decision, err := evaluator.Evaluate(ctx, 7, 1, authz.ResourceInvoice, authz.ActionSend)
			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Allowed).To(BeFalse())

			store.grant(1, 7, authz.RoleAccountant)

			decision, err = evaluator.Evaluate(ctx, 7, 1, authz.ResourceInvoice, authz.ActionSend)
			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Allowed).To(BeTrue())
			Expect(decision.Role).To(Equal(authz.RoleAccountant))
		})

		It("reflects a removal on the very next evaluation", func() {
			store.grant(1, 7, authz.RoleAdmin)

			decision, err := evaluator.Evaluate(ctx, 7, 1, authz.ResourceWorkspace, authz.ActionDelete)
			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Allowed).To(BeTrue())

			store.revoke(1, 7)

			decision, err = evaluator.Evaluate(ctx, 7, 1, authz.ResourceWorkspace, authz.ActionDelete)
			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Allowed).To(BeFalse())
		})
	})

	Describe("store failures", func() {
		It("surfaces failures other than a missing membership", func() {
			store.err = errors.New("connection reset")

			_, err := evaluator.Evaluate(ctx, 7, 1, authz.ResourceProject, authz.ActionCreate)
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
		})
	})
})
