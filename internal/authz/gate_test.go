package authz_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/authz"
)

var _ = Describe("Scoped Operation Gate", func() {
	var (
		store   *fakeMembershipStore
		gate    *authz.Gate
		ctx     context.Context
		opCalls int
		opErr   error
		op      authz.Op
	)

	BeforeEach(func() {
		store = newFakeMembershipStore()
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		gate = authz.NewGate(authz.NewEvaluator(store), logger)
		ctx = context.Background()
		opCalls = 0
		opErr = nil
		op = func(context.Context) error {
			opCalls++
			return opErr
		}
	})

	Describe("anonymous callers", func() {
		It("fails with Unauthorized before touching the evaluator or persistence", func() {
			err := gate.Perform(ctx, 0, 1, authz.ResourceProject, authz.ActionCreate, op)

			Expect(err).To(Equal(internal.ErrUnauthorized))
			Expect(opCalls).To(BeZero())
			Expect(store.lookups).To(BeZero())
		})
	})

	Describe("denied callers", func() {
		It("fails with Permission denied and runs nothing for a non-member", func() {
			err := gate.Perform(ctx, 7, 1, authz.ResourceProject, authz.ActionCreate, op)

			Expect(err).To(Equal(internal.ErrPermissionDenied))
			Expect(opCalls).To(BeZero())
		})

		It("fails identically when the role lacks the action", func() {
			store.grant(1, 7, authz.RoleMember)

			err := gate.Perform(ctx, 7, 1, authz.ResourceProject, authz.ActionCreate, op)

			Expect(err).To(Equal(internal.ErrPermissionDenied))
			Expect(opCalls).To(BeZero())
		})

		It("denies a project manager sending an invoice", func() {
			store.grant(1, 7, authz.RoleProjectManager)

			err := gate.Perform(ctx, 7, 1, authz.ResourceInvoice, authz.ActionSend, op)

			Expect(err).To(Equal(internal.ErrPermissionDenied))
			Expect(opCalls).To(BeZero())
		})
	})

	Describe("allowed callers", func() {
		BeforeEach(func() {
			store.grant(1, 7, authz.RoleAdmin)
		})

		It("runs the operation exactly once", func() {
			err := gate.Perform(ctx, 7, 1, authz.ResourceProject, authz.ActionDelete, op)

			Expect(err).NotTo(HaveOccurred())
			Expect(opCalls).To(Equal(1))
		})

		It("passes a typed operation failure through unchanged", func() {
			opErr = internal.ErrProjectNotFound

			err := gate.Perform(ctx, 7, 1, authz.ResourceProject, authz.ActionDelete, op)

			Expect(err).To(Equal(internal.ErrProjectNotFound))
		})

		It("strips storage detail from an untyped operation failure", func() {
			opErr = errors.New("pq: deadlock detected on relation projects")

			err := gate.Perform(ctx, 7, 1, authz.ResourceProject, authz.ActionDelete, op)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeStorage))
			Expect(appErr.Message).NotTo(ContainSubstring("deadlock"))
			Expect(appErr.Cause).To(MatchError(ContainSubstring("deadlock")))
		})

		It("propagates a cancelled persistence call as a typed failure", func() {
			opErr = context.Canceled

			err := gate.Perform(ctx, 7, 1, authz.ResourceProject, authz.ActionDelete, op)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeStorage))
		})
	})

	Describe("evaluator failures", func() {
		It("reports a storage failure, not a denial", func() {
			store.err = errors.New("membership query timeout")

			err := gate.Perform(ctx, 7, 1, authz.ResourceProject, authz.ActionCreate, op)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeStorage))
			Expect(opCalls).To(BeZero())
		})
	})
})
