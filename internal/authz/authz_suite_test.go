package authz_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workspace-management/internal/authz"
)

func TestAuthz(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Authz Suite")
}

// fakeMembershipStore is an in-memory membership store with lookup counting so tests
// can assert that denied paths never reach persistence.
type fakeMembershipStore struct {
	memberships map[[2]int64]authz.Role // (workspaceID, userID) -> role
	lookups     int
	err         error
}

func newFakeMembershipStore() *fakeMembershipStore {
	return &fakeMembershipStore{memberships: make(map[[2]int64]authz.Role)}
}

func (s *fakeMembershipStore) grant(workspaceID, userID int64, role authz.Role) {
	s.memberships[[2]int64{workspaceID, userID}] = role
}

func (s *fakeMembershipStore) revoke(workspaceID, userID int64) {
	delete(s.memberships, [2]int64{workspaceID, userID})
}

func (s *fakeMembershipStore) Membership(_ context.Context, workspaceID, userID int64) (*authz.Membership, error) {
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	role, ok := s.memberships[[2]int64{workspaceID, userID}]
	if !ok {
		return nil, authz.ErrNoMembership
	}
	return &authz.Membership{WorkspaceID: workspaceID, UserID: userID, Role: role}, nil
}
