package project

import (
	"context"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/authz"
)

func TestProject(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Project Module Suite")
}

type fakeMembershipStore struct {
	memberships map[[2]int64]authz.Role
}

func (f *fakeMembershipStore) Membership(_ context.Context, workspaceID, userID int64) (*authz.Membership, error) {
	role, ok := f.memberships[[2]int64{workspaceID, userID}]
	if !ok {
		return nil, authz.ErrNoMembership
	}
	return &authz.Membership{WorkspaceID: workspaceID, UserID: userID, Role: role}, nil
}

// Mock repository keyed strictly by (workspace, id); a lookup with the wrong
// workspace misses, mirroring the compound filter in the real repository.
type mockRepository struct {
	projects map[int64]*Project
	nextID   int64

	createCalls int
	updateCalls int
	deleteCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{projects: make(map[int64]*Project), nextID: 1}
}

func (m *mockRepository) Create(_ context.Context, p *Project) error {
	m.createCalls++
	p.ID = m.nextID
	m.nextID++
	m.projects[p.ID] = p
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, workspaceID, id int64) (*Project, error) {
	p, ok := m.projects[id]
	if !ok || p.WorkspaceID != workspaceID {
		return nil, internal.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *mockRepository) List(_ context.Context, workspaceID int64) ([]*Project, error) {
	var out []*Project
	for _, p := range m.projects {
		if p.WorkspaceID == workspaceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepository) Update(_ context.Context, p *Project) error {
	m.updateCalls++
	existing, ok := m.projects[p.ID]
	if !ok || existing.WorkspaceID != p.WorkspaceID {
		return internal.ErrProjectNotFound
	}
	m.projects[p.ID] = p
	return nil
}

func (m *mockRepository) Delete(_ context.Context, workspaceID, id int64) error {
	m.deleteCalls++
	p, ok := m.projects[id]
	if !ok || p.WorkspaceID != workspaceID {
		return internal.ErrProjectNotFound
	}
	delete(m.projects, id)
	return nil
}

var _ = ginkgo.Describe("Project Service", func() {
	var (
		repo    *mockRepository
		service *Service
		ctx     context.Context
	)

	const (
		wsAlpha int64 = 10
		wsBeta  int64 = 20

		adminID   int64 = 1
		managerID int64 = 2
		memberID  int64 = 3
	)

	sessionFor := func(userID, workspaceID int64, role authz.Role) *authz.Session {
		return &authz.Session{UserID: userID, WorkspaceID: workspaceID, Role: role}
	}

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		store := &fakeMembershipStore{memberships: map[[2]int64]authz.Role{
			{wsAlpha, adminID}:   authz.RoleAdmin,
			{wsAlpha, managerID}: authz.RoleProjectManager,
			{wsAlpha, memberID}:  authz.RoleMember,
			{wsBeta, adminID}:    authz.RoleAdmin,
		}}
		gate := authz.NewGate(authz.NewEvaluator(store), slog.Default())
		service = NewService(repo, gate, slog.Default())
		ctx = context.Background()
	})

	ginkgo.Describe("CreateProject", func() {
		ginkgo.It("lets a project manager create a project in their workspace", func() {
			p, err := service.CreateProject(ctx, sessionFor(managerID, wsAlpha, authz.RoleProjectManager), CreateProjectDTO{
				Name: "Apollo",
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(p.WorkspaceID).To(gomega.Equal(wsAlpha))
			gomega.Expect(p.Status).To(gomega.Equal(StatusActive))
			gomega.Expect(p.CreatedBy).To(gomega.Equal(managerID))
		})

		ginkgo.It("denies a plain member without touching storage", func() {
			_, err := service.CreateProject(ctx, sessionFor(memberID, wsAlpha, authz.RoleMember), CreateProjectDTO{
				Name: "Apollo",
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrPermissionDenied))
			gomega.Expect(repo.createCalls).To(gomega.BeZero())
		})

		ginkgo.It("validates before evaluating permissions", func() {
			_, err := service.CreateProject(ctx, sessionFor(managerID, wsAlpha, authz.RoleProjectManager), CreateProjectDTO{})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})
	})

	ginkgo.Describe("UpdateProject", func() {
		var apolloID int64

		ginkgo.BeforeEach(func() {
			p, err := service.CreateProject(ctx, sessionFor(managerID, wsAlpha, authz.RoleProjectManager), CreateProjectDTO{Name: "Apollo"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			apolloID = p.ID
		})

		ginkgo.It("lets the same project manager update the project", func() {
			p, err := service.UpdateProject(ctx, sessionFor(managerID, wsAlpha, authz.RoleProjectManager), apolloID, UpdateProjectDTO{
				Name:   "Apollo II",
				Status: StatusOnHold,
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(p.Name).To(gomega.Equal("Apollo II"))
			gomega.Expect(p.Status).To(gomega.Equal(StatusOnHold))
		})

		ginkgo.It("resolves a project from another workspace to NotFound, not Forbidden", func() {
			// adminID is a legitimate admin of wsBeta; the project lives in wsAlpha.
			_, err := service.UpdateProject(ctx, sessionFor(adminID, wsBeta, authz.RoleAdmin), apolloID, UpdateProjectDTO{
				Name: "Hijacked",
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrProjectNotFound))
		})

		ginkgo.It("rejects an unknown status", func() {
			_, err := service.UpdateProject(ctx, sessionFor(managerID, wsAlpha, authz.RoleProjectManager), apolloID, UpdateProjectDTO{
				Name:   "Apollo",
				Status: "paused",
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidStatus))
		})
	})

	ginkgo.Describe("DeleteProject", func() {
		var apolloID int64

		ginkgo.BeforeEach(func() {
			p, err := service.CreateProject(ctx, sessionFor(managerID, wsAlpha, authz.RoleProjectManager), CreateProjectDTO{Name: "Apollo"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			apolloID = p.ID
		})

		ginkgo.It("denies deletion to the project manager who created it", func() {
			err := service.DeleteProject(ctx, sessionFor(managerID, wsAlpha, authz.RoleProjectManager), apolloID)

			gomega.Expect(err).To(gomega.Equal(internal.ErrPermissionDenied))
			gomega.Expect(repo.deleteCalls).To(gomega.BeZero())
		})

		ginkgo.It("allows deletion to an admin", func() {
			err := service.DeleteProject(ctx, sessionFor(adminID, wsAlpha, authz.RoleAdmin), apolloID)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.projects).NotTo(gomega.HaveKey(apolloID))
		})
	})

	ginkgo.Describe("reads", func() {
		ginkgo.It("lists only the session workspace's projects", func() {
			_, err := service.CreateProject(ctx, sessionFor(managerID, wsAlpha, authz.RoleProjectManager), CreateProjectDTO{Name: "Alpha Project"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			_, err = service.CreateProject(ctx, sessionFor(adminID, wsBeta, authz.RoleAdmin), CreateProjectDTO{Name: "Beta Project"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			projects, err := service.ListProjects(ctx, sessionFor(memberID, wsAlpha, authz.RoleMember))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(projects).To(gomega.HaveLen(1))
			gomega.Expect(projects[0].Name).To(gomega.Equal("Alpha Project"))
		})

		ginkgo.It("collapses a cross-workspace read to NotFound", func() {
			p, err := service.CreateProject(ctx, sessionFor(managerID, wsAlpha, authz.RoleProjectManager), CreateProjectDTO{Name: "Alpha Project"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.GetProject(ctx, sessionFor(adminID, wsBeta, authz.RoleAdmin), p.ID)
			gomega.Expect(err).To(gomega.Equal(internal.ErrProjectNotFound))
		})
	})
})
