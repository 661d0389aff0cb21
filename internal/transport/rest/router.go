package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/workspace-management/internal/auth"
	"github.com/frahmantamala/workspace-management/internal/authz"
	"github.com/frahmantamala/workspace-management/internal/inventory"
	"github.com/frahmantamala/workspace-management/internal/invoice"
	"github.com/frahmantamala/workspace-management/internal/project"
	"github.com/frahmantamala/workspace-management/internal/transport/middleware"
	"github.com/frahmantamala/workspace-management/internal/transport/swagger"
	"github.com/frahmantamala/workspace-management/internal/user"
	"github.com/frahmantamala/workspace-management/internal/workspace"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *auth.Handler
	User      *user.Handler
	Workspace *workspace.Handler
	Project   *project.Handler
	Inventory *inventory.Handler
	Invoice   *invoice.Handler
}

// RegisterAllRoutes wires the full route tree. Everything under
// /workspaces/{workspaceID} sits behind the auth middleware and the workspace
// session middleware, in that order; no workspace-scoped handler runs without a
// resolved session.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, membershipStore authz.MembershipStore, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", healthHandler.pingHandler)
		r.Get("/health", healthHandler.healthCheckHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Post("/users/register", h.User.Register)

		// Everything below requires an authenticated principal.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetProfile)
			pr.Patch("/users/me", h.User.UpdateProfile)
			pr.Delete("/users/me", h.User.DeleteAccount)

			pr.Post("/workspaces", h.Workspace.Create)
			pr.Get("/workspaces", h.Workspace.List)

			pr.Route("/workspaces/{workspaceID}", func(wr chi.Router) {
				wr.Use(middleware.WorkspaceSession(membershipStore, logger))

				wr.Get("/", h.Workspace.Get)
				wr.Put("/", h.Workspace.Update)
				wr.Delete("/", h.Workspace.Delete)

				wr.Route("/members", func(mr chi.Router) {
					mr.Get("/", h.Workspace.ListMembers)
					mr.Post("/", h.Workspace.AddMember)
					mr.Patch("/{userID}", h.Workspace.ChangeMemberRole)
					mr.Delete("/{userID}", h.Workspace.RemoveMember)
				})

				wr.Route("/projects", func(prj chi.Router) {
					prj.Post("/", h.Project.Create)
					prj.Get("/", h.Project.List)
					prj.Get("/{projectID}", h.Project.Get)
					prj.Put("/{projectID}", h.Project.Update)
					prj.Delete("/{projectID}", h.Project.Delete)
				})

				wr.Route("/inventory", func(ir chi.Router) {
					ir.Post("/", h.Inventory.Create)
					ir.Get("/", h.Inventory.List)
					ir.Get("/{itemID}", h.Inventory.Get)
					ir.Put("/{itemID}", h.Inventory.Update)
					ir.Delete("/{itemID}", h.Inventory.Delete)
					ir.Post("/{itemID}/allocate", h.Inventory.Allocate)
					ir.Get("/{itemID}/allocations", h.Inventory.ListAllocations)
				})

				wr.Route("/invoices", func(ivr chi.Router) {
					ivr.Post("/", h.Invoice.Create)
					ivr.Get("/", h.Invoice.List)
					ivr.Get("/{invoiceID}", h.Invoice.Get)
					ivr.Put("/{invoiceID}", h.Invoice.Update)
					ivr.Delete("/{invoiceID}", h.Invoice.Delete)
					ivr.Post("/{invoiceID}/send", h.Invoice.Send)
					ivr.Post("/{invoiceID}/pay", h.Invoice.MarkPaid)
				})
			})
		})
	})
}
