package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/helpdesk-console/internal/asset"
	"github.com/frahmantamala/helpdesk-console/internal/audit"
	"github.com/frahmantamala/helpdesk-console/internal/auth"
	"github.com/frahmantamala/helpdesk-console/internal/itam"
	"github.com/frahmantamala/helpdesk-console/internal/kb"
	"github.com/frahmantamala/helpdesk-console/internal/monitoring"
	"github.com/frahmantamala/helpdesk-console/internal/realtime"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/srm"
	"github.com/frahmantamala/helpdesk-console/internal/stats"
	"github.com/frahmantamala/helpdesk-console/internal/sysupdate"
	"github.com/frahmantamala/helpdesk-console/internal/ticket"
	"github.com/frahmantamala/helpdesk-console/internal/transport/middleware"
	"github.com/frahmantamala/helpdesk-console/internal/transport/swagger"
	"github.com/frahmantamala/helpdesk-console/internal/user"
)

// Handlers is every HTTP handler the router mounts. A nil handler leaves
// its routes unregistered.
type Handlers struct {
	Health        *HealthHandler
	Auth          *auth.Handler
	User          *user.Handler
	Asset         *asset.Handler
	ITAM          *itam.Handler
	Ticket        *ticket.Handler
	SRM           *srm.Handler
	KB            *kb.Handler
	Confirmations *resource.ConfirmationHandler
	Stats         *stats.Handler
	Audit         *audit.Handler
	Updates       *sysupdate.Handler
	Monitoring    *monitoring.Handler
	Realtime      *realtime.Hub
}

type RouterOptions struct {
	Origins []string
	// Contract is the OpenAPI document served at /openapi.yml.
	Contract []byte
	// Validator, when set, checks /api/v1 requests against the contract.
	Validator func(http.Handler) http.Handler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) {
	router.Use(middleware.CORS(opts.Origins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if opts.Contract != nil {
		router.Get("/openapi.yml", swagger.ContractHandler(opts.Contract))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Check)
			r.Get("/ping", h.Health.Ping)
		}
		if h.Auth == nil {
			return
		}

		// The websocket handshake is not part of the JSON contract.
		if h.Realtime != nil {
			r.With(h.Auth.AuthMiddleware).Get("/ws", h.Realtime.ServeWS)
		}

		r.Group(func(vr chi.Router) {
			if opts.Validator != nil {
				vr.Use(opts.Validator)
			}
			vr.Post("/auth/login", h.Auth.Login)

			vr.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				mountResources(pr, h)
			})
		})
	})
}

func mountResources(pr chi.Router, h Handlers) {
	if h.User != nil {
		pr.Get("/users/me", h.User.GetCurrentUser)
		pr.Get("/users", h.User.ListUsers)
	}

	if h.Asset != nil {
		pr.Route("/assets", func(ar chi.Router) {
			ar.Get("/", h.Asset.ListAssets)
			ar.Post("/", h.Asset.CreateAsset)
			ar.Get("/{id}", h.Asset.GetAsset)
			ar.Put("/{id}", h.Asset.UpdateAsset)
			ar.Delete("/{id}", h.Asset.DeleteAsset)
			ar.Get("/{id}/detail", h.Asset.GetAssetDetail)
		})
	}

	if h.ITAM != nil {
		pr.Route("/itam/assets", func(ir chi.Router) {
			ir.Get("/", h.ITAM.ListITAMAssets)
			ir.Post("/", h.ITAM.CreateITAMAsset)
			ir.Get("/{id}", h.ITAM.GetITAMAsset)
			ir.Put("/{id}", h.ITAM.UpdateITAMAsset)
			ir.Delete("/{id}", h.ITAM.DeleteITAMAsset)
			ir.Get("/{id}/detail", h.ITAM.GetITAMAssetDetail)
			ir.Post("/{id}/actions/{action}", h.ITAM.ActITAMAsset)
		})
	}

	if h.Ticket != nil {
		pr.Route("/tickets", func(tr chi.Router) {
			tr.Get("/", h.Ticket.ListTickets)
			tr.Post("/", h.Ticket.CreateTicket)
			tr.Post("/bulk", h.Ticket.BulkUpdateTickets)
			tr.Post("/bulk/delete", h.Ticket.BulkDeleteTickets)
			tr.Get("/{id}", h.Ticket.GetTicket)
			tr.Put("/{id}", h.Ticket.UpdateTicket)
			tr.Delete("/{id}", h.Ticket.DeleteTicket)
			tr.Get("/{id}/detail", h.Ticket.GetTicketDetail)
		})
	}

	if h.SRM != nil {
		pr.Route("/srm/requests", func(sr chi.Router) {
			sr.Get("/", h.SRM.ListRequests)
			sr.Post("/", h.SRM.CreateRequest)
			sr.Get("/{id}", h.SRM.GetRequest)
			sr.Put("/{id}", h.SRM.UpdateRequest)
			sr.Delete("/{id}", h.SRM.DeleteRequest)
			sr.Get("/{id}/detail", h.SRM.GetRequestDetail)
			sr.Post("/{id}/actions/{action}", h.SRM.ActRequest)
		})
		pr.Route("/srm/changes", func(cr chi.Router) {
			cr.Get("/", h.SRM.ListChanges)
			cr.Post("/", h.SRM.CreateChange)
			cr.Get("/{id}", h.SRM.GetChange)
			cr.Put("/{id}", h.SRM.UpdateChange)
			cr.Delete("/{id}", h.SRM.DeleteChange)
			cr.Get("/{id}/detail", h.SRM.GetChangeDetail)
			cr.Post("/{id}/actions/{action}", h.SRM.ActChange)
		})
	}

	if h.KB != nil {
		pr.Route("/kb/articles", func(kr chi.Router) {
			kr.Get("/", h.KB.ListArticles)
			kr.Post("/", h.KB.CreateArticle)
			kr.Get("/{id}", h.KB.GetArticle)
			kr.Put("/{id}", h.KB.UpdateArticle)
			kr.Delete("/{id}", h.KB.DeleteArticle)
			kr.Get("/{id}/detail", h.KB.GetArticleDetail)
			kr.Post("/{id}/actions/{action}", h.KB.ActArticle)
			kr.Post("/{id}/view", h.KB.ViewArticle)
			kr.Post("/{id}/helpful", h.KB.HelpfulArticle)
		})
	}

	if h.Confirmations != nil {
		pr.Route("/confirmations/{token}", func(cr chi.Router) {
			cr.Get("/", h.Confirmations.GetConfirmation)
			cr.Post("/confirm", h.Confirmations.Confirm)
			cr.Post("/cancel", h.Confirmations.Cancel)
		})
	}

	if h.Stats != nil {
		pr.Get("/stats/itam", h.Stats.GetITAMStats)
		pr.Get("/stats/helpdesk", h.Stats.GetHelpdeskStats)
		pr.Get("/stats/assets", h.Stats.GetAssetStats)
	}

	if h.Audit != nil {
		pr.Get("/audit-logs", h.Audit.ListAuditLogs)
	}

	if h.Updates != nil {
		pr.Route("/system-updates", func(ur chi.Router) {
			ur.Get("/", h.Updates.ListUpdates)
			ur.Get("/stats", h.Updates.GetStats)
			ur.Post("/refresh", h.Updates.RefreshUpdates)
			ur.Post("/install-all", h.Updates.InstallAll)
			ur.Post("/{id}/install", h.Updates.InstallUpdate)
			ur.Post("/{id}/schedule", h.Updates.ScheduleUpdate)
		})
	}

	if h.Monitoring != nil {
		pr.Get("/monitoring", h.Monitoring.GetDashboard)
		pr.Post("/monitoring/refresh", h.Monitoring.RefreshDashboard)
		pr.Post("/monitoring/incidents/{id}/resolve", h.Monitoring.ResolveIncident)
	}
}
