package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/auth"
	"github.com/MrJamesThe3rd/paisa/internal/http/account"
	"github.com/MrJamesThe3rd/paisa/internal/http/category"
	"github.com/MrJamesThe3rd/paisa/internal/http/importsms"
	"github.com/MrJamesThe3rd/paisa/internal/http/miniapp"
	"github.com/MrJamesThe3rd/paisa/internal/http/render"
	"github.com/MrJamesThe3rd/paisa/internal/http/rules"
	"github.com/MrJamesThe3rd/paisa/internal/http/sms"
	"github.com/MrJamesThe3rd/paisa/internal/http/transaction"
	"github.com/MrJamesThe3rd/paisa/internal/observability"
)

type Handlers struct {
	SMS          *sms.Handler
	Transactions *transaction.Handler
	Accounts     *account.Handler
	Categories   *category.Handler
	Rules        *rules.Handler
	Import       *importsms.Handler
	MiniApp      *miniapp.Handler
}

type Security struct {
	APIKey      *auth.APIKey
	Tokens      *auth.Tokens
	CORSOrigins []string
}

func New(h Handlers, sec Security, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(observability.ZapLoggerMiddleware(logger))
	router.Use(observability.TracingMiddleware)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/miniapp", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: sec.CORSOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodPatch, http.MethodOptions},
				AllowedHeaders: []string{"Authorization", "Content-Type"},
				MaxAge:         300,
			}))
			r.Use(auth.RequireToken(sec.Tokens))
			h.MiniApp.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAPIKey(sec.APIKey))

			r.Route("/sms", h.SMS.Routes)

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})

			r.Route("/accounts", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Accounts.Routes(r)
			})

			r.Route("/categories", h.Categories.Routes)

			r.Route("/rules", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Rules.Routes(r)
			})

			r.Route("/import", h.Import.Routes)

			r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
				render.JSON(w, logger, http.StatusOK, metrics.Snapshot())
			})
		})
	})

	return router
}
