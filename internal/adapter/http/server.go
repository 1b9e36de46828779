// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"biodash/internal/app"
)

// Services groups the application services the server routes to.
type Services struct {
	Bio       *app.BioService
	Intake    *app.IntakeService
	Health    *app.HealthService
	Water     *app.WaterService
	Weight    *app.WeightService
	Hydration *app.HydrationService
	Charts    *app.ChartsService
	Auth      *app.AuthService
	Journal   *app.JournalService
	Fit       *app.ModelFitService
}

// OIDCConfig is the resolved SSO setup. Enabled is false when no issuer is
// configured.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Options configures access control and static serving.
type Options struct {
	WebDir string
	// APIKey is accepted in X-API-Key on every API route. Empty disables it.
	APIKey string
	// WatchToken guards the watch endpoints. Empty leaves them open.
	WatchToken  string
	DisableAuth bool
	OIDC        OIDCConfig
	Location    *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	bio       *app.BioService
	intake    *app.IntakeService
	health    *app.HealthService
	water     *app.WaterService
	weight    *app.WeightService
	hydration *app.HydrationService
	charts    *app.ChartsService
	authSvc   *app.AuthService
	journal   *app.JournalService
	fit       *app.ModelFitService

	webDir      string
	apiKey      string
	watchToken  string
	disableAuth bool
	oidcConfig  OIDCConfig
	loc         *time.Location
	now         func() time.Time

	log      *zap.Logger
	metrics  *Metrics
	validate *validator.Validate
}

// New creates a Server wired to the given application services. A nil
// metrics disables /metrics and request instrumentation.
func New(svc Services, opts Options, log *zap.Logger, metrics *Metrics) *Server {
	s := &Server{
		bio:         svc.Bio,
		intake:      svc.Intake,
		health:      svc.Health,
		water:       svc.Water,
		weight:      svc.Weight,
		hydration:   svc.Hydration,
		charts:      svc.Charts,
		authSvc:     svc.Auth,
		journal:     svc.Journal,
		fit:         svc.Fit,
		webDir:      opts.WebDir,
		apiKey:      opts.APIKey,
		watchToken:  opts.WatchToken,
		disableAuth: opts.DisableAuth,
		oidcConfig:  opts.OIDC,
		loc:         opts.Location,
		now:         opts.Now,
		log:         log,
		metrics:     metrics,
		validate:    validator.New(),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(withNoCache)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/config", s.handleConfig)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Post("/setup", s.handleSetupUser)
			r.Get("/sso/login", s.handleSSOLogin)
			r.Get("/sso/callback", s.handleSSOCallback)
			r.With(s.authMiddleware).Get("/me", s.handleMe)
		})

		// The watch authenticates with its own token.
		r.Group(func(r chi.Router) {
			r.Use(s.watchAuthMiddleware)
			r.Get("/water/instruction", s.handleWaterInstruction)
			r.Post("/water/report", s.handleWaterReport)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/bio/score", s.handleBioScore)
			r.Get("/bio/curve", s.handleBioCurve)
			r.Get("/bio/ddi", s.handleDDI)
			r.Post("/bio/evaluate", s.handleEvaluate)

			r.Get("/intakes", s.handleIntakeList)
			r.Post("/intakes", s.handleIntakeCreate)
			r.Get("/intakes/active", s.handleIntakeActive)
			r.Delete("/intakes/{id}", s.handleIntakeDelete)

			r.Get("/logs", s.handleLogList)
			r.Post("/logs", s.handleLogCreate)
			r.Get("/logs/reminder", s.handleLogReminder)
			r.Delete("/logs/{id}", s.handleLogDelete)

			r.Get("/meals", s.handleMealList)
			r.Post("/meals", s.handleMealCreate)
			r.Delete("/meals/{id}", s.handleMealDelete)

			r.Get("/model/fit", s.handleModelFit)

			r.Post("/health/snapshots", s.handleHealthCreate)
			r.Get("/health/latest", s.handleHealthLatest)
			r.Get("/health/today", s.handleHealthToday)

			r.Get("/water", s.handleWaterList)
			r.Get("/water/today", s.handleWaterToday)
			r.Post("/water/event", s.handleWaterEvent)
			r.Get("/water/recent", s.handleWaterRecent)
			r.Post("/water/undo-last", s.handleWaterUndoLast)
			r.Delete("/water/events/{id}", s.handleWaterDelete)

			r.Get("/hydration/status", s.handleHydrationStatus)
			r.Get("/hydration/goal", s.handleHydrationGoal)
			r.Get("/hydration/history", s.handleHydrationHistory)

			r.Get("/weight/today", s.handleWeightToday)
			r.Put("/weight/today", s.handleWeightRecord)
			r.Get("/weight/recent", s.handleWeightRecent)
			r.Post("/weight/undo-last", s.handleWeightUndoLast)

			r.Get("/charts/daily", s.handleChartsDaily)
		})
	})

	r.Handle("/*", withNoCache(spaFromDisk(s.webDir)))
	return r
}
