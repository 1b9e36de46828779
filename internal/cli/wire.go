package cli

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	adapthttp "biodash/internal/adapter/http"
	"biodash/internal/adapter/memory"
	"biodash/internal/adapter/sqlstore"
	"biodash/internal/app"
	"biodash/internal/bioscore"
	"biodash/internal/config"
	"biodash/internal/domain"
	"biodash/internal/pk"
)

// store is what either backend provides.
type store interface {
	domain.WeightRepository
	domain.WaterRepository
	domain.IntakeRepository
	domain.HealthRepository
	domain.GoalRepository
	domain.UserRepository
	domain.SubjectiveLogRepository
	domain.MealRepository
}

// stack is the wired application.
type stack struct {
	cfg     *config.Config
	log     *zap.Logger
	loc     *time.Location
	metrics *adapthttp.Metrics
	svc     adapthttp.Services
	close   func() error
}

func buildStack(cfg *config.Config, log *zap.Logger, useMemory bool) (*stack, error) {
	loc := cfg.Location()

	var (
		st       store
		sessions domain.SessionRepository
		closeFn  = func() error { return nil }
	)
	if useMemory {
		db := memory.New(loc)
		st, sessions = db, db.NewSessionRepo()
		log.Warn("using in-memory store; data is lost on exit")
	} else {
		db, err := sqlstore.Open(cfg.Database.Driver, cfg.Database.URL, loc)
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
		}
		st, sessions, closeFn = db, sqlstore.NewSessionRepo(db), db.Close
	}

	model := pk.NewModel(cfg.Profiles())
	metrics := adapthttp.NewMetrics("biodash", model.Peaks())
	params := cfg.HydrationParams()

	weight := app.NewWeightService(st, loc, cfg.Profile())
	bio := app.NewBioService(bioscore.NewEngine(model, cfg.DDIRules()), st, st, weight,
		params, loc, metrics, log.Named("bio"))
	svc := adapthttp.Services{
		Bio:    bio,
		Intake: app.NewIntakeService(st, bio, log.Named("intake")),
		Health: app.NewHealthService(st, loc),
		Water:  app.NewWaterService(st, params, loc, metrics, log.Named("water")),
		Weight: weight,
		Hydration: app.NewHydrationService(app.HydrationDeps{
			Water:    st,
			Intakes:  st,
			Health:   st,
			Goals:    st,
			Profiles: weight,
		}, params, loc, metrics, log.Named("hydration")),
		Charts:  app.NewChartsService(st, st, st, loc),
		Auth:    app.NewAuthService(st, sessions, cfg.Auth.SessionTTL),
		Journal: app.NewJournalService(st, st, st, loc, log.Named("journal")),
		Fit:     app.NewModelFitService(st, st, model, log.Named("fit")),
	}
	return &stack{cfg: cfg, log: log, loc: loc, metrics: metrics, svc: svc, close: closeFn}, nil
}

func openStack() (*stack, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return buildStack(cfg, log, inMemory)
}
