package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	adapthttp "biodash/internal/adapter/http"
	"biodash/internal/config"
)

// sessionPurgeInterval is how often expired sessions are deleted.
const sessionPurgeInterval = time.Hour

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard, JSON API and watch endpoints",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	cmd.Flags().Bool("no-auth", false, "Disable API authentication (local development only)")
	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	noAuth, _ := cmd.Flags().GetBool("no-auth")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := buildStack(cfg, log, inMemory)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	oidcCfg, err := buildOIDC(ctx, cfg.Auth.OIDC)
	if err != nil {
		return err
	}
	if noAuth {
		log.Warn("authentication disabled")
	}

	srv := adapthttp.New(st.svc, adapthttp.Options{
		WebDir:      cfg.WebDir,
		APIKey:      cfg.Auth.APIKey,
		WatchToken:  cfg.WatchToken(),
		DisableAuth: noAuth,
		OIDC:        oidcCfg,
		Location:    st.loc,
	}, log.Named("http"), st.metrics)

	httpSrv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go purgeSessions(ctx, st, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("addr", cfg.Addr),
			zap.String("database", cfg.Database.Driver),
			zap.String("timezone", cfg.Timezone),
			zap.Bool("sso", oidcCfg.Enabled))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func purgeSessions(ctx context.Context, st *stack, log *zap.Logger) {
	t := time.NewTicker(sessionPurgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := st.svc.Auth.PurgeExpired(ctx); err != nil {
				log.Warn("purge expired sessions", zap.Error(err))
			}
		}
	}
}

func buildOIDC(ctx context.Context, c config.OIDC) (adapthttp.OIDCConfig, error) {
	if !c.Enabled() {
		return adapthttp.OIDCConfig{}, nil
	}
	provider, err := oidc.NewProvider(ctx, c.Issuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, fmt.Errorf("oidc provider %s: %w", c.Issuer, err)
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}
