package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lennai/lennai/internal/config"
	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/identity"
	"github.com/lennai/lennai/internal/llm"
	"github.com/lennai/lennai/internal/screens/hub"
	"github.com/lennai/lennai/internal/screens/materiallab"
	"github.com/lennai/lennai/internal/store"
	"github.com/lennai/lennai/internal/supabase"
)

// deps are the collaborators shared by the study commands.
type deps struct {
	store    *store.Store
	identity identity.Service
	sessions store.SessionRepo
	uploader materiallab.Uploader

	// gateway is nil when no LLM provider is configured; gatewayErr says
	// why.
	gateway    content.Gateway
	gatewayErr error
}

// openDeps opens the local store and wires the configured backend and
// LLM provider.
func openDeps(cmd *cobra.Command) (*deps, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	d := &deps{store: st}

	switch cfg.Backend {
	case config.BackendSupabase:
		client, err := supabase.New(supabase.Config{URL: cfg.Supabase.URL, AnonKey: cfg.Supabase.AnonKey}, st.UserRepo())
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("supabase: %w", err)
		}
		d.identity = client
		d.sessions = client
		d.uploader = client
	default:
		d.identity = identity.NewLocal(st.UserRepo())
		d.sessions = st.SessionRepo()
	}

	provider, images, err := llm.NewProviderFromEnv(cmd.Context(), st.EventRepo())
	if err != nil {
		d.gatewayErr = err
		slog.Debug("llm provider not configured", "error", err)
	} else {
		gcfg := content.DefaultConfig()
		gcfg.HistoryWindow = cfg.HistoryWindow
		d.gateway = content.New(provider, images, gcfg)
	}
	return d, nil
}

func (d *deps) Close() {
	d.store.Close()
}

// hubServices adapts d to the TUI.
func (d *deps) hubServices() hub.Services {
	return hub.Services{
		Identity: d.identity,
		Gateway:  d.gateway,
		Sessions: d.sessions,
		Rewards:  d.store.RewardRepo(),
		Uploader: d.uploader,
		Config:   *cfg,
	}
}

// requireGateway returns the content gateway or explains how to set one up.
func (d *deps) requireGateway() (content.Gateway, error) {
	if d.gateway == nil {
		return nil, fmt.Errorf("LLM provider not configured (set LENNAI_LLM_PROVIDER and an API key): %w", d.gatewayErr)
	}
	return d.gateway, nil
}

// signedIn returns the remembered user or an AuthError.
func (d *deps) signedIn(ctx context.Context) (*identity.User, error) {
	u, err := d.identity.ActiveUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore sign-in: %w", err)
	}
	if err := identity.RequireUser(u); err != nil {
		return nil, fmt.Errorf("%w (run `lennai login` first)", err)
	}
	return u, nil
}
