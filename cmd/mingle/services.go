package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/browser"

	"github.com/mediamingle/mingle/internal/catalog"
	"github.com/mediamingle/mingle/internal/clipboard"
	"github.com/mediamingle/mingle/internal/httpclient"
	"github.com/mediamingle/mingle/internal/kvstore"
	"github.com/mediamingle/mingle/internal/searchhistory"
	"github.com/mediamingle/mingle/internal/session"
	"github.com/mediamingle/mingle/internal/tui"
	"github.com/mediamingle/mingle/internal/userdata"
)

// services is everything a command may talk to, built once per invocation
type services struct {
	store     kvstore.Store
	session   *session.Manager
	http      *httpclient.Client
	catalog   *catalog.Client
	favorites *userdata.Favorites
	history   *userdata.History
	ratings   *userdata.Ratings
	social    *userdata.Social
	recent    *searchhistory.Cache
	alerts    *tui.Alerts
}

// openServices wires the stores around the configured backend. With
// interactive set, store alerts are relayed into the TUI; otherwise they are
// printed to stderr.
func openServices(ctx context.Context, interactive bool) (*services, error) {
	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	mgr := session.NewManager(store, cfg.Storage.Namespace, logger.With("component", "session"))
	if err := mgr.Load(ctx); err != nil {
		logger.Warn("failed to restore session", "error", err)
	}
	mgr.UseStaticToken(cfg.API.Token)

	httpCfg := httpclient.DefaultClientConfig()
	httpCfg.BaseURL = cfg.API.BaseURL
	if cfg.API.Timeout > 0 {
		httpCfg.Timeout = cfg.API.Timeout
	}
	httpCfg.UserAgent = "mingle/" + version
	httpCfg.Debug = cfg.Advanced.Debug
	httpCfg.Logger = logger.With("component", "http")
	httpCfg.Tokens = mgr

	client := httpclient.NewClient(httpCfg)
	mgr.Bind(client)
	logger.Debug("backend client ready", "url", client.BaseURL(), "timeout", client.GetTimeout(),
		"retries", client.GetMaxRetries(), "signed_in", mgr.Authenticated())

	svc := &services{
		store:   store,
		session: mgr,
		http:    client,
		catalog: catalog.New(client, logger.With("component", "catalog")),
	}

	var alerter userdata.Alerter = userdata.AlertFunc(func(msg string) {
		fmt.Fprintln(os.Stderr, "mingle:", msg)
	})
	if interactive {
		svc.alerts = tui.NewAlerts()
		alerter = svc.alerts
	}

	storeLogger := logger.With("component", "userdata")
	svc.favorites = userdata.NewFavorites(client, mgr, storeLogger)
	svc.history = userdata.NewHistory(client, mgr, alerter, storeLogger)
	svc.ratings = userdata.NewRatings(client, mgr, alerter, storeLogger)
	svc.social = userdata.NewSocial(client, mgr, storeLogger)

	svc.recent = searchhistory.New(store, cfg.Storage.Namespace, logger.With("component", "searchhistory"))
	svc.recent.Load(ctx)

	return svc, nil
}

func (s *services) tuiDeps() tui.Deps {
	return tui.Deps{
		Config:    cfg,
		Logger:    logger.With("component", "tui"),
		Catalog:   s.catalog,
		Favorites: s.favorites,
		History:   s.history,
		Ratings:   s.ratings,
		Social:    s.social,
		Session:   s.session,
		Recent:    s.recent,
		Clipboard: clipboard.New(cfg.Advanced.Clipboard, logger.With("component", "clipboard")),
		OpenURL:   browser.OpenURL,
		Alerts:    s.alerts,
	}
}

// requireSession fails fast for commands that only make sense signed in
func (s *services) requireSession() error {
	if !s.session.Authenticated() {
		return fmt.Errorf("%w: run 'mingle login' first", userdata.ErrNotAuthenticated)
	}
	return nil
}

func (s *services) Close() {
	if err := s.store.Close(); err != nil {
		logger.Warn("failed to close storage", "error", err)
	}
}
