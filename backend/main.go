package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/liangxing/matchsite/backend/content"
)

type server struct {
	cfg   Config
	log   zerolog.Logger
	site  *content.Site
	cat   *Catalog
	forms *formService
	hub   *Hub
}

func newServer(cfg Config, log zerolog.Logger, site *content.Site, cat *Catalog) *server {
	return &server{
		cfg:  cfg,
		log:  log,
		site: site,
		cat:  cat,
		forms: &formService{
			tokens: newFormTokens(cfg.FormTokenSecret, cfg.FormTokenTTL),
			submit: &submitter{delay: cfg.SubmitDelay},
		},
		hub: newHub(),
	}
}

func (s *server) routes() (http.Handler, error) {
	pages, err := newSiteHandler(s.site, s.cat, s.forms)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(requestLogging(s.log)...)
	r.Use(middleware.Recoverer)
	r.Use(withCORS(s.cfg.CORSOrigins))

	// Health check endpoint for Docker
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"members": s.cat.Len(),
		})
	})

	// Server-rendered page
	r.Get("/", pages.index)
	r.Post("/contact", pages.contact)
	r.Post("/register/{gender}", pages.register)

	r.Route("/api", func(r chi.Router) {
		r.Use(DataLoaderMiddleware(s.cat))

		r.Get("/members", membersHandler(s.cat))
		r.Get("/members/options", memberOptionsHandler())
		r.Get("/members/batch", memberBatchHandler())
		r.Get("/members/{id}", memberDetailHandler())

		r.Get("/stories", storiesHandler(s.site))
		r.Get("/site", siteContentHandler(s.site))

		r.Get("/form-token", formTokenHandler(s.forms.tokens))
		r.Post("/contact", contactAPIHandler(s.forms))
		r.Get("/registration/options", registrationOptionsHandler())
		r.Post("/registration/{gender}", registrationAPIHandler(s.forms))
	})

	// Live directory session
	r.Get("/ws/directory", wsDirectoryHandler(s.cat, s.hub, s.cfg.CORSOrigins))

	return r, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	site, err := content.LoadSite()
	if err != nil {
		log.Fatal().Err(err).Msg("Loading site content failed")
	}
	cat, err := loadCatalog(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading member catalog failed")
	}

	srv := newServer(cfg, log, site, cat)
	handler, err := srv.routes()
	if err != nil {
		log.Fatal().Err(err).Msg("Building routes failed")
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("env", cfg.Env).Msg("Starting matchmaking site")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Shutdown does not touch hijacked websocket connections.
	srv.hub.closeAll()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
