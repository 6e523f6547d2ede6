package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/depwalk/depwalk/pkg/cache"
	dwerrors "github.com/depwalk/depwalk/pkg/errors"
	"github.com/depwalk/depwalk/pkg/report"
	"github.com/depwalk/depwalk/pkg/store"
	"github.com/depwalk/depwalk/pkg/walker"
)

const (
	serveShutdownTimeout = 10 * time.Second
	serveWalkTimeout     = 5 * time.Minute
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency walks over an HTTP API",
		Long: `Start an HTTP server exposing dependency walks.

Endpoints:
  GET /healthz                   liveness check
  GET /api/walk?package=&filter= run a walk and return the report
  GET /api/reports?package=      list stored reports
  GET /api/reports/{id}          fetch a stored report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), loggerFromContext(cmd.Context()), cfg, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (default ~/.config/depwalk/config.toml)")

	return cmd
}

// server bundles the dependencies of the HTTP handlers.
type server struct {
	logger *log.Logger
	cfg    Config
	cache  cache.Cache
	store  store.Store
}

// runServer starts the HTTP server and blocks until ctx is cancelled.
func runServer(ctx context.Context, logger *log.Logger, cfg Config, addr string) error {
	reportCache, err := buildCache(cfg)
	if err != nil {
		return err
	}
	defer reportCache.Close()

	var st store.Store = store.NewMemoryStore()
	if cfg.Mongo.URI != "" {
		mongoStore, err := store.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return err
		}
		st = mongoStore
	}
	defer st.Close(context.Background())

	s := &server{logger: logger, cfg: cfg, cache: reportCache, store: st}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/walk", s.handleWalk)
	r.Get("/api/reports", s.handleListReports)
	r.Get("/api/reports/{id}", s.handleGetReport)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildCache constructs the report cache backend from configuration.
func buildCache(cfg Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "", "file":
		dir := cfg.Cache.Dir
		if dir == "" {
			base, err := cacheDir()
			if err != nil {
				return nil, err
			}
			dir = base + "/reports"
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(cfg.Cache.RedisAddr)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, dwerrors.New(dwerrors.ErrCodeInvalidInput,
			"unknown cache backend %q: expected file, redis, or none", cfg.Cache.Backend)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWalk runs a walk for ?package= and returns the report. Results are
// cached by (package, filter, mode, version) and persisted to the store.
func (s *server) handleWalk(w http.ResponseWriter, r *http.Request) {
	pkg := strings.TrimSpace(r.URL.Query().Get("package"))
	filter := r.URL.Query().Get("filter")
	version := r.URL.Query().Get("version")

	if err := validateWalkInput(pkg, modeRemote, formatJSON); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := requireVersion(pkg, version); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	key := cache.ReportKey(pkg, filter, modeRemote, version)
	if data, ok, _ := s.cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(data)
		return
	}

	cacheTTL := time.Duration(s.cfg.CacheTTLHours) * time.Hour
	prov, err := buildProvider(modeRemote, s.cfg.Repository, version, cacheTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), serveWalkTimeout)
	defer cancel()

	res := walker.Walk(ctx, prov, pkg, walker.Options{
		Filter: walker.NewSubstringFilter(filter),
		Logger: s.logger.Warnf,
	})
	rep := report.New(res, filter)

	if err := s.store.Save(ctx, rep); err != nil {
		s.logger.Warnf("save report: %v", err)
	}

	data, err := report.Marshal(rep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.cache.Set(ctx, key, data, cache.TTLReport); err != nil {
		s.logger.Warnf("cache report: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(data)
}

func (s *server) handleListReports(w http.ResponseWriter, r *http.Request) {
	pkg := r.URL.Query().Get("package")
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest,
				dwerrors.New(dwerrors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	reports, err := s.store.List(r.Context(), pkg, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if reports == nil {
		reports = []report.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound,
			dwerrors.New(dwerrors.ErrCodeReportNotFound, "report %s not found", id))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": dwerrors.UserMessage(err),
		"code":  string(dwerrors.GetCode(err)),
	})
}
