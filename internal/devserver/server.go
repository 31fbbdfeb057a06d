// Package devserver serves the build output, rebuilds when the source
// changes and tells connected browsers to reload
package devserver

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	mdwerror "github.com/msto63/posttext/foundation/core/error"
	"github.com/msto63/posttext/internal/build"
	"github.com/msto63/posttext/pkg/core/cache"
	"github.com/msto63/posttext/pkg/core/config"
	"github.com/msto63/posttext/pkg/core/health"
	"github.com/msto63/posttext/pkg/core/logging"
	"github.com/msto63/posttext/pkg/core/version"
)

// Routes served next to the output files
const (
	LiveReloadPath = "/__livereload"
	HealthPath     = "/__health"
)

const liveReloadScript = `<script>(function(){` +
	`var ws=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"` + LiveReloadPath + `");` +
	`ws.onmessage=function(e){if(e.data==="` + ReloadMessage + `"){location.reload();}};` +
	`})();</script>`

const shutdownTimeout = 5 * time.Second

// Server is the development server
type Server struct {
	cfg        *config.Config
	builder    *build.Builder
	cache      *cache.BuildCache
	hub        *Hub
	health     *health.Registry
	logger     *logging.Logger
	httpServer *http.Server

	buildMu   sync.Mutex
	stateMu   sync.RWMutex
	lastBuild *build.Summary
	lastErr   error
}

// New creates a development server for cfg
func New(cfg *config.Config, builder *build.Builder, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.New("posttext-serve")
	}

	s := &Server{
		cfg:     cfg,
		builder: builder,
		cache:   cache.NewBuildCache(),
		hub:     NewHub(logger),
		health:  health.NewRegistry("posttext-serve", version.Version),
		logger:  logger,
	}

	s.health.Register(health.DirCheck("output", cfg.Output.Dir))
	s.health.RegisterFunc("build", s.checkBuild)

	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the http handler of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(LiveReloadPath, s.hub)
	mux.Handle(HealthPath, s.health)
	mux.Handle("/", s.staticHandler())
	return loggingMiddleware(s.logger, mux)
}

// Hub returns the live reload hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Rebuild builds the input file unless its content is unchanged since the
// last successful build. It reports whether a build ran.
func (s *Server) Rebuild(ctx context.Context) (bool, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	src, err := os.ReadFile(s.cfg.Input.File)
	if err != nil {
		err = mdwerror.Wrap(err, "failed to read input").
			WithCode(mdwerror.CodeIO).
			WithDetail("path", s.cfg.Input.File)
		s.record(nil, err)
		return false, err
	}

	if !s.cache.Changed(s.cfg.Input.File, src) {
		s.logger.Debug("Source unchanged, skipping build", "path", s.cfg.Input.File)
		return false, nil
	}

	summary, err := s.builder.Build(ctx, s.cfg.Input.File, src)
	s.record(summary, err)
	if err != nil {
		// a failed or canceled build leaves the output stale
		s.cache.Forget(s.cfg.Input.File)
		s.logger.Error("Build failed", "error", err)
		return true, err
	}

	s.cache.Remember(s.cfg.Input.File, src)
	if s.cfg.LiveReloadEnabled() {
		s.hub.Broadcast(ReloadMessage)
	}
	return true, nil
}

// Start builds once, watches the input and serves until ctx is done
func (s *Server) Start(ctx context.Context) error {
	if _, err := s.Rebuild(ctx); err != nil {
		s.logger.Warn("Initial build failed, serving last output", "error", err)
	}

	watcher, err := NewWatcher(s.cfg.Input.File, s.cfg.Serve.Debounce.Duration, s.logger)
	if err != nil {
		return err
	}
	go watcher.Run(ctx, func(ctx context.Context) {
		s.Rebuild(ctx)
	})

	s.logger.Info("Starting development server",
		"address", "http://"+s.cfg.Address(),
		"input", s.cfg.Input.File,
		"output", s.cfg.Output.Dir,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return mdwerror.Wrap(err, "development server failed").
			WithCode(mdwerror.CodeServe).
			WithDetail("address", s.cfg.Address())
	}
}

// Stop disconnects browsers and shuts the http server down
func (s *Server) Stop() error {
	s.logger.Info("Stopping development server")
	s.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) record(summary *build.Summary, err error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.lastErr = err
	if err == nil {
		s.lastBuild = summary
	}
}

func (s *Server) checkBuild(context.Context) health.CheckResult {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	details := map[string]any{"cache": s.cache.Stats()}
	switch {
	case s.lastErr != nil:
		return health.CheckResult{Status: health.StatusUnhealthy, Message: s.lastErr.Error(), Details: details}
	case s.lastBuild == nil:
		return health.CheckResult{Status: health.StatusUnknown, Message: "no build yet", Details: details}
	default:
		details["title"] = s.lastBuild.Title
		details["files"] = len(s.lastBuild.Files)
		details["duration"] = s.lastBuild.Duration.String()
		details["render_id"] = s.lastBuild.RenderID
		return health.CheckResult{
			Status:  health.StatusHealthy,
			Message: "last build succeeded",
			Details: details,
		}
	}
}

// staticHandler serves the output directory. Html pages get the live
// reload script injected.
func (s *Server) staticHandler() http.Handler {
	files := http.FileServer(http.Dir(s.cfg.Output.Dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.LiveReloadEnabled() {
			files.ServeHTTP(w, r)
			return
		}

		name := path.Clean("/" + r.URL.Path)
		file := filepath.Join(s.cfg.Output.Dir, filepath.FromSlash(name))
		if info, err := os.Stat(file); err == nil && info.IsDir() {
			file = filepath.Join(file, s.cfg.Output.File)
		}
		if !strings.HasSuffix(file, ".html") {
			files.ServeHTTP(w, r)
			return
		}

		page, err := os.ReadFile(file)
		if err != nil {
			files.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.Write([]byte(injectScript(string(page))))
	})
}

// injectScript places the live reload script before the closing body tag
func injectScript(page string) string {
	if i := strings.LastIndex(page, "</body>"); i >= 0 {
		return page[:i] + liveReloadScript + page[i:]
	}
	return page + liveReloadScript
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start).String(),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("devserver: response writer cannot be hijacked")
	}
	return h.Hijack()
}
