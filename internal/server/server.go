// Package server exposes schedule analysis over HTTP.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/joshharrison/netdiagram/internal/cpm"
	"github.com/joshharrison/netdiagram/internal/ctxlog"
	"github.com/joshharrison/netdiagram/internal/graph"
	"github.com/joshharrison/netdiagram/internal/render"
	"github.com/joshharrison/netdiagram/internal/taskdata"
)

// MaxBodyBytes bounds the size of a task list accepted by POST /schedule.
const MaxBodyBytes = 1 << 20

// response is a rendered analysis, cached by request content.
type response struct {
	contentType string
	body        []byte
}

type Server struct {
	cache  *lru.Cache[[sha256.Size]byte, response]
	logger *slog.Logger
}

// New returns a server caching up to cacheSize rendered analyses.
func New(cacheSize int, logger *slog.Logger) (*Server, error) {
	cache, err := lru.New[[sha256.Size]byte, response](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cache: cache, logger: logger}, nil
}

// Handler routes:
//
//	POST /schedule?format=json|hcl&output=json|table|paths|gantt|dot|waves|schedule
//	GET  /healthz
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /schedule", s.handleSchedule)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctxlog.WithLogger(context.Background(), s.logger)
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.FromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "too_large", err)
			return
		}
		writeError(w, r, http.StatusBadRequest, "read", err)
		return
	}

	query := r.URL.Query()
	format, err := taskdata.ParseFormat(query.Get("format"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "format", err)
		return
	}
	if format == taskdata.FormatAuto {
		format = taskdata.FormatJSON
	}
	output := query.Get("output")
	if output == "" {
		output = "json"
	}
	renderer, err := render.ByName(output)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "output", err)
		return
	}

	key := cacheKey(format, output, body)
	if cached, ok := s.cache.Get(key); ok {
		logger.Debug("schedule cache hit", "output", output)
		writeResponse(w, r, "hit", cached)
		return
	}

	records, err := taskdata.Parse("request", body, format)
	if err != nil {
		writeAnalysisError(w, r, err)
		return
	}
	g, err := taskdata.Build(ctx, records)
	if err != nil {
		writeAnalysisError(w, r, err)
		return
	}
	result, err := cpm.Analyze(g)
	if err != nil {
		writeAnalysisError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, result); err != nil {
		writeError(w, r, http.StatusInternalServerError, "render", err)
		return
	}

	resp := response{contentType: contentType(output), body: buf.Bytes()}
	s.cache.Add(key, resp)
	logger.Debug("schedule computed", "tasks", g.Len(), "project_end", result.ProjectEnd, "output", output)
	writeResponse(w, r, "miss", resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"status":        "ok",
		"cache_entries": s.cache.Len(),
	})
	logWriteError(r, err)
}

func cacheKey(format taskdata.Format, output string, body []byte) [sha256.Size]byte {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", format, output)
	h.Write(body)
	var key [sha256.Size]byte
	copy(key[:], h.Sum(nil))
	return key
}

func contentType(output string) string {
	switch output {
	case "json":
		return "application/json"
	case "dot":
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeResponse(w http.ResponseWriter, r *http.Request, cache string, resp response) {
	w.Header().Set("Content-Type", resp.contentType)
	w.Header().Set("X-Cache", cache)
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(resp.body)
	logWriteError(r, err)
}

// errorKinds maps graph error sentinels to response kinds. Cycles are
// well-formed input describing an impossible schedule.
var errorKinds = []struct {
	err    error
	kind   string
	status int
}{
	{graph.ErrCircularDependency, "circular_dependency", http.StatusUnprocessableEntity},
	{graph.ErrDuplicateKey, "duplicate_key", http.StatusBadRequest},
	{graph.ErrKeyNotFound, "key_not_found", http.StatusBadRequest},
	{graph.ErrSelfDependency, "self_dependency", http.StatusBadRequest},
	{graph.ErrDuplicateDependency, "duplicate_dependency", http.StatusBadRequest},
	{graph.ErrInvalidDuration, "invalid_duration", http.StatusBadRequest},
	{graph.ErrEmptyTaskID, "empty_task_id", http.StatusBadRequest},
	{graph.ErrInvalidDependencyType, "invalid_dependency_type", http.StatusBadRequest},
}

func writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *taskdata.ParseError
	if errors.As(err, &perr) {
		writeError(w, r, http.StatusBadRequest, "parse", err)
		return
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			writeError(w, r, k.status, k.kind, err)
			return
		}
	}
	writeError(w, r, http.StatusInternalServerError, "internal", err)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	werr := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"kind":  kind,
	})
	logWriteError(r, werr)
}

// logWriteError records a failed response write on the request logger.
func logWriteError(r *http.Request, err error) {
	if err == nil {
		return
	}
	ctxlog.FromContext(r.Context()).Debug("write response failed", "path", r.URL.Path, "error", err)
}
