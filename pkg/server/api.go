package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bundlescope/pkg/buildinfo"
	"github.com/matzehuels/bundlescope/pkg/errors"
	"github.com/matzehuels/bundlescope/pkg/pipeline"
	"github.com/matzehuels/bundlescope/pkg/render"
	"github.com/matzehuels/bundlescope/pkg/report"
	"github.com/matzehuels/bundlescope/pkg/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Options configures an [API].
type Options struct {
	// Root is the directory request paths are resolved against.
	Root string

	// Timeout bounds each analysis. Zero means no limit beyond the client's.
	Timeout time.Duration

	// Defaults supplies searcher and analysis settings for every request.
	Defaults pipeline.Options

	// Store keeps reports for the snapshot endpoints. Nil disables them.
	Store store.Store

	Logger *log.Logger
}

// API serves the HTTP endpoints.
type API struct {
	runner   *pipeline.Runner
	root     string
	timeout  time.Duration
	defaults pipeline.Options
	store    store.Store
	logger   *log.Logger
}

// NewAPI creates the API on top of runner.
func NewAPI(runner *pipeline.Runner, opts Options) *API {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	return &API{
		runner:   runner,
		root:     opts.Root,
		timeout:  opts.Timeout,
		defaults: opts.Defaults,
		store:    opts.Store,
		logger:   opts.Logger,
	}
}

// Routes returns the router with all endpoints and middleware mounted.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(a.instrument)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", a.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", a.handleAnalyze)
		r.Get("/graph", a.handleGraph)
		r.Get("/snapshots", a.handleListSnapshots)
		r.Get("/snapshots/{id}", a.handleGetSnapshot)
	})
	return r
}

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	Path         string `json:"path"`
	Depths       bool   `json:"depths"`
	VendorMarker string `json:"vendor_marker,omitempty"`
	Refresh      bool   `json:"refresh,omitempty"`
	Save         bool   `json:"save,omitempty"` // Store the report as a snapshot
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Short(),
	})
}

func (a *API) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		a.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	opts, err := a.options(req.Path)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	opts.Depths = req.Depths
	opts.Refresh = req.Refresh
	if req.VendorMarker != "" {
		opts.VendorMarker = req.VendorMarker
	}

	ctx, cancel := a.withTimeout(r.Context())
	defer cancel()
	res, err := a.runner.Execute(ctx, opts)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	rep := res.Report
	// Report the path the client sent, not the server's filesystem layout.
	rep.Bundle = req.Path
	if req.Save {
		if a.store == nil {
			a.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "snapshot store not configured"))
			return
		}
		if _, err := a.store.Save(ctx, rep); err != nil {
			a.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, rep)
}

func (a *API) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := a.options(q.Get("path"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	format := render.FormatSVG
	if f := q.Get("format"); f != "" {
		if format, err = render.ParseFormat(f); err != nil {
			a.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "format"))
			return
		}
	}
	appOnly, _ := strconv.ParseBool(q.Get("app_only"))
	detailed, _ := strconv.ParseBool(q.Get("detailed"))

	ctx, cancel := a.withTimeout(r.Context())
	defer cancel()
	data, err := a.runner.Graph(ctx, opts, pipeline.GraphOptions{
		Format:   format,
		AppOnly:  appOnly,
		Detailed: detailed,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *API) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		a.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "snapshot store not configured"))
		return
	}
	q := r.URL.Query()
	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			a.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	list, err := a.store.List(r.Context(), store.ListOptions{Limit: limit, Bundle: q.Get("bundle")})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]*report.Report{"snapshots": list})
}

func (a *API) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		a.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "snapshot store not configured"))
		return
	}
	rep, err := a.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// options validates a client path and returns pipeline options for the
// bundle it names under the root.
func (a *API) options(path string) (pipeline.Options, error) {
	if err := errors.ValidateBundlePath(path); err != nil {
		return pipeline.Options{}, err
	}
	full := filepath.Join(a.root, filepath.FromSlash(path))
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return pipeline.Options{}, errors.New(errors.ErrCodeFileNotFound, "bundle %s not found", path)
		}
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInternal, err, "stat bundle")
	}
	if info.IsDir() {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidPath, "%s is a directory", path)
	}
	inside, err := a.withinRoot(full)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInternal, err, "resolve bundle")
	}
	if !inside {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidPath, "%s resolves outside the bundle root", path)
	}
	opts := a.defaults
	opts.Path = full
	opts.Logger = nil
	return opts, nil
}

// withinRoot reports whether full, with symlinks resolved, still lies under
// the resolved root.
func (a *API) withinRoot(full string) (bool, error) {
	resolvedRoot, err := resolvePath(a.root)
	if err != nil {
		return false, err
	}
	resolved, err := resolvePath(full)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(resolvedRoot, resolved)
	if err != nil {
		return false, nil
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}

func resolvePath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

func (a *API) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return 499 // client closed request
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPath, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeSnapshotNotFound:
		return http.StatusNotFound
	case errors.ErrCodeExtractionFailed, errors.ErrCodeTruncatedRecord, errors.ErrCodeUnparseableLine:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		switch status {
		case http.StatusGatewayTimeout:
			code, msg = errors.ErrCodeTimeout, "analysis timed out"
		case 499:
			code, msg = errors.ErrCodeTimeout, "request cancelled"
		default:
			code, msg = errors.ErrCodeInternal, "internal error"
		}
	}
	if status >= 500 {
		a.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
	}
	writeJSON(w, status, map[string]errorBody{"error": {Code: string(code), Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func contentType(f render.Format) string {
	switch f {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatPNG:
		return "image/png"
	case render.FormatPDF:
		return "application/pdf"
	case render.FormatJSON:
		return "application/json"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}
