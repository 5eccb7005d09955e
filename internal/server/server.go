package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/iwvelando/debt-roadmap/internal/cache"
	"github.com/iwvelando/debt-roadmap/internal/config"
	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/internal/optimizer"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
	"github.com/iwvelando/debt-roadmap/internal/store"
	"github.com/iwvelando/debt-roadmap/pkg/constants"
	"github.com/iwvelando/debt-roadmap/pkg/datetime"
	"github.com/iwvelando/debt-roadmap/pkg/optimization"
	"github.com/iwvelando/debt-roadmap/pkg/output"
	"github.com/iwvelando/debt-roadmap/pkg/snapshotio"
	"github.com/iwvelando/debt-roadmap/pkg/validation"
)

// Options carries the collaborators a handler serves with. Only Logger is
// required in practice; a nil Store disables pull and push.
type Options struct {
	MaxUploadSize int64
	Version       string
	AuthKey       string
	Store         store.Store
	Projector     *cache.Projector
	Limiter       *RateLimiter
	// Now anchors projections that do not name an anchor month.
	Now func() time.Time
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	authKey       string
	store         store.Store
	projector     *cache.Projector
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the roadmap API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	projector := opts.Projector
	if projector == nil {
		projector = cache.NewProjector(nil, 0, logger)
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		authKey:       opts.AuthKey,
		store:         opts.Store,
		projector:     projector,
		now:           now,
	}

	mux := http.NewServeMux()

	// Projection of a JSON snapshot
	mux.HandleFunc("/api/project", h.handleProject)

	// Projection of an uploaded configuration file
	mux.HandleFunc("/api/upload", h.handleUpload)

	// Target-date solver, rate limited per client when a limiter is supplied
	var solve http.Handler = http.HandlerFunc(h.handleSolve)
	if opts.Limiter != nil {
		solve = h.rateLimited(opts.Limiter, solve)
	}
	mux.Handle("/api/solve", solve)

	mux.HandleFunc("/api/readiness", h.handleReadiness)
	mux.HandleFunc("/api/export", h.handleExport)
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/api/health", h.handleHealth)

	// Whole-household sync, same contract as the hosted API
	mux.Handle("/api/pull", h.requireAuth(h.requireStore(http.HandlerFunc(h.handlePull))))
	mux.Handle("/api/push", h.requireAuth(h.requireStore(http.HandlerFunc(h.handlePush))))

	return mux
}

type projectRequest struct {
	Snapshot household.Snapshot `json:"snapshot"`
	Options  payoff.Options     `json:"options"`
	Anchor   string             `json:"anchor,omitempty"`
}

type projectResponse struct {
	Schedule   payoff.Schedule   `json:"schedule"`
	Summary    payoff.Summary    `json:"summary"`
	Comparison payoff.Comparison `json:"comparison"`
	CSV        string            `json:"csv"`
	Warnings   []string          `json:"warnings,omitempty"`
	Cached     bool              `json:"cached"`
	Duration   string            `json:"duration"`
}

type solveRequest struct {
	Snapshot     household.Snapshot `json:"snapshot"`
	Options      payoff.Options     `json:"options"`
	Anchor       string             `json:"anchor,omitempty"`
	TargetMonths int                `json:"targetMonths,omitempty"`
	TargetDate   string             `json:"targetDate,omitempty"`
}

type solveResponse struct {
	Result   optimization.Summary `json:"result"`
	Schedule payoff.Schedule      `json:"schedule"`
	Duration string               `json:"duration"`
}

type readinessRequest struct {
	Snapshot household.Snapshot `json:"snapshot"`
}

type readinessResponse struct {
	Totals    household.Totals          `json:"totals"`
	Readiness []household.ReadinessItem `json:"readiness"`
	Ready     bool                      `json:"ready"`
}

type exportRequest struct {
	Snapshot household.Snapshot `json:"snapshot"`
	Format   string             `json:"format"`
}

func (h *handler) handleProject(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProject"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	// omitted option fields keep their defaults
	req := projectRequest{Options: payoff.DefaultOptions()}
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	anchor, err := h.anchor(req.Anchor)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.runProjection(r.Context(), w, req.Snapshot, req.Options, anchor, start, op)
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.ParseConfiguration(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	// uploads must be self-contained; never read files off the server
	if cfg.HouseholdFile != "" {
		h.respondErrorWithOp(w, http.StatusBadRequest, "householdFile is not supported in uploads", op)
		return
	}
	anchor, err := h.anchor(cfg.Anchor)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.runProjection(r.Context(), w, cfg.Household, cfg.Simulation, anchor, start, op)
}

func (h *handler) runProjection(ctx context.Context, w http.ResponseWriter, snapshot household.Snapshot, opts payoff.Options, anchor time.Time, start time.Time, op string) {
	if err := validation.ValidateSnapshot(snapshot); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := validation.ValidateOptions(opts); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	schedule, cached := h.projector.Project(ctx, snapshot, opts, anchor)
	baseline, _ := h.projector.Project(ctx, payoff.MinimumOnly(snapshot), opts, anchor)

	var csv bytes.Buffer
	output.CsvFormat(&csv, schedule)

	elapsed := time.Since(start)
	response := projectResponse{
		Schedule:   schedule,
		Summary:    payoff.Summarize(schedule),
		Comparison: payoff.Compare(schedule, baseline),
		CSV:        csv.String(),
		Warnings:   validation.SnapshotWarnings(snapshot, opts),
		Cached:     cached,
		Duration:   elapsed.String(),
	}

	h.logger.Info("projection computed",
		zap.String("op", op),
		zap.Int("months", len(schedule)),
		zap.Bool("cached", cached),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSolve"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req := solveRequest{Options: payoff.DefaultOptions()}
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	if err := validation.ValidateSnapshot(req.Snapshot); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	opts := req.Options
	if err := validation.ValidateOptions(opts); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	anchor, err := h.anchor(req.Anchor)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	target := optimization.Target{Months: req.TargetMonths, Date: req.TargetDate}
	result, err := optimizer.NewRunner(h.logger, req.Snapshot, opts, target).
		WithFixedTime(anchor).
		RunContext(r.Context())
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		h.respondErrorWithOp(w, status, fmt.Sprintf("solver failed: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, solveResponse{
		Result:   result.Summary,
		Schedule: result.Schedule,
		Duration: time.Since(start).String(),
	})
}

func (h *handler) handleReadiness(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReadiness"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req readinessRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	items := household.Readiness(req.Snapshot)
	h.writeJSON(w, http.StatusOK, readinessResponse{
		Totals:    household.ComputeTotals(req.Snapshot),
		Readiness: items,
		Ready:     len(household.Gaps(items)) == 0,
	})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req exportRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = "yaml"
	}
	codec, err := snapshotio.CodecFor("household." + format)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := snapshotio.Encode(&buf, req.Snapshot, codec); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode household: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"format":   format,
		"document": buf.String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.store == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{
			"status":   "warning",
			"database": "not_configured",
			"message":  "Running without persistent storage.",
		})
		return
	}
	if err := h.store.Ping(r.Context()); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleHealth")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "connected",
	})
}

func (h *handler) handlePull(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePull"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := h.store.Load(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, snapshot)
}

func (h *handler) handlePush(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePush"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var snapshot household.Snapshot
	if !h.decodeBody(w, r, &snapshot, op) {
		return
	}
	if err := validation.ValidateSnapshot(snapshot); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := h.store.Save(r.Context(), snapshot); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	h.logger.Info("household replaced",
		zap.String("op", op),
		zap.Int("debts", len(snapshot.Debts)),
	)
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.authKey != "" && r.Header.Get("Authorization") != "Bearer "+h.authKey {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":   "Unauthorized",
				"details": "Invalid or missing API Security Token.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error":   "Database not configured",
				"details": "The server is running without persistent storage.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) rateLimited(limiter *RateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientIP(r)) {
			h.respondErrorWithOp(w, http.StatusTooManyRequests, "rate limit exceeded", "server.rateLimited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) anchor(value string) (time.Time, error) {
	anchor, err := datetime.ParseAnchor(value)
	if err != nil {
		return time.Time{}, err
	}
	if anchor.IsZero() {
		return h.now(), nil
	}
	return anchor, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	if status >= http.StatusInternalServerError {
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("op", op)
			scope.SetTag("status", fmt.Sprintf("%d", status))
			sentry.CaptureException(errors.New(msg))
		})
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}
