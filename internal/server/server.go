// Package server exposes the forge solver, the alloy planner and saved
// results as a JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/anvil-calc/internal/alloy"
	"github.com/iwvelando/anvil-calc/internal/calculator"
	"github.com/iwvelando/anvil-calc/internal/forging"
	"github.com/iwvelando/anvil-calc/internal/store"
	"github.com/iwvelando/anvil-calc/pkg/constants"
	"github.com/iwvelando/anvil-calc/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type requestIDKey struct{}

type handler struct {
	logger      *zap.Logger
	service     *calculator.Service
	repo        *store.Repository
	limiter     *rate.Limiter
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler serving the calculator API. repo
// may be nil, in which case saving and the results and folders endpoints
// answer 503.
func NewHandler(logger *zap.Logger, cfg *Config, repo *store.Repository, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	var saver calculator.ResultSaver
	if repo != nil {
		saver = repo
	}

	h := &handler{
		logger:      logger,
		service:     calculator.NewService(logger, saver),
		repo:        repo,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst),
		maxBodySize: cfg.BodySizeBytes(),
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()

	// Catalog and compute endpoints
	mux.HandleFunc("/api/actions", h.handleActions)
	mux.HandleFunc("/api/forge", h.limited(h.handleForge))
	mux.HandleFunc("/api/alloy/plan", h.limited(h.handlePlan))

	// Saved results and folders
	mux.HandleFunc("/api/results", h.handleResults)
	mux.HandleFunc("/api/results/{id}", h.handleResult)
	mux.HandleFunc("/api/folders", h.handleFolders)
	mux.HandleFunc("/api/folders/{id}", h.handleFolder)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(mux)
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(constants.RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(constants.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// limited rejects requests once the compute token bucket is empty.
func (h *handler) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.Allow() {
			h.respondErrorWithOp(w, r, http.StatusTooManyRequests, "rate limit exceeded", "server.limited")
			return
		}
		next(w, r)
	}
}

func (h *handler) requestLogger(r *http.Request) *zap.Logger {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return h.logger.With(zap.String("requestId", id))
	}
	return h.logger
}

func (h *handler) handleActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string][]forging.Action{
		"actions": forging.Catalog(),
	})
}

type forgeErrorResponse struct {
	Error    string            `json:"error"`
	Solution *forging.Solution `json:"solution,omitempty"`
}

func (h *handler) handleForge(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForge"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req calculator.ForgeRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	resp, err := h.service.Forge(r.Context(), req)
	if err != nil {
		status := StatusFor(err)
		if resp != nil && errors.Is(err, forging.ErrNoForgeSolution) {
			h.requestLogger(r).Warn("forge request failed",
				zap.String("op", op),
				zap.Int("status", status),
				zap.Error(err),
			)
			h.writeJSON(w, status, forgeErrorResponse{Error: err.Error(), Solution: &resp.Solution})
			return
		}
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePlan"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req calculator.AlloyRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	resp, err := h.service.PlanAlloy(r.Context(), req)
	if err != nil {
		h.respondErrorWithOp(w, r, StatusFor(err), err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleResults(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleResults"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if !h.requireStore(w, r, op) {
		return
	}

	filter, err := store.ParseFolderFilter(r.URL.Query().Get("folder"))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	results, err := h.repo.ListResults(r.Context(), filter)
	if err != nil {
		h.respondErrorWithOp(w, r, StatusFor(err), err.Error(), op)
		return
	}
	if results == nil {
		results = []store.SavedResult{}
	}
	h.writeJSON(w, http.StatusOK, map[string][]store.SavedResult{"results": results})
}

type resultPatch struct {
	Name   *string `json:"name,omitempty"`
	Folder *string `json:"folder,omitempty"`
}

func (h *handler) handleResult(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleResult"
	if !h.requireStore(w, r, op) {
		return
	}

	id, ok := h.pathID(w, r, op)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
	case http.MethodPatch:
		var patch resultPatch
		if !h.decodeBody(w, r, &patch, op) {
			return
		}
		if err := h.applyPatch(r.Context(), id, patch); err != nil {
			h.respondErrorWithOp(w, r, StatusFor(err), err.Error(), op)
			return
		}
	case http.MethodDelete:
		if err := h.repo.DeleteResult(r.Context(), id); err != nil {
			h.respondErrorWithOp(w, r, StatusFor(err), err.Error(), op)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	result, err := h.repo.FindResult(r.Context(), id)
	if err != nil {
		h.respondErrorWithOp(w, r, StatusFor(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) applyPatch(ctx context.Context, id int64, patch resultPatch) error {
	if patch.Name == nil && patch.Folder == nil {
		return fmt.Errorf("%w: nothing to update", calculator.ErrInvalidRequest)
	}
	var dest *int64
	if patch.Folder != nil {
		var err error
		dest, err = store.ParseFolderTarget(*patch.Folder)
		if err != nil {
			return fmt.Errorf("%w: %v", calculator.ErrInvalidRequest, err)
		}
	}
	// Rename and move commit together or not at all.
	return h.repo.Transaction(ctx, func(tx *store.Repository) error {
		if patch.Name != nil {
			if err := tx.RenameResult(ctx, id, *patch.Name); err != nil {
				return err
			}
		}
		if patch.Folder != nil {
			return tx.MoveResult(ctx, id, dest)
		}
		return nil
	})
}

type folderRequest struct {
	Name string `json:"name"`
}

func (h *handler) handleFolders(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleFolders"
	if !h.requireStore(w, r, op) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		folders, err := h.repo.ListFolders(r.Context())
		if err != nil {
			h.respondErrorWithOp(w, r, StatusFor(err), err.Error(), op)
			return
		}
		if folders == nil {
			folders = []store.Folder{}
		}
		h.writeJSON(w, http.StatusOK, map[string][]store.Folder{"folders": folders})
	case http.MethodPost:
		var req folderRequest
		if !h.decodeBody(w, r, &req, op) {
			return
		}
		folder, err := h.repo.CreateFolder(r.Context(), req.Name)
		if err != nil {
			h.respondErrorWithOp(w, r, StatusFor(err), err.Error(), op)
			return
		}
		h.writeJSON(w, http.StatusCreated, folder)
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleFolder(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleFolder"
	if r.Method != http.MethodDelete {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if !h.requireStore(w, r, op) {
		return
	}

	id, ok := h.pathID(w, r, op)
	if !ok {
		return
	}
	if err := h.repo.DeleteFolder(r.Context(), id); err != nil {
		h.respondErrorWithOp(w, r, StatusFor(err), err.Error(), op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
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

func (h *handler) requireStore(w http.ResponseWriter, r *http.Request, op string) bool {
	if h.repo == nil {
		h.respondErrorWithOp(w, r, http.StatusServiceUnavailable, calculator.ErrStoreUnavailable.Error(), op)
		return false
	}
	return true
}

func (h *handler) pathID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("invalid id %q", raw), op)
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON body into dst, answering 413 or 400 on failure.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, calculator.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, calculator.ErrInvalidRequest),
		errors.Is(err, validation.ErrInvalidTarget),
		errors.Is(err, forging.ErrUnknownAction),
		errors.Is(err, alloy.ErrInvalidRange),
		errors.Is(err, alloy.ErrBlankName),
		errors.Is(err, alloy.ErrDuplicateName),
		errors.Is(err, store.ErrBlankName):
		return http.StatusBadRequest
	case errors.Is(err, forging.ErrMissingSelection),
		errors.Is(err, forging.ErrNoForgeSolution),
		errors.Is(err, alloy.ErrNoRanges),
		errors.Is(err, alloy.ErrInvalidTotal),
		errors.Is(err, alloy.ErrInfeasibleRangeSet),
		errors.Is(err, alloy.ErrBatchSizeOutOfRange),
		errors.Is(err, alloy.ErrNoBatchForSize),
		errors.Is(err, alloy.ErrNoFeasibleBatchSize):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	}
	if status >= http.StatusInternalServerError {
		h.requestLogger(r).Error("request failed", fields...)
	} else {
		h.requestLogger(r).Warn("request rejected", fields...)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
