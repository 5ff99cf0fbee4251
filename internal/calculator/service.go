// Package calculator turns user requests into forge solutions and alloy
// plans and optionally saves them.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/anvil-calc/internal/alloy"
	"github.com/iwvelando/anvil-calc/internal/forging"
	"github.com/iwvelando/anvil-calc/internal/store"
	"github.com/iwvelando/anvil-calc/pkg/mathutil"
	"github.com/iwvelando/anvil-calc/pkg/validation"
	"go.uber.org/zap"
)

var (
	// ErrInvalidRequest is returned when a request fails struct validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrStoreUnavailable is returned when saving without a store.
	ErrStoreUnavailable = errors.New("saving requires a configured store")
)

// ResultSaver persists saved results.
type ResultSaver interface {
	SaveResult(ctx context.Context, result *store.SavedResult) error
}

// ForgeRequest asks for a forge sequence.
type ForgeRequest struct {
	// Target is the number typed by the user; digits only.
	Target    string   `json:"target" yaml:"target"`
	Finishing []string `json:"finishing" yaml:"finishing" validate:"dive,required"`

	// Save names the result to store; empty skips saving.
	Save     string `json:"save,omitempty" yaml:"save,omitempty" validate:"max=128"`
	FolderID *int64 `json:"folderId,omitempty" yaml:"folderId,omitempty"`
}

// ComponentInput is one alloy component as entered by the user.
type ComponentInput struct {
	Name string  `json:"name" yaml:"name" validate:"required,max=64"`
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
}

// AlloyRequest asks for an alloy plan.
type AlloyRequest struct {
	Components []ComponentInput `json:"components" yaml:"components" validate:"required,min=1,dive"`
	TotalUnits int              `json:"totalUnits" yaml:"totalUnits" validate:"gt=0"`

	// BatchSize fixes the batch size; zero picks it automatically.
	BatchSize int `json:"batchSize,omitempty" yaml:"batchSize,omitempty"`

	Save     string `json:"save,omitempty" yaml:"save,omitempty" validate:"max=128"`
	FolderID *int64 `json:"folderId,omitempty" yaml:"folderId,omitempty"`
}

// ForgeResponse carries a solution and the saved record, if any.
type ForgeResponse struct {
	Solution forging.Solution   `json:"solution" yaml:"solution"`
	Saved    *store.SavedResult `json:"saved,omitempty" yaml:"saved,omitempty"`
}

// AlloyResponse carries a plan, the ranges it was computed from and the
// saved record, if any.
type AlloyResponse struct {
	Ranges []alloy.Range      `json:"ranges" yaml:"ranges"`
	Bounds alloy.Bounds       `json:"bounds" yaml:"bounds"`
	Plan   *alloy.Plan        `json:"plan,omitempty" yaml:"plan,omitempty"`
	Saved  *store.SavedResult `json:"saved,omitempty" yaml:"saved,omitempty"`
}

// Service runs the solvers for user requests.
type Service struct {
	logger    *zap.Logger
	solver    *forging.Solver
	planner   *alloy.Planner
	validator *validation.Validator
	results   ResultSaver
}

// NewService creates a Service. results may be nil when saving is not
// needed; a nil logger disables logging.
func NewService(logger *zap.Logger, results ResultSaver) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:    logger,
		solver:    forging.NewSolver(logger),
		planner:   alloy.NewPlanner(logger),
		validator: validation.NewValidator(),
		results:   results,
	}
}

// Forge solves a forge request. When no sequence exists the response still
// carries the solver diagnostics alongside forging.ErrNoForgeSolution.
func (s *Service) Forge(ctx context.Context, req ForgeRequest) (*ForgeResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if req.Save != "" && s.results == nil {
		return nil, ErrStoreUnavailable
	}

	target, err := validation.ValidateTargetText(req.Target)
	if err != nil {
		return nil, err
	}
	finishing, err := forging.LookupAll(req.Finishing)
	if err != nil {
		return nil, err
	}

	sol, err := s.solver.Solve(target, finishing)
	if errors.Is(err, forging.ErrMissingSelection) {
		return nil, err
	}
	resp := &ForgeResponse{Solution: sol}
	if err != nil {
		return resp, err
	}

	if req.Save != "" {
		saved := &store.SavedResult{
			Name:      req.Save,
			Kind:      store.KindForge,
			FolderID:  req.FolderID,
			Target:    sol.Target,
			Finishing: sol.Finishing,
			Solution:  sol.Actions(),
		}
		if err := s.results.SaveResult(ctx, saved); err != nil {
			return resp, fmt.Errorf("failed to save forge solution: %w", err)
		}
		resp.Saved = saved
	}

	s.logger.Info("forge solved",
		zap.String("op", "calculator.Forge"),
		zap.Int("target", sol.Target),
		zap.Int("steps", len(sol.Actions())),
		zap.Bool("saved", resp.Saved != nil),
	)
	return resp, nil
}

// PlanAlloy plans an alloy request. Range errors are returned before any
// planning happens.
func (s *Service) PlanAlloy(ctx context.Context, req AlloyRequest) (*AlloyResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if req.Save != "" && s.results == nil {
		return nil, ErrStoreUnavailable
	}

	session := alloy.NewSession()
	for _, c := range req.Components {
		if _, err := session.Add(c.Name, c.Min, c.Max); err != nil {
			return nil, err
		}
	}

	resp := &AlloyResponse{
		Ranges: session.Ranges(),
		Bounds: session.Bounds(),
	}

	var plan *alloy.Plan
	var err error
	if req.BatchSize == 0 {
		plan, err = s.planner.PlanAuto(resp.Ranges, req.TotalUnits)
	} else {
		plan, err = s.planner.PlanFixed(resp.Ranges, req.TotalUnits, req.BatchSize)
	}
	if err != nil {
		return resp, err
	}
	resp.Plan = plan

	if req.Save != "" {
		saved := &store.SavedResult{
			Name:        req.Save,
			Kind:        store.KindAlloy,
			FolderID:    req.FolderID,
			TotalUnits:  req.TotalUnits,
			MaxPerBatch: plan.Base.Size,
			AutoBatch:   plan.AutoBatch,
			Components:  savedComponents(resp.Ranges, plan.Base),
		}
		if err := s.results.SaveResult(ctx, saved); err != nil {
			return resp, fmt.Errorf("failed to save alloy plan: %w", err)
		}
		resp.Saved = saved
	}

	s.logger.Info("alloy planned",
		zap.String("op", "calculator.PlanAlloy"),
		zap.Int("components", len(resp.Ranges)),
		zap.Int("totalUnits", req.TotalUnits),
		zap.Int("batchSize", plan.Base.Size),
		zap.Bool("exact", plan.Exact()),
		zap.Bool("saved", resp.Saved != nil),
	)
	return resp, nil
}

func (s *Service) validate(req any) error {
	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func savedComponents(ranges []alloy.Range, base alloy.Batch) []store.Component {
	out := make([]store.Component, len(ranges))
	for i, r := range ranges {
		item, _ := base.Item(r.Name)
		out[i] = store.Component{
			Name:       r.Name,
			MinPercent: r.MinPercent,
			MaxPercent: r.MaxPercent,
			Count:      item.Ingots,
			Percent:    mathutil.Round1(item.Percent(base.Size)),
		}
	}
	return out
}

// ParseComponent reads a component written as name:min:max.
func ParseComponent(s string) (ComponentInput, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return ComponentInput{}, fmt.Errorf("component %q: expected name:min:max", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return ComponentInput{}, fmt.Errorf("component %q: invalid minimum: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return ComponentInput{}, fmt.Errorf("component %q: invalid maximum: %w", s, err)
	}
	return ComponentInput{Name: strings.TrimSpace(parts[0]), Min: lo, Max: hi}, nil
}
