package alloy

import (
	"errors"
	"fmt"

	"github.com/iwvelando/anvil-calc/pkg/constants"
	"go.uber.org/zap"
)

var (
	// ErrNoRanges is returned when planning without any components.
	ErrNoRanges = errors.New("at least one component range is required")

	// ErrInvalidTotal is returned for a non-positive total unit count.
	ErrInvalidTotal = errors.New("total units must be positive")

	// ErrBatchSizeOutOfRange is returned for a fixed batch size outside
	// [1, MaxBatchSize].
	ErrBatchSizeOutOfRange = errors.New("batch size out of range")

	// ErrNoBatchForSize is returned when no split exists for a fixed batch size.
	ErrNoBatchForSize = errors.New("no solution for this batch size")

	// ErrNoFeasibleBatchSize is returned when no batch size up to
	// MaxBatchSize can be composed.
	ErrNoFeasibleBatchSize = errors.New("no feasible batch size")
)

// Plan is a set of batches reaching a requested total.
type Plan struct {
	Requested   int    `json:"requested" yaml:"requested"`
	AutoBatch   bool   `json:"autoBatch" yaml:"autoBatch"`
	Base        Batch  `json:"base" yaml:"base"`
	FullBatches int    `json:"fullBatches" yaml:"fullBatches"`
	Remainder   *Batch `json:"remainder,omitempty" yaml:"remainder,omitempty"`

	// Suggestions are nearby totals that can be planned exactly. Only set
	// when the remainder could not be composed.
	Suggestions []int `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// TotalUnits is the number of units the plan produces.
func (p Plan) TotalUnits() int {
	total := p.FullBatches * p.Base.Size
	if p.Remainder != nil {
		total += p.Remainder.Size
	}
	return total
}

// TotalVolume is the melted volume of every batch in the plan.
func (p Plan) TotalVolume() int {
	return p.TotalUnits() * constants.UnitVolume
}

// Exact reports whether the plan produces the requested total.
func (p Plan) Exact() bool {
	return p.TotalUnits() == p.Requested
}

// Planner plans alloy batches.
type Planner struct {
	logger *zap.Logger
}

// NewPlanner creates a Planner. A nil logger disables logging.
func NewPlanner(logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{logger: logger}
}

// PlanAuto picks the largest batch size that can be composed and plans
// total units with it.
func (p *Planner) PlanAuto(ranges []Range, total int) (*Plan, error) {
	if err := checkInputs(ranges, total); err != nil {
		return nil, err
	}

	for size := constants.MaxBatchSize; size >= 1; size-- {
		base, ok := ComposeBatch(ranges, size)
		if !ok {
			continue
		}
		plan := p.complete(ranges, total, base)
		plan.AutoBatch = true
		p.logPlan("alloy.PlanAuto", plan)
		return plan, nil
	}

	p.logger.Debug("no batch size can be composed",
		zap.String("op", "alloy.PlanAuto"),
		zap.Int("ranges", len(ranges)),
		zap.Int("total", total),
	)
	return nil, fmt.Errorf("%w: tried sizes 1 to %d", ErrNoFeasibleBatchSize, constants.MaxBatchSize)
}

// PlanFixed plans total units with the given batch size.
func (p *Planner) PlanFixed(ranges []Range, total, size int) (*Plan, error) {
	if size < 1 || size > constants.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrBatchSizeOutOfRange, size, constants.MaxBatchSize)
	}
	if err := checkInputs(ranges, total); err != nil {
		return nil, err
	}

	base, ok := ComposeBatch(ranges, size)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoBatchForSize, size)
	}
	plan := p.complete(ranges, total, base)
	p.logPlan("alloy.PlanFixed", plan)
	return plan, nil
}

// PlanAuto plans with a no-op logger.
func PlanAuto(ranges []Range, total int) (*Plan, error) {
	return NewPlanner(nil).PlanAuto(ranges, total)
}

// PlanFixed plans with a no-op logger.
func PlanFixed(ranges []Range, total, size int) (*Plan, error) {
	return NewPlanner(nil).PlanFixed(ranges, total, size)
}

// Suggest lists up to MaxSuggestions totals within SuggestionRadius of
// total that plan exactly with batch size size, nearest first and the
// larger candidate first at equal distance.
func Suggest(ranges []Range, total, size int) []int {
	var out []int
	for d := 1; d <= constants.SuggestionRadius && len(out) < constants.MaxSuggestions; d++ {
		for _, candidate := range [2]int{total + d, total - d} {
			if candidate <= 0 || len(out) == constants.MaxSuggestions {
				continue
			}
			rem := candidate % size
			if rem == 0 {
				out = append(out, candidate)
				continue
			}
			if _, ok := ComposeBatch(ranges, rem); ok {
				out = append(out, candidate)
			}
		}
	}
	return out
}

func checkInputs(ranges []Range, total int) error {
	if len(ranges) == 0 {
		return ErrNoRanges
	}
	if total <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTotal, total)
	}
	return ValidateRanges(ranges).Err()
}

func (p *Planner) complete(ranges []Range, total int, base Batch) *Plan {
	plan := &Plan{
		Requested:   total,
		Base:        base,
		FullBatches: total / base.Size,
	}

	rem := total % base.Size
	if rem == 0 {
		return plan
	}
	if batch, ok := ComposeBatch(ranges, rem); ok {
		plan.Remainder = &batch
		return plan
	}
	plan.Suggestions = Suggest(ranges, total, base.Size)
	return plan
}

func (p *Planner) logPlan(op string, plan *Plan) {
	remainder := 0
	if plan.Remainder != nil {
		remainder = plan.Remainder.Size
	}
	p.logger.Debug("alloy plan computed",
		zap.String("op", op),
		zap.Int("requested", plan.Requested),
		zap.Int("batchSize", plan.Base.Size),
		zap.Int("fullBatches", plan.FullBatches),
		zap.Int("remainder", remainder),
		zap.Ints("suggestions", plan.Suggestions),
	)
}
