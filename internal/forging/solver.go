package forging

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/anvil-calc/pkg/constants"
	"go.uber.org/zap"
)

var (
	// ErrMissingSelection is returned when the finishing actions are not
	// exactly three.
	ErrMissingSelection = errors.New("exactly three finishing actions are required")

	// ErrNoForgeSolution is returned when no forging sequence reaches the
	// needed sum within the search bounds.
	ErrNoForgeSolution = errors.New("no forging sequence reaches the target")
)

// ExaminedSum is a partial sum reached during the search along with the
// shortest forging path found to it.
type ExaminedSum struct {
	Sum  int      `json:"sum" yaml:"sum"`
	Path []Action `json:"path" yaml:"path"`
}

// Solution is the outcome of a solve. Forging followed by Finishing sums to
// Target whenever the solve succeeded.
type Solution struct {
	Target       int      `json:"target" yaml:"target"`
	FinishingSum int      `json:"finishingSum" yaml:"finishingSum"`
	NeededSum    int      `json:"neededSum" yaml:"neededSum"`
	Forging      []Action `json:"forging" yaml:"forging"`
	Finishing    []Action `json:"finishing" yaml:"finishing"`
	Found        bool     `json:"found" yaml:"found"`

	// Levels is the number of search levels expanded.
	Levels int `json:"levels" yaml:"levels"`

	// Examined lists every sum the search reached, ascending.
	Examined []ExaminedSum `json:"examined,omitempty" yaml:"examined,omitempty"`
}

// Actions returns the full sequence, forging first. It is empty when no
// solution was found.
func (s Solution) Actions() []Action {
	if !s.Found {
		return nil
	}
	out := make([]Action, 0, len(s.Forging)+len(s.Finishing))
	out = append(out, s.Forging...)
	out = append(out, s.Finishing...)
	return out
}

// Sum adds up the full sequence.
func (s Solution) Sum() int {
	return Sum(s.Actions())
}

// Solver finds forge sequences over the fixed catalog.
type Solver struct {
	logger    *zap.Logger
	actions   []Action
	slack     int
	maxLevels int
}

// NewSolver creates a Solver. A nil logger disables logging.
func NewSolver(logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{
		logger:    logger,
		actions:   ForgingActions(),
		slack:     constants.ForgeSlack,
		maxLevels: constants.ForgeMaxLevels,
	}
}

// Solve finds a shortest sequence of forging actions that, followed by the
// finishing actions, sums to target.
func Solve(target int, finishing []Action) (Solution, error) {
	return NewSolver(nil).Solve(target, finishing)
}

// Solve finds a shortest sequence of forging actions that, followed by the
// finishing actions, sums to target. When no sequence exists within the
// search bounds the returned Solution still carries the examined sums and
// the error is ErrNoForgeSolution.
func (s *Solver) Solve(target int, finishing []Action) (Solution, error) {
	if len(finishing) != constants.FinishingActionCount {
		return Solution{}, fmt.Errorf("%w: got %d", ErrMissingSelection, len(finishing))
	}

	sol := Solution{
		Target:    target,
		Finishing: append([]Action(nil), finishing...),
	}
	sol.FinishingSum = Sum(finishing)
	switch {
	case sol.FinishingSum < 0 && target > math.MaxInt+sol.FinishingSum:
		sol.NeededSum = math.MaxInt
	case sol.FinishingSum > 0 && target < math.MinInt+sol.FinishingSum:
		sol.NeededSum = math.MinInt
	default:
		sol.NeededSum = target - sol.FinishingSum
	}

	// No path of maxLevels actions can pass reachable, so the search never
	// needs sums above reachable+slack however large the target is.
	reachable := s.maxLevels * s.actions[0].Value
	limit := sol.NeededSum
	if limit > reachable {
		limit = reachable
	}
	limit += s.slack
	if limit < 0 {
		limit = 0
	}

	// paths[sum] is the shortest known path to sum; reached marks which
	// entries are set since the empty path is a valid path to 0.
	paths := make([][]Action, limit+1)
	reached := make([]bool, limit+1)
	reached[0] = true

	isReached := func(sum int) bool {
		return sum >= 0 && sum <= limit && reached[sum]
	}

	frontier := []int{0}
	for sol.Levels < s.maxLevels && !isReached(sol.NeededSum) {
		sol.Levels++
		var next []int
		for _, sum := range frontier {
			for _, a := range s.actions {
				candidate := sum + a.Value
				if candidate > limit {
					continue
				}
				path := make([]Action, len(paths[sum])+1)
				copy(path, paths[sum])
				path[len(path)-1] = a
				if !reached[candidate] || len(paths[candidate]) > len(path) {
					paths[candidate] = path
					reached[candidate] = true
					next = append(next, candidate)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	for sum := 0; sum <= limit; sum++ {
		if reached[sum] {
			sol.Examined = append(sol.Examined, ExaminedSum{Sum: sum, Path: paths[sum]})
		}
	}

	if !isReached(sol.NeededSum) {
		s.logger.Debug("no forging sequence found",
			zap.String("op", "forging.Solve"),
			zap.Int("target", target),
			zap.Int("neededSum", sol.NeededSum),
			zap.Int("levels", sol.Levels),
			zap.Int("examined", len(sol.Examined)),
		)
		return sol, fmt.Errorf("%w: need %d from forging actions", ErrNoForgeSolution, sol.NeededSum)
	}

	sol.Forging = append([]Action{}, paths[sol.NeededSum]...)
	sol.Found = true

	s.logger.Debug("forging sequence found",
		zap.String("op", "forging.Solve"),
		zap.Int("target", target),
		zap.Int("neededSum", sol.NeededSum),
		zap.Int("forgingSteps", len(sol.Forging)),
		zap.Int("levels", sol.Levels),
	)
	return sol, nil
}
