package forging_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/iwvelando/anvil-calc/internal/forging"
)

type solverContext struct {
	finishing []forging.Action
	solution  forging.Solution
	err       error
}

func (c *solverContext) theFinishingActions(list string) error {
	actions, err := forging.LookupAll(splitList(list))
	if err != nil {
		return err
	}
	c.finishing = actions
	return nil
}

func (c *solverContext) iSolveForTarget(target int) error {
	c.solution, c.err = forging.Solve(target, c.finishing)
	return nil
}

func (c *solverContext) aSolutionIsFound() error {
	if c.err != nil {
		return fmt.Errorf("expected a solution, got %v", c.err)
	}
	return nil
}

func (c *solverContext) noSolutionIsFound() error {
	if !errors.Is(c.err, forging.ErrNoForgeSolution) {
		return fmt.Errorf("expected ErrNoForgeSolution, got %v", c.err)
	}
	if len(c.solution.Actions()) != 0 {
		return fmt.Errorf("expected empty sequence, got %v", c.solution.Actions())
	}
	return nil
}

func (c *solverContext) theSelectionIsReportedMissing() error {
	if !errors.Is(c.err, forging.ErrMissingSelection) {
		return fmt.Errorf("expected ErrMissingSelection, got %v", c.err)
	}
	return nil
}

func (c *solverContext) theNeededSumIs(sum int) error {
	if c.solution.NeededSum != sum {
		return fmt.Errorf("needed sum is %d, expected %d", c.solution.NeededSum, sum)
	}
	return nil
}

func (c *solverContext) theForgingPhaseHasActions(n int) error {
	if len(c.solution.Forging) != n {
		return fmt.Errorf("forging phase has %d actions (%v), expected %d", len(c.solution.Forging), c.solution.Forging, n)
	}
	return nil
}

func (c *solverContext) theSequenceSumsTo(sum int) error {
	if got := c.solution.Sum(); got != sum {
		return fmt.Errorf("sequence sums to %d, expected %d", got, sum)
	}
	return nil
}

func (c *solverContext) theSequenceEndsWith(list string) error {
	want, err := forging.LookupAll(splitList(list))
	if err != nil {
		return err
	}
	actions := c.solution.Actions()
	if len(actions) < len(want) {
		return fmt.Errorf("sequence %v shorter than %v", actions, want)
	}
	tail := actions[len(actions)-len(want):]
	for i := range want {
		if tail[i] != want[i] {
			return fmt.Errorf("sequence ends with %v, expected %v", tail, want)
		}
	}
	return nil
}

func splitList(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func initializeScenario(sc *godog.ScenarioContext) {
	c := &solverContext{}
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*c = solverContext{}
		return ctx, nil
	})

	sc.Step(`^the finishing actions "([^"]*)"$`, c.theFinishingActions)
	sc.Step(`^I solve for target (-?\d+)$`, c.iSolveForTarget)
	sc.Step(`^a solution is found$`, c.aSolutionIsFound)
	sc.Step(`^no solution is found$`, c.noSolutionIsFound)
	sc.Step(`^the selection is reported missing$`, c.theSelectionIsReportedMissing)
	sc.Step(`^the needed sum is (-?\d+)$`, c.theNeededSumIs)
	sc.Step(`^the forging phase has (\d+) actions$`, c.theForgingPhaseHasActions)
	sc.Step(`^the sequence sums to (-?\d+)$`, c.theSequenceSumsTo)
	sc.Step(`^the sequence ends with "([^"]*)"$`, c.theSequenceEndsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
