// Package forging holds the anvil action catalog and the solver that finds
// the shortest sequence of forging actions reaching a target, closed by
// three finishing actions.
package forging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrUnknownAction is returned when a name matches no catalog action.
var ErrUnknownAction = errors.New("unknown action")

// Action is a single anvil move with a signed weight.
type Action struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
	Value int    `json:"value" yaml:"value"`
}

// Forging reports whether the action builds up magnitude.
func (a Action) Forging() bool {
	return a.Value > 0
}

func (a Action) String() string {
	return fmt.Sprintf("%s(%d)", a.Title, a.Value)
}

// Catalog entries.
var (
	Skip     = Action{Name: "skip", Title: "Skip", Value: 0}
	LightHit = Action{Name: "light-hit", Title: "Light hit", Value: -3}
	Hit      = Action{Name: "hit", Title: "Hit", Value: -6}
	HeavyHit = Action{Name: "heavy-hit", Title: "Heavy hit", Value: -9}
	Draw     = Action{Name: "draw", Title: "Draw", Value: -15}
	Punch    = Action{Name: "punch", Title: "Punch", Value: 2}
	Bend     = Action{Name: "bend", Title: "Bend", Value: 7}
	Shrink   = Action{Name: "shrink", Title: "Shrink", Value: 13}
	Upset    = Action{Name: "upset", Title: "Upset", Value: 16}
)

var catalog = [...]Action{Skip, LightHit, Hit, HeavyHit, Draw, Punch, Bend, Shrink, Upset}

// maxTypos is the edit distance under which Lookup suggests a name.
const maxTypos = 2

// Catalog returns a copy of every action in display order.
func Catalog() []Action {
	out := make([]Action, len(catalog))
	copy(out, catalog[:])
	return out
}

// ForgingActions returns the positive actions, largest first.
func ForgingActions() []Action {
	var out []Action
	for _, a := range catalog {
		if a.Forging() {
			out = append(out, a)
		}
	}
	// catalog order is ascending by value for the positive tail
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Lookup resolves an action by name or title. Matching ignores case and
// treats spaces and underscores as hyphens.
func Lookup(name string) (Action, error) {
	key := normalizeName(name)
	if key == "" {
		return Action{}, fmt.Errorf("%w: empty name", ErrUnknownAction)
	}

	for _, a := range catalog {
		if key == a.Name || key == normalizeName(a.Title) {
			return a, nil
		}
	}

	best, bestDist := "", maxTypos+1
	for _, a := range catalog {
		if dist := levenshtein.ComputeDistance(key, a.Name); dist < bestDist {
			best, bestDist = a.Name, dist
		}
	}
	if best != "" {
		return Action{}, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownAction, name, best)
	}
	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// LookupAll resolves every name in order.
func LookupAll(names []string) ([]Action, error) {
	actions := make([]Action, 0, len(names))
	for _, name := range names {
		a, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Sum adds up the values of the actions.
func Sum(actions []Action) int {
	total := 0
	for _, a := range actions {
		total += a.Value
	}
	return total
}

func normalizeName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	return key
}
