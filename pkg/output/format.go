// Package output formats forge solutions, alloy plans and saved results for
// display.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/anvil-calc/internal/alloy"
	"github.com/iwvelando/anvil-calc/internal/forging"
	"github.com/iwvelando/anvil-calc/internal/store"
	"github.com/iwvelando/anvil-calc/pkg/constants"
	"github.com/iwvelando/anvil-calc/pkg/validation"
	"gopkg.in/yaml.v3"
)

// WriteActions writes the action catalog.
func WriteActions(w io.Writer, format string, actions []forging.Action) error {
	return write(w, format, actions, prettyActions, csvActions)
}

// WriteSolution writes a forge solution. Examined sums are only included
// when trace is set.
func WriteSolution(w io.Writer, format string, sol forging.Solution, trace bool) error {
	if !trace {
		sol.Examined = nil
	}
	return write(w, format, sol, prettySolution, csvSolution)
}

// WritePlan writes an alloy plan.
func WritePlan(w io.Writer, format string, plan *alloy.Plan) error {
	return write(w, format, plan, prettyPlan, csvPlan)
}

// WriteResult writes one saved result in full.
func WriteResult(w io.Writer, format string, result store.SavedResult) error {
	return write(w, format, result, prettyResult, csvResult)
}

// WriteResults writes a summary line per saved result.
func WriteResults(w io.Writer, format string, results []store.SavedResult) error {
	return write(w, format, results, prettyResults, csvResults)
}

// WriteFolders writes the folder list.
func WriteFolders(w io.Writer, format string, folders []store.Folder) error {
	return write(w, format, folders, prettyFolders, csvFolders)
}

func write[T any](w io.Writer, format string, v T, pretty, csv func(io.Writer, T) error) error {
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}

	switch format {
	case constants.OutputFormatPretty:
		return pretty(w, v)
	case constants.OutputFormatCSV:
		return csv(w, v)
	case constants.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case constants.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unhandled output format %s", format)
}
