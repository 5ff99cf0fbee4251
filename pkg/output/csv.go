package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/iwvelando/anvil-calc/internal/alloy"
	"github.com/iwvelando/anvil-calc/internal/forging"
	"github.com/iwvelando/anvil-calc/internal/store"
	"github.com/iwvelando/anvil-calc/pkg/mathutil"
)

func writeCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

func csvActions(w io.Writer, actions []forging.Action) error {
	records := [][]string{{"name", "title", "value"}}
	for _, a := range actions {
		records = append(records, []string{a.Name, a.Title, strconv.Itoa(a.Value)})
	}
	return writeCSV(w, records)
}

func csvSolution(w io.Writer, sol forging.Solution) error {
	records := [][]string{{"step", "phase", "action", "value", "running"}}
	running := 0
	for i, a := range sol.Actions() {
		phase := "forging"
		if i >= len(sol.Forging) {
			phase = "finishing"
		}
		running += a.Value
		records = append(records, []string{
			strconv.Itoa(i + 1), phase, a.Name, strconv.Itoa(a.Value), strconv.Itoa(running),
		})
	}
	return writeCSV(w, records)
}

func csvPlan(w io.Writer, plan *alloy.Plan) error {
	records := [][]string{{"batch", "count", "size", "component", "ingots", "percent", "volume"}}
	add := func(label string, count int, b alloy.Batch) {
		for _, item := range b.Items {
			records = append(records, []string{
				label,
				strconv.Itoa(count),
				strconv.Itoa(b.Size),
				item.Name,
				strconv.Itoa(item.Ingots),
				strconv.FormatFloat(mathutil.Round1(item.Percent(b.Size)), 'f', 1, 64),
				strconv.Itoa(item.Volume()),
			})
		}
	}
	add("base", plan.FullBatches, plan.Base)
	if plan.Remainder != nil {
		add("remainder", 1, *plan.Remainder)
	}
	for _, s := range plan.Suggestions {
		records = append(records, []string{"suggestion", "", strconv.Itoa(s), "", "", "", ""})
	}
	return writeCSV(w, records)
}

func csvResults(w io.Writer, results []store.SavedResult) error {
	records := [][]string{{"id", "kind", "folder", "name"}}
	for _, r := range results {
		records = append(records, []string{
			strconv.FormatInt(r.ID, 10), string(r.Kind), folderLabel(r.FolderID), r.Name,
		})
	}
	return writeCSV(w, records)
}

func csvResult(w io.Writer, r store.SavedResult) error {
	if r.Kind == store.KindAlloy {
		records := [][]string{{"component", "count", "percent", "minPercent", "maxPercent"}}
		for _, c := range r.Components {
			records = append(records, []string{
				c.Name,
				strconv.Itoa(c.Count),
				strconv.FormatFloat(c.Percent, 'f', 1, 64),
				strconv.FormatFloat(c.MinPercent, 'f', 1, 64),
				strconv.FormatFloat(c.MaxPercent, 'f', 1, 64),
			})
		}
		return writeCSV(w, records)
	}

	records := [][]string{{"step", "action", "value"}}
	for i, a := range r.Solution {
		records = append(records, []string{strconv.Itoa(i + 1), a.Name, strconv.Itoa(a.Value)})
	}
	return writeCSV(w, records)
}

func csvFolders(w io.Writer, folders []store.Folder) error {
	records := [][]string{{"id", "name", "createdAt"}}
	for _, f := range folders {
		records = append(records, []string{
			strconv.FormatInt(f.ID, 10), f.Name, f.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return writeCSV(w, records)
}
