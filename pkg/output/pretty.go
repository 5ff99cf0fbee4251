package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/anvil-calc/internal/alloy"
	"github.com/iwvelando/anvil-calc/internal/forging"
	"github.com/iwvelando/anvil-calc/internal/store"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

func prettyActions(w io.Writer, actions []forging.Action) error {
	p := newPrinter()
	_, _ = fmt.Fprintf(w, "Name       | Title      | Value\n")
	_, _ = fmt.Fprintf(w, "____       | _____      | _____\n")
	for _, a := range actions {
		_, _ = p.Fprintf(w, "%-10s | %-10s | %+d\n", a.Name, a.Title, a.Value)
	}
	return nil
}

func prettySolution(w io.Writer, sol forging.Solution) error {
	p := newPrinter()
	_, _ = p.Fprintf(w, "--- Forge target %d ---\n", sol.Target)
	_, _ = p.Fprintf(w, "Finishing: %s (sum %d)\n", joinActions(sol.Finishing), sol.FinishingSum)
	_, _ = p.Fprintf(w, "Needed from forging: %d\n", sol.NeededSum)

	if sol.Found {
		_, _ = fmt.Fprintf(w, "Step | Action     | Value | Running\n")
		_, _ = fmt.Fprintf(w, "____ | ______     | _____ | _______\n")
		running := 0
		for i, a := range sol.Actions() {
			running += a.Value
			_, _ = p.Fprintf(w, "%4d | %-10s | %+5d | %7d\n", i+1, a.Title, a.Value, running)
		}
		_, _ = p.Fprintf(w, "Total: %d in %d steps\n", sol.Sum(), len(sol.Forging)+len(sol.Finishing))
	} else {
		_, _ = p.Fprintf(w, "No solution within %d levels\n", sol.Levels)
	}

	if len(sol.Examined) > 0 {
		_, _ = fmt.Fprintf(w, "\nExamined sums:\n")
		for _, e := range sol.Examined {
			_, _ = p.Fprintf(w, "  %d: %s\n", e.Sum, joinActions(e.Path))
		}
	}
	return nil
}

func prettyPlan(w io.Writer, plan *alloy.Plan) error {
	p := newPrinter()
	mode := "fixed"
	if plan.AutoBatch {
		mode = "auto"
	}
	_, _ = p.Fprintf(w, "--- Alloy plan for %d units (%s batch size) ---\n", plan.Requested, mode)
	prettyBatch(w, p, fmt.Sprintf("Base batch x%d", plan.FullBatches), plan.Base)
	if plan.Remainder != nil {
		prettyBatch(w, p, "Remainder batch", *plan.Remainder)
	}
	_, _ = p.Fprintf(w, "Total: %d units, %d mB\n", plan.TotalUnits(), plan.TotalVolume())

	if !plan.Exact() {
		_, _ = p.Fprintf(w, "No remainder batch fits %d units", plan.Requested)
		if len(plan.Suggestions) > 0 {
			_, _ = fmt.Fprintf(w, "; try %s", joinInts(plan.Suggestions))
		}
		_, _ = fmt.Fprintln(w)
	}
	return nil
}

func prettyBatch(w io.Writer, p *message.Printer, title string, b alloy.Batch) {
	_, _ = p.Fprintf(w, "%s (size %d, %d mB):\n", title, b.Size, b.Volume())
	_, _ = fmt.Fprintf(w, "  Component  | Ingots | Percent | Volume\n")
	_, _ = fmt.Fprintf(w, "  _________  | ______ | _______ | ______\n")
	for _, item := range b.Items {
		_, _ = p.Fprintf(w, "  %-10s | %6d | %6.1f%% | %6d\n", item.Name, item.Ingots, item.Percent(b.Size), item.Volume())
	}
}

func prettyResults(w io.Writer, results []store.SavedResult) error {
	_, _ = fmt.Fprintf(w, "ID   | Kind  | Folder | Name\n")
	_, _ = fmt.Fprintf(w, "__   | ____  | ______ | ____\n")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%-4d | %-5s | %-6s | %s\n", r.ID, r.Kind, folderLabel(r.FolderID), r.Name)
	}
	return nil
}

func prettyResult(w io.Writer, r store.SavedResult) error {
	p := newPrinter()
	_, _ = p.Fprintf(w, "--- %s (#%d, %s, folder %s) ---\n", r.Name, r.ID, r.Kind, folderLabel(r.FolderID))

	if r.Kind == store.KindAlloy {
		_, _ = p.Fprintf(w, "Total units: %d\n", r.TotalUnits)
		_, _ = p.Fprintf(w, "Max per batch: %d\n", r.MaxPerBatch)
		_, _ = fmt.Fprintf(w, "Auto batch size: %t\n", r.AutoBatch)
		for _, c := range r.Components {
			_, _ = p.Fprintf(w, "  %s: %d (%.1f%%, range %.1f-%.1f%%)\n", c.Name, c.Count, c.Percent, c.MinPercent, c.MaxPercent)
		}
		return nil
	}

	_, _ = p.Fprintf(w, "Target: %d\n", r.Target)
	_, _ = fmt.Fprintf(w, "Finishing: %s\n", joinActions(r.Finishing))
	for i, a := range r.Solution {
		_, _ = p.Fprintf(w, "%d. %s (%+d)\n", i+1, a.Title, a.Value)
	}
	_, _ = p.Fprintf(w, "Total: %d\n", r.SolutionSum())
	return nil
}

func prettyFolders(w io.Writer, folders []store.Folder) error {
	_, _ = fmt.Fprintf(w, "ID   | Created    | Name\n")
	_, _ = fmt.Fprintf(w, "__   | _______    | ____\n")
	for _, f := range folders {
		_, _ = fmt.Fprintf(w, "%-4d | %s | %s\n", f.ID, f.CreatedAt.Format("2006-01-02"), f.Name)
	}
	return nil
}

func joinActions(actions []forging.Action) string {
	if len(actions) == 0 {
		return "-"
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

func folderLabel(id *int64) string {
	if id == nil {
		return "root"
	}
	return fmt.Sprint(*id)
}
