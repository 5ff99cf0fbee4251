package main

import (
	"errors"
	"fmt"

	"github.com/iwvelando/anvil-calc/internal/calculator"
	"github.com/iwvelando/anvil-calc/internal/forging"
	"github.com/iwvelando/anvil-calc/internal/store"
	"github.com/iwvelando/anvil-calc/pkg/constants"
	"github.com/iwvelando/anvil-calc/pkg/output"
	"github.com/spf13/cobra"
)

func newActionsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the anvil actions and their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return output.WriteActions(out(cmd), a.format, forging.Catalog())
		},
	}
}

// saveOptions are the flags shared by commands that can save their result.
type saveOptions struct {
	name   string
	folder string
}

func (o *saveOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.name, "save", "", "save the result under this name")
	cmd.Flags().StringVar(&o.folder, "folder", "root", "folder to save into: root or a folder id")
}

func (o *saveOptions) folderID() (*int64, error) {
	return store.ParseFolderTarget(o.folder)
}

// service builds a calculator service, opening the store only when the
// result is saved.
func (a *app) service(save bool) (*calculator.Service, func(), error) {
	if !save {
		return calculator.NewService(a.logger, nil), func() {}, nil
	}
	repo, closeDB, err := a.openRepository()
	if err != nil {
		return nil, nil, err
	}
	return calculator.NewService(a.logger, repo), closeDB, nil
}

func newForgeCommand(a *app) *cobra.Command {
	var (
		target    string
		finishing []string
		trace     bool
		save      saveOptions
	)

	cmd := &cobra.Command{
		Use:   "forge",
		Short: "Find the shortest forge sequence for a target",
		Long: `Find the shortest sequence of forging actions that, followed by the three
finishing actions, lands exactly on the target.

Examples:
  anvil-calc forge --target 25 --finish hit,hit,hit
  anvil-calc forge --target 1 --finish skip,skip,skip --trace`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			folderID, err := save.folderID()
			if err != nil {
				return err
			}

			svc, closeDB, err := a.service(save.name != "")
			if err != nil {
				return err
			}
			defer closeDB()

			resp, err := svc.Forge(cmd.Context(), calculator.ForgeRequest{
				Target:    target,
				Finishing: finishing,
				Save:      save.name,
				FolderID:  folderID,
			})
			if err != nil {
				if resp != nil && errors.Is(err, forging.ErrNoForgeSolution) {
					if writeErr := output.WriteSolution(out(cmd), a.format, resp.Solution, true); writeErr != nil {
						return writeErr
					}
				}
				return err
			}

			if err := output.WriteSolution(out(cmd), a.format, resp.Solution, trace); err != nil {
				return err
			}
			if resp.Saved != nil && a.format == constants.OutputFormatPretty {
				fmt.Fprintf(out(cmd), "Saved as #%d %q\n", resp.Saved.ID, resp.Saved.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "target number (digits only)")
	cmd.Flags().StringSliceVar(&finishing, "finish", nil, "the three finishing actions, in the order they are applied")
	cmd.Flags().BoolVar(&trace, "trace", false, "include every examined sum in the output")
	save.register(cmd)
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("finish")

	return cmd
}

func newAlloyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alloy",
		Short: "Plan alloy batches",
	}
	cmd.AddCommand(newAlloyPlanCommand(a))
	return cmd
}

func newAlloyPlanCommand(a *app) *cobra.Command {
	var (
		components []string
		total      int
		batchSize  int
		save       saveOptions
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan batches covering a total number of units",
		Long: `Plan alloy batches whose integer ingot split keeps every component inside
its percentage range. Without --batch-size the largest feasible batch is
picked automatically.

Examples:
  anvil-calc alloy plan --component Copper:88:92 --component Tin:8:12 --total 46
  anvil-calc alloy plan --component A:50:50 --component B:50:50 --total 25 --batch-size 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := calculator.AlloyRequest{
				TotalUnits: total,
				BatchSize:  batchSize,
				Save:       save.name,
			}
			for _, c := range components {
				input, err := calculator.ParseComponent(c)
				if err != nil {
					return err
				}
				req.Components = append(req.Components, input)
			}

			folderID, err := save.folderID()
			if err != nil {
				return err
			}
			req.FolderID = folderID

			svc, closeDB, err := a.service(save.name != "")
			if err != nil {
				return err
			}
			defer closeDB()

			resp, err := svc.PlanAlloy(cmd.Context(), req)
			if err != nil {
				return err
			}

			if err := output.WritePlan(out(cmd), a.format, resp.Plan); err != nil {
				return err
			}
			if resp.Saved != nil && a.format == constants.OutputFormatPretty {
				fmt.Fprintf(out(cmd), "Saved as #%d %q\n", resp.Saved.ID, resp.Saved.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&components, "component", nil, "component as name:min:max, repeatable")
	cmd.Flags().IntVar(&total, "total", 0, "total units to produce")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "fixed batch size (1-20); 0 picks automatically")
	save.register(cmd)
	_ = cmd.MarkFlagRequired("component")
	_ = cmd.MarkFlagRequired("total")

	return cmd
}
