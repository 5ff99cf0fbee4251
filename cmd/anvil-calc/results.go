package main

import (
	"fmt"
	"strconv"

	"github.com/iwvelando/anvil-calc/internal/store"
	"github.com/iwvelando/anvil-calc/pkg/output"
	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newResultsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Manage saved results",
		Long: `List, show, rename, move and delete saved forge solutions and alloy plans.

Examples:
  anvil-calc results list --folder root
  anvil-calc results show 3
  anvil-calc results rename 3 "Pickaxe head"
  anvil-calc results move 3 2
  anvil-calc results delete 3`,
	}

	cmd.AddCommand(newResultsListCommand(a))
	cmd.AddCommand(newResultsShowCommand(a))
	cmd.AddCommand(newResultsRenameCommand(a))
	cmd.AddCommand(newResultsMoveCommand(a))
	cmd.AddCommand(newResultsDeleteCommand(a))
	return cmd
}

func newResultsListCommand(a *app) *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := store.ParseFolderFilter(folder)
			if err != nil {
				return err
			}
			return a.withRepository(func(repo *store.Repository) error {
				results, err := repo.ListResults(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return output.WriteResults(out(cmd), a.format, results)
			})
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "all", "all, root or a folder id")
	return cmd
}

func newResultsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a saved result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withRepository(func(repo *store.Repository) error {
				result, err := repo.FindResult(cmd.Context(), id)
				if err != nil {
					return err
				}
				return output.WriteResult(out(cmd), a.format, *result)
			})
		},
	}
}

func newResultsRenameCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a saved result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withRepository(func(repo *store.Repository) error {
				return repo.RenameResult(cmd.Context(), id, args[1])
			})
		},
	}
}

func newResultsMoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move ID root|FOLDER_ID",
		Short: "Move a saved result to the root or into a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dest, err := store.ParseFolderTarget(args[1])
			if err != nil {
				return err
			}
			return a.withRepository(func(repo *store.Repository) error {
				return repo.MoveResult(cmd.Context(), id, dest)
			})
		},
	}
}

func newResultsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withRepository(func(repo *store.Repository) error {
				return repo.DeleteResult(cmd.Context(), id)
			})
		},
	}
}

func newFoldersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Manage folders of saved results",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepository(func(repo *store.Repository) error {
				folders, err := repo.ListFolders(cmd.Context())
				if err != nil {
					return err
				}
				return output.WriteFolders(out(cmd), a.format, folders)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepository(func(repo *store.Repository) error {
				folder, err := repo.CreateFolder(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return output.WriteFolders(out(cmd), a.format, []store.Folder{*folder})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a folder, moving its results to the root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withRepository(func(repo *store.Repository) error {
				return repo.DeleteFolder(cmd.Context(), id)
			})
		},
	})

	return cmd
}
