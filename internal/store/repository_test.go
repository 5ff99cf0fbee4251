package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwvelando/anvil-calc/internal/forging"
	"github.com/iwvelando/anvil-calc/internal/store"
	"github.com/iwvelando/anvil-calc/pkg/testutil"
)

func newRepo(t *testing.T) *store.Repository {
	t.Helper()
	return store.NewRepository(testutil.NewTestDB(t), nil)
}

func forgeResult(name string) *store.SavedResult {
	return &store.SavedResult{
		Name:      name,
		Kind:      store.KindForge,
		Target:    25,
		Finishing: []forging.Action{forging.Hit, forging.Hit, forging.Hit},
		Solution: []forging.Action{
			forging.Upset, forging.Upset, forging.Shrink, forging.Punch,
			forging.Hit, forging.Hit, forging.Hit,
		},
	}
}

func TestRepository_SaveAndFindForgeResult(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	ctx := context.Background()
	result := forgeResult("  Pickaxe head ")

	// Act
	err := repo.SaveResult(ctx, result)

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, result.ID)

	found, err := repo.FindResult(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pickaxe head", found.Name)
	assert.Equal(t, store.KindForge, found.Kind)
	assert.Equal(t, 25, found.Target)
	assert.Equal(t, result.Finishing, found.Finishing)
	assert.Equal(t, result.Solution, found.Solution)
	assert.Equal(t, 25, found.SolutionSum())
	assert.Nil(t, found.FolderID)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestRepository_SaveAlloyResult(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	ctx := context.Background()
	result := &store.SavedResult{
		Name:        "Bronze",
		Kind:        store.KindAlloy,
		TotalUnits:  46,
		MaxPerBatch: 20,
		AutoBatch:   true,
		Components: []store.Component{
			{Name: "Copper", MinPercent: 88, MaxPercent: 92, Count: 18, Percent: 90},
			{Name: "Tin", MinPercent: 8, MaxPercent: 12, Count: 2, Percent: 10},
		},
	}

	// Act
	require.NoError(t, repo.SaveResult(ctx, result))
	found, err := repo.FindResult(ctx, result.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, result.Components, found.Components)
	assert.Equal(t, 46, found.TotalUnits)
	assert.Equal(t, 20, found.MaxPerBatch)
	assert.True(t, found.AutoBatch)
	assert.Empty(t, found.Solution)
}

func TestRepository_SaveRejectsBlankNameAndUnknownFolder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	err := repo.SaveResult(ctx, forgeResult("   "))
	assert.ErrorIs(t, err, store.ErrBlankName)

	missing := int64(42)
	result := forgeResult("Orphan")
	result.FolderID = &missing
	err = repo.SaveResult(ctx, result)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_NotFound(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.FindResult(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, repo.RenameResult(ctx, 999, "x"), store.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteResult(ctx, 999), store.ErrNotFound)
	assert.ErrorIs(t, repo.MoveResult(ctx, 999, nil), store.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteFolder(ctx, 999), store.ErrNotFound)

	_, err = repo.FindFolder(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_RenameAndDelete(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	ctx := context.Background()
	result := forgeResult("Draft")
	require.NoError(t, repo.SaveResult(ctx, result))

	// Act
	require.NoError(t, repo.RenameResult(ctx, result.ID, "Final"))
	err := repo.RenameResult(ctx, result.ID, " ")

	// Assert
	assert.ErrorIs(t, err, store.ErrBlankName)
	found, err := repo.FindResult(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", found.Name)

	require.NoError(t, repo.DeleteResult(ctx, result.ID))
	_, err = repo.FindResult(ctx, result.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_FoldersAndFilters(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	ctx := context.Background()

	tools, err := repo.CreateFolder(ctx, "Tools")
	require.NoError(t, err)
	weapons, err := repo.CreateFolder(ctx, "Weapons")
	require.NoError(t, err)

	root := forgeResult("Ingot")
	pick := forgeResult("Pick")
	sword := forgeResult("Sword")
	require.NoError(t, repo.SaveResult(ctx, root))
	require.NoError(t, repo.SaveResult(ctx, pick))
	require.NoError(t, repo.SaveResult(ctx, sword))

	// Act
	require.NoError(t, repo.MoveResult(ctx, pick.ID, &tools.ID))
	require.NoError(t, repo.MoveResult(ctx, sword.ID, &weapons.ID))

	// Assert
	names := func(filter store.FolderFilter) []string {
		results, err := repo.ListResults(ctx, filter)
		require.NoError(t, err)
		out := make([]string, 0, len(results))
		for _, r := range results {
			out = append(out, r.Name)
		}
		return out
	}
	assert.Equal(t, []string{"Ingot", "Pick", "Sword"}, names(store.AllFolders()))
	assert.Equal(t, []string{"Ingot"}, names(store.RootFolder()))
	assert.Equal(t, []string{"Pick"}, names(store.InFolder(tools.ID)))
	assert.Equal(t, []string{"Sword"}, names(store.InFolder(weapons.ID)))

	folders, err := repo.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Tools", folders[0].Name)
	assert.Equal(t, "Weapons", folders[1].Name)
}

func TestRepository_MoveResult(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	ctx := context.Background()
	folder, err := repo.CreateFolder(ctx, "Tools")
	require.NoError(t, err)
	result := forgeResult("Pick")
	require.NoError(t, repo.SaveResult(ctx, result))

	// Moving to root while already there is a no-op.
	require.NoError(t, repo.MoveResult(ctx, result.ID, nil))

	// Act
	require.NoError(t, repo.MoveResult(ctx, result.ID, &folder.ID))
	require.NoError(t, repo.MoveResult(ctx, result.ID, &folder.ID))

	// Assert
	found, err := repo.FindResult(ctx, result.ID)
	require.NoError(t, err)
	require.NotNil(t, found.FolderID)
	assert.Equal(t, folder.ID, *found.FolderID)

	missing := int64(777)
	assert.ErrorIs(t, repo.MoveResult(ctx, result.ID, &missing), store.ErrNotFound)

	require.NoError(t, repo.MoveResult(ctx, result.ID, nil))
	found, err = repo.FindResult(ctx, result.ID)
	require.NoError(t, err)
	assert.Nil(t, found.FolderID)
}

func TestRepository_TransactionRollsBack(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	ctx := context.Background()
	result := forgeResult("Draft")
	require.NoError(t, repo.SaveResult(ctx, result))
	missing := int64(404)

	// Act
	err := repo.Transaction(ctx, func(tx *store.Repository) error {
		if err := tx.RenameResult(ctx, result.ID, "Final"); err != nil {
			return err
		}
		return tx.MoveResult(ctx, result.ID, &missing)
	})

	// Assert
	assert.ErrorIs(t, err, store.ErrNotFound)
	found, err := repo.FindResult(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", found.Name)
}

func TestRepository_DeleteFolderMovesResultsToRoot(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	ctx := context.Background()
	folder, err := repo.CreateFolder(ctx, "Tools")
	require.NoError(t, err)

	a := forgeResult("Pick")
	b := forgeResult("Axe")
	a.FolderID = &folder.ID
	b.FolderID = &folder.ID
	require.NoError(t, repo.SaveResult(ctx, a))
	require.NoError(t, repo.SaveResult(ctx, b))

	// Act
	err = repo.DeleteFolder(ctx, folder.ID)

	// Assert
	require.NoError(t, err)
	_, err = repo.FindFolder(ctx, folder.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	rootResults, err := repo.ListResults(ctx, store.RootFolder())
	require.NoError(t, err)
	assert.Len(t, rootResults, 2)
}

func TestRepository_CreateFolderRejectsBlankName(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.CreateFolder(context.Background(), "")
	assert.ErrorIs(t, err, store.ErrBlankName)
}

func TestParseFolderFilter(t *testing.T) {
	tests := []struct {
		input    string
		expected store.FolderFilter
		wantErr  bool
	}{
		{input: "", expected: store.AllFolders()},
		{input: "all", expected: store.AllFolders()},
		{input: "ROOT", expected: store.RootFolder()},
		{input: "12", expected: store.InFolder(12)},
		{input: "0", wantErr: true},
		{input: "tools", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := store.ParseFolderFilter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseFolderTarget(t *testing.T) {
	id, err := store.ParseFolderTarget("root")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = store.ParseFolderTarget("5")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(5), *id)

	_, err = store.ParseFolderTarget("all")
	assert.Error(t, err)
}
