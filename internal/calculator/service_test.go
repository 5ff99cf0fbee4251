package calculator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwvelando/anvil-calc/internal/alloy"
	"github.com/iwvelando/anvil-calc/internal/forging"
	"github.com/iwvelando/anvil-calc/internal/store"
	"github.com/iwvelando/anvil-calc/pkg/validation"
)

type memorySaver struct {
	saved []*store.SavedResult
	err   error
}

func (m *memorySaver) SaveResult(_ context.Context, result *store.SavedResult) error {
	if m.err != nil {
		return m.err
	}
	result.ID = int64(len(m.saved) + 1)
	m.saved = append(m.saved, result)
	return nil
}

func bronze() []ComponentInput {
	return []ComponentInput{
		{Name: "A", Min: 10, Max: 15},
		{Name: "B", Min: 10, Max: 15},
		{Name: "C", Min: 50, Max: 55},
		{Name: "D", Min: 20, Max: 25},
	}
}

func TestService_Forge(t *testing.T) {
	// Arrange
	svc := NewService(nil, nil)

	// Act
	resp, err := svc.Forge(context.Background(), ForgeRequest{
		Target:    "25",
		Finishing: []string{"hit", "hit", "hit"},
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, resp.Solution.Found)
	assert.Equal(t, 25, resp.Solution.Sum())
	assert.Equal(t, 43, resp.Solution.NeededSum)
	assert.Nil(t, resp.Saved)
}

func TestService_ForgeErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     ForgeRequest
		wantErr error
	}{
		{
			name:    "blank target",
			req:     ForgeRequest{Target: "", Finishing: []string{"hit", "hit", "hit"}},
			wantErr: validation.ErrInvalidTarget,
		},
		{
			name:    "signed target",
			req:     ForgeRequest{Target: "-5", Finishing: []string{"hit", "hit", "hit"}},
			wantErr: validation.ErrInvalidTarget,
		},
		{
			name:    "two finishing actions",
			req:     ForgeRequest{Target: "10", Finishing: []string{"hit", "hit"}},
			wantErr: forging.ErrMissingSelection,
		},
		{
			name:    "unknown action",
			req:     ForgeRequest{Target: "10", Finishing: []string{"hit", "hti", "smash"}},
			wantErr: forging.ErrUnknownAction,
		},
		{
			name:    "empty action name",
			req:     ForgeRequest{Target: "10", Finishing: []string{"hit", "", "hit"}},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "save without store",
			req:     ForgeRequest{Target: "10", Finishing: []string{"hit", "hit", "hit"}, Save: "x"},
			wantErr: ErrStoreUnavailable,
		},
	}

	svc := NewService(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Forge(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
		})
	}
}

func TestService_ForgeNoSolutionKeepsDiagnostics(t *testing.T) {
	// Arrange: three punches already overshoot a target of 1.
	svc := NewService(nil, nil)

	// Act
	resp, err := svc.Forge(context.Background(), ForgeRequest{
		Target:    "1",
		Finishing: []string{"punch", "punch", "punch"},
	})

	// Assert
	assert.ErrorIs(t, err, forging.ErrNoForgeSolution)
	require.NotNil(t, resp)
	assert.False(t, resp.Solution.Found)
	assert.NotEmpty(t, resp.Solution.Examined)
}

func TestService_ForgeHugeTarget(t *testing.T) {
	// Arrange
	svc := NewService(nil, nil)

	// Act
	resp, err := svc.Forge(context.Background(), ForgeRequest{
		Target:    "1000000000000000",
		Finishing: []string{"skip", "skip", "skip"},
	})

	// Assert
	assert.ErrorIs(t, err, forging.ErrNoForgeSolution)
	require.NotNil(t, resp)
	assert.Equal(t, 1000000000000000, resp.Solution.NeededSum)
	assert.False(t, resp.Solution.Found)
}

func TestService_ForgeSaves(t *testing.T) {
	// Arrange
	saver := &memorySaver{}
	svc := NewService(nil, saver)
	folder := int64(3)

	// Act
	resp, err := svc.Forge(context.Background(), ForgeRequest{
		Target:    "30",
		Finishing: []string{"punch", "bend", "hit"},
		Save:      "Hinge",
		FolderID:  &folder,
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, resp.Saved)
	require.Len(t, saver.saved, 1)
	saved := saver.saved[0]
	assert.Equal(t, "Hinge", saved.Name)
	assert.Equal(t, store.KindForge, saved.Kind)
	assert.Equal(t, 30, saved.Target)
	assert.Equal(t, &folder, saved.FolderID)
	assert.Equal(t, []forging.Action{forging.Punch, forging.Bend, forging.Hit}, saved.Finishing)
	assert.Equal(t, 30, saved.SolutionSum())
}

func TestService_ForgeSaveFailure(t *testing.T) {
	saver := &memorySaver{err: errors.New("disk full")}
	svc := NewService(nil, saver)

	resp, err := svc.Forge(context.Background(), ForgeRequest{
		Target:    "30",
		Finishing: []string{"punch", "bend", "hit"},
		Save:      "Hinge",
	})

	assert.ErrorContains(t, err, "disk full")
	require.NotNil(t, resp)
	assert.True(t, resp.Solution.Found)
	assert.Nil(t, resp.Saved)
}

func TestService_PlanAlloyAuto(t *testing.T) {
	// Arrange
	svc := NewService(nil, nil)

	// Act
	resp, err := svc.PlanAlloy(context.Background(), AlloyRequest{
		Components: bronze(),
		TotalUnits: 16,
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, resp.Ranges, 4)
	assert.True(t, resp.Bounds.Valid)
	require.NotNil(t, resp.Plan)
	assert.True(t, resp.Plan.AutoBatch)
	assert.Equal(t, 20, resp.Plan.Base.Size)
	assert.True(t, resp.Plan.Exact())
}

func TestService_PlanAlloyFixed(t *testing.T) {
	svc := NewService(nil, nil)

	resp, err := svc.PlanAlloy(context.Background(), AlloyRequest{
		Components: bronze(),
		TotalUnits: 40,
		BatchSize:  20,
	})

	require.NoError(t, err)
	assert.False(t, resp.Plan.AutoBatch)
	assert.Equal(t, 2, resp.Plan.FullBatches)
	assert.Nil(t, resp.Plan.Remainder)
}

func TestService_PlanAlloyErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     AlloyRequest
		wantErr error
	}{
		{
			name:    "no components",
			req:     AlloyRequest{TotalUnits: 10},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "zero total",
			req:     AlloyRequest{Components: bronze()},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "blank component name",
			req:     AlloyRequest{Components: []ComponentInput{{Name: "", Min: 0, Max: 100}}, TotalUnits: 5},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "duplicate names",
			req: AlloyRequest{
				Components: []ComponentInput{{Name: "Tin", Min: 0, Max: 50}, {Name: "tin", Min: 50, Max: 100}},
				TotalUnits: 5,
			},
			wantErr: alloy.ErrDuplicateName,
		},
		{
			name: "min above max",
			req: AlloyRequest{
				Components: []ComponentInput{{Name: "Tin", Min: 60, Max: 40}},
				TotalUnits: 5,
			},
			wantErr: alloy.ErrInvalidRange,
		},
		{
			name: "infeasible ranges",
			req: AlloyRequest{
				Components: []ComponentInput{{Name: "A", Min: 10, Max: 20}, {Name: "B", Min: 10, Max: 20}},
				TotalUnits: 10,
			},
			wantErr: alloy.ErrInfeasibleRangeSet,
		},
		{
			name:    "batch size too large",
			req:     AlloyRequest{Components: bronze(), TotalUnits: 10, BatchSize: 21},
			wantErr: alloy.ErrBatchSizeOutOfRange,
		},
		{
			name:    "batch size without split",
			req:     AlloyRequest{Components: bronze(), TotalUnits: 10, BatchSize: 3},
			wantErr: alloy.ErrNoBatchForSize,
		},
	}

	svc := NewService(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.PlanAlloy(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			if resp != nil {
				assert.Nil(t, resp.Plan)
			}
		})
	}
}

func TestService_PlanAlloySaves(t *testing.T) {
	// Arrange
	saver := &memorySaver{}
	svc := NewService(nil, saver)

	// Act
	resp, err := svc.PlanAlloy(context.Background(), AlloyRequest{
		Components: bronze(),
		TotalUnits: 16,
		Save:       "Bronze",
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, resp.Saved)
	saved := saver.saved[0]
	assert.Equal(t, store.KindAlloy, saved.Kind)
	assert.Equal(t, 16, saved.TotalUnits)
	assert.Equal(t, 20, saved.MaxPerBatch)
	assert.True(t, saved.AutoBatch)
	assert.Equal(t, []store.Component{
		{Name: "A", MinPercent: 10, MaxPercent: 15, Count: 2, Percent: 10},
		{Name: "B", MinPercent: 10, MaxPercent: 15, Count: 2, Percent: 10},
		{Name: "C", MinPercent: 50, MaxPercent: 55, Count: 11, Percent: 55},
		{Name: "D", MinPercent: 20, MaxPercent: 25, Count: 5, Percent: 25},
	}, saved.Components)
}

func TestService_PlanAlloyRejectsNaNComponent(t *testing.T) {
	// Arrange
	svc := NewService(nil, nil)
	component, err := ParseComponent("A:NaN:NaN")
	require.NoError(t, err)

	// Act
	resp, err := svc.PlanAlloy(context.Background(), AlloyRequest{
		Components: []ComponentInput{component},
		TotalUnits: 10,
	})

	// Assert
	assert.ErrorIs(t, err, alloy.ErrInvalidRange)
	assert.Nil(t, resp)
}

func TestParseComponent(t *testing.T) {
	tests := []struct {
		input    string
		expected ComponentInput
		wantErr  bool
	}{
		{input: "Copper:88:92", expected: ComponentInput{Name: "Copper", Min: 88, Max: 92}},
		{input: " Tin : 8 : 12.5 ", expected: ComponentInput{Name: "Tin", Min: 8, Max: 12.5}},
		{input: "Copper:88", wantErr: true},
		{input: "Copper:x:92", wantErr: true},
		{input: "Copper:88:y", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseComponent(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
