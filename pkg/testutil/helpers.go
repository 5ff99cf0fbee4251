// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/anvil-calc/internal/alloy"
	"github.com/iwvelando/anvil-calc/internal/database"
	"gorm.io/gorm"
)

// NewTestDB creates a migrated in-memory SQLite database that is closed
// when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})
	return db
}

// AssertBatchFeasible fails the test unless the batch has one item per
// range, in order, whose ingots sum to the batch size with every share
// inside its range.
func AssertBatchFeasible(t *testing.T, ranges []alloy.Range, batch alloy.Batch) {
	t.Helper()

	if len(batch.Items) != len(ranges) {
		t.Fatalf("batch has %d items, expected %d", len(batch.Items), len(ranges))
	}

	sum := 0
	for i, item := range batch.Items {
		r := ranges[i]
		if item.Name != r.Name {
			t.Errorf("item %d is %q, expected %q", i, item.Name, r.Name)
		}
		if item.Ingots < 0 {
			t.Errorf("%s has negative ingots %d", item.Name, item.Ingots)
		}
		if pct := item.Percent(batch.Size); !r.Contains(pct) {
			t.Errorf("%s is %.4f%% of %d, outside [%.1f, %.1f]", item.Name, pct, batch.Size, r.MinPercent, r.MaxPercent)
		}
		sum += item.Ingots
	}
	if sum != batch.Size {
		t.Errorf("ingots sum to %d, expected batch size %d", sum, batch.Size)
	}
}

// MustRanges builds ranges from name, min, max triples and fails the test on
// any invalid entry.
func MustRanges(t *testing.T, specs ...RangeSpec) []alloy.Range {
	t.Helper()

	session := alloy.NewSession()
	for _, s := range specs {
		if _, err := session.Add(s.Name, s.Min, s.Max); err != nil {
			t.Fatalf("invalid range %+v: %v", s, err)
		}
	}
	return session.Ranges()
}

// RangeSpec describes a component range for MustRanges.
type RangeSpec struct {
	Name string
	Min  float64
	Max  float64
}
