// Package store persists saved forge solutions, alloy plans and the folders
// that organise them.
package store

import (
	"time"

	"github.com/iwvelando/anvil-calc/internal/forging"
)

// Kind tells a saved forge solution apart from a saved alloy plan.
type Kind string

const (
	KindForge Kind = "forge"
	KindAlloy Kind = "alloy"
)

// Folder groups saved results. Results without a folder live at the root.
type Folder struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id" yaml:"id"`
	Name      string    `gorm:"column:name;not null" json:"name" yaml:"name"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt" yaml:"createdAt"`
}

func (Folder) TableName() string {
	return "folders"
}

// Component is one alloy component of a saved plan with its count and
// share in the base batch.
type Component struct {
	Name       string  `json:"name" yaml:"name"`
	MinPercent float64 `json:"minPercent" yaml:"minPercent"`
	MaxPercent float64 `json:"maxPercent" yaml:"maxPercent"`
	Count      int     `json:"count" yaml:"count"`
	Percent    float64 `json:"percent" yaml:"percent"`
}

// SavedResult is a named forge solution or alloy plan.
type SavedResult struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id" yaml:"id"`
	Name     string `gorm:"column:name;not null" json:"name" yaml:"name"`
	Kind     Kind   `gorm:"column:kind;type:varchar(16);not null;index" json:"kind" yaml:"kind"`
	FolderID *int64 `gorm:"column:folder_id;index" json:"folderId,omitempty" yaml:"folderId,omitempty"`

	// Forge fields.
	Target    int              `gorm:"column:target_number" json:"target,omitempty" yaml:"target,omitempty"`
	Finishing []forging.Action `gorm:"column:actions;type:text;serializer:json" json:"finishing,omitempty" yaml:"finishing,omitempty"`
	Solution  []forging.Action `gorm:"column:solution;type:text;serializer:json" json:"solution,omitempty" yaml:"solution,omitempty"`

	// Alloy fields.
	TotalUnits  int         `gorm:"column:calc_total_units" json:"totalUnits,omitempty" yaml:"totalUnits,omitempty"`
	MaxPerBatch int         `gorm:"column:calc_max_per_item" json:"maxPerBatch,omitempty" yaml:"maxPerBatch,omitempty"`
	AutoBatch   bool        `gorm:"column:calc_auto_pick_enabled" json:"autoBatch,omitempty" yaml:"autoBatch,omitempty"`
	Components  []Component `gorm:"column:calc_components;type:text;serializer:json" json:"components,omitempty" yaml:"components,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt" yaml:"createdAt"`
}

func (SavedResult) TableName() string {
	return "saved_results"
}

// SolutionSum adds up the saved forge solution.
func (r SavedResult) SolutionSum() int {
	return forging.Sum(r.Solution)
}

// Models lists every persisted model for migrations.
func Models() []any {
	return []any{&Folder{}, &SavedResult{}}
}
