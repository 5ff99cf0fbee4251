package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a result or folder does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBlankName is returned when saving or renaming with an empty name.
	ErrBlankName = errors.New("name is required")
)

type filterScope int

const (
	scopeAll filterScope = iota
	scopeRoot
	scopeFolder
)

// FolderFilter selects which saved results to list.
type FolderFilter struct {
	scope    filterScope
	folderID int64
}

// AllFolders matches every saved result.
func AllFolders() FolderFilter { return FolderFilter{scope: scopeAll} }

// RootFolder matches results that are not in any folder.
func RootFolder() FolderFilter { return FolderFilter{scope: scopeRoot} }

// InFolder matches results in the given folder.
func InFolder(id int64) FolderFilter { return FolderFilter{scope: scopeFolder, folderID: id} }

// ParseFolderFilter reads "", "all", "root" or a folder id.
func ParseFolderFilter(s string) (FolderFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return AllFolders(), nil
	case "root":
		return RootFolder(), nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return FolderFilter{}, fmt.Errorf("invalid folder %q: expected all, root or a folder id", s)
	}
	return InFolder(id), nil
}

// ParseFolderTarget reads the destination of a move: "root" or a folder id.
func ParseFolderTarget(s string) (*int64, error) {
	filter, err := ParseFolderFilter(s)
	if err != nil {
		return nil, err
	}
	switch filter.scope {
	case scopeRoot:
		return nil, nil
	case scopeFolder:
		return &filter.folderID, nil
	}
	return nil, fmt.Errorf("invalid destination %q: expected root or a folder id", s)
}

// Repository stores saved results and folders with GORM.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRepository creates a Repository. A nil logger disables logging.
func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{db: db, logger: logger}
}

// Transaction runs fn against a Repository bound to one database
// transaction. Any error from fn rolls back every write it made.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger})
	})
}

// SaveResult inserts a new saved result and sets its ID.
func (r *Repository) SaveResult(ctx context.Context, result *SavedResult) error {
	result.Name = strings.TrimSpace(result.Name)
	if result.Name == "" {
		return ErrBlankName
	}
	if result.FolderID != nil {
		if _, err := r.FindFolder(ctx, *result.FolderID); err != nil {
			return err
		}
	}

	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	r.logger.Info("saved result",
		zap.String("op", "store.SaveResult"),
		zap.Int64("id", result.ID),
		zap.String("kind", string(result.Kind)),
		zap.String("name", result.Name),
	)
	return nil
}

// FindResult retrieves a saved result by ID.
func (r *Repository) FindResult(ctx context.Context, id int64) (*SavedResult, error) {
	var result SavedResult
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("result %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find result: %w", err)
	}
	return &result, nil
}

// ListResults returns saved results matching the filter, oldest first.
func (r *Repository) ListResults(ctx context.Context, filter FolderFilter) ([]SavedResult, error) {
	query := r.db.WithContext(ctx).Order("id")
	switch filter.scope {
	case scopeRoot:
		query = query.Where("folder_id IS NULL")
	case scopeFolder:
		query = query.Where("folder_id = ?", filter.folderID)
	}

	var results []SavedResult
	if err := query.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

// RenameResult changes the name of a saved result.
func (r *Repository) RenameResult(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankName
	}

	res := r.db.WithContext(ctx).Model(&SavedResult{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return fmt.Errorf("failed to rename result: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("result %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteResult removes a saved result.
func (r *Repository) DeleteResult(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&SavedResult{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete result: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("result %d: %w", id, ErrNotFound)
	}

	r.logger.Info("deleted result", zap.String("op", "store.DeleteResult"), zap.Int64("id", id))
	return nil
}

// MoveResult moves a saved result into a folder, or to the root when
// folderID is nil. Moving a result to where it already is does nothing.
func (r *Repository) MoveResult(ctx context.Context, id int64, folderID *int64) error {
	result, err := r.FindResult(ctx, id)
	if err != nil {
		return err
	}
	if sameFolder(result.FolderID, folderID) {
		r.logger.Debug("result already in destination",
			zap.String("op", "store.MoveResult"),
			zap.Int64("id", id),
		)
		return nil
	}
	if folderID != nil {
		if _, err := r.FindFolder(ctx, *folderID); err != nil {
			return err
		}
	}

	err = r.db.WithContext(ctx).Model(&SavedResult{}).Where("id = ?", id).Update("folder_id", folderID).Error
	if err != nil {
		return fmt.Errorf("failed to move result: %w", err)
	}
	return nil
}

// CreateFolder creates a new folder.
func (r *Repository) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}

	folder := &Folder{Name: name}
	if err := r.db.WithContext(ctx).Create(folder).Error; err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return folder, nil
}

// FindFolder retrieves a folder by ID.
func (r *Repository) FindFolder(ctx context.Context, id int64) (*Folder, error) {
	var folder Folder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("folder %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find folder: %w", err)
	}
	return &folder, nil
}

// ListFolders returns every folder, oldest first.
func (r *Repository) ListFolders(ctx context.Context) ([]Folder, error) {
	var folders []Folder
	if err := r.db.WithContext(ctx).Order("id").Find(&folders).Error; err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// DeleteFolder removes a folder after moving its results to the root.
func (r *Repository) DeleteFolder(ctx context.Context, id int64) error {
	var moved int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Limit(1).Find(&Folder{})
		if res.Error != nil {
			return fmt.Errorf("failed to find folder: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("folder %d: %w", id, ErrNotFound)
		}

		update := tx.Model(&SavedResult{}).Where("folder_id = ?", id).Update("folder_id", nil)
		if update.Error != nil {
			return fmt.Errorf("failed to move folder results to root: %w", update.Error)
		}
		moved = update.RowsAffected

		if err := tx.Where("id = ?", id).Delete(&Folder{}).Error; err != nil {
			return fmt.Errorf("failed to delete folder: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("deleted folder",
		zap.String("op", "store.DeleteFolder"),
		zap.Int64("id", id),
		zap.Int64("movedToRoot", moved),
	)
	return nil
}

func sameFolder(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
