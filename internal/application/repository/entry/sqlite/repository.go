package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ksumarshmallow/calbot/internal/types"
	"github.com/ksumarshmallow/calbot/internal/types/interfaces"
)

// EntryRepository persists calendar entries in sqlite via gorm
type EntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates an entry repository on an open gorm handle
func NewEntryRepository(db *gorm.DB) interfaces.EntryRepository {
	return &EntryRepository{db: db}
}

// Migrate creates the entries table if it does not exist
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&types.Entry{}); err != nil {
		return fmt.Errorf("failed to migrate entries table: %w", err)
	}
	return nil
}

// CreateEntry inserts a new entry
func (r *EntryRepository) CreateEntry(ctx context.Context, entry *types.Entry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// ListByOwner returns every entry belonging to one owner, oldest date first
func (r *EntryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*types.Entry, error) {
	var entries []*types.Entry
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// ListByOwnerAndDate returns one owner's entries on a date. Insertion order
// keeps the listing stable for the delete-choice numbering.
func (r *EntryRepository) ListByOwnerAndDate(ctx context.Context, ownerID string, date string) ([]*types.Entry, error) {
	var entries []*types.Entry
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND date = ?", ownerID, date).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries on %s: %w", date, err)
	}
	return entries, nil
}

// ListByDate returns all entries on a date across every owner
func (r *EntryRepository) ListByDate(ctx context.Context, date string) ([]*types.Entry, error) {
	var entries []*types.Entry
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries on %s: %w", date, err)
	}
	return entries, nil
}

// DeleteByValue removes entries matching (owner, name, date). The tuple is
// not unique, so this may remove zero or several rows; the count is returned
// for the caller to judge.
func (r *EntryRepository) DeleteByValue(ctx context.Context, ownerID string, name string, date string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ? AND date = ?", ownerID, name, date).
		Delete(&types.Entry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete entry: %w", res.Error)
	}
	return res.RowsAffected, nil
}
