// Package changelog provides the audit trail for catalogue records: one
// creation row per subject plus one change row per modification.
package changelog

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/legendarybooks/catalogue/internal/entities"
)

// Repository handles all change log database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new change log repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogCreated records that actingUserID created the given subject.
func (r *Repository) LogCreated(subjectType entities.SubjectType, subjectID, actingUserID uint) error {
	now := time.Now()
	entry := entities.ChangeLogEntry{
		SubjectType:  subjectType,
		SubjectID:    subjectID,
		ActingUserID: actingUserID,
		CreatedAt:    &now,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to log creation of %s %d: %w", subjectType, subjectID, err)
	}
	return nil
}

// LogChanged records that actingUserID modified the given subject.
func (r *Repository) LogChanged(subjectType entities.SubjectType, subjectID, actingUserID uint) error {
	now := time.Now()
	entry := entities.ChangeLogEntry{
		SubjectType:  subjectType,
		SubjectID:    subjectID,
		ActingUserID: actingUserID,
		ChangedAt:    &now,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to log change of %s %d: %w", subjectType, subjectID, err)
	}
	return nil
}

// EntriesForSubject returns the full history of a subject: the creation row
// first, change rows in chronological order after it.
func (r *Repository) EntriesForSubject(subjectType entities.SubjectType, subjectID uint) ([]entities.ChangeLogEntry, error) {
	var entries []entities.ChangeLogEntry
	err := r.db.
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Order("created_at IS NULL, changed_at ASC").
		Find(&entries).Error
	return entries, err
}

// DeleteOldChangedEntries prunes change rows older than the retention period.
// Creation rows are kept forever, the listing depends on them.
func (r *Repository) DeleteOldChangedEntries(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.
		Where("changed_at IS NOT NULL AND changed_at < ?", cutoff).
		Delete(&entities.ChangeLogEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune change log: %w", result.Error)
	}
	return result.RowsAffected, nil
}
