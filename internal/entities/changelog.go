package entities

import "time"

// SubjectType identifies what kind of record a change log row refers to.
type SubjectType string

const (
	SubjectBook SubjectType = "book"
	SubjectUser SubjectType = "user"
)

// ChangeLogEntry is one audit trail row. Exactly one of CreatedAt/ChangedAt
// is set: a subject gets a single creation row when it is first stored and
// one change row per subsequent modification.
type ChangeLogEntry struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	SubjectType  SubjectType `gorm:"size:10;not null;index:idx_changelog_subject" json:"subjectType"`
	SubjectID    uint        `gorm:"not null;index:idx_changelog_subject" json:"subjectID"`
	ActingUserID uint        `gorm:"index" json:"actingUserID"`
	// autoCreateTime is off: gorm must not stamp created_at on change rows,
	// the column is only ever set explicitly on the creation row.
	CreatedAt *time.Time `gorm:"autoCreateTime:false" json:"dateCreated,omitempty"`
	ChangedAt *time.Time `gorm:"index" json:"dateChanged,omitempty"`
}

// TableName keeps the historical table name used by earlier versions.
func (ChangeLogEntry) TableName() string {
	return "changelog"
}
