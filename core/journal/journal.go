package journal

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Entry is one recorded storage operation.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Operation string    `gorm:"size:32;index" json:"operation"`
	Bucket    string    `gorm:"size:255;index" json:"bucket"`
	Key       string    `gorm:"size:1024" json:"key,omitempty"`
	LocalPath string    `gorm:"size:1024" json:"local_path,omitempty"`
	Bytes     int64     `json:"bytes"`
	Status    string    `gorm:"size:16" json:"status"`
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName pins the table name regardless of GORM naming strategy.
func (Entry) TableName() string {
	return "transfer_journal"
}

// Recorder persists and lists journal entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Journal is the GORM-backed Recorder.
type Journal struct {
	db *gorm.DB
}

// New migrates the journal table and returns a Journal.
func New(db *gorm.DB) (*Journal, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record stores one entry.
func (j *Journal) Record(ctx context.Context, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := j.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record %s: %w", entry.Operation, err)
	}
	return nil
}

// Recent returns the newest entries first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var entries []Entry
	err := j.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return entries, nil
}
