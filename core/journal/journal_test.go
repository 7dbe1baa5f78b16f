package journal

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestJournal_Record(t *testing.T) {
	db, mock := setupMockDB(t)
	j := &Journal{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transfer_journal`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := j.Record(context.Background(), Entry{
		Operation: "upload",
		Bucket:    "docs",
		Key:       "a.txt",
		Bytes:     5,
		Status:    StatusOK,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_RecordFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	j := &Journal{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transfer_journal`").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := j.Record(context.Background(), Entry{Operation: "delete", Bucket: "docs"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record delete")
}

func TestJournal_Recent(t *testing.T) {
	db, mock := setupMockDB(t)
	j := &Journal{db: db}

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "operation", "bucket", "key", "local_path", "bytes", "status", "error", "created_at"}).
		AddRow(2, "download", "docs", "a.txt", "/tmp/a.txt", 5, StatusOK, "", now).
		AddRow(1, "upload", "docs", "a.txt", "/tmp/a.txt", 5, StatusOK, "", now.Add(-time.Minute))
	mock.ExpectQuery("SELECT (.+) FROM `transfer_journal` ORDER BY created_at DESC").WillReturnRows(rows)

	entries, err := j.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "download", entries[0].Operation)
	assert.Equal(t, uint(1), entries[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
