package health

import (
	"context"
	"time"

	"s3-manager/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusDisabled = "disabled"
)

// Check is the outcome of probing one dependency.
type Check struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

// Report combines the storage and database checks.
type Report struct {
	Healthy  bool  `json:"healthy"`
	Storage  Check `json:"storage"`
	Buckets  int   `json:"buckets"`
	Database Check `json:"database"`
}

// Service probes the storage endpoint and the optional journal database.
type Service struct {
	client storage.Client
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new health service. db may be nil.
func NewService(client storage.Client, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{client: client, db: db, logger: logger}
}

// Check runs every probe. The database only affects Healthy when enabled.
func (s *Service) Check(ctx context.Context) Report {
	var report Report

	start := time.Now()
	buckets, err := s.client.ListBuckets(ctx)
	report.Storage = result(start, err)
	if err == nil {
		report.Buckets = len(buckets)
	} else {
		report.Storage.Kind = storage.KindOf(err).String()
		s.logger.Warn("Storage health check failed", zap.Error(err))
	}

	report.Database = s.checkDatabase(ctx)
	report.Healthy = report.Storage.Status == StatusOK && report.Database.Status != StatusError
	return report
}

func (s *Service) checkDatabase(ctx context.Context) Check {
	if s.db == nil {
		return Check{Status: StatusDisabled}
	}

	start := time.Now()
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		s.logger.Warn("Database health check failed", zap.Error(err))
	}
	return result(start, err)
}

func result(start time.Time, err error) Check {
	c := Check{Status: StatusOK, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		c.Status = StatusError
		c.Error = err.Error()
	}
	return c
}
