// Package database handles the optional MySQL connection behind the transfer journal.
//
// It wraps GORM and configures the connection pool and timeouts from the
// application's configuration. The database is never required for storage
// operations: when it is disabled or unreachable, Connect returns an error
// and callers continue without a journal.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Optional database connection failed", zap.Error(err))
//	}
package database
