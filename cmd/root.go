package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"s3-manager/core/config"
	"s3-manager/core/database"
	"s3-manager/core/journal"
	"s3-manager/core/logger"
	"s3-manager/core/storage"
	"s3-manager/feature/objects"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// configPath is the directory holding .env and config.yaml.
var configPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "s3-manager",
	Short: "S3 object storage client",
	Long: `S3 Manager uploads, downloads, lists and deletes objects and manages
buckets on Amazon S3 or any S3-compatible service such as MinIO.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps reads best for a CLI.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed",
				zap.Stringer("kind", storage.KindOf(err)),
				zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing .env and config.yaml")
}

// runtime is what every command needs: configuration, a logger and the
// storage facade built on a single client.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  storage.Client
	db      *gorm.DB
	service *objects.Service
}

// bootstrap loads configuration, builds the logger and the storage client,
// and wires the optional transfer journal.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	var opts []objects.Option
	db, rec := openJournal(cfg.Database, logg)
	if rec != nil {
		opts = append(opts, objects.WithJournal(rec))
	}

	svc := objects.NewService(client, cfg.Storage, logg, opts...)
	return &runtime{cfg: cfg, logger: logg, client: client, db: db, service: svc}, nil
}

// openJournal connects the optional journal database. Failure is never fatal.
func openJournal(cfg database.Config, logg *zap.Logger) (*gorm.DB, journal.Recorder) {
	db, err := database.Connect(cfg)
	if errors.Is(err, database.ErrDisabled) {
		return nil, nil
	}
	if err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
		return nil, nil
	}

	rec, err := journal.New(db)
	if err != nil {
		logg.Warn("Transfer journal unavailable", zap.Error(err))
		return db, nil
	}
	logg.Debug("Transfer journal enabled", zap.String("database", cfg.Name))
	return db, rec
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
