// Package config provides configuration management for the S3 manager.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional .env file and an optional config.yaml in the working directory.
// Defaults live next to each field as `default` struct tags.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and upload body limit
//   - Storage: provider, endpoint, credentials, region and listing behaviour
//   - Log: logging level and format
//   - Database: optional MySQL connection for the transfer journal
//
// Environment variables follow SECTION_FIELD (STORAGE_ACCESS_KEY,
// LOG_LEVEL, ...). The classic AWS_ACCESS_KEY, AWS_SECRET_ACCESS_KEY and
// REGION names are accepted for the storage credentials and region.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := storage.NewClient(cfg.Storage)
package config
