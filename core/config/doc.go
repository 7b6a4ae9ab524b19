// Package config provides configuration management for the reconciler.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file, with defaults declared as struct tags on each
// section's Config type.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: run-history database connection details
//   - Storage: S3/MinIO credentials and bucket settings for report archiving
//   - Log: logging level and format
//   - Reconcile: progress interval, report column width cap, archiving
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
