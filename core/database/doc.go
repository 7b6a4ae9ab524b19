// Package database handles the run-history database connection.
//
// It provides a wrapper around GORM configuring either an embedded sqlite
// file (the default, no external service required) or a MySQL connection
// for shared deployments, based on the application's configuration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
