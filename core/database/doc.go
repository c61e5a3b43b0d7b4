// Package database handles database connections and schema inspection.
//
// It wraps GORM to open either a MySQL server or a SQLite file, as selected by
// Config.Driver. SQLite is the default, which lets a mirror session persist its
// snapshots without any external service.
//
// # Schema Inspection
//
// Columns lists the columns of a table for both dialects, and MissingColumns
// compares them with an expected set. The snapshot
// repository uses it to check that an existing table matches its model before
// writing to it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Database unavailable, snapshots disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "snapshots", "id", "payload")
package database
