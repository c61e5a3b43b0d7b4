package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column describes one column of an existing table.
type Column struct {
	Name string
	Type string
}

// Columns lists the columns of table, names and types lower-cased. An unknown
// table yields no columns and no error.
func Columns(db *gorm.DB, table string) ([]Column, error) {
	var query string
	switch db.Dialector.Name() {
	case "sqlite":
		query = "SELECT name, type FROM pragma_table_info(?)"
	case "mysql":
		query = "SELECT COLUMN_NAME AS name, DATA_TYPE AS type FROM information_schema.COLUMNS " +
			"WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION"
	default:
		return nil, fmt.Errorf("column inspection is not supported for %s", db.Dialector.Name())
	}

	var cols []Column
	if err := db.Raw(query, table).Scan(&cols).Error; err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	for i := range cols {
		cols[i].Name = strings.ToLower(cols[i].Name)
		cols[i].Type = strings.ToLower(cols[i].Type)
	}
	return cols, nil
}

// MissingColumns returns the names in want that table does not have.
func MissingColumns(db *gorm.DB, table string, want ...string) ([]string, error) {
	cols, err := Columns(db, table)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c.Name] = true
	}
	var missing []string
	for _, name := range want {
		if !present[strings.ToLower(name)] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
