package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestColumns_SQLite(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE snapshots (id INTEGER PRIMARY KEY, session TEXT, Fingerprint TEXT)").Error)

	cols, err := Columns(db, "snapshots")
	require.NoError(t, err)
	assert.Equal(t, []Column{
		{Name: "id", Type: "integer"},
		{Name: "session", Type: "text"},
		{Name: "fingerprint", Type: "text"},
	}, cols)

	cols, err = Columns(db, "non_existent")
	require.NoError(t, err)
	assert.Empty(t, cols)

	missing, err := MissingColumns(db, "snapshots", "id", "payload", "Fingerprint")
	require.NoError(t, err)
	assert.Equal(t, []string{"payload"}, missing)
}

func TestColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT COLUMN_NAME AS name, DATA_TYPE AS type FROM information_schema.COLUMNS").
		WithArgs("snapshots").
		WillReturnRows(sqlmock.NewRows([]string{"name", "type"}).
			AddRow("id", "BIGINT").
			AddRow("session", "varchar"))

	cols, err := Columns(db, "snapshots")
	require.NoError(t, err)
	assert.Equal(t, []Column{{Name: "id", Type: "bigint"}, {Name: "session", Type: "varchar"}}, cols)
	assert.NoError(t, mock.ExpectationsWereMet())
}
