package db

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsCreatesStorageTable(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS client_storage").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(conn, zerolog.Nop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitDBRequiresURL(t *testing.T) {
	_, err := InitDB("", zerolog.Nop())
	assert.Error(t, err)
}
