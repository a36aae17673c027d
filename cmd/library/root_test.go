package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/shell/config"
)

func Test_RootFlags_OverrideEnvironment(t *testing.T) {
	// arrange
	t.Setenv(config.EnvDBDriver, config.DriverPGX)
	t.Setenv(config.EnvDBDSN, "")
	path := filepath.Join(t.TempDir(), "library.db")
	flags := &rootFlags{envFile: filepath.Join(t.TempDir(), "missing.env"), driver: config.DriverSQLite, dsn: path}

	// act
	s, err := flags.settings()

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, s.DBDriver)
	assert.Equal(t, path, s.DBDSN)
}

func Test_RootFlags_DriverOverrideDropsDefaultDSN(t *testing.T) {
	// arrange
	t.Setenv(config.EnvDBDriver, config.DriverPGX)
	t.Setenv(config.EnvDBDSN, "")
	flags := &rootFlags{envFile: filepath.Join(t.TempDir(), "missing.env"), driver: config.DriverSQLite}

	// act
	s, err := flags.settings()

	// assert
	require.NoError(t, err)
	assert.Equal(t, "library.db", s.DBDSN)
}

func Test_RootFlags_UnknownDriver(t *testing.T) {
	// arrange
	flags := &rootFlags{envFile: filepath.Join(t.TempDir(), "missing.env"), driver: "oracle"}

	// act
	_, err := flags.settings()

	// assert
	assert.ErrorIs(t, err, config.ErrUnknownDriver)
}

func Test_Runtime_SQLiteMigrate(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := config.Settings{
		DBDriver:    config.DriverSQLite,
		DBDSN:       filepath.Join(t.TempDir(), "library.db"),
		TablePrefix: "lib_",
	}

	rt, err := openRuntime(ctx, s)
	require.NoError(t, err)

	t.Cleanup(func() { _ = rt.Close(ctx) })

	// act
	migrateErr := rt.migrate(ctx)
	service, serviceErr := rt.newService()

	// assert
	require.NoError(t, migrateErr)
	require.NoError(t, serviceErr)
	assert.NotNil(t, service)
	assert.NotNil(t, rt.sqlEngine)
}

func Test_Runtime_MemoryHasNothingToMigrate(t *testing.T) {
	// arrange
	ctx := context.Background()

	rt, err := openRuntime(ctx, config.Settings{DBDriver: config.DriverMemory})
	require.NoError(t, err)

	// act
	err = rt.migrate(ctx)

	// assert
	assert.NoError(t, err)
	assert.Nil(t, rt.sqlEngine)
	assert.NoError(t, rt.Close(ctx))
}
