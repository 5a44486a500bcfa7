package cmd

import (
	"fmt"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/internal/iocache"
	"github.com/huangsam/evotrack/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the cache store with the loaded config (no analysis tracking)
	if err := iocache.InitCaching(backend, connStr, schema.NoneBackend, ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on report cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the evolution report cache",
	Long: `Manage the cache that stores computed evolution reports.

The cache speeds up repeated report generation over the same bundle and
time window. Entries are keyed by bundle fingerprint, so any write to the
bundle naturally invalidates its cached reports.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Configure via (in priority order):
  1. CLI flags: --cache-backend, --cache-db-connect
  2. Environment: EVOTRACK_CACHE_BACKEND, EVOTRACK_CACHE_DB_CONNECT
  3. Config file: cache-backend, cache-db-connect

Examples:
  # Check cache statistics
  evotrack cache status

  # Clear stale entries after an upgrade
  evotrack cache clear`,
}

// cacheClearCmd clears the report cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached evolution reports",
	Long: `Delete all cached report entries.

Use this when:
- Cache data appears stale or corrupted
- Reclaiming disk space
- Forcing fresh report computation

Examples:
  # Clear the default SQLite cache
  evotrack cache clear

  # Clear a MySQL-backed cache
  evotrack cache clear --cache-backend mysql --cache-db-connect "user:pass@tcp(localhost:3306)/evotrack"`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the report cache.

Displays:
- Backend type and connection status
- Number of cached reports
- Oldest and newest entry timestamps

Examples:
  # Check cache status
  evotrack cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		reportStore := iocache.Manager.GetReportStore()
		if reportStore == nil {
			contract.LogFatal("Cannot get cache status", fmt.Errorf("report caching is not enabled; set --cache-backend"))
		}
		status, err := reportStore.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
