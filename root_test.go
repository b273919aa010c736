package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/graphsheet/graphsheet/internal/config"
)

// Global flag reset pattern: newRootCmd() binds flags via StringVar/BoolVar,
// which reset the global flag variables to their zero values. Tests set
// globals directly and restore them in cleanup.

func withFlags(t *testing.T, verbose, quiet bool) {
	t.Helper()

	oldVerbose := flagVerbose
	oldQuiet := flagQuiet

	t.Cleanup(func() {
		flagVerbose = oldVerbose
		flagQuiet = oldQuiet
	})

	flagVerbose = verbose
	flagQuiet = quiet
}

func withConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	old := resolvedCfg

	t.Cleanup(func() { resolvedCfg = old })

	resolvedCfg = cfg
}

func TestBuildLogger_Default(t *testing.T) {
	withFlags(t, false, false)
	withConfig(t, testConfig())

	logger := buildLogger()

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestBuildLogger_ConfigLevel(t *testing.T) {
	withFlags(t, false, false)

	cfg := testConfig()
	cfg.Logging.LogLevel = "warn"
	withConfig(t, cfg)

	logger := buildLogger()

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
}

func TestBuildLogger_VerboseOverridesConfig(t *testing.T) {
	withFlags(t, true, false)

	cfg := testConfig()
	cfg.Logging.LogLevel = "error"
	withConfig(t, cfg)

	logger := buildLogger()

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestBuildLogger_Quiet(t *testing.T) {
	withFlags(t, false, true)
	withConfig(t, testConfig())

	logger := buildLogger()

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelError))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelWarn))
}

// testConfig returns a minimal valid config for command tests.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.TenantID = "tenant"
	cfg.ClientID = "client"
	cfg.ClientSecret = "secret"
	cfg.Workbooks = []config.Workbook{{
		WorksheetName:  "Sheet1",
		DriveID:        "drv1",
		WorkbookItemID: "itm1",
	}}

	return cfg
}
