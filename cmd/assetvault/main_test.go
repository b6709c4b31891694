package main

import (
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	newContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		return cli.NewContext(cli.NewApp(), set, nil)
	}

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO", "Debug"} {
			err := setupLogger(newContext(level))
			assert.NoError(t, err, "level %q should be accepted", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(newContext("verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("debug level enables debug logging", func(t *testing.T) {
		require.NoError(t, setupLogger(newContext("debug")))
		assert.True(t, slog.Default().Enabled(nil, slog.LevelDebug))
	})
}

func TestReindexCommand_RequiresProvider(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("embedding-model", "", "")
	set.String("ai-host", "", "")
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	err := reindexCommand(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI provider")
}
