package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/fairchain-backend/internal/config"
)

func TestMoveCommand(t *testing.T) {
	// Given: O can complete the middle row
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"move", "--board", "X,X,,O,O,,,,", "--difficulty", "hard"})

	// When: the command runs
	err := rootCmd.Execute()

	// Then: the winning cell is printed
	require.NoError(t, err)
	assert.Equal(t, "5\n", out.String())
}

func TestInitLogger(t *testing.T) {
	t.Run("Writes to a rotating file when configured", func(t *testing.T) {
		path := t.TempDir() + "/fairchain.log"
		conf := &config.Config{LogLevel: "debug", LogFile: config.LogFile{Path: path, MaxSizeMB: 1}}

		logger, closeLog := initLogger(conf)
		logger.Debug("hello")
		closeLog()

		assert.FileExists(t, path)
	})
}
