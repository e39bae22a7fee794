package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	app "github.com/rocketscienceinc/fairchain-backend/internal"
	"github.com/rocketscienceinc/fairchain-backend/internal/config"
	"github.com/rocketscienceinc/fairchain-backend/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "fairchain",
	Short: "FairChain game backend",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the WebSocket bot game",
	RunE:  runServe,
}

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Print the opponent's move for a board",
	Example: `  fairchain move --board "X,X,,O,O,,,," --difficulty hard
  fairchain move --board "X,,,,,,,," --mark O`,
	RunE: runMove,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config.yml (default ./config.yml)")

	moveCmd.Flags().String("board", ",,,,,,,,", "9 comma separated cells: X, O or empty")
	moveCmd.Flags().String("difficulty", "hard", "easy, medium or hard")
	moveCmd.Flags().String("mark", "O", "mark the opponent plays")

	rootCmd.AddCommand(serveCmd, moveCmd)
}

// main - is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to read config flag: %w", err)
	}

	conf := initConfig(path)

	logger, closeLog := initLogger(conf)
	defer closeLog()

	if err = app.RunApp(logger, conf); err != nil {
		logger.Error("app run failed", "error", err)
		return fmt.Errorf("app run failed: %w", err)
	}

	return nil
}

func runMove(cmd *cobra.Command, _ []string) error {
	board, _ := cmd.Flags().GetString("board")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	mark, _ := cmd.Flags().GetString("mark")

	move, err := usecase.AIMove(strings.Split(board, ","), difficulty, mark, nil)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), move)

	return nil
}

// initialize config.
func initConfig(path string) *config.Config {
	if path == "" {
		baseDir, err := os.Getwd()
		if err != nil {
			panic(fmt.Errorf("failed to get current directory: %w", err))
		}

		path = filepath.Join(baseDir, "./config.yml")
	}

	return config.MustLoad(path)
}

// initialize logger. With a log file configured records go to stdout and a rotating file.
func initLogger(conf *config.Config) (*slog.Logger, func()) {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	closeLog := func() {}

	if conf.LogFile.Path != "" {
		rotate := &lumberjack.Logger{
			Filename:   conf.LogFile.Path,
			MaxSize:    conf.LogFile.MaxSizeMB,
			MaxBackups: conf.LogFile.MaxBackups,
			MaxAge:     conf.LogFile.MaxAgeDays,
		}

		out = io.MultiWriter(os.Stdout, rotate)
		closeLog = func() { _ = rotate.Close() }
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})), closeLog
}
