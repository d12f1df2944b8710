// Command quizctl runs the PDF to quiz pipeline from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pdf-quiz/internal/adapter/pdfextract"
	"pdf-quiz/internal/adapter/quizgen"
	"pdf-quiz/internal/config"
	"pdf-quiz/internal/logger"
	"pdf-quiz/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

// quizService is built from configuration on first use; tests assign it directly.
var quizService service.QuizService

var rootCmd = &cobra.Command{
	Use:   "quizctl",
	Short: "Generate quizzes from PDF documents",
	Long: `quizctl extracts text from PDF documents and asks the configured
language model for a quiz of multiple-choice, true/false and
fill-in-the-blank questions.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupService,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
}

// setupService loads configuration and the stderr logger, then builds the
// quiz service unless one is already set. Nothing here writes to stdout.
func setupService(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := cfg.Logger
	logCfg.Output = "stderr"
	if !verbose {
		logCfg.Level = "error"
	}
	if err := logger.Initialize(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if cfg.File != "" {
		logger.Get().Info("Using config file", zap.String("path", cfg.File))
	}

	if quizService != nil {
		return nil
	}

	extractor, err := pdfextract.New(cfg.Upload.Dir)
	if err != nil {
		return err
	}
	model, err := quizgen.NewModel(cmd.Context(), cfg.LLM, logger.Get())
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	quizService = service.NewQuizService(extractor, model, cfg.LLM, cfg.Quiz)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
