package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pdf-quiz/internal/domain"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the text of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if quizService == nil {
		return errors.New("quiz service not configured")
	}

	result, err := extractFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Text)
	return nil
}

// extractFile reads path from disk and runs it through the extractor.
// Files are always declared as PDFs; the content is still sniffed.
func extractFile(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	result, err := quizService.ExtractText(ctx, &domain.UploadedDocument{
		Filename:    filepath.Base(path),
		ContentType: domain.PDFMediaType,
		Data:        data,
	})
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return result, nil
}
