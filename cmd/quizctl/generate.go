package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"pdf-quiz/internal/dto"
	"pdf-quiz/internal/render"

	"github.com/spf13/cobra"
)

var (
	generateJSON        bool
	generateShowAnswers bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Generate a quiz from a PDF",
	Long: `Extracts the text of a PDF and generates 5 multiple-choice,
3 true/false and 2 fill-in-the-blank questions from it.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output the quiz as JSON")
	generateCmd.Flags().BoolVar(&generateShowAnswers, "show-answers", false, "print the correct answers")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if quizService == nil {
		return errors.New("quiz service not configured")
	}
	ctx := cmd.Context()

	result, err := extractFile(ctx, args[0])
	if err != nil {
		return err
	}

	quiz, err := quizService.GenerateQuiz(ctx, result.Text)
	if err != nil {
		return fmt.Errorf("quiz generation failed: %w", err)
	}

	if generateJSON {
		data, err := json.MarshalIndent(dto.NewQuizResponse(quiz), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal quiz: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	return render.Quiz(cmd.OutOrStdout(), quiz, generateShowAnswers)
}
