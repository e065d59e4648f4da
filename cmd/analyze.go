// -- cmd/analyze.go --
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/observability"
)

var analyzeFlags struct {
	diffFile string
	filename string
	message  string
	types    []string
	mode     string
	model    string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a diff with the LLM reviewer.",
	Long: `Analyze reads a unified diff (from --diff-file or stdin), assembles the
review prompt, and prints the model's verdict as markdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		diff, err := readDiff(analyzeFlags.diffFile)
		if err != nil {
			return err
		}

		svc, err := buildService(cfg, logger)
		if err != nil {
			return err
		}

		types := make([]schemas.AnalysisType, 0, len(analyzeFlags.types))
		for _, t := range analyzeFlags.types {
			types = append(types, schemas.AnalysisType(t))
		}

		result := svc.Analyze(cmd.Context(), schemas.AnalysisRequest{
			Diff:          diff,
			Filename:      analyzeFlags.filename,
			CommitMessage: analyzeFlags.message,
			AnalysisTypes: types,
			Mode:          schemas.AnalysisMode(analyzeFlags.mode),
			Model:         analyzeFlags.model,
		})

		if !result.Success {
			if result.NoContent {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to analyze.")
				return nil
			}
			return fmt.Errorf("%s", result.Error)
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Result)
		return nil
	},
}

func readDiff(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read diff from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read diff file: %w", err)
	}
	return string(data), nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlags.diffFile, "diff-file", "", "path to a unified diff ('-' for stdin)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.filename, "filename", "", "filename summary shown to the model")
	analyzeCmd.Flags().StringVar(&analyzeFlags.message, "message", "", "commit message shown to the model")
	analyzeCmd.Flags().StringSliceVar(&analyzeFlags.types, "types", []string{"code_quality", "bug_detection"},
		"analysis types: code_quality, security, performance, bug_detection, refactoring")
	analyzeCmd.Flags().StringVar(&analyzeFlags.mode, "mode", "general", "prompt mode: general or critical")
	analyzeCmd.Flags().StringVar(&analyzeFlags.model, "model", "", "configured model id (default from config)")

	rootCmd.AddCommand(analyzeCmd)
}
