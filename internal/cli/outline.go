package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/scriptlens/internal/analysis"
	"github.com/mvp-joe/scriptlens/internal/config"
)

var (
	outputFormat string
	quiet        bool
)

// outlineCmd represents the outline command
var outlineCmd = &cobra.Command{
	Use:   "outline [file|dir]...",
	Short: "Print the structural outline of scripts",
	Long: `Print the classes, functions, methods, accessors and method-bearing object
literals of each script, in source order and indented by nesting depth.

Directories are searched using paths.include and paths.ignore from the
configuration.

Examples:
  scriptlens outline rules/lights.ts
  scriptlens outline --format json automation/`,
	RunE: runOutline,
}

func init() {
	addOutputFlags(outlineCmd)
	rootCmd.AddCommand(outlineCmd)
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: text or json (default from config)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
}

// resolveFormat lets the --format flag override the configured format.
func resolveFormat(cfg *config.Config) (string, error) {
	format := cfg.Output.Format
	if outputFormat != "" {
		format = strings.ToLower(outputFormat)
	}
	if format != config.FormatText && format != config.FormatJSON {
		return "", fmt.Errorf("unknown output format %q (want %s or %s)", format, config.FormatText, config.FormatJSON)
	}
	return format, nil
}

func runOutline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}

	files, err := collectScripts(cfg, args)
	if err != nil {
		return err
	}

	svc, err := newService(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer svc.Close()

	progress := NewProgressReporter(cmd.ErrOrStderr(), quiet)
	progress.OnAnalysisStart(len(files))

	results, err := analyzeFiles(cmd.Context(), svc, files, progress,
		func(ctx context.Context, uri string) []analysis.OutlineToken {
			return svc.Outline(ctx, uri)
		})
	if err != nil {
		return err
	}
	progress.OnComplete(countFailed(results))

	return renderOutlines(cmd.OutOrStdout(), format, results)
}

func countFailed[T any](results []fileResult[T]) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
