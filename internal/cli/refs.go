package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/scriptlens/internal/analysis"
)

var rootNames []string

// refsCmd represents the refs command
var refsCmd = &cobra.Command{
	Use:   "refs [file|dir]...",
	Short: "List the members scripts access off root objects",
	Long: `List, for each root object name, the members each script accesses off it
with root.member, root["member"] or a literal-typed indexer such as
root[Devices.Lamp]. Accesses that depend on runtime values are not reported.

Roots default to references.roots from the configuration.

Examples:
  scriptlens refs rules/
  scriptlens refs --roots Things,Items rules/lights.ts`,
	RunE: runRefs,
}

func init() {
	addOutputFlags(refsCmd)
	refsCmd.Flags().StringSliceVarP(&rootNames, "roots", "r", nil, "root object names (default from config)")
	rootCmd.AddCommand(refsCmd)
}

func runRefs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}

	roots := cfg.References.Roots
	if len(rootNames) > 0 {
		roots = rootNames
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
		func(ctx context.Context, uri string) analysis.ReferenceMap {
			return svc.References(ctx, uri, roots)
		})
	if err != nil {
		return err
	}
	progress.OnComplete(countFailed(results))

	return renderReferences(cmd.OutOrStdout(), format, results)
}
