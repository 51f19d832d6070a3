package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/scriptlens/internal/analysis"
	"github.com/mvp-joe/scriptlens/internal/config"
	"github.com/mvp-joe/scriptlens/internal/watcher"
	"github.com/mvp-joe/scriptlens/internal/workspace"
)

var watchOutline bool

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-analyze scripts whenever they change",
	Long: `Analyze every script under dir (default: the current directory), then keep
watching it. Each time a script is saved, its references are printed again;
with --outline its outline is printed as well. Deleted scripts are reported
and dropped.

In json mode every report is one JSON object per line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: text or json (default from config)")
	watchCmd.Flags().BoolVar(&watchOutline, "outline", false, "print outlines as well as references")
	watchCmd.Flags().StringSliceVarP(&rootNames, "roots", "r", nil, "root object names (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	logger := slog.Default()
	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	discovery, err := workspace.NewDiscovery(root, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return err
	}

	roots := cfg.References.Roots
	if len(rootNames) > 0 {
		roots = rootNames
	}
	handler := newScriptChangeHandler(svc, roots, format, watchOutline, cmd.OutOrStdout())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := discovery.Discover()
	if err != nil {
		return fmt.Errorf("failed to discover scripts in %s: %w", root, err)
	}
	if err := handler.HandleChanges(ctx, files); err != nil {
		logger.Warn("initial analysis incomplete", "error", err)
	}

	fileWatcher, err := watcher.NewFileWatcher([]string{root}, discovery,
		watcher.WithDebounce(cfg.Watch.Debounce),
		watcher.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d scripts in %s (Ctrl+C to stop)\n", len(files), root)

	coordinator := watcher.NewWatchCoordinator(fileWatcher, handler, logger)
	if err := coordinator.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// scriptChangeHandler re-analyzes changed scripts and prints a report for each.
type scriptChangeHandler struct {
	svc     *workspace.Service
	roots   []string
	format  string
	outline bool
	out     io.Writer
}

func newScriptChangeHandler(svc *workspace.Service, roots []string, format string, outline bool, out io.Writer) *scriptChangeHandler {
	return &scriptChangeHandler{
		svc:     svc,
		roots:   roots,
		format:  format,
		outline: outline,
		out:     out,
	}
}

type watchReport struct {
	File       string                  `json:"file"`
	Removed    bool                    `json:"removed,omitempty"`
	References map[string][]string     `json:"references,omitempty"`
	Outline    []analysis.OutlineToken `json:"outline,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

// HandleChanges implements watcher.ChangeHandler.
func (h *scriptChangeHandler) HandleChanges(ctx context.Context, files []string) error {
	var errs []error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			_ = h.svc.Workspace().Close(workspace.FileURI(file))
			h.print(watchReport{File: file, Removed: true})
			continue
		}

		uri, err := h.svc.Workspace().OpenFile(file)
		if err != nil {
			h.print(watchReport{File: file, Error: err.Error()})
			errs = append(errs, err)
			continue
		}

		report := watchReport{
			File:       file,
			References: h.svc.References(ctx, uri, h.roots).Lists(),
		}
		if h.outline {
			report.Outline = h.svc.Outline(ctx, uri)
		}
		h.print(report)
	}
	return errors.Join(errs...)
}

func (h *scriptChangeHandler) print(r watchReport) {
	if h.format == config.FormatJSON {
		_ = json.NewEncoder(h.out).Encode(r)
		return
	}

	switch {
	case r.Removed:
		fmt.Fprintf(h.out, "%s\n  removed\n", r.File)
	case r.Error != "":
		fmt.Fprintf(h.out, "%s\n  error: %s\n", r.File, r.Error)
	default:
		writeReferencesText(h.out, r.File, r.References, nil)
		if h.outline {
			writeOutlineTokens(h.out, r.Outline)
		}
	}
}
