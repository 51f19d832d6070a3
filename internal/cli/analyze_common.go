package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/scriptlens/internal/analysis"
	"github.com/mvp-joe/scriptlens/internal/config"
	"github.com/mvp-joe/scriptlens/internal/workspace"
)

// newService builds the analysis service described by cfg.
func newService(cfg *config.Config, logger *slog.Logger) (*workspace.Service, error) {
	ws := workspace.New(logger)
	svc, err := workspace.NewService(ws, workspace.CacheOptions{
		MaxEntries: cfg.Cache.MaxEntries,
		TTL:        cfg.Cache.TTL,
	}, logger, analysis.WithPrincipalPolicy(principalPolicy(cfg)))
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}
	return svc, nil
}

func principalPolicy(cfg *config.Config) analysis.PrincipalPolicy {
	p := cfg.References.Principal
	return analysis.PrincipalPolicy{
		Enabled:    p.Enabled,
		Root:       p.Root,
		Identifier: p.Identifier,
		Actor:      p.Actor,
	}
}

// collectScripts expands args into script paths. Files are taken as given;
// directories are walked with the configured include and ignore globs.
// No args means the working directory.
func collectScripts(cfg *config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		discovery, err := workspace.NewDiscovery(arg, cfg.Paths.Include, cfg.Paths.Ignore)
		if err != nil {
			return nil, err
		}
		found, err := discovery.Discover()
		if err != nil {
			return nil, fmt.Errorf("failed to discover scripts in %s: %w", arg, err)
		}
		files = append(files, found...)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// fileResult is the analysis of one script. Err is set when the file could
// not be loaded; the analyses themselves never fail.
type fileResult[T any] struct {
	File   string
	Result T
	Err    error
}

// analyzeFiles loads every file into the service and runs analyze on it,
// fanning out across CPUs. Results keep the order of files.
func analyzeFiles[T any](ctx context.Context, svc *workspace.Service, files []string, progress *ProgressReporter,
	analyze func(ctx context.Context, uri string) T) ([]fileResult[T], error) {
	results := make([]fileResult[T], len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		g.Go(func() error {
			defer progress.OnFileProcessed(file)

			results[i].File = file
			uri, err := svc.Workspace().OpenFile(file)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Result = analyze(ctx, uri)
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
