package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/scriptlens/internal/lsp"
)

// lspCmd represents the lsp command
var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Start the language server on stdio",
	Long: `Start a Language Server Protocol server that speaks JSON-RPC on stdin and
stdout. Editors get document symbols built from the script outline, plus
the custom requests scriptlens/outline and scriptlens/references.

Documents are synchronized in full on every change. Logs go to stderr.`,
	RunE: runLSP,
}

func init() {
	rootCmd.AddCommand(lspCmd)
}

func runLSP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.Default()
	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	server := lsp.NewServer(svc, cfg.References.Roots, logger)
	err = server.Serve(cmd.Context(), lsp.StdioConn{Reader: os.Stdin, Writer: os.Stdout})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
