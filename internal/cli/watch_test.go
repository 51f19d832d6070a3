package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/scriptlens/internal/config"
)

// Test Plan for scriptChangeHandler:
// - changed files are reloaded and their references printed
// - edits on disk are picked up on the next change batch
// - removed files are reported and closed in the workspace
// - --outline adds the outline to text reports
// - json mode writes one object per line

func newTestHandler(t *testing.T, format string, outline bool) (*scriptChangeHandler, *bytes.Buffer) {
	t.Helper()
	svc, err := newService(config.Default(), nil)
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	var out bytes.Buffer
	return newScriptChangeHandler(svc, []string{"Items", "Things"}, format, outline, &out), &out
}

func TestScriptChangeHandler_ReloadsChangedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "rule.js")
	require.NoError(t, os.WriteFile(file, []byte(`Items.Switch`), 0644))

	handler, out := newTestHandler(t, config.FormatText, false)
	require.NoError(t, handler.HandleChanges(context.Background(), []string{file}))
	assert.Equal(t, file+"\n  Items: Switch\n  Things: (none)\n", out.String())

	out.Reset()
	require.NoError(t, os.WriteFile(file, []byte(`Items.Dimmer; Things.fan`), 0644))
	require.NoError(t, handler.HandleChanges(context.Background(), []string{file}))
	assert.Equal(t, file+"\n  Items: Dimmer\n  Things: fan\n", out.String())
}

func TestScriptChangeHandler_RemovedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "rule.ts")
	require.NoError(t, os.WriteFile(file, []byte(`Things.a`), 0644))

	handler, out := newTestHandler(t, config.FormatText, false)
	require.NoError(t, handler.HandleChanges(context.Background(), []string{file}))
	require.Len(t, handler.svc.Workspace().URIs(), 1)

	out.Reset()
	require.NoError(t, os.Remove(file))
	require.NoError(t, handler.HandleChanges(context.Background(), []string{file}))
	assert.Equal(t, file+"\n  removed\n", out.String())
	assert.Empty(t, handler.svc.Workspace().URIs())
}

func TestScriptChangeHandler_OutlineText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "rule.ts")
	require.NoError(t, os.WriteFile(file, []byte("function run() {}\n"), 0644))

	handler, out := newTestHandler(t, config.FormatText, true)
	require.NoError(t, handler.HandleChanges(context.Background(), []string{file}))
	assert.Contains(t, out.String(), "  Function      run  :1\n")
}

func TestScriptChangeHandler_JSONLines(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.js")
	gone := filepath.Join(dir, "gone.js")
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(good, []byte(`Things["lamp"]`), 0644))
	require.NoError(t, os.WriteFile(bad, []byte(`x`), 0644))

	handler, out := newTestHandler(t, config.FormatJSON, true)
	err := handler.HandleChanges(context.Background(), []string{good, gone, bad})
	assert.Error(t, err, "unsupported file is reported as an error")

	var reports []watchReport
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var r watchReport
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		reports = append(reports, r)
	}
	require.Len(t, reports, 3)

	assert.Equal(t, good, reports[0].File)
	assert.Equal(t, map[string][]string{"Items": {}, "Things": {"lamp"}}, reports[0].References)
	assert.True(t, reports[1].Removed)
	assert.NotEmpty(t, reports[2].Error)
}

func TestScriptChangeHandler_CancelledContext(t *testing.T) {
	t.Parallel()

	handler, out := newTestHandler(t, config.FormatText, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.HandleChanges(ctx, []string{"a.js"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}
