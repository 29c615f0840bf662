package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "nda.txt"), "x")
	writeFile(t, filepath.Join(root, "lease.PDF"), "x")
	writeFile(t, filepath.Join(root, "sub", "terms.md"), "x")
	writeFile(t, filepath.Join(root, "photo.png"), "x")
	writeFile(t, filepath.Join(root, ".drafts", "old.txt"), "x")

	paths, stats, err := ScanDirectory(root, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "nda.txt"),
		filepath.Join(root, "lease.PDF"),
		filepath.Join(root, "sub", "terms.md"),
	}, paths)
	assert.Equal(t, uint32(3), stats.Matched)

	paths, _, err = ScanDirectory(root, false)
	require.NoError(t, err)
	assert.Len(t, paths, 4)

	_, _, err = ScanDirectory("  ", false)
	assert.Error(t, err)
}

func TestUtils(t *testing.T) {
	assert.True(t, AllowedExt(".PDF"))
	assert.True(t, AllowedExt("markdown"))
	assert.False(t, AllowedExt(".docx"))
	assert.True(t, IsHidden("/tmp/.git"))
	assert.Equal(t, "/docs/nda.pdf.analysis.xlsx", ReportPath("/docs/nda.pdf"))
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "existing.txt")
	writeFile(t, existing, "already here")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, Debounce: 20 * time.Millisecond}, nil)
	require.NoError(t, err)

	next := func() string {
		select {
		case p := <-events:
			return p
		case <-time.After(5 * time.Second):
			t.Fatal("no watcher event")
			return ""
		}
	}
	assert.Equal(t, existing, next())

	writeFile(t, ReportPath(existing), "report")
	writeFile(t, filepath.Join(root, "ignored.png"), "x")
	created := filepath.Join(root, "new.md")
	writeFile(t, created, "# Terms")
	assert.Equal(t, created, next())

	cancel()
	for range events {
	}
}

func TestStartWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)
}
