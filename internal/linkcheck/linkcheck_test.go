package linkcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func TestCheckDirCleanTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", `<html><body>
		<a href="/accounts/">Accounts</a>
		<a href="https://example.org/">external</a>
		<a href="#section">fragment</a>
		<link href="/assets/style.css">
		<script src="/assets/theme.js"></script>
	</body></html>`)
	writeFile(t, dir, "accounts/index.html", `<a href="../">home</a>`)
	writeFile(t, dir, "assets/style.css", "body{}")
	writeFile(t, dir, "assets/theme.js", "//")

	report, err := CheckDir(dir, "/")
	require.NoError(t, err)
	assert.True(t, report.Ok())
	assert.Equal(t, 2, report.FilesChecked)
	assert.Equal(t, 1, report.External)
	assert.Equal(t, 4, report.Internal)
}

func TestCheckDirBrokenLink(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", `<a href="/missing/">gone</a><img src="img/nope.png">`)

	report, err := CheckDir(dir, "/")
	require.NoError(t, err)
	require.Len(t, report.Issues, 2)
	assert.False(t, report.Ok())
	assert.Equal(t, "index.html", report.Issues[0].File)
	assert.Equal(t, "/missing/", report.Issues[0].Ref)
}

func TestCheckDirHonorsBasePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", `<a href="/book/gas/">gas</a>`)
	writeFile(t, dir, "gas/index.html", "<p>gas</p>")

	report, err := CheckDir(dir, "/book/")
	require.NoError(t, err)
	assert.True(t, report.Ok(), "issues: %v", report.Issues)
}

func TestCheckDirRelativeLinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide/index.html", `<a href="../accounts/">accounts</a><a href="missing.html">x</a>`)
	writeFile(t, dir, "accounts/index.html", "<p>ok</p>")

	report, err := CheckDir(dir, "/")
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "missing.html", report.Issues[0].Ref)
}

func TestCheckDirQueryAndFragmentStripped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", `<a href="/gas/?hl=1">a</a><a href="/gas/#metering">b</a>`)
	writeFile(t, dir, "gas/index.html", "<p>gas</p>")

	report, err := CheckDir(dir, "/")
	require.NoError(t, err)
	assert.True(t, report.Ok())
}
