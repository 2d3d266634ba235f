package stretch

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func archiveServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInstallFFmpeg(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"ffmpeg-7.1-essentials_build/bin/ffmpeg.exe": "fake binary",
		"ffmpeg-7.1-essentials_build/README.txt":     "readme",
	})
	srv := archiveServer(t, archive)

	base := t.TempDir()
	c := testContext(t, Option{ArchiveURL: srv.URL, InstallDir: base})

	require.NoError(t, installFFmpeg(c, base))

	assert.FileExists(t, filepath.Join(base, "ffmpeg", "bin", "ffmpeg.exe"))
	assert.NoFileExists(t, filepath.Join(base, "ffmpeg.zip"), "temporary archive is removed")
	assert.NoDirExists(t, filepath.Join(base, "ffmpeg-7.1-essentials_build"), "versioned directory is renamed away")
}

func TestInstallFFmpegReplacesPreviousInstall(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"ffmpeg-8.0-essentials_build/bin/ffmpeg.exe": "new binary",
	})
	srv := archiveServer(t, archive)

	base := t.TempDir()
	stale := filepath.Join(base, "ffmpeg", "stale.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	c := testContext(t, Option{ArchiveURL: srv.URL, InstallDir: base})
	require.NoError(t, installFFmpeg(c, base))

	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(base, "ffmpeg", "bin", "ffmpeg.exe"))
}

func TestInstallFFmpegMalformedArchive(t *testing.T) {
	srv := archiveServer(t, []byte("this is not a zip file"))

	base := t.TempDir()
	c := testContext(t, Option{ArchiveURL: srv.URL, InstallDir: base})

	err := installFFmpeg(c, base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract")
}

func TestInstallFFmpegMissingVersionedDir(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"docs/readme.txt": "no ffmpeg here",
	})
	srv := archiveServer(t, archive)

	base := t.TempDir()
	c := testContext(t, Option{ArchiveURL: srv.URL, InstallDir: base})

	err := installFFmpeg(c, base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ffmpeg-")
}

func TestInstallFFmpegServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	base := t.TempDir()
	c := testContext(t, Option{ArchiveURL: srv.URL, InstallDir: base})

	err := installFFmpeg(c, base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDownloadArchiveReportsProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 64*1024)
	srv := archiveServer(t, payload)

	c := testContext(t, Option{ArchiveURL: srv.URL})

	var lastCurrent, lastTotal int64
	var lastDescription string
	c.SetProgressCallback(func(current, total int64, description string) {
		lastCurrent, lastTotal = current, total
		lastDescription = description
	})

	dest := filepath.Join(t.TempDir(), "ffmpeg.zip")
	require.NoError(t, downloadArchive(c, srv.URL, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	assert.Equal(t, int64(len(payload)), lastTotal)
	assert.Equal(t, lastTotal, lastCurrent, "Finish reports a complete download")
	assert.Equal(t, "Downloading ffmpeg", lastDescription)
}

func TestExtractZipRejectsEscapingEntries(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("../outside.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("escape"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.zip")
	require.NoError(t, os.WriteFile(archivePath, buf.Bytes(), 0644))

	err = extractZip(archivePath, filepath.Join(dir, "dest"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")
}
