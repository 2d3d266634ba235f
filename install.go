package stretch

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hydrz/stretch/utils"
)

// installFFmpeg downloads the release archive into base, unpacks it and moves
// the versioned ffmpeg-* directory it contains to base/ffmpeg, replacing any
// previous install. The temporary archive is removed afterwards. No retries
// beyond the client's transport-level retry count; any failure is surfaced to
// the caller as-is.
func installFFmpeg(c *Context, base string) error {
	o := c.Option()
	logger := c.Logger()

	logger.Info("ffmpeg not found, downloading", "url", o.ArchiveURL)

	archivePath := filepath.Join(base, "ffmpeg.zip")
	if err := downloadArchive(c, o.ArchiveURL, archivePath); err != nil {
		return fmt.Errorf("failed to download ffmpeg archive: %w", err)
	}
	defer os.Remove(archivePath)

	if err := extractZip(archivePath, base); err != nil {
		return fmt.Errorf("failed to extract ffmpeg archive: %w", err)
	}

	extracted, err := findExtractedDir(base)
	if err != nil {
		return err
	}

	target := filepath.Join(base, "ffmpeg")
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to remove previous ffmpeg install: %w", err)
	}
	if err := os.Rename(extracted, target); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", extracted, target, err)
	}

	logger.Info("ffmpeg installed", "path", target)
	return nil
}

// downloadArchive streams url to dest, reporting progress through the context
// callback as the body is read.
func downloadArchive(c *Context, url, dest string) error {
	resp, err := c.Client().R().
		SetContext(c.Context()).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("unexpected status %s from %s", resp.Status(), url)
	}

	bar := newProgress(resp.RawResponse.ContentLength, "Downloading ffmpeg")
	if cb := c.GetProgressCallback(); cb != nil {
		bar.SetCallback(cb)
	}
	reader := bar.NewReader(body)
	defer reader.Close()

	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer file.Close()

	written, err := io.Copy(file, reader)
	if err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to write archive: %w", err)
	}

	c.Logger().Debug("Download completed", "path", dest, "size", utils.FormatBytes(written))
	return nil
}

// extractZip unpacks every entry of the archive into dest, refusing entries
// that would escape it.
func extractZip(archivePath, dest string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(dest) + string(os.PathSeparator)
	for _, f := range r.File {
		path := filepath.Join(dest, f.Name)
		if !strings.HasPrefix(path, root) {
			return fmt.Errorf("archive entry escapes destination: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := writeZipEntry(f, path); err != nil {
			return fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func writeZipEntry(f *zip.File, path string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := f.Mode()
	if mode == 0 {
		// Some archivers store no permission bits at all.
		mode = 0644
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// findExtractedDir locates the single versioned directory the archive unpacked
// to. The upstream build names it ffmpeg-<version>-essentials_build.
func findExtractedDir(base string) (string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", base, err)
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "ffmpeg-") {
			return filepath.Join(base, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no ffmpeg-* directory found after extraction in %s", base)
}
