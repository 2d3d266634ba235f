package stretch

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// installPlatform enumerates the platform families the ffmpeg fallback knows
// about. Detected once per run; only Windows has a plain-zip build we can
// fetch and unpack, so auto-install stays Windows-only on purpose.
type installPlatform int

const (
	platformWindows installPlatform = iota
	platformMac
	platformLinux
	platformOther
)

func detectPlatform() installPlatform {
	switch runtime.GOOS {
	case "windows":
		return platformWindows
	case "darwin":
		return platformMac
	case "linux":
		return platformLinux
	default:
		return platformOther
	}
}

func (p installPlatform) canAutoInstall() bool {
	return p == platformWindows
}

// manualInstallHint returns per-platform guidance shown when ffmpeg cannot be
// acquired automatically.
func (p installPlatform) manualInstallHint() string {
	switch p {
	case platformMac:
		return "install ffmpeg manually: brew install ffmpeg"
	case platformLinux:
		return "install ffmpeg manually: sudo apt install ffmpeg"
	default:
		return "install ffmpeg manually: download from https://ffmpeg.org/download.html"
	}
}

func (p installPlatform) binaryName() string {
	if p == platformWindows {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

// localFFmpegPath returns where a previously auto-installed copy lives under
// base. The Windows essentials build nests the binary under bin/.
func localFFmpegPath(base string, p installPlatform) string {
	if p == platformWindows {
		return filepath.Join(base, "ffmpeg", "bin", "ffmpeg.exe")
	}
	return filepath.Join(base, "ffmpeg", "ffmpeg")
}

// installBase resolves the directory the ffmpeg/ tree is kept under. It sits
// beside the program itself unless overridden through Option.InstallDir.
func installBase(o Option) (string, error) {
	if o.InstallDir != "" {
		return o.InstallDir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate program directory: %w", err)
	}
	return filepath.Dir(exe), nil
}

// EnsureFFmpeg resolves a usable ffmpeg executable, installing one when
// possible. Resolution order: explicit override, system PATH (probed with a
// version query whose output is discarded), previously installed local copy,
// then the download fallback. The returned path is handed to Convert as-is;
// callers never re-discover it.
func EnsureFFmpeg(c *Context) (string, error) {
	o := c.Option()
	logger := c.Logger()
	plat := detectPlatform()

	if o.FFmpegPath != "" {
		logger.Debug("Using explicit ffmpeg path", "path", o.FFmpegPath)
		return o.FFmpegPath, nil
	}

	bin := plat.binaryName()
	if err := exec.CommandContext(c.Context(), bin, "-version").Run(); err == nil {
		logger.Debug("Using ffmpeg from system PATH")
		return bin, nil
	}

	base, err := installBase(o)
	if err != nil {
		return "", err
	}

	local := localFFmpegPath(base, plat)
	if _, err := os.Stat(local); err == nil {
		logger.Debug("Using previously installed ffmpeg", "path", local)
		return local, nil
	}

	if !plat.canAutoInstall() {
		return "", fmt.Errorf("%w; %s", ErrUnsupportedPlatform, plat.manualInstallHint())
	}

	if err := installFFmpeg(c, base); err != nil {
		return "", fmt.Errorf("failed to install ffmpeg: %w; %s", err, plat.manualInstallHint())
	}

	if _, err := os.Stat(local); err != nil {
		return "", fmt.Errorf("%w after install under %s", ErrFFmpegNotFound, base)
	}
	return local, nil
}
