package stretch

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hydrz/stretch/utils"
)

// Result holds the outcome of a single conversion run: the derived output
// path, the child process exit code and whatever ffmpeg wrote to stderr.
type Result struct {
	OutputPath string
	ExitCode   int
	Stderr     string
}

// OutputPath derives the converted file's path by inserting "_16-9" before
// the extension. The same input always yields the same output; an existing
// file there is overwritten by the conversion.
func OutputPath(input string) string {
	ext := utils.FileExtension(filepath.Base(input))
	return strings.TrimSuffix(input, ext) + "_16-9" + ext
}

// ffmpegArgs builds the fixed argument vector: force the frame to exactly
// 1920x1080 (no aspect ratio preservation), reset the sample aspect ratio so
// players do not re-apply the stale 4:3 one, copy audio without re-encoding
// and overwrite the output if it exists.
func ffmpegArgs(input, output string) []string {
	return []string{
		"-i", input,
		"-vf", "scale=1920:1080,setsar=1",
		"-c:a", "copy",
		"-y",
		output,
	}
}

// Convert stretches the 4:3 video at inputPath to 16:9 using the resolved
// ffmpeg executable. The input must exist; otherwise ffmpeg is never invoked.
// A Result is returned alongside the error whenever the child process ran, so
// callers can relay its stderr verbatim. Launch failures (missing binary,
// permissions) are reported as conversion errors, never panics.
func Convert(c *Context, ffmpegPath, inputPath string) (*Result, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}

	outputPath := OutputPath(inputPath)
	c.Logger().Info("Converting", "input", inputPath, "output", outputPath)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(c.Context(), ffmpegPath, ffmpegArgs(inputPath, outputPath)...)
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		OutputPath: outputPath,
		Stderr:     stderr.String(),
	}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, fmt.Errorf("ffmpeg exited with status %d", result.ExitCode)
	}

	result.ExitCode = -1
	return result, fmt.Errorf("failed to run ffmpeg: %w", err)
}
