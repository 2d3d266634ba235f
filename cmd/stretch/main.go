package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hydrz/stretch"
	"github.com/hydrz/stretch/utils"
	"github.com/hydrz/stretch/version"
)

var option stretch.Option

func init() {
	// Set default values for options
	option = *stretch.DefaultOptions
}

// ProgressManager renders library progress callbacks as progress bars, keyed
// by description.
type ProgressManager struct {
	bars map[string]*progressbar.ProgressBar
	mu   sync.RWMutex
}

func NewProgressManager() *ProgressManager {
	return &ProgressManager{
		bars: make(map[string]*progressbar.ProgressBar),
	}
}

func (pm *ProgressManager) createProgressCallback() stretch.ProgressCallback {
	return func(current, total int64, description string) {
		pm.mu.Lock()
		defer pm.mu.Unlock()

		bar, exists := pm.bars[description]
		if !exists {
			bar = progressbar.DefaultBytes(total, description)
			pm.bars[description] = bar
		}
		bar.Set64(current)
	}
}

func (pm *ProgressManager) finish() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	for _, bar := range pm.bars {
		bar.Finish()
	}
	pm.bars = make(map[string]*progressbar.ProgressBar)
}

// createRootCommand creates the main command.
func createRootCommand() *cobra.Command {
	var headerFlags []string
	cmd := &cobra.Command{
		Use:     "stretch <video-file>",
		Short:   "Stretch a 4:3 video to 16:9",
		Long:    `stretch - Convert a 4:3 video to 16:9 by scaling it to 1920x1080 with ffmpeg`,
		Version: version.Version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := processHeaders(headerFlags); err != nil {
				return err
			}
			return runRootCommand(cmd, args[0])
		},
	}
	setupFlags(cmd, &headerFlags)
	return cmd
}

// runRootCommand resolves ffmpeg (installing it when necessary) and runs the
// conversion for the single input file.
func runRootCommand(cmd *cobra.Command, rawPath string) error {
	// Merge flag-derived values over a copy of the defaults.
	opt := *stretch.DefaultOptions
	opt.Combine(option)
	ctx := stretch.NewContext(cmd.Context(), opt)

	// Drag-and-drop on Windows wraps the path in quotes.
	input := utils.TrimQuotes(rawPath)
	if input == "" {
		return fmt.Errorf("empty input path")
	}

	// Setup progress manager if not in silent mode
	if !ctx.Option().Silent {
		progressManager := NewProgressManager()
		ctx.SetProgressCallback(progressManager.createProgressCallback())
		defer progressManager.finish()
	}

	ffmpegPath, err := stretch.EnsureFFmpeg(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire ffmpeg: %w", err)
	}

	if !ctx.Option().Silent {
		fmt.Printf("Converting: %s\n", filepath.Base(input))
		fmt.Printf("Output will be: %s\n", filepath.Base(stretch.OutputPath(input)))
	}

	result, err := stretch.Convert(ctx, ffmpegPath, input)
	if err != nil {
		if result != nil && result.Stderr != "" {
			fmt.Fprintln(os.Stderr, result.Stderr)
		}
		return fmt.Errorf("conversion failed: %w", err)
	}

	fmt.Printf("Converted video saved as: %s\n", result.OutputPath)
	return nil
}

// processHeaders parses and validates HTTP headers from command line flags.
func processHeaders(headerFlags []string) error {
	if option.Headers == nil {
		option.Headers = make(http.Header)
	}
	for _, h := range headerFlags {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid header format: %s", h)
		}
		option.Headers.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}
	return nil
}

// setupFlags configures command line flags using the current values in option as defaults.
func setupFlags(cmd *cobra.Command, headerFlags *[]string) {
	// Tool options
	cmd.Flags().StringVar(&option.FFmpegPath, "ffmpeg", option.FFmpegPath, "Path to an ffmpeg executable to use instead of auto-detection")
	// Network options (archive download only)
	cmd.Flags().StringArrayVarP(headerFlags, "header", "H", nil, "Custom HTTP headers")
	cmd.Flags().StringVarP(&option.UserAgent, "user-agent", "u", option.UserAgent, "Custom user agent")
	cmd.Flags().StringVarP(&option.Proxy, "proxy", "x", option.Proxy, "HTTP proxy URL")
	cmd.Flags().IntVarP(&option.RetryCount, "retry", "r", option.RetryCount, "Number of retry attempts")
	cmd.Flags().DurationVarP(&option.Timeout, "timeout", "t", option.Timeout, "Request timeout")
	cmd.Flags().BoolVar(&option.NoCache, "no-cache", option.NoCache, "Disable HTTP caching")
	// Behavior options
	cmd.Flags().BoolVar(&option.NoPrompt, "no-prompt", option.NoPrompt, "Exit without waiting for Enter")
	// Error handling and logging
	cmd.Flags().BoolVarP(&option.Debug, "debug", "d", option.Debug, "Enable debug logging")
	cmd.Flags().BoolVarP(&option.Verbose, "verbose", "v", option.Verbose, "Enable verbose output")
	cmd.Flags().BoolVar(&option.Silent, "silent", option.Silent, "Suppress all output except errors")
}

// pause waits for Enter before the console window closes. Drag-and-drop
// launches a console that vanishes with the process, taking any error output
// with it.
func pause() {
	if option.NoPrompt || option.Silent {
		return
	}
	fmt.Print("\nPress Enter to exit...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}

func main() {
	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := createRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	pause()
	if err != nil {
		os.Exit(1)
	}
}
