package stretch

import (
	"net/http"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// defaultArchiveURL is the fixed ffmpeg build fetched when no installation is found.
// Only the Windows essentials build is published as a plain zip, which is why
// auto-install is Windows-only.
const defaultArchiveURL = "https://www.gyan.dev/ffmpeg/builds/ffmpeg-release-essentials.zip"

// Option defines all configurable parameters for locating ffmpeg and running a
// conversion. Each field corresponds to a command-line flag in main.go/setupFlags.
// None of these change what the conversion does; they only affect where ffmpeg
// comes from and how the archive download behaves.
type Option struct {
	FFmpegPath string        // Explicit path to an ffmpeg executable (--ffmpeg)
	ArchiveURL string        // Archive URL for the auto-install fallback
	InstallDir string        // Directory the ffmpeg/ tree is installed under; defaults to the program's own directory
	Headers    http.Header   // Custom HTTP headers for the archive download (--header, -H)
	UserAgent  string        // Custom user agent (--user-agent, -u)
	Proxy      string        // HTTP proxy URL (--proxy, -x)
	RetryCount int           // Number of transport-level retry attempts (--retry, -r)
	Timeout    time.Duration // Request timeout (--timeout, -t)
	NoCache    bool          // Disable HTTP caching of the archive download (--no-cache)
	NoPrompt   bool          // Skip the "Press Enter to exit" pause (--no-prompt)
	Debug      bool          // Enable debug logging (--debug, -d)
	Verbose    bool          // Enable verbose output (--verbose, -v)
	Silent     bool          // Suppress all output except errors (--silent)
}

func (o *Option) Combine(other Option) {
	if other.FFmpegPath != "" {
		o.FFmpegPath = other.FFmpegPath
	}
	if other.ArchiveURL != "" {
		o.ArchiveURL = other.ArchiveURL
	}
	if other.InstallDir != "" {
		o.InstallDir = other.InstallDir
	}
	if len(other.Headers) > 0 {
		if o.Headers == nil {
			o.Headers = make(http.Header)
		}
		for k, vs := range other.Headers {
			for _, v := range vs {
				o.Headers.Set(k, v)
			}
		}
	}
	if other.UserAgent != "" {
		o.UserAgent = other.UserAgent
	}
	if other.Proxy != "" {
		o.Proxy = other.Proxy
	}
	if other.RetryCount > 0 {
		o.RetryCount = other.RetryCount
	}
	if other.Timeout > 0 {
		o.Timeout = other.Timeout
	}

	o.NoCache = o.NoCache || other.NoCache
	o.NoPrompt = o.NoPrompt || other.NoPrompt
	o.Debug = o.Debug || other.Debug
	o.Verbose = o.Verbose || other.Verbose
	o.Silent = o.Silent || other.Silent
}

var DefaultOptions = &Option{
	ArchiveURL: defaultArchiveURL,
	RetryCount: 3,
	UserAgent:  defaultUserAgent,
}
