package stretch

import "errors"

var (
	ErrInputNotFound       = errors.New("input file does not exist")
	ErrFFmpegNotFound      = errors.New("ffmpeg executable not found")
	ErrUnsupportedPlatform = errors.New("automatic ffmpeg install is only supported on Windows")
)
