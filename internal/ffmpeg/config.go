package ffmpeg

import "time"

const DefaultThumbnailTimestamp = 10.0

// Config describes how the gateway invokes the external probing (ffprobe)
// and transcoding (ffmpeg) executables.
//
// A zero timeout means the process may run for as long as it likes, which
// is the default. Setting a timeout kills the process once it elapses.
type Config struct {
	FfmpegBinPath      string        `yaml:"ffmpeg_path" env:"FFMPEG_PATH" env-default:"ffmpeg"`
	FfprobeBinPath     string        `yaml:"ffprobe_path" env:"FFPROBE_PATH" env-default:"ffprobe"`
	ProbeTimeout       time.Duration `yaml:"probe_timeout" env:"FFPROBE_TIMEOUT" env-default:"0s"`
	ThumbnailTimeout   time.Duration `yaml:"thumbnail_timeout" env:"FFMPEG_THUMBNAIL_TIMEOUT" env-default:"0s"`
	ThumbnailTimestamp float64       `yaml:"thumbnail_timestamp" env:"THUMBNAIL_TIMESTAMP" env-default:"10"`
}

func DefaultConfig() Config {
	return Config{
		FfmpegBinPath:      "ffmpeg",
		FfprobeBinPath:     "ffprobe",
		ThumbnailTimestamp: DefaultThumbnailTimestamp,
	}
}
