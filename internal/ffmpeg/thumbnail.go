package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/floostack/transcoder/ffmpeg"
	"github.com/hbomb79/mediagate/internal/fault"
	"github.com/hbomb79/mediagate/pkg/logger"
)

const thumbnailFilter = "scale=320:240:force_original_aspect_ratio=decrease,pad=320:240:(ow-iw)/2:(oh-ih)/2"

type ThumbnailGenerator struct {
	config Config
	runner Runner
}

func NewThumbnailGenerator(config Config, runner Runner) *ThumbnailGenerator {
	return &ThumbnailGenerator{config: config, runner: runner}
}

// Generate extracts a single frame from the video at videoPath, seeking to
// timestamp seconds (or the configured default if nil), and writes it to
// outputPath letterboxed to 320x240. Any missing parent directories of the
// output are created first, and an existing file at outputPath is overwritten.
//
// The timestamp is not checked against the video's duration; ffmpeg decides
// what happens when it is out of range.
func (generator *ThumbnailGenerator) Generate(ctx context.Context, videoPath string, outputPath string, timestamp *float64) (string, error) {
	seek := generator.config.ThumbnailTimestamp
	if timestamp != nil {
		seek = *timestamp
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return "", fault.Wrap(fault.IoError, "Failed to create thumbnail directory", err)
	}

	ctx, cancel := contextWithOptionalTimeout(ctx, generator.config.ThumbnailTimeout)
	defer cancel()

	result, err := generator.runner.Run(ctx, generator.config.FfmpegBinPath, thumbnailArguments(videoPath, outputPath, seek)...)
	if err != nil {
		return "", fault.Wrap(fault.EncodeFailed, "Failed to execute ffmpeg", err)
	}
	if result.ExitCode != 0 {
		return "", fault.New(fault.EncodeFailed, "FFmpeg failed: "+string(result.Stderr))
	}

	log.Emit(logger.SUCCESS, "Generated thumbnail for %s at %s\n", videoPath, outputPath)
	return outputPath, nil
}

// thumbnailArguments composes the ffmpeg command line used to extract a thumbnail. The
// input is followed by the output options and finally the output path, the same
// ordering the transcoder itself uses.
func thumbnailArguments(videoPath string, outputPath string, seek float64) []string {
	seekTime := strconv.FormatFloat(seek, 'f', -1, 64)
	frames := 1
	filter := thumbnailFilter
	overwrite := true

	opts := ffmpeg.Options{
		SeekTime:    &seekTime,
		Vframes:     &frames,
		VideoFilter: &filter,
		Overwrite:   &overwrite,
	}

	args := append([]string{"-i", videoPath}, opts.GetStrArguments()...)
	return append(args, outputPath)
}
