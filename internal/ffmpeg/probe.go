package ffmpeg

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/floostack/transcoder"
	"github.com/floostack/transcoder/ffmpeg"
	"github.com/hbomb79/mediagate/internal/fault"
	"github.com/hbomb79/mediagate/pkg/logger"
)

const videoCodecType = "video"

// VideoMetadata is the information about a video file reported to the
// presentation layer. Bitrate and Codec are omitted when ffprobe does not
// report them.
type VideoMetadata struct {
	Duration float64 `json:"duration"`
	Width    int32   `json:"width"`
	Height   int32   `json:"height"`
	Bitrate  *int64  `json:"bitrate,omitempty"`
	Codec    *string `json:"codec,omitempty"`
	FileSize uint64  `json:"file_size"`
}

type Prober struct {
	config Config
	runner Runner
}

func NewProber(config Config, runner Runner) *Prober {
	return &Prober{config: config, runner: runner}
}

// ExtractMetadata runs ffprobe against the file at path and returns the
// duration, resolution, bitrate and codec of its first video stream, along
// with the file's size on disk.
//
// Missing or unparsable durations are reported as zero, as are missing
// dimensions. A file which ffprobe can read, but which has no video stream,
// is an error.
func (prober *Prober) ExtractMetadata(ctx context.Context, path string) (*VideoMetadata, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fault.New(fault.NotFound, "File does not exist")
	}

	ctx, cancel := contextWithOptionalTimeout(ctx, prober.config.ProbeTimeout)
	defer cancel()

	result, err := prober.runner.Run(ctx, prober.config.FfprobeBinPath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, fault.Wrap(fault.ProbeFailed, "Failed to execute ffprobe", err)
	}
	if result.ExitCode != 0 {
		return nil, fault.New(fault.ProbeFailed, "FFprobe failed: "+string(result.Stderr))
	}

	var probed ffmpeg.Metadata
	if err := json.Unmarshal(result.Stdout, &probed); err != nil {
		return nil, fault.Wrap(fault.ParseFailed, "Failed to parse FFprobe output", err)
	}

	metadata, err := metadataFromProbe(&probed)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fault.Wrap(fault.IoError, "Failed to get file size", err)
	}
	metadata.FileSize = uint64(info.Size())

	log.Emit(logger.DEBUG, "Probed %s: %.2fs %dx%d\n", path, metadata.Duration, metadata.Width, metadata.Height)
	return metadata, nil
}

func metadataFromProbe(probed transcoder.Metadata) (*VideoMetadata, error) {
	var video transcoder.Streams
	for _, stream := range probed.GetStreams() {
		if stream.GetCodecType() == videoCodecType {
			video = stream
			break
		}
	}
	if video == nil {
		return nil, fault.New(fault.NoVideoStream, "No video stream found")
	}

	metadata := &VideoMetadata{
		Width:  int32(video.GetWidth()),
		Height: int32(video.GetHeight()),
	}

	format := probed.GetFormat()
	if format != nil {
		if duration, err := strconv.ParseFloat(strings.TrimSpace(format.GetDuration()), 64); err == nil && isFinite(duration) {
			metadata.Duration = duration
		}
		if bitrate, err := strconv.ParseInt(strings.TrimSpace(format.GetBitRate()), 10, 64); err == nil {
			metadata.Bitrate = &bitrate
		}
	}

	if codec := video.GetCodecName(); codec != "" {
		metadata.Codec = &codec
	}

	return metadata, nil
}

// isFinite rejects the "inf" and "nan" spellings ParseFloat accepts, which
// cannot be encoded as JSON.
func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
