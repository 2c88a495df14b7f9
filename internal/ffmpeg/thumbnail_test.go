package ffmpeg_test

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/hbomb79/mediagate/internal/fault"
	"github.com/hbomb79/mediagate/internal/ffmpeg"
	"github.com/hbomb79/mediagate/internal/ffmpeg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"
)

// flagValue returns the argument immediately following flag, or "" if
// the flag is absent.
func flagValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}

	return ""
}

func thumbnailArgs(t *testing.T, runner *mocks.MockRunner) []string {
	require.NotEmpty(t, runner.Calls)
	return runner.Calls[len(runner.Calls)-1].Arguments.Get(2).([]string)
}

func Test_GenerateThumbnail_CreatesDirectoriesAndComposesCommand(t *testing.T) {
	dir := fs.NewDir(t, "thumbs")
	output := dir.Join("cache", "thumbnails", "movie.jpg")
	timestamp := 2.5

	runner := mocks.NewMockRunner()
	runner.On("Run", mock.Anything, "ffmpeg", mock.Anything).Return(&ffmpeg.Result{}, nil).Once()

	got, err := ffmpeg.NewThumbnailGenerator(ffmpeg.DefaultConfig(), runner).Generate(context.Background(), "/videos/movie.mkv", output, &timestamp)
	require.NoError(t, err)
	assert.Equal(t, output, got)
	assert.DirExists(t, dir.Join("cache", "thumbnails"))

	args := thumbnailArgs(t, runner)
	assert.Equal(t, []string{"-i", "/videos/movie.mkv"}, args[:2], "input must come first")
	assert.Equal(t, output, args[len(args)-1], "output must come last")
	assert.Equal(t, "2.5", flagValue(args, "-ss"))
	assert.Equal(t, "1", flagValue(args, "-vframes"))
	assert.Equal(t, "scale=320:240:force_original_aspect_ratio=decrease,pad=320:240:(ow-iw)/2:(oh-ih)/2", flagValue(args, "-vf"))
	assert.Contains(t, args, "-y")
}

func Test_GenerateThumbnail_DefaultTimestamp(t *testing.T) {
	dir := fs.NewDir(t, "thumbs")
	runner := mocks.NewMockRunner()
	runner.On("Run", mock.Anything, "ffmpeg", mock.Anything).Return(&ffmpeg.Result{}, nil).Once()

	_, err := ffmpeg.NewThumbnailGenerator(ffmpeg.DefaultConfig(), runner).Generate(context.Background(), "in.mp4", dir.Join("out.jpg"), nil)
	require.NoError(t, err)
	assert.Equal(t, "10", flagValue(thumbnailArgs(t, runner), "-ss"))
}

func Test_GenerateThumbnail_OverwritesExistingDestination(t *testing.T) {
	dir := fs.NewDir(t, "thumbs")
	output := dir.Join("out.jpg")
	runner := mocks.NewMockRunner()
	runner.On("Run", mock.Anything, "ffmpeg", mock.Anything).Return(&ffmpeg.Result{}, nil).Twice()

	generator := ffmpeg.NewThumbnailGenerator(ffmpeg.DefaultConfig(), runner)
	for i := 0; i < 2; i++ {
		got, err := generator.Generate(context.Background(), "in.mp4", output, nil)
		require.NoError(t, err)
		assert.Equal(t, output, got)
		require.NoError(t, os.WriteFile(output, []byte("jpeg"), 0o644))
	}

	runner.AssertExpectations(t)
}

func Test_GenerateThumbnail_DirectoryCreationFailureAbortsBeforeLaunch(t *testing.T) {
	dir := fs.NewDir(t, "thumbs", fs.WithFile("blocker", ""))
	runner := mocks.NewMockRunner()

	_, err := ffmpeg.NewThumbnailGenerator(ffmpeg.DefaultConfig(), runner).Generate(context.Background(), "in.mp4", dir.Join("blocker", "out.jpg"), nil)
	assert.True(t, fault.Is(err, fault.IoError))
	assert.Contains(t, err.Error(), "Failed to create thumbnail directory")
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func Test_GenerateThumbnail_Failures(t *testing.T) {
	dir := fs.NewDir(t, "thumbs")

	runner := mocks.NewMockRunner()
	runner.On("Run", mock.Anything, "ffmpeg", mock.Anything).Return(&ffmpeg.Result{Stderr: []byte("seek past end"), ExitCode: 1}, nil).Once()
	_, err := ffmpeg.NewThumbnailGenerator(ffmpeg.DefaultConfig(), runner).Generate(context.Background(), "in.mp4", dir.Join("a.jpg"), nil)
	assert.True(t, fault.Is(err, fault.EncodeFailed))
	assert.EqualError(t, err, "FFmpeg failed: seek past end")

	runner = mocks.NewMockRunner()
	runner.On("Run", mock.Anything, "ffmpeg", mock.Anything).Return(nil, exec.ErrNotFound).Once()
	_, err = ffmpeg.NewThumbnailGenerator(ffmpeg.DefaultConfig(), runner).Generate(context.Background(), "in.mp4", dir.Join("b.jpg"), nil)
	assert.True(t, fault.Is(err, fault.EncodeFailed))
	assert.Contains(t, err.Error(), "Failed to execute ffmpeg")
}

func Test_CheckTools(t *testing.T) {
	lookPath := func(bin string) (string, error) {
		if bin == "ffprobe" {
			return "/usr/bin/ffprobe", nil
		}
		return "", exec.ErrNotFound
	}

	tools := ffmpeg.CheckTools(ffmpeg.DefaultConfig(), lookPath)
	assert.Equal(t, ffmpeg.ToolAvailability{Ffmpeg: false, Ffprobe: true}, tools)
}
