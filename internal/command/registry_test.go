package command_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hbomb79/mediagate/internal/command"
	"github.com/hbomb79/mediagate/internal/fault"
	"github.com/hbomb79/mediagate/internal/ffmpeg"
	"github.com/hbomb79/mediagate/internal/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"
)

type mockThumbnailer struct{ mock.Mock }

func (m *mockThumbnailer) Generate(ctx context.Context, videoPath string, outputPath string, timestamp *float64) (string, error) {
	ret := m.Called(ctx, videoPath, outputPath, timestamp)
	return ret.String(0), ret.Error(1)
}

type mockProber struct{ mock.Mock }

func (m *mockProber) ExtractMetadata(ctx context.Context, path string) (*ffmpeg.VideoMetadata, error) {
	ret := m.Called(ctx, path)
	metadata, _ := ret.Get(0).(*ffmpeg.VideoMetadata)
	return metadata, ret.Error(1)
}

type mockLauncher struct{ mock.Mock }

func (m *mockLauncher) Open(path string) error   { return m.Called(path).Error(0) }
func (m *mockLauncher) Reveal(path string) error { return m.Called(path).Error(0) }

type fixture struct {
	registry    *command.Registry
	prober      *mockProber
	thumbnailer *mockThumbnailer
	launcher    *mockLauncher
}

func newFixture() *fixture {
	f := &fixture{
		prober:      &mockProber{},
		thumbnailer: &mockThumbnailer{},
		launcher:    &mockLauncher{},
	}

	f.registry = command.NewRegistry(command.Services{
		Library:     library.New(library.DefaultConfig()),
		Prober:      f.prober,
		Thumbnailer: f.thumbnailer,
		Launcher:    f.launcher,
		CheckTools:  func() ffmpeg.ToolAvailability { return ffmpeg.ToolAvailability{Ffmpeg: true} },
	})

	return f
}

func invoke(t *testing.T, registry *command.Registry, name string, args any) (any, error) {
	raw, err := json.Marshal(args)
	require.NoError(t, err)

	return registry.Invoke(context.Background(), name, raw)
}

func Test_Registry_BindsEveryCommand(t *testing.T) {
	assert.Equal(t, []string{
		"check_video_tools",
		"extract_video_metadata",
		"file_exists",
		"find_subtitle_file",
		"generate_thumbnail",
		"greet",
		"open_file_externally",
		"open_file_with_dialog",
		"read_directory",
		"read_subtitle_file",
		"scan_directory_recursive",
	}, newFixture().registry.Commands())
}

func Test_Registry_RejectsUnknownCommandsAndBadArguments(t *testing.T) {
	registry := newFixture().registry

	_, err := registry.Invoke(context.Background(), "format_disk", nil)
	assert.True(t, fault.Is(err, fault.InvalidArgument))

	_, err = invoke(t, registry, "read_directory", map[string]any{})
	assert.True(t, fault.Is(err, fault.InvalidArgument), "missing 'path' should be rejected")

	_, err = registry.Invoke(context.Background(), "read_directory", json.RawMessage(`{"path": 4`))
	assert.True(t, fault.Is(err, fault.InvalidArgument), "malformed JSON should be rejected")
}

func Test_Registry_Greet(t *testing.T) {
	out, err := invoke(t, newFixture().registry, "greet", map[string]any{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada! You've been greeted from Go!", out)
}

func Test_Registry_FilesystemCommands(t *testing.T) {
	dir := fs.NewDir(t, "commands",
		fs.WithFile("movie.mp4", ""),
		fs.WithFile("movie.srt", "subs"),
		fs.WithDir("nested", fs.WithFile("clip.mpg", "")),
	)
	registry := newFixture().registry

	out, err := invoke(t, registry, "read_directory", map[string]any{"path": dir.Path()})
	require.NoError(t, err)
	assert.Len(t, out, 3)

	out, err = invoke(t, registry, "scan_directory_recursive", map[string]any{"path": dir.Path()})
	require.NoError(t, err)
	assert.Len(t, out, 3)

	out, err = invoke(t, registry, "file_exists", map[string]any{"path": dir.Join("movie.srt")})
	require.NoError(t, err)
	assert.Equal(t, true, out)

	out, err = invoke(t, registry, "file_exists", map[string]any{"path": dir.Join("nope.srt")})
	require.NoError(t, err)
	assert.Equal(t, false, out)

	out, err = invoke(t, registry, "read_subtitle_file", map[string]any{"path": dir.Join("movie.srt")})
	require.NoError(t, err)
	assert.Equal(t, "subs", out)

	out, err = invoke(t, registry, "find_subtitle_file", map[string]any{"videoPath": dir.Join("movie.mp4")})
	require.NoError(t, err)
	require.IsType(t, &library.Subtitle{}, out)
	assert.Equal(t, "srt", out.(*library.Subtitle).Format)

	_, err = invoke(t, registry, "read_directory", map[string]any{"path": dir.Join("missing")})
	assert.True(t, fault.Is(err, fault.NotFound))
}

func Test_Registry_GenerateThumbnailPassesArgumentsThrough(t *testing.T) {
	f := newFixture()
	f.thumbnailer.On("Generate", mock.Anything, "/videos/a.mp4", "~/thumbs/a.jpg", (*float64)(nil)).Return("~/thumbs/a.jpg", nil).Once()

	out, err := invoke(t, f.registry, "generate_thumbnail", map[string]any{"videoPath": "/videos/a.mp4", "outputPath": "~/thumbs/a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "~/thumbs/a.jpg", out, "paths are used exactly as given")
	f.thumbnailer.AssertExpectations(t)
}

func Test_Registry_GenerateThumbnailLeavesTimestampToFfmpeg(t *testing.T) {
	f := newFixture()
	negative := mock.MatchedBy(func(ts *float64) bool { return ts != nil && *ts == -1 })
	f.thumbnailer.On("Generate", mock.Anything, "/videos/a.mp4", "/thumbs/a.jpg", negative).
		Return("", fault.New(fault.EncodeFailed, "FFmpeg failed: Invalid duration")).Once()

	_, err := invoke(t, f.registry, "generate_thumbnail", map[string]any{"videoPath": "/videos/a.mp4", "outputPath": "/thumbs/a.jpg", "timestamp": -1})
	assert.True(t, fault.Is(err, fault.EncodeFailed))
	f.thumbnailer.AssertExpectations(t)
}

func Test_Registry_FileExistsDoesNotExpandHome(t *testing.T) {
	dir := fs.NewDir(t, "home", fs.WithFile("marker", ""))
	t.Setenv("HOME", dir.Path())

	out, err := invoke(t, newFixture().registry, "file_exists", map[string]any{"path": "~/marker"})
	require.NoError(t, err)
	assert.Equal(t, false, out, "a leading '~' is part of the literal path")

	out, err = invoke(t, newFixture().registry, "file_exists", map[string]any{"path": dir.Join("marker")})
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func Test_Registry_PassesThroughServiceErrors(t *testing.T) {
	f := newFixture()
	f.prober.On("ExtractMetadata", mock.Anything, "/videos/a.mp4").Return(nil, fault.New(fault.NoVideoStream, "No video stream found")).Once()
	f.launcher.On("Reveal", "/videos/a.mp4").Return(fault.New(fault.NotFound, "File does not exist")).Once()
	f.launcher.On("Open", "/videos/a.mp4").Return(nil).Once()

	_, err := invoke(t, f.registry, "extract_video_metadata", map[string]any{"filePath": "/videos/a.mp4"})
	assert.True(t, fault.Is(err, fault.NoVideoStream))

	_, err = invoke(t, f.registry, "open_file_with_dialog", map[string]any{"filePath": "/videos/a.mp4"})
	assert.True(t, fault.Is(err, fault.NotFound))

	out, err := invoke(t, f.registry, "open_file_externally", map[string]any{"filePath": "/videos/a.mp4"})
	assert.NoError(t, err)
	assert.Nil(t, out)

	out, err = f.registry.Invoke(context.Background(), "check_video_tools", nil)
	require.NoError(t, err)
	assert.Equal(t, ffmpeg.ToolAvailability{Ffmpeg: true}, out)

	f.prober.AssertExpectations(t)
	f.launcher.AssertExpectations(t)
}
