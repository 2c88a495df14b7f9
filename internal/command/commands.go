package command

import (
	"context"
	"fmt"

	"github.com/hbomb79/mediagate/internal/library"
)

type (
	greetArgs struct {
		Name string `json:"name"`
	}

	pathArgs struct {
		Path string `json:"path" validate:"required"`
	}

	filePathArgs struct {
		FilePath string `json:"filePath" validate:"required"`
	}

	videoPathArgs struct {
		VideoPath string `json:"videoPath" validate:"required"`
	}

	thumbnailArgs struct {
		VideoPath  string   `json:"videoPath" validate:"required"`
		OutputPath string   `json:"outputPath" validate:"required"`
		Timestamp  *float64 `json:"timestamp"`
	}

	noArgs struct{}
)

func (registry *Registry) bindCommands(services Services) {
	v := registry.validate

	registry.bind("greet", withArguments(v, func(_ context.Context, args *greetArgs) (any, error) {
		return fmt.Sprintf("Hello, %s! You've been greeted from Go!", args.Name), nil
	}))

	registry.bind("read_directory", withArguments(v, func(_ context.Context, args *pathArgs) (any, error) {
		return services.Library.ListDirectory(args.Path)
	}))

	registry.bind("scan_directory_recursive", withArguments(v, func(_ context.Context, args *pathArgs) (any, error) {
		return services.Library.ScanRecursive(args.Path)
	}))

	registry.bind("extract_video_metadata", withArguments(v, func(ctx context.Context, args *filePathArgs) (any, error) {
		return services.Prober.ExtractMetadata(ctx, args.FilePath)
	}))

	// The timestamp is not range checked; ffmpeg decides what an out of range seek means.
	registry.bind("generate_thumbnail", withArguments(v, func(ctx context.Context, args *thumbnailArgs) (any, error) {
		return services.Thumbnailer.Generate(ctx, args.VideoPath, args.OutputPath, args.Timestamp)
	}))

	registry.bind("open_file_externally", withArguments(v, func(_ context.Context, args *filePathArgs) (any, error) {
		return nil, services.Launcher.Open(args.FilePath)
	}))

	registry.bind("open_file_with_dialog", withArguments(v, func(_ context.Context, args *filePathArgs) (any, error) {
		return nil, services.Launcher.Reveal(args.FilePath)
	}))

	registry.bind("file_exists", withArguments(v, func(_ context.Context, args *pathArgs) (any, error) {
		return library.Exists(args.Path), nil
	}))

	registry.bind("read_subtitle_file", withArguments(v, func(_ context.Context, args *pathArgs) (any, error) {
		return library.ReadText(args.Path)
	}))

	registry.bind("find_subtitle_file", withArguments(v, func(_ context.Context, args *videoPathArgs) (any, error) {
		return services.Library.FindSubtitle(args.VideoPath), nil
	}))

	registry.bind("check_video_tools", withArguments(v, func(_ context.Context, _ *noArgs) (any, error) {
		return services.CheckTools(), nil
	}))
}
