// Package command binds the gateway operations to the names the presentation
// layer invokes them by. Both the REST and websocket transports dispatch
// through the same Registry so that each command behaves identically
// regardless of how it was called.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/mediagate/internal/fault"
	"github.com/hbomb79/mediagate/internal/ffmpeg"
	"github.com/hbomb79/mediagate/internal/library"
	"github.com/hbomb79/mediagate/pkg/logger"
)

var log = logger.Get("Commands")

type (
	Handler func(ctx context.Context, arguments json.RawMessage) (any, error)

	Library interface {
		ListDirectory(path string) ([]library.DirectoryEntry, error)
		ScanRecursive(path string) ([]library.DirectoryEntry, error)
		FindSubtitle(videoPath string) *library.Subtitle
	}

	Prober interface {
		ExtractMetadata(ctx context.Context, path string) (*ffmpeg.VideoMetadata, error)
	}

	Thumbnailer interface {
		Generate(ctx context.Context, videoPath string, outputPath string, timestamp *float64) (string, error)
	}

	Launcher interface {
		Open(path string) error
		Reveal(path string) error
	}

	// Services is the set of collaborators the commands are dispatched to.
	Services struct {
		Library     Library
		Prober      Prober
		Thumbnailer Thumbnailer
		Launcher    Launcher
		CheckTools  func() ffmpeg.ToolAvailability
	}

	Registry struct {
		handlers map[string]Handler
		validate *validator.Validate
	}
)

// NewRegistry constructs a registry with every gateway command bound to
// the services provided.
func NewRegistry(services Services) *Registry {
	registry := &Registry{
		handlers: make(map[string]Handler),
		validate: validator.New(),
	}

	registry.bindCommands(services)
	return registry
}

// Invoke runs the named command with the JSON encoded arguments provided. The
// arguments may be empty if the command takes none.
func (registry *Registry) Invoke(ctx context.Context, name string, arguments json.RawMessage) (any, error) {
	handler, ok := registry.handlers[name]
	if !ok {
		return nil, fault.New(fault.InvalidArgument, fmt.Sprintf("Unknown command '%s'", name))
	}

	log.Emit(logger.VERBOSE, "Invoking command %s\n", name)
	return handler(ctx, arguments)
}

// Commands returns the names of all bound commands, sorted.
func (registry *Registry) Commands() []string {
	names := make([]string, 0, len(registry.handlers))
	for name := range registry.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (registry *Registry) bind(name string, handler Handler) {
	registry.handlers[name] = handler
}

// withArguments decodes and validates the arguments for a command before passing
// them to fn.
func withArguments[T any](validate *validator.Validate, fn func(context.Context, *T) (any, error)) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		args := new(T)
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, args); err != nil {
				return nil, fault.Wrap(fault.InvalidArgument, "Invalid command arguments", err)
			}
		}

		if err := validate.Struct(args); err != nil {
			return nil, fault.Wrap(fault.InvalidArgument, "Invalid command arguments", err)
		}

		return fn(ctx, args)
	}
}
