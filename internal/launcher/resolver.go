package launcher

import (
	"path/filepath"
	"runtime"
)

type Action int

const (
	// Open opens a file with the handler the OS has registered for it.
	Open Action = iota

	// Reveal shows the file, selected, inside the OS file manager.
	Reveal
)

func (a Action) String() string {
	switch a {
	case Open:
		return "open"
	case Reveal:
		return "reveal"
	default:
		return "unknown"
	}
}

type (
	// Command is a single executable invocation.
	Command struct {
		Name string
		Args []string
	}

	// Plan is the ordered list of commands which may carry out an action. Each
	// is attempted in turn until one starts successfully. FailureMessage prefixes
	// the error reported if none of them can be started.
	Plan struct {
		Commands       []Command
		FailureMessage string
	}

	// Resolver maps an action on a path to the concrete commands which
	// perform it on a particular platform.
	Resolver interface {
		Resolve(action Action, path string) Plan
	}

	windowsResolver     struct{}
	darwinResolver      struct{}
	freedesktopResolver struct{}
)

// ResolverFor returns the resolver for the GOOS provided. Anything which
// is not Windows or macOS is assumed to be a freedesktop.org compliant system.
func ResolverFor(goos string) Resolver {
	switch goos {
	case "windows":
		return windowsResolver{}
	case "darwin":
		return darwinResolver{}
	default:
		return freedesktopResolver{}
	}
}

// NativeResolver returns the resolver for the platform this binary was built for.
func NativeResolver() Resolver {
	return ResolverFor(runtime.GOOS)
}

func (windowsResolver) Resolve(action Action, path string) Plan {
	if action == Reveal {
		return Plan{
			Commands:       []Command{{Name: "explorer", Args: []string{"/select,", path}}},
			FailureMessage: "Failed to open file location",
		}
	}

	return Plan{
		Commands:       []Command{{Name: "cmd", Args: []string{"/C", "start", "", path}}},
		FailureMessage: "Failed to open file",
	}
}

func (darwinResolver) Resolve(action Action, path string) Plan {
	if action == Reveal {
		return Plan{
			Commands:       []Command{{Name: "open", Args: []string{"-R", path}}},
			FailureMessage: "Failed to show file in Finder",
		}
	}

	return Plan{
		Commands:       []Command{{Name: "open", Args: []string{path}}},
		FailureMessage: "Failed to open file",
	}
}

// freedesktopResolver has no single way to reveal a file, so it tries the file
// managers which support selecting a file before falling back to opening the
// containing directory.
func (freedesktopResolver) Resolve(action Action, path string) Plan {
	if action == Reveal {
		return Plan{
			Commands: []Command{
				{Name: "nautilus", Args: []string{"-s", path}},
				{Name: "dolphin", Args: []string{"--select", path}},
				{Name: "xdg-open", Args: []string{filepath.Dir(path)}},
			},
			FailureMessage: "Failed to open file manager",
		}
	}

	return Plan{
		Commands:       []Command{{Name: "xdg-open", Args: []string{path}}},
		FailureMessage: "Failed to open file",
	}
}
