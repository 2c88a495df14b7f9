// Package launcher hands files off to the host operating system, either
// opening them with their default application or revealing them in the
// native file manager.
package launcher

import (
	"errors"
	"os"
	"os/exec"

	"github.com/hbomb79/mediagate/internal/fault"
	"github.com/hbomb79/mediagate/pkg/logger"
)

var log = logger.Get("Launcher")

// StartFunc starts the command and returns without waiting for it to exit.
type StartFunc func(Command) error

type Launcher struct {
	resolver Resolver
	start    StartFunc
}

func New(resolver Resolver) *Launcher {
	return NewWithStarter(resolver, startDetached)
}

func NewWithStarter(resolver Resolver, start StartFunc) *Launcher {
	return &Launcher{resolver: resolver, start: start}
}

// Open opens the file at path using the OS default handler.
func (launcher *Launcher) Open(path string) error {
	return launcher.perform(Open, path)
}

// Reveal shows the file at path in the OS file manager.
func (launcher *Launcher) Reveal(path string) error {
	return launcher.perform(Reveal, path)
}

// perform tries each command of the resolved plan until one starts. Success
// only means that a helper process was started; what it does afterwards is
// not observed.
func (launcher *Launcher) perform(action Action, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fault.New(fault.NotFound, "File does not exist")
	}

	plan := launcher.resolver.Resolve(action, path)
	if len(plan.Commands) == 0 {
		return fault.New(fault.LaunchFailed, plan.FailureMessage)
	}

	var lastErr error
	for _, command := range plan.Commands {
		if err := launcher.start(command); err != nil {
			log.Emit(logger.DEBUG, "Unable to %s %s using %s: %s\n", action, path, command.Name, err)
			lastErr = err
			continue
		}

		log.Emit(logger.INFO, "Started %s to %s %s\n", command.Name, action, path)
		return nil
	}

	return fault.Wrap(fault.LaunchFailed, plan.FailureMessage, lastErr)
}

// startDetached starts the command and reaps it in the background so it
// never lingers as a zombie. Its exit status is not reported.
func startDetached(command Command) error {
	cmd := exec.Command(command.Name, command.Args...)
	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				log.Emit(logger.VERBOSE, "%s exited with status %d\n", command.Name, exitErr.ExitCode())
			}
		}
	}()

	return nil
}
