package audio

import (
	"os/exec"
	"strings"
	"sync"

	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/rileyhilliard/zbxboard/internal/logger"
)

// Command plays the alert by running an external player such as
// aplay or paplay.
type Command struct {
	name string
	args []string
	log  logger.Logger

	// wg tracks background playbacks so tests and shutdown can wait.
	wg sync.WaitGroup
}

// NewCommand creates a player for argv. argv[0] is the program.
func NewCommand(argv []string, log logger.Logger) (*Command, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, errors.New(errors.ErrConfig,
			"audio.mode is 'command' but audio.command is empty",
			"Set audio.command, e.g. [aplay, /usr/share/sounds/alert.wav].")
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Command{name: argv[0], args: argv[1:], log: log}, nil
}

// PlayAlert runs the player. Non-blocking playback returns once the process
// has started and reaps it in the background.
func (c *Command) PlayAlert(nonBlocking bool) error {
	cmd := exec.Command(c.name, c.args...)

	if !nonBlocking {
		if err := cmd.Run(); err != nil {
			return c.wrap(err)
		}
		return nil
	}

	if err := cmd.Start(); err != nil {
		return c.wrap(err)
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := cmd.Wait(); err != nil {
			c.log.Warn("alert player %s exited: %v", c.name, err)
		}
	}()
	return nil
}

// Wait blocks until every background playback has exited.
func (c *Command) Wait() {
	c.wg.Wait()
}

func (c *Command) wrap(err error) error {
	return errors.WrapWithCode(err, errors.ErrAudio,
		"Couldn't play the alert sound with "+c.name,
		"Check audio.command, or run with --audio bell.")
}
