// Package audio plays the new-problem alert.
package audio

import (
	"fmt"
	"io"
	"sync"

	"github.com/rileyhilliard/zbxboard/internal/board"
	"github.com/rileyhilliard/zbxboard/internal/config"
	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/rileyhilliard/zbxboard/internal/logger"
)

// BellSequence is the ASCII BEL control character.
const BellSequence = "\a"

// New builds the player selected by cfg.Mode. Bell output goes to w.
func New(cfg config.AudioConfig, w io.Writer, log logger.Logger) (board.Audio, error) {
	switch cfg.Mode {
	case config.AudioBell, "":
		return NewBell(w), nil
	case config.AudioCommand:
		return NewCommand(cfg.Command, log)
	case config.AudioNone:
		return None{}, nil
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown audio mode %q", cfg.Mode),
			"Set audio.mode to bell, command or none.")
	}
}

// Bell rings the terminal bell. It never blocks on playback.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell creates a bell that writes to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// PlayAlert writes BEL to the terminal.
func (b *Bell) PlayAlert(bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.w == nil {
		return nil
	}
	if _, err := io.WriteString(b.w, BellSequence); err != nil {
		return errors.WrapWithCode(err, errors.ErrAudio,
			"Couldn't ring the terminal bell",
			"Use audio.mode command to play a sound file instead.")
	}
	return nil
}

// None discards alerts.
type None struct{}

// PlayAlert does nothing.
func (None) PlayAlert(bool) error { return nil }
