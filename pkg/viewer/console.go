package viewer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/user/avplay/pkg/ports"
)

var (
	// ErrUnknownCommand is returned for input that names no command.
	ErrUnknownCommand = errors.New("viewer: unknown command")

	// ErrBadArgument is returned when a command argument cannot be parsed.
	ErrBadArgument = errors.New("viewer: bad argument")
)

// Controllable is a transport that can also start playback.
type Controllable interface {
	ports.Transport
	Start(ctx context.Context) error
}

// SeekBar is the drag interface of a seek slider.
type SeekBar interface {
	PressSlider()
	MoveSlider(ms int64)
	ReleaseSlider()
}

// Console maps text commands to transport calls:
//
//	play | pause | resume | stop | seek <ms> | volume <0-100> | quit
type Console struct {
	player Controllable
	bar    SeekBar
	logger ports.Logger
}

// NewConsole creates a console controller for player.
func NewConsole(player Controllable, logger ports.Logger) *Console {
	return &Console{player: player, logger: logger.WithComponent("console")}
}

// WithSeekBar routes seek commands through bar, so the target is clamped
// to the known duration and the handle moves the way a drag would.
func (c *Console) WithSeekBar(bar SeekBar) *Console {
	c.bar = bar
	return c
}

// Run executes one command per line of r until quit, end of input, or ctx
// is done. Invalid commands are logged and skipped.
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := c.Execute(ctx, line)
			if err != nil {
				c.logger.Warn("Command failed: %v", err)
				continue
			}
			if quit {
				return nil
			}
		}
	}
}

// Execute runs a single command. quit is true for the quit command.
func (c *Console) Execute(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	c.logger.Debug("Command: %s", line)

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "play", "start":
		return false, c.player.Start(ctx)
	case "pause":
		c.player.Pause()
	case "resume":
		c.player.Resume()
	case "stop":
		c.player.Stop()
	case "seek":
		ms, err := intArg(args)
		if err != nil {
			return false, err
		}
		c.seek(ms)
	case "volume", "vol":
		pct, err := intArg(args)
		if err != nil {
			return false, err
		}
		c.player.SetVolume(VolumeFromPercent(int(pct)))
	case "quit", "exit", "q":
		c.player.Stop()
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return false, nil
}

func (c *Console) seek(ms int64) {
	if c.bar == nil {
		c.player.Seek(ms)
		return
	}
	c.bar.PressSlider()
	c.bar.MoveSlider(ms)
	c.bar.ReleaseSlider()
}

func intArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: want one number", ErrBadArgument)
	}
	v, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadArgument, err)
	}
	return v, nil
}

// VolumeFromPercent maps a 0-100 slider value to a [0, 1] volume.
func VolumeFromPercent(pct int) float64 {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return float64(pct) / 100
}
