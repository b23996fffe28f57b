// Package orchestrator wires the player, viewer, console controller and
// summary writer together for one run of the command line tool.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/user/avplay/pkg/events"
	"github.com/user/avplay/pkg/player"
	"github.com/user/avplay/pkg/ports"
	"github.com/user/avplay/pkg/viewer"
)

var (
	// ErrPlaybackFailed is returned when the session reported an error.
	ErrPlaybackFailed = errors.New("orchestrator: playback failed")

	// ErrNoFrame is returned by Snapshot when the source ends before a
	// frame is decoded.
	ErrNoFrame = errors.New("orchestrator: no frame decoded")
)

// Config contains all configuration for one run.
type Config struct {
	// Input
	Source string

	// StartMs seeks before the first frame when positive.
	StartMs int64

	// NoAudio plays video only.
	NoAudio bool

	// EventQueueLimit bounds undelivered frame and position events.
	EventQueueLimit int

	Player player.Options
	Viewer viewer.Config

	// SummaryPath writes a Markdown summary when set.
	SummaryPath string
	Version     string

	// Translate localizes summary labels. Nil keeps English.
	Translate func(string) string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		EventQueueLimit: events.DefaultLimit,
		Player:          player.DefaultOptions(),
		Viewer:          viewer.DefaultConfig(),
	}
}

// RunResult describes a finished run.
type RunResult struct {
	Stats        player.Stats
	View         viewer.State
	QueueDropped int
	SummaryPath  string
}

// Orchestrator owns the adapters shared by every command.
type Orchestrator struct {
	backend  ports.MediaBackend
	output   ports.AudioOutput
	prober   ports.Prober
	renderer ports.Renderer
	sink     ports.FrameSink
	fs       ports.FileSystem
	logger   ports.Logger

	// input feeds the console controller. Nil disables it.
	input io.Reader
}

// New creates a new Orchestrator. output may be nil when no audio device is
// available.
func New(
	backend ports.MediaBackend,
	output ports.AudioOutput,
	prober ports.Prober,
	renderer ports.Renderer,
	sink ports.FrameSink,
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		backend:  backend,
		output:   output,
		prober:   prober,
		renderer: renderer,
		sink:     sink,
		fs:       fs,
		logger:   logger,
	}
}

// WithConsole enables the text controller reading commands from r.
func (o *Orchestrator) WithConsole(r io.Reader) *Orchestrator {
	o.input = r
	return o
}

func (o *Orchestrator) audioOutput(cfg Config) ports.AudioOutput {
	if cfg.NoAudio || o.output == nil {
		return nil
	}
	return o.output
}

// Play plays cfg.Source to the end, until the console quits, or until ctx
// is cancelled.
func (o *Orchestrator) Play(ctx context.Context, cfg Config) (RunResult, error) {
	o.logger.Info("Playing %s", cfg.Source)

	queue := events.NewQueue(cfg.EventQueueLimit)
	p := player.New(o.backend, o.audioOutput(cfg), queue, o.logger, cfg.Player)
	if err := p.SetSource(cfg.Source); err != nil {
		return RunResult{}, err
	}
	if cfg.StartMs > 0 {
		p.Seek(cfg.StartMs)
	}

	view := viewer.New(cfg.Viewer, o.renderer, o.sink, p, o.logger)

	g, gctx := errgroup.WithContext(ctx)
	consoleCtx, stopConsole := context.WithCancel(gctx)
	defer stopConsole()

	if err := p.Start(gctx); err != nil {
		return RunResult{}, err
	}

	g.Go(func() error {
		return view.Run(gctx, queue)
	})

	// The run ends with the session.
	done := p.Done()
	g.Go(func() error {
		select {
		case <-done:
		case <-gctx.Done():
			p.Stop()
			<-done
		}
		queue.Close()
		stopConsole()
		return nil
	})

	if o.input != nil {
		console := viewer.NewConsole(p, o.logger).WithSeekBar(view)
		g.Go(func() error {
			return console.Run(consoleCtx, o.input)
		})
	}

	err := g.Wait()

	result := RunResult{
		Stats:        p.Stats(),
		View:         view.State(),
		QueueDropped: queue.Dropped(),
	}

	if cfg.SummaryPath != "" {
		if werr := o.writeSummary(cfg, result); werr != nil {
			o.logger.Warn("Writing summary failed: %v", werr)
		} else {
			result.SummaryPath = cfg.SummaryPath
			o.logger.Info("Summary saved to %s", cfg.SummaryPath)
		}
	}

	if ctx.Err() != nil {
		o.logger.Info("Interrupted, shutting down...")
		return result, ctx.Err()
	}
	if err != nil {
		return result, err
	}
	if result.Stats.Error != "" {
		return result, fmt.Errorf("%w: %s", ErrPlaybackFailed, result.Stats.Error)
	}

	o.logger.Info("Playback finished")
	return result, nil
}

// Snapshot decodes cfg.Source from positionMs and saves the first frame
// through the frame sink. It returns the written path.
func (o *Orchestrator) Snapshot(ctx context.Context, cfg Config, positionMs int64) (string, error) {
	queue := events.NewQueue(cfg.EventQueueLimit)
	p := player.New(o.backend, nil, queue, o.logger, cfg.Player)
	if err := p.SetSource(cfg.Source); err != nil {
		return "", err
	}
	p.Seek(positionMs)

	if err := p.Start(ctx); err != nil {
		return "", err
	}
	defer func() {
		p.Stop()
		p.Wait()
	}()
	go func() {
		<-p.Done()
		queue.Close()
	}()

	var last events.Event
	haveFrame := false
	for {
		e, ok := queue.Next(ctx)
		if !ok {
			break
		}
		switch e.Kind {
		case events.KindError:
			return "", fmt.Errorf("%w: %s", ErrPlaybackFailed, e.Message)
		case events.KindFrame:
			last = e
			haveFrame = true
		case events.KindPosition:
			if !haveFrame {
				continue
			}
			path, err := o.sink.SaveFrame(0, e.Ms, last.Image)
			if err != nil {
				return "", err
			}
			o.logger.Info("Snapshot saved to %s", path)
			return path, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	// A frame without a timestamp is still worth saving.
	if haveFrame {
		path, err := o.sink.SaveFrame(0, 0, last.Image)
		if err != nil {
			return "", err
		}
		o.logger.Info("Snapshot saved to %s", path)
		return path, nil
	}
	return "", ErrNoFrame
}

// Probe describes a source without playing it.
func (o *Orchestrator) Probe(path string) (ports.MediaInfo, error) {
	return o.prober.Probe(path)
}
