// Package main provides the CLI entry point for avplay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/user/avplay/pkg/adapters/avbackend"
	"github.com/user/avplay/pkg/adapters/filesink"
	"github.com/user/avplay/pkg/adapters/ggrenderer"
	"github.com/user/avplay/pkg/adapters/logger"
	"github.com/user/avplay/pkg/adapters/mp4probe"
	"github.com/user/avplay/pkg/adapters/nullsink"
	"github.com/user/avplay/pkg/adapters/osfilesystem"
	"github.com/user/avplay/pkg/adapters/otosink"
	"github.com/user/avplay/pkg/adapters/smartprobe"
	"github.com/user/avplay/pkg/config"
	"github.com/user/avplay/pkg/orchestrator"
	"github.com/user/avplay/pkg/ports"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Play     PlayCmd     `cmd:"" help:"Play a media file."`
	Probe    ProbeCmd    `cmd:"" help:"Show container duration and streams."`
	Snapshot SnapshotCmd `cmd:"" help:"Save the frame at a position as an image."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// LogFlags are shared by every command that logs.
type LogFlags struct {
	LogLevel  *string `short:"l" help:"Log level (debug, info, warn, error)."`
	LogFormat *string `help:"Log format (console, text, json)."`
	Quiet     bool    `short:"Q" help:"Suppress all log output."`
}

// PlayCmd defines the play subcommand.
type PlayCmd struct {
	Source string `arg:"" help:"Media file to play."`
	Config string `short:"c" type:"existingfile" help:"YAML configuration file."`

	// Playback
	Start        *int64 `short:"s" help:"Start position in milliseconds."`
	Volume       *int   `short:"v" help:"Initial volume (0-100)."`
	NoAudio      bool   `help:"Play video only."`
	IntervalMs   *int   `help:"Delay between frames in milliseconds."`
	AudioBuffer  *int   `help:"Audio buffer size in bytes."`
	NoLowLatency bool   `help:"Use the default audio device buffer."`
	NoConsole    bool   `help:"Do not read commands from standard input."`

	// Display
	Width  *int `short:"W" help:"Display width in pixels."`
	Height *int `short:"H" help:"Display height in pixels."`

	// Snapshots
	SnapshotDir        *string `help:"Directory for periodic snapshots."`
	SnapshotIntervalMs *int64  `help:"Save a snapshot every N milliseconds of playback (0 = off)."`
	SnapshotFormat     *string `help:"Snapshot image format (png, jpg)."`
	RawSnapshots       bool    `help:"Save bare frames instead of the composed display."`

	Summary *string `help:"Output playback summary to file (Markdown format)."`

	LogFlags `embed:""`
}

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	Source string `arg:"" help:"Media file to probe."`

	LogFlags `embed:""`
}

// SnapshotCmd defines the snapshot subcommand.
type SnapshotCmd struct {
	Source string `arg:"" help:"Media file to read."`
	At     int64  `short:"t" default:"0" help:"Position in milliseconds."`
	Output string `short:"o" default:"." help:"Output directory."`
	Format string `short:"f" default:"png" enum:"png,jpg,jpeg" help:"Image format (png, jpg)."`

	LogFlags `embed:""`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("avplay"),
		kong.Description(l10n.T("Play audio and video files from the terminal.")),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// newLogger selects the logger for the resolved config.
func newLogger(cfg config.Config, quiet bool) ports.Logger {
	level := ports.ParseLogLevel(cfg.LogLevel)
	switch {
	case quiet:
		return logger.NewNoop()
	case cfg.LogFormat == "text" || cfg.LogFormat == "json":
		return logger.NewHCLog(logger.HCLogOptions{
			Name:   "avplay",
			Level:  level,
			JSON:   cfg.LogFormat == "json",
			Output: os.Stderr,
		})
	default:
		return logger.NewConsole(level)
	}
}

func (f LogFlags) apply(cfg *config.Config) {
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
	if f.LogFormat != nil {
		cfg.LogFormat = *f.LogFormat
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newProber(log ports.Logger) *smartprobe.Prober {
	return smartprobe.New(mp4probe.New(), avbackend.NewProber(), log)
}

// Run executes the play command.
func (cmd *PlayCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.Quiet)

	ctx, cancel := signalContext()
	defer cancel()

	fs := osfilesystem.New()
	renderer := ggrenderer.NewFast()

	var sink ports.FrameSink = nullsink.New()
	if cfg.SnapshotIntervalMs > 0 {
		sink = filesink.New(cfg.SnapshotDir, ports.ParseImageFormat(cfg.SnapshotFormat), fs, renderer)
	}

	var output ports.AudioOutput
	if !cfg.NoAudio {
		output = otosink.New(log)
	}

	orch := orchestrator.New(
		avbackend.New(log),
		output,
		newProber(log),
		renderer,
		sink,
		fs,
		log,
	)
	if !cmd.NoConsole && isatty.IsTerminal(os.Stdin.Fd()) {
		orch.WithConsole(os.Stdin)
	}

	orchConfig := cfg.ToOrchestratorConfig()
	orchConfig.Version = version
	orchConfig.Translate = l10n.T

	_, err = orch.Play(ctx, orchConfig)
	return err
}

// buildConfig loads the config file, if any, and applies flag overrides.
func (cmd *PlayCmd) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(cmd.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Source = cmd.Source
	if cmd.Start != nil {
		cfg.StartMs = *cmd.Start
	}
	if cmd.Volume != nil {
		cfg.Volume = *cmd.Volume
	}
	if cmd.NoAudio {
		cfg.NoAudio = true
	}
	if cmd.IntervalMs != nil {
		cfg.FrameIntervalMs = *cmd.IntervalMs
	}
	if cmd.AudioBuffer != nil {
		cfg.AudioBufferBytes = *cmd.AudioBuffer
	}
	if cmd.NoLowLatency {
		cfg.LowLatency = false
	}
	if cmd.Width != nil {
		cfg.DisplayWidth = *cmd.Width
	}
	if cmd.Height != nil {
		cfg.DisplayHeight = *cmd.Height
	}
	if cmd.SnapshotDir != nil {
		cfg.SnapshotDir = *cmd.SnapshotDir
	}
	if cmd.SnapshotIntervalMs != nil {
		cfg.SnapshotIntervalMs = *cmd.SnapshotIntervalMs
	}
	if cmd.SnapshotFormat != nil {
		cfg.SnapshotFormat = *cmd.SnapshotFormat
	}
	if cmd.RawSnapshots {
		cfg.SnapshotComposed = false
	}
	if cmd.Summary != nil {
		cfg.SummaryPath = *cmd.Summary
	}
	cmd.LogFlags.apply(&cfg)

	return cfg, nil
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	cfg := config.Defaults()
	cmd.LogFlags.apply(&cfg)
	log := newLogger(cfg, cmd.Quiet)

	info, backend, err := newProber(log).ProbeWithBackend(cmd.Source)
	if err != nil {
		return err
	}

	log.Debug("Probed with %s", backend)
	fmt.Println(l10n.F("Format: %s", info.Format))
	fmt.Println(l10n.F("Duration: %s", info.Duration.Round(time.Millisecond)))
	for _, s := range info.Streams {
		fmt.Printf("  #%d %s %s %s\n", s.Index, s.Type, s.CodecName, orchestrator.StreamDetail(s))
	}
	return nil
}

// Run executes the snapshot command.
func (cmd *SnapshotCmd) Run() error {
	cfg := config.Defaults()
	cmd.LogFlags.apply(&cfg)
	cfg.Source = cmd.Source
	log := newLogger(cfg, cmd.Quiet)

	ctx, cancel := signalContext()
	defer cancel()

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	sink := filesink.New(cmd.Output, ports.ParseImageFormat(cmd.Format), fs, renderer)

	orch := orchestrator.New(avbackend.New(log), nil, newProber(log), renderer, sink, fs, log)

	path, err := orch.Snapshot(ctx, cfg.ToOrchestratorConfig(), cmd.At)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("avplay version %s", version))
	return nil
}
