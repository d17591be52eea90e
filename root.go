package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/olivier-w/flashlight/internal/capture"
	"github.com/olivier-w/flashlight/internal/config"
	"github.com/olivier-w/flashlight/internal/logging"
	"github.com/olivier-w/flashlight/internal/media"
	"github.com/olivier-w/flashlight/internal/monitor"
	"github.com/olivier-w/flashlight/internal/observe"
	"github.com/olivier-w/flashlight/internal/queue"
	"github.com/olivier-w/flashlight/internal/torch"
	"github.com/olivier-w/flashlight/internal/ui"
)

// frameBacklog is how many analysis frames may wait for the monitor.
const frameBacklog = 4

type flagValues struct {
	configPath  string
	threshold   float32
	strict      bool
	volume      float64
	fps         int
	shuffle     bool
	repeat      bool
	logLevel    string
	logFile     string
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	var fv flagValues
	cmd := &cobra.Command{
		Use:   "flashlight [flags] <file|directory|playlist>...",
		Short: "Play music and watch it as light",
		Long: `Play audio files in the terminal while a flashlight follows the music.

Supported formats: ` + media.SupportedExtsList() + `
Directories play their supported files in name order; .m3u and .pls
playlists play their local entries.

Settings are read from ` + config.DefaultPath() + ` when it exists.
Flags override the file.`,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(fv.configPath)
			if err != nil {
				return err
			}
			applyFlags(&cfg, cmd.Flags(), fv)
			if err := config.Validate(cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&fv.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	f.Float32VarP(&fv.threshold, "threshold", "t", torch.DefaultThreshold, "torch threshold in dB, -60..0")
	f.BoolVar(&fv.strict, "strict", false, "full torch intensity whenever it is on")
	f.Float64Var(&fv.volume, "volume", 0.8, "playback volume, 0..1")
	f.IntVar(&fv.fps, "fps", 30, "display refresh rate")
	f.BoolVarP(&fv.shuffle, "shuffle", "s", false, "play tracks in random order")
	f.BoolVarP(&fv.repeat, "repeat", "r", false, "start over after the last track")
	f.StringVar(&fv.logLevel, "log-level", string(config.LogInfo), "log level: debug, info, warn, error")
	f.StringVar(&fv.logFile, "log-file", "", "log file (default "+config.DefaultLogFile()+", empty string disables)")
	f.StringVar(&fv.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. 127.0.0.1:9464")
	return cmd
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOptional(config.DefaultPath())
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(cfg *config.Config, flags *pflag.FlagSet, fv flagValues) {
	if flags.Changed("threshold") {
		cfg.Threshold = fv.threshold
	}
	if flags.Changed("strict") {
		cfg.Strict = fv.strict
	}
	if flags.Changed("volume") {
		cfg.Volume = fv.volume
	}
	if flags.Changed("fps") {
		cfg.FPS = fv.fps
	}
	if flags.Changed("shuffle") {
		cfg.Shuffle = fv.shuffle
	}
	if flags.Changed("repeat") {
		cfg.Repeat = fv.repeat
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = config.LogLevel(fv.logLevel)
	}
	if flags.Changed("log-file") {
		cfg.LogFile = fv.logFile
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = fv.metricsAddr
	}
}

func run(ctx context.Context, cfg config.Config, args []string) error {
	tracks, skipped, err := media.Expand(args)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.Setup(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info("starting", "version", version, "tracks", len(tracks), "skipped", skipped)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.MetricsAddr != "" {
		shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("metrics shutdown failed", "error", err)
			}
		}()
	}

	meter := capture.NewMeter()
	tap := capture.NewTap(meter, frameBacklog, logger)
	mon := monitor.New(monitor.Options{
		Volume:  meter,
		Torch:   torch.NewSettings(cfg.Threshold, cfg.Strict),
		Metrics: observe.DefaultMetrics(),
		Logger:  logger,
	})

	q := queue.New(tracks)
	if cfg.Shuffle {
		q.ToggleShuffle()
	}
	model, err := ui.New(ui.Options{
		Queue:   q,
		Open:    openTrack(tap),
		Monitor: mon,
		FPS:     cfg.FPS,
		Volume:  cfg.Volume,
		Repeat:  cfg.Repeat,
		Logger:  logger,
	})
	if err != nil {
		tap.Close()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mon.Run(gctx, tap.Frames())
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return observe.Serve(gctx, cfg.MetricsAddr, logger)
		})
	}
	g.Go(func() error {
		defer cancel()
		defer tap.Close()
		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx)).Run()
		return err
	})

	err = g.Wait()
	logger.Info("stopped", "dropped_frames", tap.Dropped(), "error", err)
	return err
}
