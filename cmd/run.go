// cmd/run.go
package cmd

import (
	"fmt"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/recordlab/micfx/internal/audio"
	"github.com/recordlab/micfx/internal/config"
	"github.com/recordlab/micfx/internal/dsp"
	"github.com/recordlab/micfx/internal/engine"
	"github.com/recordlab/micfx/internal/recovery"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the enhancement pipeline on live microphone input",
	Long: `Captures audio from the configured device, runs the noise gate and
high-pass stage on every block, and logs RMS/peak loudness telemetry until
interrupted with Ctrl-C.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return err
	}

	log := logrus.StandardLogger()
	if settings.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	eng, err := engine.New(engine.Config{
		WindowSize:        settings.WindowSize,
		TelemetryQueue:    settings.TelemetryQueue,
		NoiseThreshold:    settings.NoiseThreshold,
		ReductionStrength: settings.ReductionStrength,
		CutoffHz:          settings.CutoffFrequency,
	})
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer eng.Close()

	eng.Subscribe(func(ev engine.AnalysisEvent) {
		log.WithFields(logrus.Fields{
			"rms_db":  fmt.Sprintf("%.1f", dsp.AmpToDB(ev.RMS)),
			"peak_db": fmt.Sprintf("%.1f", dsp.AmpToDB(ev.Peak)),
			"t":       fmt.Sprintf("%.2fs", ev.Timestamp),
		}).Info("level")
	})

	capture := audio.New(audio.Config{
		DeviceIndex: settings.DeviceIndex,
		SampleRate:  settings.SampleRate,
		Channels:    uint32(settings.Channels),
		BufferSize:  uint32(settings.BufferSize),
	})
	capture.SetProcessor(eng.ProcessBlock)

	if err := capture.Init(); err != nil {
		return err
	}
	defer capture.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := capture.Start(ctx); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"sample_rate": settings.SampleRate,
		"block_size":  settings.BufferSize,
		"cutoff_hz":   settings.CutoffFrequency,
	}).Info("pipeline started")

	// Stand-in for the downstream encoder stage: drain processed blocks and
	// keep a running count for the shutdown summary.
	var blocks atomic.Uint64
	go func() {
		defer recovery.HandlePanicFunc(nil)
		for range capture.Processed {
			blocks.Add(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	if err := capture.Stop(); err != nil {
		log.WithError(err).Warn("stop capture")
	}
	log.WithField("blocks", blocks.Load()).Debug("pipeline stopped")
	return nil
}
