// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/recordlab/micfx/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "micfx",
	Short: "Real-time microphone enhancement and loudness telemetry",
	Long: `micfx sits between raw microphone capture and the encoder stage of a
screen recording: it gates low-amplitude noise, suppresses low-frequency
rumble, and reports RMS/peak loudness telemetry while it runs.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (override config file)
	rootCmd.PersistentFlags().IntP("device", "d", -1, "audio device index (-1 for default)")
	rootCmd.PersistentFlags().Float64P("threshold", "t", 0.015, "noise gate threshold (0.0-1.0)")
	rootCmd.PersistentFlags().Float64P("strength", "s", 0.5, "noise reduction strength (0.0-1.0)")
	rootCmd.PersistentFlags().Float64P("cutoff", "c", 80, "high-pass cutoff frequency in Hz")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable debug output")

	// Bind flags to viper
	viper.BindPFlag("device_index", rootCmd.PersistentFlags().Lookup("device"))
	viper.BindPFlag("noise_threshold", rootCmd.PersistentFlags().Lookup("threshold"))
	viper.BindPFlag("reduction_strength", rootCmd.PersistentFlags().Lookup("strength"))
	viper.BindPFlag("cutoff_frequency", rootCmd.PersistentFlags().Lookup("cutoff"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}
