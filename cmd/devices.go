// cmd/devices.go
package cmd

import (
	"fmt"

	"github.com/recordlab/micfx/internal/audio"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available audio capture devices",
	RunE:  listDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func listDevices(cmd *cobra.Command, args []string) error {
	capture := audio.New(audio.DefaultConfig())
	if err := capture.Init(); err != nil {
		return err
	}
	defer capture.Close()

	infos, err := capture.ListDevices()
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		cmd.Println("no capture devices found")
		return nil
	}

	for i, info := range infos {
		cmd.Println(fmt.Sprintf("%2d: %s", i, info.Name()))
	}
	return nil
}
