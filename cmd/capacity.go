package cmd

import (
	"fmt"

	"github.com/Kaesebrot84/hips-lib/imageio"
	"github.com/Kaesebrot84/hips-lib/stego"
	"github.com/spf13/cobra"
)

var capacityIn string

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Print how many secret bytes fit into an image",
	RunE: func(cmd *cobra.Command, args []string) error {
		img, meta, err := imageio.NewImageCodec().Load(capacityIn)
		if err != nil {
			return fmt.Errorf("%w '%s': %v", stego.ErrImageLoad, capacityIn, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %dx%d, %d pixels, up to %d secret bytes\n",
			meta.Format, meta.Width, meta.Height, meta.Pixels,
			stego.CalculateCapacity(stego.NewImageCarrier(img)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(capacityCmd)

	capacityCmd.Flags().StringVar(&capacityIn, "in", "", "Image to inspect")
	_ = capacityCmd.MarkFlagRequired("in")
}
