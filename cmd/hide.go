package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Kaesebrot84/hips-lib/crypto"
	"github.com/Kaesebrot84/hips-lib/imageio"
	"github.com/Kaesebrot84/hips-lib/stego"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var hideOpts struct {
	in       string
	out      string
	secret   string
	password string
}

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Hide a secret text in an image",
	Long: `hide writes the secret into the pixels of the input image and saves the
result. The output must be a lossless format (png, bmp or tiff), otherwise the
hidden bits are lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if hideOpts.password != "" {
			if err := crypto.ValidateKey(hideOpts.password); err != nil {
				return fmt.Errorf("invalid password: %w", err)
			}
		}

		out := hideOpts.out
		if out == "" {
			out = defaultOutputPath(hideOpts.in)
		}

		img, err := stego.HideSecretImg(hideOpts.in, hideOpts.secret, hideOpts.password)
		if err != nil {
			return err
		}

		if err := imageio.NewImageCodec().Save(out, img); err != nil {
			return err
		}

		logger.Info("secret hidden",
			zap.String("in", hideOpts.in),
			zap.String("out", out),
			zap.Int("secret_bytes", len(hideOpts.secret)),
			zap.Bool("password", hideOpts.password != ""))

		fmt.Fprintf(cmd.OutOrStdout(), "Secret hidden in %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hideCmd)

	flags := hideCmd.Flags()
	flags.StringVar(&hideOpts.in, "in", "", "Image to hide the secret in")
	flags.StringVar(&hideOpts.out, "out", "", "Output image (default <in>_stego.png)")
	flags.StringVar(&hideOpts.secret, "secret", "", "Secret text")
	flags.StringVar(&hideOpts.password, "password", "", "Optional password masking the secret")

	_ = hideCmd.MarkFlagRequired("in")
	_ = hideCmd.MarkFlagRequired("secret")
}

func defaultOutputPath(in string) string {
	base := strings.TrimSuffix(in, filepath.Ext(in))
	return base + "_stego" + imageio.Extension(imageio.FormatPNG)
}
