package cmd

import (
	"errors"
	"fmt"

	"github.com/Kaesebrot84/hips-lib/stego"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNoSecret = errors.New("no secret found")

var findOpts struct {
	in       string
	password string
}

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find a secret text hidden in an image",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		secret, ok, err := stego.FindSecretImg(findOpts.in, findOpts.password)
		if err != nil {
			return err
		}
		if !ok {
			logger.Debug("no secret found", zap.String("in", findOpts.in))
			return errNoSecret
		}

		fmt.Fprintln(cmd.OutOrStdout(), secret)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)

	flags := findCmd.Flags()
	flags.StringVar(&findOpts.in, "in", "", "Image to search")
	flags.StringVar(&findOpts.password, "password", "", "Password the secret was hidden with")

	_ = findCmd.MarkFlagRequired("in")
}
