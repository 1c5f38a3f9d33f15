package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docchat/docchat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .docchat.yml config file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(".docchat.yml"); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf(".docchat.yml already exists; use --force to overwrite")
			}
		}

		_, err := config.RunWizard()
		return err
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
