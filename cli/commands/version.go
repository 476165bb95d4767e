package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryforge/cli/internal/update"
	"github.com/satishbabariya/queryforge/cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build details",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		fmt.Println(info.FullString())
		return update.Check(info.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
