package commands

import (
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryforge/cli/internal/config"
	"github.com/satishbabariya/queryforge/cli/internal/ui"
	"github.com/satishbabariya/queryforge/query/sqlgen"
)

var (
	ddlFile string
	ddlOut  string
)

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Generate CREATE TABLE statements from a table description",
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := loadTableFile(ddlFile)
		if err != nil {
			return err
		}
		statements, err := sqlgen.BuildCreateTable(tc)
		if err != nil {
			return err
		}

		if ddlOut != "" {
			script := strings.Join(statements, ";\n\n") + ";\n"
			if err := afero.WriteFile(config.AppFs, ddlOut, []byte(script), 0644); err != nil {
				return err
			}
			ui.PrintSuccess("Wrote %d statement(s) to %s", len(statements), ddlOut)
			return nil
		}

		for _, stmt := range statements {
			ui.PrintSQL(stmt)
		}
		return nil
	},
}

func init() {
	ddlCmd.Flags().StringVarP(&ddlFile, "file", "f", "table.json", "table description file")
	ddlCmd.Flags().StringVarP(&ddlOut, "out", "o", "", "write the DDL script to a file")
	rootCmd.AddCommand(ddlCmd)
}
