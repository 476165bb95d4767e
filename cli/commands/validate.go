package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryforge/cli/internal/config"
	"github.com/satishbabariya/queryforge/cli/internal/ui"
	"github.com/satishbabariya/queryforge/query/sqlgen"
)

var (
	validateFile  string
	validateTable string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a query or table description for unsafe or invalid input",
	RunE: func(cmd *cobra.Command, args []string) error {
		if validateTable != "" {
			return validateTableFile(validateTable)
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		file := validateFile
		if file == "" {
			file = cfg.QueryPath
		}
		return validateQueryFile(file)
	},
}

func validateQueryFile(file string) error {
	qc, err := loadQueryFile(file)
	if err != nil {
		return err
	}

	findings := queryFindings(qc)
	if len(findings) > 0 {
		for _, f := range findings {
			ui.PrintError("%s: %s", file, f)
		}
		ui.PrintWarning("Fix the reported clause(s) and run validate again.")
		return nil
	}
	ui.PrintSuccess("%s compiles cleanly in both row and count modes", file)
	return nil
}

// queryFindings compiles the description in every mode and collects one
// finding per failing mode. Raw fields only compile in row mode, so the two
// modes can fail independently.
func queryFindings(qc *sqlgen.QueryConfig) []string {
	modes := []struct {
		name string
		mode sqlgen.Mode
	}{
		{"row mode", sqlgen.ModeRows},
		{"count mode", sqlgen.ModeCount},
	}

	var findings []string
	for _, m := range modes {
		if _, err := sqlgen.Compile(qc, m.mode); err != nil {
			findings = append(findings, fmt.Sprintf("%s: %v", m.name, err))
		}
	}
	return findings
}

func validateTableFile(file string) error {
	tc, err := loadTableFile(file)
	if err != nil {
		return err
	}
	if _, err := sqlgen.BuildCreateTable(tc); err != nil {
		ui.PrintError("%s: %v", file, err)
		return nil
	}
	ui.PrintSuccess("%s produces valid DDL", file)
	return nil
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "query description file (defaults to configured query_path)")
	validateCmd.Flags().StringVarP(&validateTable, "table", "t", "", "table description file to validate instead")
	rootCmd.AddCommand(validateCmd)
}
