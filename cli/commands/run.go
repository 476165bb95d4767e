package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryforge/cli/internal/config"
	"github.com/satishbabariya/queryforge/cli/internal/ui"
	"github.com/satishbabariya/queryforge/query/executor"
	"github.com/satishbabariya/queryforge/runtime/client"
)

var (
	runFile      string
	runValues    []string
	runSkipCount bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a query description against the configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is not set; configure it in .env or the environment")
		}
		file := runFile
		if file == "" {
			file = cfg.QueryPath
		}
		qc, err := loadQueryFile(file)
		if err != nil {
			return err
		}

		values := make([]interface{}, len(runValues))
		for i, v := range runValues {
			values[i] = v
		}

		c, err := client.Open(cfg.Provider, cfg.DatabaseURL, client.Options{
			Development: cfg.Development,
		})
		if err != nil {
			return err
		}

		spinner, _ := ui.Spinner("Connecting...")
		if err := c.Connect(cmd.Context()); err != nil {
			if spinner != nil {
				spinner.Fail("Connection failed")
			}
			return err
		}
		defer c.Disconnect()
		if spinner != nil {
			spinner.Success("Connected")
		}

		result, err := c.Executor().GetData(cmd.Context(), qc, values, &executor.Options{
			SkipCount: runSkipCount,
		})
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result.Rows, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		if !runSkipCount {
			ui.PrintInfo("Total rows matching filters: %d", result.Count)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "query description file (defaults to configured query_path)")
	runCmd.Flags().StringArrayVar(&runValues, "value", nil, "bind value for a ? placeholder (repeatable, positional)")
	runCmd.Flags().BoolVar(&runSkipCount, "skip-count", false, "skip the companion count query")
	rootCmd.AddCommand(runCmd)
}
