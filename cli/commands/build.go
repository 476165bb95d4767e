package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryforge/cli/internal/config"
	"github.com/satishbabariya/queryforge/cli/internal/ui"
	"github.com/satishbabariya/queryforge/cli/internal/watch"
	"github.com/satishbabariya/queryforge/query/sqlgen"
)

var (
	buildFile  string
	buildCount bool
	buildOut   string
	buildWatch bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile a query description into parameterized SQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		file := buildFile
		if file == "" {
			file = cfg.QueryPath
		}

		if buildWatch {
			w, err := watch.New(file, func() error {
				if err := buildOnce(file); err != nil {
					ui.PrintError("%v", err)
				}
				return nil
			})
			if err != nil {
				return err
			}
			defer w.Stop()
			if err := w.Start(); err != nil {
				return err
			}
			ui.PrintInfo("Watching %s for changes. Press Ctrl+C to stop.", file)
			select {}
		}
		return buildOnce(file)
	},
}

func buildOnce(file string) error {
	qc, err := loadQueryFile(file)
	if err != nil {
		return err
	}

	mode := sqlgen.ModeRows
	if buildCount {
		mode = sqlgen.ModeCount
	}
	q, err := sqlgen.Compile(qc, mode)
	if err != nil {
		return err
	}

	if buildOut != "" {
		payload, err := json.MarshalIndent(map[string]interface{}{
			"sql":  q.SQL,
			"args": q.Args,
		}, "", "  ")
		if err != nil {
			return err
		}
		if err := afero.WriteFile(config.AppFs, buildOut, append(payload, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		ui.PrintSuccess("Wrote %s", buildOut)
		return nil
	}

	ui.PrintSection("Generated SQL")
	ui.PrintSQL(q.SQL)
	if len(q.Args) > 0 {
		ui.PrintSection("Bind Values")
		ui.PrintTable([]string{"#", "Value", "Type"}, formatArgs(q.Args))
	}
	return nil
}

func init() {
	buildCmd.Flags().StringVarP(&buildFile, "file", "f", "", "query description file (defaults to configured query_path)")
	buildCmd.Flags().BoolVar(&buildCount, "count", false, "compile the count variant of the query")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "write SQL and bind values as JSON to a file")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "recompile whenever the query file changes")
	rootCmd.AddCommand(buildCmd)
}
