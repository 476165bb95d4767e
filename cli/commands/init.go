package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryforge/cli/internal/config"
	"github.com/satishbabariya/queryforge/cli/internal/ui"
)

const exampleQuery = `{
  "table": ["users"],
  "idField": "id",
  "fields": [
    {"alias": "id", "column": "id"},
    {"alias": "name", "column": "full_name"},
    {"alias": "email", "column": "email"}
  ],
  "where": ["status = ?"],
  "orderBy": ["name"],
  "limit": 25
}
`

const exampleEnv = `# Connection string consumed by queryforge commands.
DATABASE_URL=user:password@tcp(localhost:3306)/app?parseTime=true
`

const gitignoreEntries = `.env
.env.local
`

var initGlobal bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a queryforge project in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.PrintHeader("queryforge init", "Project scaffolding")

		answers := struct {
			Provider  string
			QueryPath string
			Dev       bool
		}{}
		questions := []*survey.Question{
			{
				Name: "provider",
				Prompt: &survey.Select{
					Message: "Database provider:",
					Options: []string{"mysql", "sqlite"},
					Default: "mysql",
				},
			},
			{
				Name: "querypath",
				Prompt: &survey.Input{
					Message: "Default query file:",
					Default: "query.json",
				},
			},
			{
				Name: "dev",
				Prompt: &survey.Confirm{
					Message: "Enable development mode (verbose database errors)?",
					Default: false,
				},
			},
		}
		if err := survey.Ask(questions, &answers); err != nil {
			return err
		}

		cfg := &config.Config{
			Provider:    answers.Provider,
			QueryPath:   answers.QueryPath,
			Development: answers.Dev,
		}

		files := map[string]string{
			".queryforge.yaml": fmt.Sprintf("provider: %s\nquery_path: %s\ndevelopment: %t\n",
				cfg.Provider, cfg.QueryPath, cfg.Development),
			cfg.QueryPath:  exampleQuery,
			".env.example": exampleEnv,
		}
		for name, content := range files {
			if exists, _ := afero.Exists(config.AppFs, name); exists {
				ui.PrintWarning("%s already exists, skipping", name)
				continue
			}
			if err := afero.WriteFile(config.AppFs, name, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
			ui.PrintSuccess("Created %s", name)
		}

		if exists, _ := afero.Exists(config.AppFs, ".gitignore"); !exists {
			if err := afero.WriteFile(config.AppFs, ".gitignore", []byte(gitignoreEntries), 0644); err != nil {
				return fmt.Errorf("failed to write .gitignore: %w", err)
			}
			ui.PrintSuccess("Created .gitignore")
		}

		if initGlobal {
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("failed to save global config: %w", err)
			}
			ui.PrintSuccess("Saved global defaults to ~/.config/queryforge")
		}

		fmt.Println()
		return ui.PrintMarkdown(`## Next steps

1. Copy ` + "`.env.example`" + ` to ` + "`.env`" + ` and set ` + "`DATABASE_URL`" + `.
2. Edit ` + "`" + cfg.QueryPath + "`" + ` to describe your query.
3. Run ` + "`queryforge build`" + ` to see the generated SQL.
`)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "also save the answers as user-wide defaults")
	rootCmd.AddCommand(initCmd)
}
