// Package cli implements the timetable command line: the same grid,
// free-slot and comparison engines as the API, fed from JSON files.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-view/internal/models"
	"github.com/noah-isme/timetable-view/pkg/config"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config   *config.Config
	root     *cobra.Command
	validate *validator.Validate
	logger   *zap.Logger
	debug    bool
	noColor  bool
}

// NewApp creates the CLI with every subcommand registered.
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = &config.Config{}
	}
	a := &App{config: cfg, validate: validator.New(), logger: zap.NewNop()}

	a.root = &cobra.Command{
		Use:   "timetable-cli",
		Short: "Inspect university timetables from the terminal",
		Long: `timetable renders busy/free grids, finds pairs when every selected
group, teacher or room is free, and prints snapshot comparisons.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			if a.debug {
				l, err := zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("creating logger: %w", err)
				}
				a.logger = l
			}
			return nil
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Log engine diagnostics to stderr")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.freeSlotsCmd())
	a.root.AddCommand(a.gridCmd())
	a.root.AddCommand(a.compareCmd())
	a.root.AddCommand(a.semesterCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "timetable-cli %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close flushes the logger.
func (a *App) Close() error {
	_ = a.logger.Sync()
	return nil
}

// parseEntities reads "type:name" selectors; a bare name is a group.
func parseEntities(raw []string) ([]models.EntityRef, error) {
	refs := make([]models.EntityRef, 0, len(raw))
	for _, r := range raw {
		category, name, found := strings.Cut(r, ":")
		if !found {
			category, name = string(models.EntityCategoryGroup), r
		}
		ref := models.EntityRef{Category: models.EntityCategory(strings.ToLower(category)), Name: strings.TrimSpace(name)}
		if !ref.Category.Valid() || ref.Name == "" {
			return nil, fmt.Errorf("invalid entity %q, expected group:NAME, prep:NAME or room:NAME", r)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func readJSON(path string, dest any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
