package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-view/internal/models"
	"github.com/noah-isme/timetable-view/internal/timetable"
)

func (a *App) gridCmd() *cobra.Command {
	var (
		input    string
		from, to string
		entities []string
		semcode  int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the busy/free grid of the selected entities",
		Long: `Reads lessons as JSON keyed by entity, date and pair
({"Group-A": {"2024-03-04": {"2": {"subject": "..."}}}}) and prints one block
per teaching day with a row per pair.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			refs, err := parseEntities(entities)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				return fmt.Errorf("at least one --entity is required")
			}
			rng, err := timetable.ParseDateRange(from, to)
			if err != nil {
				return err
			}
			schedules := models.EntitySchedule{}
			if err := readJSON(input, &schedules); err != nil {
				return err
			}

			code := timetable.Semcode(semcode)
			if semcode == 0 {
				code = timetable.CurrentSemcode(rng.From)
			}
			semester, err := timetable.NewSemester(code)
			if err != nil {
				return err
			}

			filters := timetable.FilterSetFromRefs(refs)
			grid := timetable.BuildGrid(filters.Entities(), rng, schedules, filters, timetable.WithSemester(semester))
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), grid)
			}
			printGrid(cmd.OutOrStdout(), grid)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Schedule JSON file (required)")
	cmd.Flags().StringVar(&from, "from", "", "First date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "Last date, YYYY-MM-DD (required)")
	cmd.Flags().StringSliceVarP(&entities, "entity", "e", nil, "Entity as type:name, repeatable")
	cmd.Flags().IntVar(&semcode, "semcode", 0, "Semester code for week numbers, e.g. 20241")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func printGrid(w io.Writer, grid timetable.Grid) {
	if grid.Empty() {
		fmt.Fprintln(w, "Nothing to show.")
		return
	}

	names := make([]string, 0, len(grid.Entities))
	for _, e := range grid.Entities {
		names = append(names, e.Name)
	}

	for _, day := range grid.Days {
		title := fmt.Sprintf("%s %s", day.Weekday, day.Date)
		if day.Week > 0 {
			title += fmt.Sprintf(" (неделя %d, %s)", day.Week, day.Parity)
		}
		fmt.Fprintf(w, "\n  %s\n", colorHeader.Sprint(title))
		fmt.Fprintf(w, "  %s\n", colorMuted.Sprint(strings.Join(names, " | ")))

		for _, row := range day.Rows {
			label := fmt.Sprintf("  %d  %-13s", row.Pair, row.PairTime)
			if row.AllFree {
				fmt.Fprintf(w, "%s %s\n", label, colorMuted.Sprint(timetable.Placeholder))
				continue
			}
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				cells = append(cells, cellText(cell))
			}
			fmt.Fprintf(w, "%s %s\n", label, strings.Join(cells, " | "))
		}
	}
}

func cellText(cell timetable.GridCell) string {
	if cell.Status == timetable.CellFree || cell.Entry == nil {
		return colorFree.Sprint("свободно")
	}
	text := cell.Entry.Subject
	if cell.Entry.LessonType != "" {
		text += " [" + cell.Entry.LessonType + "]"
	}
	if cell.Entry.Room != "" {
		text += " " + cell.Entry.Room
	}
	if cell.ShowGroups && len(cell.Entry.Groups) > 0 {
		text += " (" + strings.Join(cell.Entry.Groups, ", ") + ")"
	}
	if cell.Unidentified {
		return colorWarn.Sprint(text)
	}
	return colorBusy.Sprint(text)
}
