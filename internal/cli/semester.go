package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-view/internal/timetable"
)

func (a *App) semesterCmd() *cobra.Command {
	var (
		date    string
		semcode int
	)

	cmd := &cobra.Command{
		Use:   "semester",
		Short: "Show the semester, teaching week and parity of a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := timetable.DateOf(time.Now())
			if date != "" {
				parsed, err := timetable.ParseDate(date)
				if err != nil {
					return err
				}
				d = parsed
			}
			code := timetable.Semcode(semcode)
			if semcode == 0 {
				code = timetable.CurrentSemcode(d)
			}
			semester, err := timetable.NewSemester(code)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Semester %d: %s - %s\n", semester.Code, semester.Start, semester.End)
			week, ok := semester.WeekOf(d)
			if !ok {
				fmt.Fprintf(w, "%s %s is outside the semester\n", timetable.WeekdayLabel(d.Weekday()), d)
				return nil
			}
			fmt.Fprintf(w, "%s %s: неделя %d, %s\n", timetable.WeekdayLabel(d.Weekday()), d, week, timetable.WeekParityOf(week).Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date to look up, YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&semcode, "semcode", 0, "Semester code, derived from the date when omitted")

	return cmd
}
