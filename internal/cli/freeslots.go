package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-view/internal/dto"
	"github.com/noah-isme/timetable-view/internal/models"
	"github.com/noah-isme/timetable-view/internal/service"
	"github.com/noah-isme/timetable-view/internal/timetable"
)

func (a *App) freeSlotsCmd() *cobra.Command {
	var (
		input      string
		from, to   string
		entities   []string
		minPair    int
		maxPair    int
		sortBy     string
		order      string
		output     string
		exportPath string
	)

	cmd := &cobra.Command{
		Use:   "free-slots",
		Short: "List pairs at which every selected entity is free",
		Long: `Reads availability as JSON ({"2024-03-04": {"Group-A": [1, 2]}}) and
prints every date and pair inside the window that all selected entities have
free. Sundays are never listed; an entity missing from a date counts as busy.`,
		Example: `  timetable free-slots --input free.json --from 2024-03-04 --to 2024-03-09 -e group:Group-A -e group:Group-B
  timetable free-slots --input free.json --from 2024-03-04 --to 2024-03-09 -e Group-A --sort pair --order desc
  timetable free-slots --input free.json --from 2024-03-04 --to 2024-03-09 -e Group-A --export slots.pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			refs, err := parseEntities(entities)
			if err != nil {
				return err
			}
			free := models.FreeSlotMap{}
			if err := readJSON(input, &free); err != nil {
				return err
			}
			if free == nil {
				free = models.FreeSlotMap{}
			}

			req := dto.FreeSlotsRequest{
				Entities:  refs,
				From:      from,
				To:        to,
				MinPair:   minPair,
				MaxPair:   maxPair,
				Sort:      sortBy,
				Order:     order,
				FreeSlots: free,
			}
			svc := a.timetableService()
			ctx := context.Background()

			if exportPath != "" {
				format := strings.TrimPrefix(filepath.Ext(exportPath), ".")
				file, err := svc.ExportFreeSlots(ctx, req, format)
				if err != nil {
					return err
				}
				if err := os.WriteFile(exportPath, file.Body, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", exportPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportPath)
				return nil
			}

			resp, err := svc.FreeSlots(ctx, req)
			if err != nil {
				return err
			}
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printFreeSlots(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Availability JSON file (required)")
	cmd.Flags().StringVar(&from, "from", "", "First date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "Last date, YYYY-MM-DD (required)")
	cmd.Flags().StringSliceVarP(&entities, "entity", "e", nil, "Entity as type:name, repeatable")
	cmd.Flags().IntVar(&minPair, "min-pair", 0, "First pair to consider (default from config)")
	cmd.Flags().IntVar(&maxPair, "max-pair", 0, "Last pair to consider (default from config)")
	cmd.Flags().StringVar(&sortBy, "sort", "date", "Sort column: date, pair or entities")
	cmd.Flags().StringVar(&order, "order", "asc", "Sort direction: asc or desc")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write a .csv, .pdf or .xlsx file instead of printing")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (a *App) timetableService() *service.TimetableService {
	return service.NewTimetableService(nil, nil, nil, a.validate, a.logger, service.TimetableConfig{
		DefaultPairs: a.defaultPairs(),
		ExportTitle:  a.config.Timetable.ExportTitle,
		FontPath:     a.config.Timetable.ExportFontPath,
	})
}

func (a *App) defaultPairs() timetable.PairRange {
	pairs, err := timetable.NewPairRange(a.config.Timetable.DefaultMinPair, a.config.Timetable.DefaultMaxPair)
	if err != nil {
		return timetable.FullDay()
	}
	return pairs
}

func printFreeSlots(w io.Writer, resp *dto.FreeSlotsResponse) {
	header := fmt.Sprintf("FREE PAIRS: %s - %s", resp.Range.From, resp.Range.To)
	fmt.Fprintf(w, "\n  %s\n", colorHeader.Sprint(header))
	if len(resp.Entities) > 0 {
		fmt.Fprintf(w, "  %s\n", colorMuted.Sprint(strings.Join(resp.Entities, ", ")))
	}
	fmt.Fprintln(w, strings.Repeat("─", 56))

	if len(resp.Slots) == 0 {
		fmt.Fprintln(w, "  No common free pairs.")
		return
	}

	fmt.Fprintf(w, "  %-10s  %-12s  %4s  %s\n", "Дата", "День", "Пара", "Время")
	for _, slot := range resp.Slots {
		weekday := ""
		if d, err := timetable.ParseDate(slot.Date); err == nil {
			weekday = timetable.WeekdayLabel(d.Weekday())
		}
		fmt.Fprintf(w, "  %-10s  %-12s  %4d  %s\n", slot.Date, weekday, slot.Pair, colorFree.Sprint(slot.PairTime))
	}
	fmt.Fprintln(w, strings.Repeat("─", 56))
	fmt.Fprintf(w, "  %d slot(s), sorted by %s %s\n", len(resp.Slots), resp.Sort.Column, resp.Sort.Direction)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
