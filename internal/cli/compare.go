package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-view/internal/dto"
	"github.com/noah-isme/timetable-view/internal/models"
	"github.com/noah-isme/timetable-view/internal/repository"
	"github.com/noah-isme/timetable-view/internal/service"
	"github.com/noah-isme/timetable-view/internal/timetable"
)

func (a *App) compareCmd() *cobra.Command {
	var (
		input       string
		left, right string
		baseURL     string
		expand      string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Print the changes between two timetable snapshots",
		Long: `Renders a comparison tree either read from --input or fetched from the
comparison service for --left and --right. Groups with the most changes come
first; --expand prints the sections of one group.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp *dto.ComparisonResponse
			switch {
			case input != "":
				var tree models.ComparisonResult
				if err := readJSON(input, &tree); err != nil {
					return err
				}
				resp = service.NewComparisonService(nil, nil, nil, a.validate, a.logger, 0).Render(tree, expand)
			case left != "" && right != "":
				if baseURL == "" {
					baseURL = a.config.Compare.BaseURL
				}
				client := repository.NewComparisonClient(baseURL, a.config.Compare.Timeout, nil)
				svc := service.NewComparisonService(client, nil, nil, a.validate, a.logger, 0)
				var err error
				resp, err = svc.Compare(context.Background(), dto.CompareRequest{Left: left, Right: right, Expand: expand})
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("either --input or both --left and --right are required")
			}

			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printComparison(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Comparison tree JSON file")
	cmd.Flags().StringVar(&left, "left", "", "Older snapshot id")
	cmd.Flags().StringVar(&right, "right", "", "Newer snapshot id")
	cmd.Flags().StringVar(&baseURL, "url", "", "Comparison service base URL (default from config)")
	cmd.Flags().StringVar(&expand, "expand", "", "Group whose changes are printed in full")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")

	return cmd
}

func printComparison(w io.Writer, resp *dto.ComparisonResponse) {
	view := resp.View
	if view.Empty() {
		fmt.Fprintln(w, "No groups to compare.")
		return
	}

	fmt.Fprintf(w, "\n  %s\n", colorHeader.Sprintf("CHANGED GROUPS: %d of %d", view.ChangedGroups, len(view.Groups)))
	fmt.Fprintln(w, strings.Repeat("─", 56))
	for _, g := range view.Groups {
		status := colorMuted.Sprint(g.Status)
		if g.HasChanges {
			status = colorWarn.Sprint(g.Status)
		}
		fmt.Fprintf(w, "  %-16s %s%s\n", g.Name, status, badgesText(g.Badges))
		if g.Name == resp.Expanded {
			printGroupSections(w, g)
		}
	}
	if view.MalformedRows > 0 {
		fmt.Fprintf(w, "\n  %s\n", colorWarn.Sprintf("%d week row(s) arrived without changed fields", view.MalformedRows))
	}
}

func badgesText(badges []timetable.Badge) string {
	if len(badges) == 0 {
		return ""
	}
	parts := make([]string, 0, len(badges))
	for _, b := range badges {
		parts = append(parts, fmt.Sprintf("[%s %d]", b.Label, b.Count))
	}
	return "  " + colorMuted.Sprint(strings.Join(parts, " "))
}

func printGroupSections(w io.Writer, g timetable.GroupView) {
	if g.NoDetails != "" {
		fmt.Fprintf(w, "      %s\n", colorMuted.Sprint(g.NoDetails))
		return
	}
	for _, section := range g.Sections {
		fmt.Fprintf(w, "    %s\n", colorHeader.Sprint(section.Title))
		for _, item := range section.Items {
			line := fmt.Sprintf("%s, %s: %s", item.Day, item.Lesson, item.Subject)
			if item.Parity != "" {
				line += " (" + item.Parity + ")"
			}
			fmt.Fprintf(w, "      %s\n", line)
			if item.Dates != "" {
				fmt.Fprintf(w, "        %s\n", colorMuted.Sprint(item.Dates))
			}
			for _, ch := range item.Changes {
				fmt.Fprintf(w, "        %s: %s → %s\n", ch.Label, ch.From, ch.To)
			}
			if len(item.Weeks) > 0 {
				fmt.Fprintf(w, "        %s\n", item.WeeksTitle)
				for _, wk := range item.Weeks {
					fmt.Fprintf(w, "          %2d  %s\n", wk.Week, toneColor(wk.Tone).Sprint(wk.Status))
				}
			}
		}
	}
}
