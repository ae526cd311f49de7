package timetable

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/noah-isme/timetable-view/internal/models"
)

var (
	pairLabelPattern = regexp.MustCompile(`(?i)(?:пара|pair)\s*(\d+)`)
	weekLabelPattern = regexp.MustCompile(`(?i)\s*\((?:неделя|week)\s*(\d+)\)`)
)

// ParsePairIndex extracts the pair number embedded in a lesson label such as
// "Пара 3 (неделя 5)". It returns 0 when none is found.
func ParsePairIndex(label string) int {
	return firstNumber(pairLabelPattern, label)
}

// ParseWeek extracts the "(неделя N)" suffix of a lesson label, 0 when absent.
func ParseWeek(label string) int {
	return firstNumber(weekLabelPattern, label)
}

// DisplayLesson removes the week suffix from a lesson label.
func DisplayLesson(label string) string {
	return strings.TrimSpace(weekLabelPattern.ReplaceAllString(label, ""))
}

func firstNumber(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// IngestComparison returns a copy of result with each item's PairIndex and
// Week filled from its label when the producer left them unset. The parse is
// best effort; failures leave zero. The input is not modified.
func IngestComparison(result models.ComparisonResult) models.ComparisonResult {
	out := models.ComparisonResult{Groups: make(map[string]models.GroupDiff, len(result.Groups))}
	for name, group := range result.Groups {
		if group.Summary != nil {
			summary := *group.Summary
			group.Summary = &summary
		}
		group.Details = models.GroupDetails{
			Added:    ingestItems(group.Details.Added),
			Removed:  ingestItems(group.Details.Removed),
			Modified: ingestItems(group.Details.Modified),
		}
		out.Groups[name] = group
	}
	return out
}

func ingestItems(items []models.ChangeItem) []models.ChangeItem {
	if items == nil {
		return nil
	}
	out := slices.Clone(items)
	for i := range out {
		if out[i].PairIndex <= 0 {
			out[i].PairIndex = ParsePairIndex(out[i].Lesson)
		}
		if out[i].Week <= 0 {
			out[i].Week = ParseWeek(out[i].Lesson)
		}
	}
	return out
}
