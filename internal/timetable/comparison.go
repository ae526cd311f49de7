package timetable

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/noah-isme/timetable-view/internal/models"
)

// Tone is the presentation class of a week classification.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
	ToneWarning Tone = "warning"
	ToneNeutral Tone = "neutral"
)

// BadgeSource tells which counter produced a group's badges.
type BadgeSource string

const (
	// BadgesFromFields uses the field-level summary.
	BadgesFromFields BadgeSource = "fields"
	// BadgesFromItems counts added/removed/modified items because the summary was all zero.
	BadgesFromItems BadgeSource = "items"
	BadgesNone      BadgeSource = "none"
)

// Badge is one summary counter of a group.
type Badge struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// WeekView is the classification of one recurrence week.
type WeekView struct {
	Week          int                   `json:"week"`
	Parity        string                `json:"parity"`
	ChangeType    models.ChangeKind     `json:"changeType"`
	Changed       bool                  `json:"changed"`
	Tone          Tone                  `json:"tone"`
	Status        string                `json:"status"`
	ChangedFields []string              `json:"changedFields,omitempty"`
	Before        *models.LessonDetails `json:"before,omitempty"`
	After         *models.LessonDetails `json:"after,omitempty"`
	// Malformed marks a modified week that arrived without changed fields.
	Malformed bool `json:"malformed,omitempty"`
}

// FieldChangeView is one translated row of a modified item's change table.
type FieldChangeView struct {
	Field string `json:"field"`
	Label string `json:"label"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// ItemView is a display-ready change item.
type ItemView struct {
	Day        string                `json:"day"`
	Lesson     string                `json:"lesson"`
	PairIndex  int                   `json:"pairIndex"`
	Week       int                   `json:"week,omitempty"`
	Parity     string                `json:"parity,omitempty"`
	Subject    string                `json:"subject"`
	Dates      string                `json:"dates,omitempty"`
	Details    *models.LessonDetails `json:"details,omitempty"`
	Before     *models.LessonDetails `json:"before,omitempty"`
	After      *models.LessonDetails `json:"after,omitempty"`
	Changes    []FieldChangeView     `json:"changes,omitempty"`
	WeeksTitle string                `json:"weeksTitle,omitempty"`
	Weeks      []WeekView            `json:"weeks,omitempty"`
}

// SectionView is one non-empty change bucket of a group.
type SectionView struct {
	Kind  models.ChangeKind `json:"kind"`
	Title string            `json:"title"`
	Items []ItemView        `json:"items"`
}

// GroupView is a rendered group.
type GroupView struct {
	Name        string        `json:"name"`
	Total       int           `json:"total"`
	HasChanges  bool          `json:"hasChanges"`
	Status      string        `json:"status"`
	BadgeSource BadgeSource   `json:"badgeSource"`
	Badges      []Badge       `json:"badges"`
	NoDetails   string        `json:"noDetails,omitempty"`
	Expandable  bool          `json:"expandable"`
	Sections    []SectionView `json:"sections,omitempty"`
}

// ComparisonView is the ordered, display-ready comparison.
type ComparisonView struct {
	Groups        []GroupView `json:"groups"`
	ChangedGroups int         `json:"changedGroups"`
	MalformedRows int         `json:"malformedRows"`
}

// Empty reports whether there are no groups at all.
func (v ComparisonView) Empty() bool { return len(v.Groups) == 0 }

// Group looks a group up by name.
func (v ComparisonView) Group(name string) (GroupView, bool) {
	for _, g := range v.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupView{}, false
}

// GroupRank is the ordering key of a group.
type GroupRank struct {
	Name  string
	Total int
}

// CompareGroups orders by total descending, then name ascending.
func CompareGroups(a, b GroupRank) int {
	if a.Total != b.Total {
		if a.Total > b.Total {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Name, b.Name)
}

// CompareItems orders change items by day label, then pair index.
func CompareItems(a, b models.ChangeItem) int {
	if c := strings.Compare(a.Day, b.Day); c != 0 {
		return c
	}
	return a.PairIndex - b.PairIndex
}

// RenderComparison orders groups and items and derives badges and week
// classifications. Items are expected to have passed IngestComparison; a
// missing PairIndex sorts as 0.
func RenderComparison(result models.ComparisonResult) ComparisonView {
	ranks := make([]GroupRank, 0, len(result.Groups))
	for name, g := range result.Groups {
		ranks = append(ranks, GroupRank{Name: name, Total: g.Total})
	}
	slices.SortFunc(ranks, CompareGroups)

	view := ComparisonView{Groups: make([]GroupView, 0, len(ranks))}
	for _, rank := range ranks {
		gv := renderGroup(rank.Name, result.Groups[rank.Name])
		if gv.HasChanges {
			view.ChangedGroups++
		}
		for _, s := range gv.Sections {
			for _, item := range s.Items {
				for _, w := range item.Weeks {
					if w.Malformed {
						view.MalformedRows++
					}
				}
			}
		}
		view.Groups = append(view.Groups, gv)
	}
	return view
}

func renderGroup(name string, g models.GroupDiff) GroupView {
	gv := GroupView{
		Name:       name,
		Total:      g.Total,
		HasChanges: g.Total > 0,
		Status:     groupStatus(g.Total),
	}
	gv.BadgeSource, gv.Badges = SummaryBadges(g)
	if gv.BadgeSource == BadgesNone {
		gv.NoDetails = noDetailsLabel
		gv.Badges = []Badge{}
	}
	if !gv.HasChanges {
		return gv
	}

	for _, kind := range []models.ChangeKind{models.ChangeAdded, models.ChangeRemoved, models.ChangeModified} {
		items := bucket(g.Details, kind)
		if len(items) == 0 {
			continue
		}
		sorted := slices.Clone(items)
		slices.SortStableFunc(sorted, CompareItems)
		section := SectionView{Kind: kind, Title: sectionTitles[kind], Items: make([]ItemView, 0, len(sorted))}
		for _, item := range sorted {
			section.Items = append(section.Items, renderItem(kind, item))
		}
		gv.Sections = append(gv.Sections, section)
	}
	gv.Expandable = len(gv.Sections) > 0
	return gv
}

// SummaryBadges derives a group's badges. Positive field-level summary counts
// win; an all-zero or missing summary on a changed group falls back to item
// counts; otherwise there are no badges.
func SummaryBadges(g models.GroupDiff) (BadgeSource, []Badge) {
	var summary models.ChangeSummary
	if g.Summary != nil {
		summary = *g.Summary
	}

	var badges []Badge
	for _, f := range summaryFields {
		if n := f.count(summary); n > 0 {
			badges = append(badges, Badge{Key: f.key, Label: f.label, Count: n})
		}
	}
	if len(badges) > 0 {
		return BadgesFromFields, badges
	}

	if g.Total > 0 {
		for _, kind := range []models.ChangeKind{models.ChangeAdded, models.ChangeRemoved, models.ChangeModified} {
			if n := len(bucket(g.Details, kind)); n > 0 {
				badges = append(badges, Badge{Key: string(kind), Label: itemLabels[kind], Count: n})
			}
		}
		if len(badges) > 0 {
			return BadgesFromItems, badges
		}
	}
	return BadgesNone, nil
}

func bucket(d models.GroupDetails, kind models.ChangeKind) []models.ChangeItem {
	switch kind {
	case models.ChangeAdded:
		return d.Added
	case models.ChangeRemoved:
		return d.Removed
	case models.ChangeModified:
		return d.Modified
	}
	return nil
}

func renderItem(section models.ChangeKind, item models.ChangeItem) ItemView {
	v := ItemView{
		Day:       item.Day,
		Lesson:    DisplayLesson(item.Lesson),
		PairIndex: item.PairIndex,
		Week:      item.Week,
		Details:   item.Details,
		Before:    item.Before,
		After:     item.After,
	}
	if item.Week > 0 {
		v.Parity = WeekParityOf(item.Week).Label()
	}

	primary := item.Details
	if section == models.ChangeModified {
		primary = item.Before
		if primary == nil {
			primary = item.After
		}
	}
	v.Subject = Placeholder
	if primary != nil && primary.Subject != "" {
		v.Subject = primary.Subject
	}
	v.Dates = datesText(item.Dates, primary)

	if len(item.WeeksComparison) > 0 {
		v.WeeksTitle = weeksTitle(section, item.Week)
		v.Weeks = make([]WeekView, 0, len(item.WeeksComparison))
		for _, w := range item.WeeksComparison {
			v.Weeks = append(v.Weeks, ClassifyWeek(section, w))
		}
		return v
	}
	if section == models.ChangeModified {
		for _, c := range item.Changes {
			v.Changes = append(v.Changes, FieldChangeView{
				Field: c.Field,
				Label: FieldLabel(c.Field),
				From:  valueText(c.From, c.FromValue),
				To:    valueText(c.To, c.ToValue),
			})
		}
	}
	return v
}

// ClassifyWeek turns one weeks_comparison entry into its display state. In the
// added and removed sections only the section's own change type counts as a
// change; every other week is shown as unchanged. Those sections show a single
// side for every week: after for added, before for removed.
func ClassifyWeek(section models.ChangeKind, w models.WeekComparison) WeekView {
	v := WeekView{
		Week:       w.Week,
		Parity:     WeekParityOf(w.Week).Label(),
		ChangeType: w.ChangeType,
		Tone:       ToneNeutral,
		Status:     weekStatusText[models.ChangeUnchanged],
		Before:     w.Before,
		After:      w.After,
	}

	if section != models.ChangeModified {
		tone := ToneDanger
		if section == models.ChangeAdded {
			tone, v.Before = ToneSuccess, nil
		} else {
			v.After = nil
		}
		if w.ChangeType == section {
			v.Changed, v.Tone, v.Status = true, tone, weekStatusText[section]
		}
		return v
	}

	switch w.ChangeType {
	case models.ChangeAdded:
		v.Changed, v.Tone, v.Status, v.Before = true, ToneSuccess, weekStatusText[models.ChangeAdded], nil
	case models.ChangeRemoved:
		v.Changed, v.Tone, v.Status, v.After = true, ToneDanger, weekStatusText[models.ChangeRemoved], nil
	case models.ChangeModified:
		v.Changed, v.Tone = true, ToneWarning
		if len(w.ChangedFields) == 0 {
			v.Malformed = true
			v.Status = weekStatusText[models.ChangeModified] + ": " + Placeholder
			break
		}
		labels := make([]string, 0, len(w.ChangedFields))
		for _, f := range w.ChangedFields {
			labels = append(labels, FieldLabel(f))
		}
		v.ChangedFields = labels
		v.Status = weekStatusText[models.ChangeModified] + ": " + strings.Join(labels, ", ")
	}
	return v
}

func datesText(dates *models.LessonDates, primary *models.LessonDetails) string {
	if dates != nil && dates.DatesStr != "" {
		return dates.DatesStr
	}
	if primary != nil && primary.Dates != nil {
		return primary.Dates.DatesStr
	}
	return ""
}

// valueText renders a change value that is either a string or a dates object.
func valueText(primary, legacy json.RawMessage) string {
	raw := primary
	if len(raw) == 0 || string(raw) == "null" {
		raw = legacy
	}
	if len(raw) == 0 || string(raw) == "null" {
		return Placeholder
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return Placeholder
		}
		return s
	}
	var d models.LessonDates
	if err := json.Unmarshal(raw, &d); err == nil && d.DatesStr != "" {
		return d.DatesStr
	}
	return string(raw)
}
