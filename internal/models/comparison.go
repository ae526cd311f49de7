package models

import "encoding/json"

// ChangeKind is the item-level bucket a change belongs to.
type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeRemoved   ChangeKind = "removed"
	ChangeModified  ChangeKind = "modified"
	ChangeUnchanged ChangeKind = "unchanged"
)

// ComparisonResult is the precomputed diff tree returned by the comparison service.
type ComparisonResult struct {
	Groups map[string]GroupDiff `json:"groups"`
}

// UnmarshalJSON accepts both the bare tree and the {"metadata": tree} envelope.
func (r *ComparisonResult) UnmarshalJSON(data []byte) error {
	var probe struct {
		Metadata json.RawMessage      `json:"metadata"`
		Groups   map[string]GroupDiff `json:"groups"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Groups == nil && len(probe.Metadata) > 0 {
		var inner struct {
			Groups map[string]GroupDiff `json:"groups"`
		}
		if err := json.Unmarshal(probe.Metadata, &inner); err != nil {
			return err
		}
		r.Groups = inner.Groups
		return nil
	}
	r.Groups = probe.Groups
	return nil
}

// ChangeSummary counts field-level changes across a group's modified items.
type ChangeSummary struct {
	Subject int `json:"subject"`
	Teacher int `json:"teacher"`
	Room    int `json:"room"`
	Campus  int `json:"campus"`
}

// GroupDetails holds the item-level change buckets.
type GroupDetails struct {
	Added    []ChangeItem `json:"added"`
	Removed  []ChangeItem `json:"removed"`
	Modified []ChangeItem `json:"modified"`
}

// GroupDiff is the per-group portion of a comparison.
type GroupDiff struct {
	Total   int            `json:"total"`
	Summary *ChangeSummary `json:"summary"`
	Details GroupDetails   `json:"details"`
}

// LessonDates carries the human readable dates a lesson takes place on.
type LessonDates struct {
	DatesStr string `json:"dates_str,omitempty"`
}

// LessonDetails describes one side of a lesson comparison.
type LessonDetails struct {
	Subject string       `json:"subject"`
	Teacher string       `json:"teacher"`
	Room    string       `json:"room"`
	Campus  string       `json:"campus,omitempty"`
	Dates   *LessonDates `json:"dates,omitempty"`
}

// FieldChange is a single field difference of a modified lesson. Values are
// either plain strings or LessonDates objects; older producers used the
// from_value/to_value keys.
type FieldChange struct {
	Field     string          `json:"field"`
	From      json.RawMessage `json:"from,omitempty"`
	To        json.RawMessage `json:"to,omitempty"`
	FromValue json.RawMessage `json:"from_value,omitempty"`
	ToValue   json.RawMessage `json:"to_value,omitempty"`
}

// WeekComparison classifies one recurrence week of a changed lesson.
type WeekComparison struct {
	Week          int            `json:"week"`
	ChangeType    ChangeKind     `json:"change_type"`
	Before        *LessonDetails `json:"before,omitempty"`
	After         *LessonDetails `json:"after,omitempty"`
	ChangedFields []string       `json:"changed_fields,omitempty"`
}

// ChangeItem is one added, removed or modified lesson.
type ChangeItem struct {
	Day    string `json:"day"`
	Lesson string `json:"lesson"`
	// PairIndex and Week are typed copies of numbers the upstream embeds in
	// Lesson; zero means unknown.
	PairIndex       int              `json:"pair_index,omitempty"`
	Week            int              `json:"week,omitempty"`
	Details         *LessonDetails   `json:"details,omitempty"`
	Before          *LessonDetails   `json:"before,omitempty"`
	After           *LessonDetails   `json:"after,omitempty"`
	Changes         []FieldChange    `json:"changes,omitempty"`
	Dates           *LessonDates     `json:"dates,omitempty"`
	WeeksComparison []WeekComparison `json:"weeks_comparison,omitempty"`
}
