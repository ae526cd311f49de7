package timetable

// Expansion is the accordion state of a rendered comparison: at most one
// group is open at a time. It never alters the view it is applied to.
type Expansion struct {
	open string
}

// Toggle opens group, collapsing any other, or closes it if it is already
// open. Groups that are missing or have nothing to expand leave the state as is.
func (e Expansion) Toggle(view ComparisonView, group string) Expansion {
	g, ok := view.Group(group)
	if !ok || !g.Expandable {
		return e
	}
	if e.open == group {
		return Expansion{}
	}
	return Expansion{open: group}
}

// IsExpanded reports whether group is open.
func (e Expansion) IsExpanded(group string) bool {
	return e.open != "" && e.open == group
}

// Open returns the open group name, "" when all are collapsed.
func (e Expansion) Open() string { return e.open }
