package timetable

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-view/internal/models"
)

func TestRenderComparisonOrdersGroups(t *testing.T) {
	result := models.ComparisonResult{Groups: map[string]models.GroupDiff{
		"ИВТ-21": {Total: 2},
		"ИВТ-11": {Total: 2},
		"ПМ-31":  {Total: 5},
		"АБ-01":  {Total: 0},
	}}

	view := RenderComparison(result)
	var names []string
	for _, g := range view.Groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"ПМ-31", "ИВТ-11", "ИВТ-21", "АБ-01"}, names)
}

func TestCompareGroupsIsTotalOrder(t *testing.T) {
	ranks := []GroupRank{{"a", 1}, {"b", 1}, {"c", 3}, {"a", 0}, {"z", 3}}
	for _, x := range ranks {
		for _, y := range ranks {
			xy, yx := CompareGroups(x, y), CompareGroups(y, x)
			assert.Equal(t, -sign(xy), sign(yx), "%v %v", x, y)
			if x.Total > y.Total {
				assert.Negative(t, xy)
			}
			if xy == 0 {
				assert.Equal(t, x, y)
			}
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestSummaryBadgesFallBackToItemCounts(t *testing.T) {
	g := models.GroupDiff{
		Total:   3,
		Summary: &models.ChangeSummary{},
		Details: models.GroupDetails{
			Added:    []models.ChangeItem{{Day: "Понедельник"}, {Day: "Вторник"}},
			Modified: []models.ChangeItem{{Day: "Среда"}},
		},
	}

	source, badges := SummaryBadges(g)
	assert.Equal(t, BadgesFromItems, source)
	assert.Equal(t, []Badge{
		{Key: "added", Label: "добавлено", Count: 2},
		{Key: "modified", Label: "изменено", Count: 1},
	}, badges)
}

func TestSummaryBadgesPreferFieldSummary(t *testing.T) {
	g := models.GroupDiff{
		Total:   1,
		Summary: &models.ChangeSummary{Teacher: 1, Room: 2},
		Details: models.GroupDetails{Modified: []models.ChangeItem{{}}},
	}
	source, badges := SummaryBadges(g)
	assert.Equal(t, BadgesFromFields, source)
	assert.Equal(t, []Badge{
		{Key: "teacher", Label: "преподаватели", Count: 1},
		{Key: "room", Label: "аудитории", Count: 2},
	}, badges)
}

func TestSummaryBadgesNone(t *testing.T) {
	source, badges := SummaryBadges(models.GroupDiff{Summary: &models.ChangeSummary{}})
	assert.Equal(t, BadgesNone, source)
	assert.Empty(t, badges)

	// changed total but nothing to count on either tier
	source, _ = SummaryBadges(models.GroupDiff{Total: 2})
	assert.Equal(t, BadgesNone, source)
}

func TestRenderComparisonAllZeroIsCollapsed(t *testing.T) {
	result := models.ComparisonResult{Groups: map[string]models.GroupDiff{
		"A": {Total: 0, Summary: &models.ChangeSummary{}},
		"B": {Total: 0},
	}}
	view := RenderComparison(result)

	require.Len(t, view.Groups, 2)
	assert.Zero(t, view.ChangedGroups)
	for _, g := range view.Groups {
		assert.False(t, g.HasChanges)
		assert.False(t, g.Expandable)
		assert.Empty(t, g.Sections)
		assert.Equal(t, "Нет изменений", g.Status)
		assert.Equal(t, "Нет подробностей", g.NoDetails)
	}

	exp := Expansion{}.Toggle(view, "A")
	assert.False(t, exp.IsExpanded("A"))
}

func TestRenderComparisonOrdersItemsByDayThenPair(t *testing.T) {
	result := IngestComparison(models.ComparisonResult{Groups: map[string]models.GroupDiff{
		"G": {
			Total: 4,
			Details: models.GroupDetails{
				Added: []models.ChangeItem{
					{Day: "Среда", Lesson: "Пара 3 (неделя 2)", Details: &models.LessonDetails{Subject: "Физика"}},
					{Day: "Вторник", Lesson: "Пара 12"},
					{Day: "Вторник", Lesson: "Пара 2 (неделя 1)"},
					{Day: "Вторник", Lesson: "без номера"},
				},
			},
		},
	}})

	view := RenderComparison(result)
	group, ok := view.Group("G")
	require.True(t, ok)
	assert.Equal(t, "4 изменений", group.Status)
	require.Len(t, group.Sections, 1)
	section := group.Sections[0]
	assert.Equal(t, models.ChangeAdded, section.Kind)
	assert.Equal(t, "Добавленные пары", section.Title)

	var order []string
	for _, item := range section.Items {
		order = append(order, item.Day+" "+item.Lesson)
	}
	assert.Equal(t, []string{"Вторник без номера", "Вторник Пара 2", "Вторник Пара 12", "Среда Пара 3"}, order)

	wednesday := section.Items[3]
	assert.Equal(t, 3, wednesday.PairIndex)
	assert.Equal(t, 2, wednesday.Week)
	assert.Equal(t, "чётная неделя", wednesday.Parity)
	assert.Equal(t, "Физика", wednesday.Subject)
	assert.Equal(t, Placeholder, section.Items[0].Subject)
	assert.Empty(t, section.Items[0].Parity)
}

func TestClassifyWeekInModifiedSection(t *testing.T) {
	before := &models.LessonDetails{Subject: "Алгебра", Room: "101"}
	after := &models.LessonDetails{Subject: "Алгебра", Room: "202"}

	added := ClassifyWeek(models.ChangeModified, models.WeekComparison{Week: 1, ChangeType: models.ChangeAdded, After: after})
	assert.True(t, added.Changed)
	assert.Equal(t, ToneSuccess, added.Tone)
	assert.Equal(t, "Добавлено", added.Status)
	assert.Equal(t, "нечётная неделя", added.Parity)

	removed := ClassifyWeek(models.ChangeModified, models.WeekComparison{Week: 2, ChangeType: models.ChangeRemoved, Before: before})
	assert.Equal(t, ToneDanger, removed.Tone)
	assert.Equal(t, "Удалено", removed.Status)

	modified := ClassifyWeek(models.ChangeModified, models.WeekComparison{
		Week: 3, ChangeType: models.ChangeModified, Before: before, After: after,
		ChangedFields: []string{"room", "lesson_type", "building"},
	})
	assert.Equal(t, ToneWarning, modified.Tone)
	assert.Equal(t, []string{"Аудитория", "Тип занятия", "building"}, modified.ChangedFields)
	assert.Equal(t, "Изменено: Аудитория, Тип занятия, building", modified.Status)
	assert.False(t, modified.Malformed)

	unchanged := ClassifyWeek(models.ChangeModified, models.WeekComparison{Week: 4, ChangeType: models.ChangeUnchanged, Before: before, After: before})
	assert.False(t, unchanged.Changed)
	assert.Equal(t, ToneNeutral, unchanged.Tone)
	assert.Equal(t, "Без изменений", unchanged.Status)
	assert.Equal(t, unchanged.Before, unchanged.After)
}

func TestClassifyWeekModifiedWithoutFieldsDegrades(t *testing.T) {
	v := ClassifyWeek(models.ChangeModified, models.WeekComparison{Week: 5, ChangeType: models.ChangeModified})
	assert.True(t, v.Malformed)
	assert.Equal(t, ToneWarning, v.Tone)
	assert.Equal(t, "Изменено: "+Placeholder, v.Status)
}

func TestClassifyWeekInAddedAndRemovedSections(t *testing.T) {
	details := &models.LessonDetails{Subject: "История"}

	hit := ClassifyWeek(models.ChangeAdded, models.WeekComparison{Week: 1, ChangeType: models.ChangeAdded, After: details})
	assert.True(t, hit.Changed)
	assert.Equal(t, ToneSuccess, hit.Tone)
	assert.Equal(t, "Добавлено", hit.Status)

	other := ClassifyWeek(models.ChangeAdded, models.WeekComparison{Week: 2, ChangeType: models.ChangeRemoved, Before: details})
	assert.False(t, other.Changed)
	assert.Equal(t, "Без изменений", other.Status)
	assert.Nil(t, other.Before)

	gone := ClassifyWeek(models.ChangeRemoved, models.WeekComparison{Week: 3, ChangeType: models.ChangeRemoved, Before: details})
	assert.Equal(t, ToneDanger, gone.Tone)
	assert.Equal(t, "Удалено", gone.Status)
	assert.Nil(t, gone.After)
}

func TestRenderModifiedItemChangeTable(t *testing.T) {
	result := IngestComparison(models.ComparisonResult{Groups: map[string]models.GroupDiff{
		"G": {
			Total:   2,
			Summary: &models.ChangeSummary{Room: 1},
			Details: models.GroupDetails{Modified: []models.ChangeItem{
				{
					Day:    "Понедельник",
					Lesson: "Пара 1 (неделя 3)",
					Before: &models.LessonDetails{Subject: "Химия", Dates: &models.LessonDates{DatesStr: "04.03, 18.03"}},
					Changes: []models.FieldChange{
						{Field: "room", From: json.RawMessage(`"101"`), To: json.RawMessage(`"202"`)},
						{Field: "dates", FromValue: json.RawMessage(`{"dates_str":"04.03"}`), ToValue: json.RawMessage(`{"dates_str":"11.03"}`)},
						{Field: "campus", To: json.RawMessage(`"Б"`)},
					},
				},
				{
					Day:    "Понедельник",
					Lesson: "Пара 2 (неделя 3)",
					Before: &models.LessonDetails{Subject: "Химия"},
					WeeksComparison: []models.WeekComparison{
						{Week: 3, ChangeType: models.ChangeModified, ChangedFields: []string{"teacher"}},
						{Week: 5},
					},
				},
			}},
		},
	}})

	view := RenderComparison(result)
	g := view.Groups[0]
	assert.Equal(t, BadgesFromFields, g.BadgeSource)
	require.Len(t, g.Sections, 1)
	items := g.Sections[0].Items
	require.Len(t, items, 2)

	table := items[0]
	assert.Equal(t, "Пара 1", table.Lesson)
	assert.Equal(t, "Химия", table.Subject)
	assert.Equal(t, "04.03, 18.03", table.Dates)
	assert.Equal(t, []FieldChangeView{
		{Field: "room", Label: "Аудитория", From: "101", To: "202"},
		{Field: "dates", Label: "Даты проведения", From: "04.03", To: "11.03"},
		{Field: "campus", Label: "Кампус", From: Placeholder, To: "Б"},
	}, table.Changes)
	assert.Empty(t, table.Weeks)

	weekly := items[1]
	assert.Empty(t, weekly.Changes)
	assert.Equal(t, "Изменения по нечётным неделям:", weekly.WeeksTitle)
	require.Len(t, weekly.Weeks, 2)
	assert.Equal(t, "Изменено: Преподаватель", weekly.Weeks[0].Status)
	assert.Equal(t, "Без изменений", weekly.Weeks[1].Status)
}

func TestRenderComparisonCountsMalformedRows(t *testing.T) {
	view := RenderComparison(models.ComparisonResult{Groups: map[string]models.GroupDiff{
		"G": {Total: 1, Details: models.GroupDetails{Modified: []models.ChangeItem{{
			Day: "Пятница", WeeksComparison: []models.WeekComparison{{Week: 1, ChangeType: models.ChangeModified}},
		}}}},
	}})
	assert.Equal(t, 1, view.MalformedRows)
	assert.Equal(t, "Изменения по неделям:", view.Groups[0].Sections[0].Items[0].WeeksTitle)
}

func TestIngestComparisonDoesNotMutateInput(t *testing.T) {
	input := models.ComparisonResult{Groups: map[string]models.GroupDiff{
		"G": {Total: 1, Details: models.GroupDetails{Removed: []models.ChangeItem{{Lesson: "Пара 4 (неделя 7)"}}}},
	}}
	out := IngestComparison(input)

	assert.Zero(t, input.Groups["G"].Details.Removed[0].PairIndex)
	assert.Equal(t, 4, out.Groups["G"].Details.Removed[0].PairIndex)
	assert.Equal(t, 7, out.Groups["G"].Details.Removed[0].Week)
}

func TestIngestKeepsProducerTypedFields(t *testing.T) {
	out := IngestComparison(models.ComparisonResult{Groups: map[string]models.GroupDiff{
		"G": {Details: models.GroupDetails{Added: []models.ChangeItem{{Lesson: "Пара 4", PairIndex: 6}}}},
	}})
	assert.Equal(t, 6, out.Groups["G"].Details.Added[0].PairIndex)
}

func TestLabelParsing(t *testing.T) {
	assert.Equal(t, 3, ParsePairIndex("Пара 3 (неделя 5)"))
	assert.Equal(t, 2, ParsePairIndex("pair 2"))
	assert.Zero(t, ParsePairIndex("Лекция"))
	assert.Equal(t, 5, ParseWeek("Пара 3 (неделя 5)"))
	assert.Zero(t, ParseWeek("Пара 3"))
	assert.Equal(t, "Пара 3", DisplayLesson("Пара 3 (неделя 5)"))
}

func TestExpansionAccordion(t *testing.T) {
	view := RenderComparison(models.ComparisonResult{Groups: map[string]models.GroupDiff{
		"A": {Total: 1, Details: models.GroupDetails{Added: []models.ChangeItem{{Day: "Понедельник"}}}},
		"B": {Total: 1, Details: models.GroupDetails{Removed: []models.ChangeItem{{Day: "Вторник"}}}},
		"C": {Total: 0},
	}})

	var e Expansion
	e = e.Toggle(view, "A")
	assert.True(t, e.IsExpanded("A"))

	e = e.Toggle(view, "B")
	assert.True(t, e.IsExpanded("B"))
	assert.False(t, e.IsExpanded("A"))

	e = e.Toggle(view, "C")
	assert.Equal(t, "B", e.Open())

	e = e.Toggle(view, "B")
	assert.Empty(t, e.Open())
	assert.False(t, e.IsExpanded(""))
}

func TestComparisonResultAcceptsMetadataEnvelope(t *testing.T) {
	var wrapped, bare models.ComparisonResult
	require.NoError(t, json.Unmarshal([]byte(`{"metadata":{"groups":{"G":{"total":1}}}}`), &wrapped))
	require.NoError(t, json.Unmarshal([]byte(`{"groups":{"G":{"total":1}}}`), &bare))
	assert.Equal(t, bare, wrapped)
	assert.Equal(t, 1, wrapped.Groups["G"].Total)
}

func TestClassifyWeekShowsOneSideOutsideModified(t *testing.T) {
	before := &models.LessonDetails{Subject: "История"}
	after := &models.LessonDetails{Subject: "Философия"}
	both := models.WeekComparison{Week: 6, ChangeType: models.ChangeUnchanged, Before: before, After: after}

	added := ClassifyWeek(models.ChangeAdded, both)
	assert.Nil(t, added.Before)
	assert.Equal(t, after, added.After)
	assert.Equal(t, ToneNeutral, added.Tone)

	removed := ClassifyWeek(models.ChangeRemoved, both)
	assert.Equal(t, before, removed.Before)
	assert.Nil(t, removed.After)
	assert.False(t, removed.Changed)

	both.ChangeType = models.ChangeModified
	removed = ClassifyWeek(models.ChangeRemoved, both)
	assert.Nil(t, removed.After)
	assert.Equal(t, "Без изменений", removed.Status)
}

func TestGroupWithoutBadgesSerializesEmptyList(t *testing.T) {
	view := RenderComparison(models.ComparisonResult{Groups: map[string]models.GroupDiff{
		"A": {Total: 0},
	}})
	require.Len(t, view.Groups, 1)
	assert.Equal(t, BadgesNone, view.Groups[0].BadgeSource)

	raw, err := json.Marshal(view.Groups[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"badges":[]`)
	assert.NotContains(t, string(raw), `"badges":null`)
}
