package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-view/internal/models"
)

func sampleSlots() []models.CommonFreeSlot {
	return []models.CommonFreeSlot{
		{Date: "2024-03-05", Pair: 2, Entities: []string{"B"}},
		{Date: "2024-03-04", Pair: 10, Entities: []string{"A", "C"}},
		{Date: "2024-03-04", Pair: 2, Entities: []string{"A"}},
		{Date: "2024-03-11", Pair: 1, Entities: []string{"A", "B"}},
	}
}

func pairsOf(slots []models.CommonFreeSlot) []int {
	out := make([]int, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Pair)
	}
	return out
}

func datesOf(slots []models.CommonFreeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Date)
	}
	return out
}

func TestSortStateToggle(t *testing.T) {
	state := DefaultSortState()
	assert.Equal(t, SortState{Column: SortByDate, Direction: SortAsc}, state)

	state = state.Toggle(SortByDate)
	assert.Equal(t, SortDesc, state.Direction)
	state = state.Toggle(SortByDate)
	assert.Equal(t, SortAsc, state.Direction)

	state = state.Toggle(SortByDate).Toggle(SortByPair)
	assert.Equal(t, SortState{Column: SortByPair, Direction: SortAsc}, state)
}

func TestSortSlotsPairIsNumeric(t *testing.T) {
	sorted := SortSlots(sampleSlots(), SortByPair, SortAsc)
	assert.Equal(t, []int{1, 2, 2, 10}, pairsOf(sorted))
	// ties keep their input order
	assert.Equal(t, "2024-03-05", sorted[1].Date)
	assert.Equal(t, "2024-03-04", sorted[2].Date)
}

func TestSortSlotsDateIsChronologicalAndStable(t *testing.T) {
	sorted := SortSlots(sampleSlots(), SortByDate, SortAsc)
	assert.Equal(t, []string{"2024-03-04", "2024-03-04", "2024-03-05", "2024-03-11"}, datesOf(sorted))
	assert.Equal(t, []int{10, 2}, pairsOf(sorted[:2]))

	desc := SortSlots(sampleSlots(), SortByDate, SortDesc)
	assert.Equal(t, []string{"2024-03-11", "2024-03-05", "2024-03-04", "2024-03-04"}, datesOf(desc))
	assert.Equal(t, []int{10, 2}, pairsOf(desc[2:]))
}

func TestSortSlotsEntitiesUsesJoinedNames(t *testing.T) {
	sorted := SortSlots(sampleSlots(), SortByEntities, SortAsc)
	var joined []string
	for _, s := range sorted {
		joined = append(joined, s.Entities[0]+"|"+s.Date)
	}
	assert.Equal(t, []string{"A|2024-03-04", "A|2024-03-11", "A|2024-03-04", "B|2024-03-05"}, joined)
}

func TestSortSlotsIsIdempotentAndPure(t *testing.T) {
	input := sampleSlots()
	snapshot := sampleSlots()

	for _, col := range []SortColumn{SortByDate, SortByPair, SortByEntities} {
		for _, dir := range []SortDirection{SortAsc, SortDesc} {
			once := SortSlots(input, col, dir)
			twice := SortSlots(once, col, dir)
			assert.Equal(t, once, twice, "%s %s", col, dir)
		}
	}
	assert.Equal(t, snapshot, input)
}

func TestSortSlotsDescendingReversesDistinctKeys(t *testing.T) {
	slots := []models.CommonFreeSlot{{Pair: 3}, {Pair: 1}, {Pair: 7}, {Pair: 5}}
	asc := SortSlots(slots, SortByPair, SortAsc)
	desc := SortSlots(slots, SortByPair, SortDesc)
	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i].Pair, desc[len(desc)-1-i].Pair)
	}
}

func TestParseSortInputs(t *testing.T) {
	col, err := ParseSortColumn("")
	require.NoError(t, err)
	assert.Equal(t, SortByDate, col)

	col, err = ParseSortColumn("Entities")
	require.NoError(t, err)
	assert.Equal(t, SortByEntities, col)

	_, err = ParseSortColumn("room")
	assert.Error(t, err)

	dir, err := ParseSortDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, dir)

	_, err = ParseSortDirection("up")
	assert.Error(t, err)
}
