package timetable

import (
	"iter"
	"slices"

	"github.com/noah-isme/timetable-view/internal/models"
)

// IntersectFreeSlots returns every (date, pair) inside pairs at which all
// selected entities are free. An entity without data for a date counts as busy
// for that whole date. Selecting nobody yields an empty, non-nil result.
func IntersectFreeSlots(free models.FreeSlotMap, selected []string, pairs PairRange, dates DateRange) []models.CommonFreeSlot {
	entities := uniqueNames(selected)
	out := make([]models.CommonFreeSlot, 0)
	if len(entities) == 0 {
		return out
	}

	for date := range dates.All() {
		iso := date.String()
		byEntity := free[iso]
		if len(byEntity) == 0 {
			continue
		}
		tally := tallyFreePairs(byEntity, entities, pairs)
		for pair := pairs.Min; pair <= pairs.Max; pair++ {
			if !ValidPair(pair) || tally[pair] != len(entities) {
				continue
			}
			out = append(out, models.CommonFreeSlot{
				Date:        iso,
				Pair:        pair,
				PairTime:    PairTime(pair),
				EntityCount: len(entities),
				Entities:    slices.Clone(entities),
			})
		}
	}
	return out
}

// tallyFreePairs counts, per pair, how many entities report it free. A pair
// repeated in one entity's list is counted once.
func tallyFreePairs(byEntity map[string][]int, entities []string, pairs PairRange) [MaxPair + 1]int {
	var tally [MaxPair + 1]int
	for _, entity := range entities {
		var seen [MaxPair + 1]bool
		for _, p := range byEntity[entity] {
			if !pairs.Contains(p) || seen[p] {
				continue
			}
			seen[p] = true
			tally[p]++
		}
	}
	return tally
}

// FreePairsFromSchedule derives a FreeSlotMap from occupied slots: every pair
// of every given day that has no entry is free. Days not yielded get no data
// and entities absent from schedules get none either, so both stay busy in
// IntersectFreeSlots.
func FreePairsFromSchedule(schedules models.EntitySchedule, days iter.Seq[Date]) models.FreeSlotMap {
	out := make(models.FreeSlotMap)
	for date := range days {
		iso := date.String()
		for entity, days := range schedules {
			busy := days[iso]
			pairs := make([]int, 0, MaxPair)
			for p := MinPair; p <= MaxPair; p++ {
				if _, taken := busy[p]; !taken {
					pairs = append(pairs, p)
				}
			}
			if out[iso] == nil {
				out[iso] = make(map[string][]int)
			}
			out[iso][entity] = pairs
		}
	}
	return out
}
