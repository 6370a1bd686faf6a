package chat

import (
	"fmt"
	"sort"
	"strings"

	"staybot/models"
)

// GreedyCombination picks one bookable set of rooms covering the guest
// count: rooms sorted by capacity descending, accumulated until the running
// capacity suffices. Returns nil when the full inventory cannot cover the
// group.
func GreedyCombination(rooms []models.RoomCandidate, guests int) []models.RoomCandidate {
	if guests <= 0 || len(rooms) == 0 {
		return nil
	}
	sorted := make([]models.RoomCandidate, len(rooms))
	copy(sorted, rooms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Capacity > sorted[j].Capacity
	})

	var picked []models.RoomCandidate
	total := 0
	for _, room := range sorted {
		picked = append(picked, room)
		total += room.Capacity
		if total >= guests {
			return picked
		}
	}
	return nil
}

// EnumerateCombinations lists ways to host the group, for informational
// answers rather than booking: single rooms that suffice alone; failing
// that, all sufficient two-room pairings; failing that, one "all rooms"
// combination when at least three rooms exist and their sum covers the
// group.
func EnumerateCombinations(rooms []models.RoomCandidate, guests int) []models.RoomCombination {
	if guests <= 0 || len(rooms) == 0 {
		return nil
	}

	var combos []models.RoomCombination
	for _, room := range rooms {
		if room.Capacity >= guests {
			combos = append(combos, newCombination([]models.RoomCandidate{room}))
		}
	}
	if len(combos) > 0 {
		return combos
	}

	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			if rooms[i].Capacity+rooms[j].Capacity >= guests {
				combos = append(combos, newCombination([]models.RoomCandidate{rooms[i], rooms[j]}))
			}
		}
	}
	if len(combos) > 0 {
		return combos
	}

	if len(rooms) >= 3 {
		total := 0
		for _, room := range rooms {
			total += room.Capacity
		}
		if total >= guests {
			all := newCombination(rooms)
			all.Description = fmt.Sprintf("Todas las habitaciones disponibles (capacidad total: %d personas)", total)
			combos = append(combos, all)
		}
	}
	return combos
}

func newCombination(rooms []models.RoomCandidate) models.RoomCombination {
	combo := models.RoomCombination{}
	var parts []string
	for _, room := range rooms {
		combo.RoomIDs = append(combo.RoomIDs, room.ID)
		combo.RoomNames = append(combo.RoomNames, room.Name)
		combo.TotalCapacity += room.Capacity
		parts = append(parts, fmt.Sprintf("%s (capacidad: %d personas)", room.Name, room.Capacity))
	}
	combo.Description = strings.Join(parts, " + ")
	return combo
}
