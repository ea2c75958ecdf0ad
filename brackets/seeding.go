package brackets

import (
	"sort"

	"github.com/courtside/tournament-engine/models"
)

// seedSort orders participants by seed ascending with unseeded entrants
// last, stable by creation order. The input slice is not modified.
func seedSort(participants []*models.Participant) []*models.Participant {
	sorted := make([]*models.Participant, len(participants))
	copy(sorted, participants)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].Seed, sorted[j].Seed
		switch {
		case si != nil && sj != nil:
			return *si < *sj
		case si != nil:
			return true
		default:
			return false
		}
	})
	return sorted
}

// seedOrder returns, for each slot of a full draw of the given size (a power
// of two), the seed rank placed there. The order is built by the standard
// doubling rule, so round 1 pairs rank k against rank size+1-k and byes in a
// short field land on the top seeds:
//
//	2:  [1 2]
//	4:  [1 4 2 3]
//	8:  [1 8 4 5 2 7 3 6]
func seedOrder(size int) []int {
	order := []int{1, 2}
	for len(order) < size {
		next := make([]int, 0, len(order)*2)
		for _, rank := range order {
			next = append(next, rank, 2*len(order)+1-rank)
		}
		order = next
	}
	return order
}

// seedSlots places the sorted participants into draw slots; slots whose seed
// rank exceeds the field are nil (byes).
func seedSlots(sorted []*models.Participant, size int) []*models.Participant {
	slots := make([]*models.Participant, size)
	for i, rank := range seedOrder(size) {
		if rank <= len(sorted) {
			slots[i] = sorted[rank-1]
		}
	}
	return slots
}

// fullDrawSize is the next power of two holding n participants.
func fullDrawSize(n int) int {
	size := 1
	for size < n {
		size *= 2
	}
	return size
}
