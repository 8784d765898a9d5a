package blocksfinder

import (
	"sort"

	"github.com/devenderarora/SibeliaZ/dna"
	"github.com/devenderarora/SibeliaZ/junction"
	"github.com/devenderarora/SibeliaZ/utils"
)

// bubbleScratch is per-worker state for the bubble enumerator, reused
// across vertices.
type bubbleScratch struct {
	parallelEdge [dna.BaseTypeNum][]int
	visit        map[int64][]int
}

func newBubbleScratch() *bubbleScratch {
	return &bubbleScratch{visit: make(map[int64][]int)}
}

func (sc *bubbleScratch) reset() {
	for i := range sc.parallelEdge {
		sc.parallelEdge[i] = sc.parallelEdge[i][:0]
	}
	for k := range sc.visit {
		delete(sc.visit, k)
	}
}

// resetBulges grows or shrinks bulges to n empty per-instance lists,
// keeping the allocated backing arrays.
func resetBulges(bulges [][]int, n int) [][]int {
	for len(bulges) < n {
		bulges = append(bulges, nil)
	}
	bulges = bulges[:n]
	for i := range bulges {
		bulges[i] = bulges[i][:0]
	}
	return bulges
}

func containsInt(arr []int, x int) bool {
	for _, v := range arr {
		if v == x {
			return true
		}
	}
	return false
}

// bubbledBranches records, for every instance pair (j, k) with j < k that
// re-converges within maxBranchSize in the walk direction, k into
// bulges[j]. Two instances share a bubble when their immediate next edges
// carry the same label, or when their bounded walks meet at a common
// vertex.
func (finder *BlocksFinder) bubbledBranches(instance []junction.SequentialIterator, bulges [][]int, sc *bubbleScratch, forward bool) {
	sc.reset()
	for i, it := range instance {
		if forward {
			if it.Next().Valid() {
				c := dna.MakeUpChar(it.Char())
				sc.parallelEdge[c] = append(sc.parallelEdge[c], i)
			}
		} else {
			prev := it.Prev()
			if prev.Valid() {
				c := dna.MakeUpChar(prev.Char())
				sc.parallelEdge[c] = append(sc.parallelEdge[c], i)
			}
		}

		start := it.Position()
		step := junction.SequentialIterator.Next
		if !forward {
			step = junction.SequentialIterator.Prev
		}
		for v := step(it); v.Valid() && utils.AbsInt64(start-v.Position()) <= finder.maxBranchSize; v = step(v) {
			id := v.VertexID()
			sc.visit[id] = append(sc.visit[id], i)
		}
	}

	for c := range sc.parallelEdge {
		bucket := sc.parallelEdge[c]
		for j := 0; j < len(bucket); j++ {
			for k := j + 1; k < len(bucket); k++ {
				bulges[bucket[j]] = append(bulges[bucket[j]], bucket[k])
			}
		}
	}

	for _, branchID := range sc.visit {
		sort.Ints(branchID)
		for j := 0; j < len(branchID); j++ {
			for k := j + 1; k < len(branchID); k++ {
				small, large := branchID[j], branchID[k]
				if small != large && !containsInt(bulges[small], large) {
					bulges[small] = append(bulges[small], large)
				}
			}
		}
	}
}

func (finder *BlocksFinder) bubbledBranchesForward(instance []junction.SequentialIterator, bulges [][]int, sc *bubbleScratch) {
	finder.bubbledBranches(instance, bulges, sc, true)
}

func (finder *BlocksFinder) bubbledBranchesBackward(instance []junction.SequentialIterator, bulges [][]int, sc *bubbleScratch) {
	finder.bubbledBranches(instance, bulges, sc, false)
}
