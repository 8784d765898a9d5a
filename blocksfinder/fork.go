package blocksfinder

import (
	"fmt"

	"github.com/devenderarora/SibeliaZ/junction"
	"github.com/devenderarora/SibeliaZ/utils"
)

// Fork is an unordered pair of instances meeting at one vertex, stored
// canonically with branch[0] ≤ branch[1].
type Fork struct {
	branch [2]junction.SequentialIterator
}

func NewFork(it, jt junction.SequentialIterator) Fork {
	var f Fork
	if it.Less(jt) {
		f.branch[0], f.branch[1] = it, jt
	} else {
		f.branch[0], f.branch[1] = jt, it
	}
	return f
}

func (f Fork) Branch(l int) junction.SequentialIterator {
	return f.branch[l]
}

func (f Fork) Equal(g Fork) bool {
	return f.branch[0].Equal(g.branch[0]) && f.branch[1].Equal(g.branch[1])
}

func (f Fork) String() string {
	s := ""
	for l := 0; l < 2; l++ {
		s += fmt.Sprintf("%d %d ", f.branch[l].ChrID(), f.branch[l].Position())
	}
	return s
}

// Less is the canonical fork order: strand of each branch, then chromosome
// of each branch, then position. Positions compare ascending on a positive
// strand branch and descending on a negative one, so that the closest sink
// downstream of a source is the first sink not less than it regardless of
// walk direction.
func (f Fork) Less(g Fork) bool {
	for l := 0; l < 2; l++ {
		fp, gp := f.branch[l].IsPositiveStrand(), g.branch[l].IsPositiveStrand()
		if fp != gp {
			return !fp && gp
		}
	}
	for l := 0; l < 2; l++ {
		if f.branch[l].ChrID() != g.branch[l].ChrID() {
			return f.branch[l].ChrID() < g.branch[l].ChrID()
		}
	}
	for l := 0; l < 2; l++ {
		if f.branch[l].Position() != g.branch[l].Position() {
			if f.branch[l].IsPositiveStrand() {
				return f.branch[l].Position() < g.branch[l].Position()
			}
			return f.branch[l].Position() > g.branch[l].Position()
		}
	}
	return false
}

// chainLength is the shorter of the two branch spans between a source and
// a sink.
func chainLength(u, v Fork) int64 {
	return utils.MinInt64(
		utils.AbsInt64(u.branch[0].Position()-v.branch[0].Position()),
		utils.AbsInt64(u.branch[1].Position()-v.branch[1].Position()))
}
