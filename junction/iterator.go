package junction

import (
	"github.com/devenderarora/SibeliaZ/dna"
	"github.com/devenderarora/SibeliaZ/utils"
)

// SequentialIterator is one concrete instance of a vertex: a position in a
// chromosome's junction list plus a strand flag. It steps along the
// chromosome in the direction of its strand; the zero value is invalid.
type SequentialIterator struct {
	storage  *Storage
	chr      int32
	idx      int32
	positive bool
}

func (it SequentialIterator) Valid() bool {
	return it.storage != nil && it.idx >= 0 && int(it.idx) < len(it.storage.coordinate[it.chr])
}

// Next advances one junction in walk direction: right on the positive
// strand, left on the negative one.
func (it SequentialIterator) Next() SequentialIterator {
	if it.positive {
		it.idx++
	} else {
		it.idx--
	}
	return it
}

// Prev moves one junction against walk direction.
func (it SequentialIterator) Prev() SequentialIterator {
	if it.positive {
		it.idx--
	} else {
		it.idx++
	}
	return it
}

func (it SequentialIterator) ChrID() int {
	return int(it.chr)
}

func (it SequentialIterator) Index() int {
	return int(it.idx)
}

func (it SequentialIterator) IsPositiveStrand() bool {
	return it.positive
}

func (it SequentialIterator) occurrence() Occurrence {
	return it.storage.coordinate[it.chr][it.idx]
}

// Position is the coordinate of the junction in walk direction: the k-mer
// start on the positive strand and the k-mer end on the negative one.
func (it SequentialIterator) Position() int64 {
	occ := it.occurrence()
	if it.positive {
		return occ.Pos
	}
	return occ.Pos + int64(it.storage.k)
}

// VertexID is the signed id of the junction as seen from this strand.
func (it SequentialIterator) VertexID() int64 {
	occ := it.occurrence()
	if it.positive {
		return occ.Vertex
	}
	return -occ.Vertex
}

// Char is the label of the outgoing edge: the base following the k-mer on
// the positive strand, the complement of the base preceding it on the
// negative strand. 'N' past either end of the chromosome.
func (it SequentialIterator) Char() byte {
	occ := it.occurrence()
	seq := it.storage.chr[it.chr].Seq
	if it.positive {
		p := occ.Pos + int64(it.storage.k)
		if p >= int64(len(seq)) {
			return 'N'
		}
		return seq[p]
	}
	p := occ.Pos - 1
	if p < 0 {
		return 'N'
	}
	return dna.ReverseChar(seq[p])
}

// Less orders instances by chromosome, then strand (negative first), then
// index along the chromosome.
func (it SequentialIterator) Less(other SequentialIterator) bool {
	if it.chr != other.chr {
		return it.chr < other.chr
	}
	if it.positive != other.positive {
		return !it.positive && other.positive
	}
	return it.idx < other.idx
}

func (it SequentialIterator) Equal(other SequentialIterator) bool {
	return it.chr == other.chr && it.idx == other.idx && it.positive == other.positive
}

// OutgoingEdge describes the edge from this junction to the next one in
// walk direction. The second return is false at a chromosome end.
func (it SequentialIterator) OutgoingEdge() (Edge, bool) {
	next := it.Next()
	if !it.Valid() || !next.Valid() {
		return Edge{}, false
	}
	return Edge{
		Start:  it.VertexID(),
		End:    next.VertexID(),
		Ch:     it.Char(),
		Length: utils.AbsInt64(next.Position() - it.Position()),
	}, true
}

// Edge is a labeled arc between two adjacent junction instances.
type Edge struct {
	Start  int64
	End    int64
	Ch     byte
	Length int64
}

// JunctionIterator walks all instances of one signed vertex across
// chromosomes.
type JunctionIterator struct {
	storage *Storage
	vertex  int64
	at      int
}

func (it JunctionIterator) Valid() bool {
	if it.storage == nil {
		return false
	}
	id := utils.AbsInt64(it.vertex)
	if id == 0 || id >= int64(len(it.storage.instance)) {
		return false
	}
	return it.at < len(it.storage.instance[id])
}

func (it JunctionIterator) Next() JunctionIterator {
	it.at++
	return it
}

// IsPositiveStrand reports whether this instance reads the junction on the
// strand named by the iterator's vertex id.
func (it JunctionIterator) IsPositiveStrand() bool {
	ref := it.storage.instance[utils.AbsInt64(it.vertex)][it.at]
	stored := it.storage.coordinate[ref.chr][ref.idx].Vertex
	return (stored > 0) == (it.vertex > 0)
}

// SequentialIterator pins the current instance to its chromosome walk.
func (it JunctionIterator) SequentialIterator() SequentialIterator {
	ref := it.storage.instance[utils.AbsInt64(it.vertex)][it.at]
	return SequentialIterator{
		storage:  it.storage,
		chr:      ref.chr,
		idx:      ref.idx,
		positive: it.IsPositiveStrand(),
	}
}
