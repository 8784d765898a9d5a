// Package junction provides the read-only junction graph consumed by the
// blocks finder: chromosomes, the ordered junction occurrences on each of
// them, and iterators over all instances of a vertex.
//
// A vertex id is a signed integer; +v and -v name the two strands of the
// same junction. An occurrence stores the id of the junction as read on the
// positive strand; the iterators flip sign, position and edge labels when a
// vertex is visited through its negative strand.
package junction

import (
	"log"

	"github.com/devenderarora/SibeliaZ/utils"
)

// Record is one input chromosome.
type Record struct {
	Description string
	Seq         []byte
}

// Occurrence is one junction on a chromosome: the k-mer start position on
// the positive strand and the signed vertex id read at that position.
type Occurrence struct {
	Pos    int64
	Vertex int64
}

type instanceRef struct {
	chr int32
	idx int32
}

// Storage holds the junction graph. It is immutable after construction and
// safe for concurrent readers.
type Storage struct {
	k          int
	chr        []Record
	coordinate [][]Occurrence
	instance   [][]instanceRef // indexed by |vertex|, entry 0 unused
}

// NewStorage builds a Storage over chromosomes and their junction
// occurrence lists. Occurrences must be position sorted with nonzero signed
// ids; a malformed list is a caller bug.
func NewStorage(chr []Record, coordinate [][]Occurrence, k int) *Storage {
	if len(chr) != len(coordinate) {
		log.Fatalf("[NewStorage] chromosomes: %d != occurrence lists: %d\n", len(chr), len(coordinate))
	}
	if k < 1 {
		log.Fatalf("[NewStorage] kmer length: %d must be positive\n", k)
	}
	var maxID int64
	for c, occs := range coordinate {
		for i, occ := range occs {
			id := utils.AbsInt64(occ.Vertex)
			if id == 0 {
				log.Fatalf("[NewStorage] chr: %d idx: %d vertex id is zero\n", c, i)
			}
			if occ.Pos < 0 || occ.Pos+int64(k) > int64(len(chr[c].Seq)) {
				log.Fatalf("[NewStorage] chr: %d idx: %d position: %d out of range, sequence length: %d\n", c, i, occ.Pos, len(chr[c].Seq))
			}
			if i > 0 && occs[i-1].Pos >= occ.Pos {
				log.Fatalf("[NewStorage] chr: %d idx: %d positions not ascending: %d >= %d\n", c, i, occs[i-1].Pos, occ.Pos)
			}
			if id > maxID {
				maxID = id
			}
		}
	}

	storage := &Storage{
		k:          k,
		chr:        chr,
		coordinate: coordinate,
		instance:   make([][]instanceRef, maxID+1),
	}
	for c, occs := range coordinate {
		for i, occ := range occs {
			id := utils.AbsInt64(occ.Vertex)
			storage.instance[id] = append(storage.instance[id], instanceRef{chr: int32(c), idx: int32(i)})
		}
	}
	return storage
}

// K returns the junction k-mer length.
func (storage *Storage) K() int {
	return storage.k
}

// VerticesNumber returns V such that valid vertex ids are [-V+1, V-1]\{0}.
func (storage *Storage) VerticesNumber() int64 {
	return int64(len(storage.instance))
}

func (storage *Storage) ChrNumber() int {
	return len(storage.chr)
}

func (storage *Storage) ChrVerticesCount(chr int) int {
	return len(storage.coordinate[chr])
}

func (storage *Storage) ChrSequence(chr int) []byte {
	return storage.chr[chr].Seq
}

func (storage *Storage) ChrDescription(chr int) string {
	return storage.chr[chr].Description
}

// InstancesCount returns the number of instances of vertex v on either
// strand.
func (storage *Storage) InstancesCount(v int64) int {
	id := utils.AbsInt64(v)
	if id == 0 || id >= int64(len(storage.instance)) {
		return 0
	}
	return len(storage.instance[id])
}

// Iterate returns an iterator over all instances of the signed vertex v.
func (storage *Storage) Iterate(v int64) JunctionIterator {
	return JunctionIterator{storage: storage, vertex: v}
}
