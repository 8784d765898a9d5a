package junction

import (
	"bytes"
	"log"

	"github.com/cespare/xxhash"

	"github.com/devenderarora/SibeliaZ/dna"
)

// BuildStorage samples junctions from the input chromosomes by canonical
// k-mer content: a k-mer is a junction when the xxhash of its canonical form
// falls in the sampling window. Content-based selection keeps the junction
// set consistent across strands and chromosomes, so a region and its
// reverse complement sample the same vertices at mirrored positions.
//
// k must be odd so that no k-mer equals its own reverse complement. window
// of 1 keeps every definite k-mer.
func BuildStorage(records []Record, k, window int) *Storage {
	if k < 1 || k%2 == 0 {
		log.Fatalf("[BuildStorage] kmer length: %d must be positive and odd\n", k)
	}
	if window < 1 {
		log.Fatalf("[BuildStorage] sampling window: %d must be positive\n", window)
	}

	ids := make(map[uint64]int64)
	coordinate := make([][]Occurrence, len(records))
	for c, rec := range records {
		for pos := 0; pos+k <= len(rec.Seq); pos++ {
			kmer := rec.Seq[pos : pos+k]
			if !definite(kmer) {
				continue
			}
			canonical, forward := canonicalKmer(kmer)
			h := xxhash.Sum64(canonical)
			if h%uint64(window) != 0 {
				continue
			}
			id, ok := ids[h]
			if !ok {
				id = int64(len(ids)) + 1
				ids[h] = id
			}
			if !forward {
				id = -id
			}
			coordinate[c] = append(coordinate[c], Occurrence{Pos: int64(pos), Vertex: id})
		}
	}
	return NewStorage(records, coordinate, k)
}

func definite(kmer []byte) bool {
	for _, b := range kmer {
		if !dna.IsDefinite(b) {
			return false
		}
	}
	return true
}

// canonicalKmer returns the smaller of kmer and its reverse complement and
// whether the forward form won. With odd k the two never tie.
func canonicalKmer(kmer []byte) ([]byte, bool) {
	rc := dna.ReverseComplement(kmer)
	if bytes.Compare(kmer, rc) <= 0 {
		return kmer, true
	}
	return rc, false
}
