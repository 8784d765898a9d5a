package blocksfinder

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devenderarora/SibeliaZ/dna"
	"github.com/devenderarora/SibeliaZ/junction"
)

func randomSeq(n int, seed uint64) []byte {
	bases := []byte("ACGT")
	seq := make([]byte, n)
	x := seed
	for i := range seq {
		x = x*6364136223846793005 + 1442695040888963407
		seq[i] = bases[(x>>33)&3]
	}
	return seq
}

// identicalChromosomes builds copies of one random sequence with junctions
// every spacing bases, the same vertex at the same position on every copy.
func identicalChromosomes(copies, length, k, spacing int) *junction.Storage {
	seq := randomSeq(length, 1)
	var records []junction.Record
	coordinate := make([][]junction.Occurrence, copies)
	for c := 0; c < copies; c++ {
		records = append(records, junction.Record{Description: "chr" + string(rune('0'+c)), Seq: append([]byte(nil), seq...)})
		id := int64(1)
		for pos := 0; pos+k <= length; pos += spacing {
			coordinate[c] = append(coordinate[c], junction.Occurrence{Pos: int64(pos), Vertex: id})
			id++
		}
	}
	return junction.NewStorage(records, coordinate, k)
}

// invertedChromosomes builds a sequence and its reverse complement; the
// second chromosome carries the mirrored junctions with flipped signs.
func invertedChromosomes(length, k, spacing int) *junction.Storage {
	seq := randomSeq(length, 2)
	var occ0 []junction.Occurrence
	id := int64(1)
	for pos := 0; pos+k <= length; pos += spacing {
		occ0 = append(occ0, junction.Occurrence{Pos: int64(pos), Vertex: id})
		id++
	}
	occ1 := make([]junction.Occurrence, 0, len(occ0))
	for j := len(occ0) - 1; j >= 0; j-- {
		occ1 = append(occ1, junction.Occurrence{
			Pos:    int64(length-k) - occ0[j].Pos,
			Vertex: -occ0[j].Vertex,
		})
	}
	records := []junction.Record{
		{Description: "chr0", Seq: seq},
		{Description: "chr1", Seq: dna.ReverseComplement(seq)},
	}
	return junction.NewStorage(records, [][]junction.Occurrence{occ0, occ1}, k)
}

// insertionChromosomes builds two copies of one sequence with insLen extra
// bases spliced into the second at position 1000. Junctions sit every 10
// bases; the last shared k-mer before the splice is at 989 (k = 11), the
// inserted stretch carries private junctions, and the shared ids resume
// after it. The inserted sequence avoids 'A' so the edge labels at both
// boundaries differ between the chromosomes.
func insertionChromosomes(insLen int) *junction.Storage {
	const k = 11
	seq := randomSeq(2000, 7)
	seq[1000] = 'A'
	seq[1001] = 'C'
	ins := randomSeq(insLen, 9)
	for i, b := range ins {
		if b == 'A' {
			ins[i] = 'T'
		}
	}
	ins[0] = 'G'
	chr1 := append([]byte(nil), seq[:1000]...)
	chr1 = append(chr1, ins...)
	chr1 = append(chr1, seq[1000:]...)

	var occ0, occ1 []junction.Occurrence
	id := int64(1)
	for pos := 0; pos <= 980; pos += 10 {
		occ0 = append(occ0, junction.Occurrence{Pos: int64(pos), Vertex: id})
		occ1 = append(occ1, junction.Occurrence{Pos: int64(pos), Vertex: id})
		id++
	}
	occ0 = append(occ0, junction.Occurrence{Pos: 989, Vertex: id})
	occ1 = append(occ1, junction.Occurrence{Pos: 989, Vertex: id})
	id++
	uid := int64(500)
	for pos := 990; pos < 990+insLen; pos += 10 {
		occ1 = append(occ1, junction.Occurrence{Pos: int64(pos), Vertex: uid})
		uid++
	}
	for pos := 1000; pos <= 1980; pos += 10 {
		occ0 = append(occ0, junction.Occurrence{Pos: int64(pos), Vertex: id})
		occ1 = append(occ1, junction.Occurrence{Pos: int64(pos + insLen), Vertex: id})
		id++
	}
	records := []junction.Record{
		{Description: "chr0", Seq: seq},
		{Description: "chr1", Seq: chr1},
	}
	return junction.NewStorage(records, [][]junction.Occurrence{occ0, occ1}, k)
}

type interval struct {
	chr   int
	start int64
	end   int64
	sign  int
}

func intervals(blocks []BlockInstance) []interval {
	out := make([]interval, len(blocks))
	for i, b := range blocks {
		out[i] = interval{chr: b.ChrID(), start: b.Start(), end: b.End(), sign: b.Sign()}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.chr != b.chr {
			return a.chr < b.chr
		}
		if a.start != b.start {
			return a.start < b.start
		}
		if a.end != b.end {
			return a.end < b.end
		}
		return a.sign < b.sign
	})
	return out
}

func groupByID(blocks []BlockInstance) map[int][]BlockInstance {
	byID := make(map[int][]BlockInstance)
	for _, b := range blocks {
		byID[b.BlockID()] = append(byID[b.BlockID()], b)
	}
	return byID
}

func TestIdenticalDuplicate(t *testing.T) {
	storage := identicalChromosomes(2, 10000, 21, 100)
	finder := NewBlocksFinder(storage, 21)
	blocks := finder.FindBlocks(500, 50, 500, 2)

	require.Len(t, blocks, 2)
	require.Equal(t, blocks[0].BlockID(), blocks[1].BlockID())
	chrs := make(map[int]bool)
	for _, b := range blocks {
		require.Equal(t, +1, b.Sign())
		require.Equal(t, int64(0), b.Start())
		require.Equal(t, int64(9921), b.End())
		chrs[b.ChrID()] = true
	}
	require.Len(t, chrs, 2)
}

func TestInvertedDuplicate(t *testing.T) {
	storage := invertedChromosomes(10000, 21, 100)
	finder := NewBlocksFinder(storage, 21)
	blocks := finder.FindBlocks(500, 50, 500, 2)

	// an inverted duplication is reported once per orientation: each copy
	// pairs one positive and one negative instance over the same interval
	require.Len(t, blocks, 4)
	byID := groupByID(blocks)
	require.Len(t, byID, 2)
	for _, group := range byID {
		require.Len(t, group, 2)
		require.NotEqual(t, group[0].ChrID(), group[1].ChrID())
		require.NotEqual(t, group[0].Sign(), group[1].Sign())
		for _, b := range group {
			if b.ChrID() == 0 {
				require.Equal(t, int64(0), b.Start())
				require.Equal(t, int64(9921), b.End())
			} else {
				require.Equal(t, int64(79), b.Start())
				require.Equal(t, int64(10000), b.End())
			}
		}
	}
}

func TestInsertionTooLarge(t *testing.T) {
	storage := insertionChromosomes(200)
	finder := NewBlocksFinder(storage, 11)
	blocks := finder.FindBlocks(500, 50, 500, 2)

	require.Len(t, blocks, 4)
	byID := groupByID(blocks)
	require.Len(t, byID, 2)

	want := []interval{
		{chr: 0, start: 0, end: 1000, sign: +1},
		{chr: 0, start: 1000, end: 1991, sign: +1},
		{chr: 1, start: 0, end: 1000, sign: +1},
		{chr: 1, start: 1200, end: 2191, sign: +1},
	}
	require.Equal(t, want, intervals(blocks))
	for _, group := range byID {
		require.Len(t, group, 2)
		require.GreaterOrEqual(t, group[0].Length(), int64(500))
		require.GreaterOrEqual(t, group[1].Length(), int64(500))
	}
}

func TestInsertionWithinBudget(t *testing.T) {
	storage := insertionChromosomes(30)
	finder := NewBlocksFinder(storage, 11)
	blocks := finder.FindBlocks(500, 50, 500, 2)

	require.Len(t, blocks, 2)
	want := []interval{
		{chr: 0, start: 0, end: 1991, sign: +1},
		{chr: 1, start: 0, end: 2021, sign: +1},
	}
	require.Equal(t, want, intervals(blocks))
}

func TestBelowThreshold(t *testing.T) {
	storage := identicalChromosomes(2, 411, 11, 10)
	finder := NewBlocksFinder(storage, 11)
	blocks := finder.FindBlocks(500, 50, 500, 1)
	require.Empty(t, blocks)
}

func TestInfiniteMinBlockSize(t *testing.T) {
	storage := identicalChromosomes(2, 10000, 21, 100)
	finder := NewBlocksFinder(storage, 21)
	blocks := finder.FindBlocks(math.MaxInt64, 50, 500, 2)
	require.Empty(t, blocks)
}

func TestZeroBranchSize(t *testing.T) {
	// with no walk budget only shared immediate edges form bubbles, which
	// is all an exact duplicate needs
	storage := identicalChromosomes(2, 10000, 21, 100)
	finder := NewBlocksFinder(storage, 21)
	blocks := finder.FindBlocks(500, 0, 500, 2)

	require.Len(t, blocks, 2)
	for _, b := range blocks {
		require.Equal(t, int64(0), b.Start())
		require.Equal(t, int64(9921), b.End())
	}
}

func TestThreeWaySynteny(t *testing.T) {
	storage := identicalChromosomes(3, 10000, 21, 100)
	finder := NewBlocksFinder(storage, 21)
	blocks := finder.FindBlocks(500, 50, 500, 3)

	require.Len(t, blocks, 6)
	byID := groupByID(blocks)
	require.Len(t, byID, 3)
	pairs := make(map[[2]int]int)
	for _, group := range byID {
		require.Len(t, group, 2)
		chr := [2]int{group[0].ChrID(), group[1].ChrID()}
		if chr[0] > chr[1] {
			chr[0], chr[1] = chr[1], chr[0]
		}
		pairs[chr]++
		for _, b := range group {
			require.Equal(t, +1, b.Sign())
			require.Equal(t, int64(0), b.Start())
			require.Equal(t, int64(9921), b.End())
		}
	}
	require.Equal(t, map[[2]int]int{{0, 1}: 1, {0, 2}: 1, {1, 2}: 1}, pairs)
}

func TestRerunIsStable(t *testing.T) {
	storage := invertedChromosomes(10000, 21, 100)
	finder := NewBlocksFinder(storage, 21)
	first := intervals(finder.FindBlocks(500, 50, 500, 3))
	second := intervals(finder.FindBlocks(500, 50, 500, 1))
	require.Equal(t, first, second)
}

func TestReflectedInput(t *testing.T) {
	// reverse complementing every chromosome reflects the coordinates;
	// the emitted pair is the positive strand twin of the original one
	length, k, spacing := 10000, 21, 100
	seq := randomSeq(length, 1)
	rc := dna.ReverseComplement(seq)
	var fwd []junction.Occurrence
	id := int64(1)
	for pos := 0; pos+k <= length; pos += spacing {
		fwd = append(fwd, junction.Occurrence{Pos: int64(pos), Vertex: id})
		id++
	}
	mirrored := make([]junction.Occurrence, 0, len(fwd))
	for j := len(fwd) - 1; j >= 0; j-- {
		mirrored = append(mirrored, junction.Occurrence{
			Pos:    int64(length-k) - fwd[j].Pos,
			Vertex: -fwd[j].Vertex,
		})
	}
	records := []junction.Record{
		{Description: "chr0", Seq: append([]byte(nil), rc...)},
		{Description: "chr1", Seq: append([]byte(nil), rc...)},
	}
	occ := [][]junction.Occurrence{
		append([]junction.Occurrence(nil), mirrored...),
		append([]junction.Occurrence(nil), mirrored...),
	}
	storage := junction.NewStorage(records, occ, k)

	finder := NewBlocksFinder(storage, k)
	blocks := finder.FindBlocks(500, 50, 500, 2)
	require.Len(t, blocks, 2)
	for _, b := range blocks {
		require.Equal(t, +1, b.Sign())
		require.Equal(t, int64(79), b.Start())
		require.Equal(t, int64(10000), b.End())
	}
}

func TestStoredForksAreCanonical(t *testing.T) {
	storage := invertedChromosomes(10000, 21, 100)
	finder := NewBlocksFinder(storage, 21)
	finder.FindBlocks(500, 50, 500, 2)

	for _, list := range [][]Fork{finder.sources, finder.sinks} {
		require.NotEmpty(t, list)
		for _, f := range list {
			require.False(t, f.branch[1].Less(f.branch[0]))
			require.True(t, f.branch[0].IsPositiveStrand() || f.branch[1].IsPositiveStrand())
		}
	}
}

func Benchmark_FindBlocks(b *testing.B) {
	storage := identicalChromosomes(2, 10000, 21, 100)
	finder := NewBlocksFinder(storage, 21)
	for i := 0; i < b.N; i++ {
		finder.FindBlocks(500, 50, 500, 1)
	}
}
