package blocksfinder

import (
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/devenderarora/SibeliaZ/junction"
)

const progressPortion = 10000

// BlocksFinder runs the bubble-enclosed synteny detection over a junction
// storage. A finder can be reused; FindBlocks resets all accumulated state.
type BlocksFinder struct {
	storage *junction.Storage
	k       int64

	minBlockSize    int64
	maxBranchSize   int64
	maxFlankingSize int64

	count       int64
	blocksFound int32

	mu      sync.Mutex
	sources []Fork
	sinks   []Fork
	blocks  []BlockInstance
}

func NewBlocksFinder(storage *junction.Storage, k int) *BlocksFinder {
	return &BlocksFinder{storage: storage, k: int64(k)}
}

// FindBlocks enumerates source and sink forks around every vertex with
// `threads` workers, pairs them, and returns the emitted block instances.
func (finder *BlocksFinder) FindBlocks(minBlockSize, maxBranchSize, maxFlankingSize int64, threads int) []BlockInstance {
	finder.minBlockSize = minBlockSize
	finder.maxBranchSize = maxBranchSize
	finder.maxFlankingSize = maxFlankingSize
	finder.count = 0
	finder.blocksFound = 0
	finder.sources = finder.sources[:0]
	finder.sinks = finder.sinks[:0]
	finder.blocks = finder.blocks[:0]

	// one entry per vertex owning at least one positive strand instance;
	// the reverse complement twin is reached through the strand flip.
	var shuffle []int64
	V := finder.storage.VerticesNumber()
	for v := -V + 1; v < V; v++ {
		for it := finder.storage.Iterate(v); it.Valid(); it = it.Next() {
			if it.IsPositiveStrand() {
				shuffle = append(shuffle, v)
				break
			}
		}
	}

	if threads < 1 {
		threads = 1
	}
	chunk := (len(shuffle) + threads - 1) / threads
	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		begin := w * chunk
		end := begin + chunk
		if end > len(shuffle) {
			end = len(shuffle)
		}
		if begin >= end {
			continue
		}
		wg.Add(1)
		go finder.checkIfSource(shuffle[begin:end], len(shuffle), &wg)
	}
	wg.Wait()

	finder.findBlocksPairwise()
	return finder.blocks
}

// Blocks returns the instances emitted by the last FindBlocks run.
func (finder *BlocksFinder) Blocks() []BlockInstance {
	return finder.blocks
}

// checkIfSource is one worker over a shard of the vertex list. All scratch
// state is worker local; only the fork lists are shared.
func (finder *BlocksFinder) checkIfSource(shard []int64, total int, wg *sync.WaitGroup) {
	defer wg.Done()

	var instance []junction.SequentialIterator
	var forwardBubble, backwardBubble [][]int
	fwdScratch := newBubbleScratch()
	bwdScratch := newBubbleScratch()

	for _, vertex := range shard {
		if n := atomic.AddInt64(&finder.count, 1); n%progressPortion == 0 {
			finder.mu.Lock()
			log.Printf("[FindBlocks] processed %d/%d vertices\n", n, total)
			finder.mu.Unlock()
		}

		instance = instance[:0]
		for it := finder.storage.Iterate(vertex); it.Valid(); it = it.Next() {
			instance = append(instance, it.SequentialIterator())
		}
		forwardBubble = resetBulges(forwardBubble, len(instance))
		backwardBubble = resetBulges(backwardBubble, len(instance))
		finder.bubbledBranchesForward(instance, forwardBubble, fwdScratch)
		finder.bubbledBranchesBackward(instance, backwardBubble, bwdScratch)

		for i := range forwardBubble {
			for _, k := range forwardBubble[i] {
				if !containsInt(backwardBubble[i], k) && (instance[i].IsPositiveStrand() || instance[k].IsPositiveStrand()) {
					finder.mu.Lock()
					finder.sources = append(finder.sources, NewFork(instance[i], instance[k]))
					finder.mu.Unlock()
				}
			}
		}
		for i := range backwardBubble {
			for _, k := range backwardBubble[i] {
				if !containsInt(forwardBubble[i], k) && (instance[i].IsPositiveStrand() || instance[k].IsPositiveStrand()) {
					finder.mu.Lock()
					finder.sinks = append(finder.sinks, NewFork(instance[i], instance[k]))
					finder.mu.Unlock()
				}
			}
		}
	}
}

// findBlocksPairwise matches every source with its minimum covering sink
// and emits a signed block instance per branch.
func (finder *BlocksFinder) findBlocksPairwise() {
	sort.Slice(finder.sinks, func(i, j int) bool { return finder.sinks[i].Less(finder.sinks[j]) })
	for _, u := range finder.sources {
		at := sort.Search(len(finder.sinks), func(i int) bool { return !finder.sinks[i].Less(u) })
		if at == len(finder.sinks) {
			continue
		}
		v := finder.sinks[at]
		if u.branch[0].ChrID() != v.branch[0].ChrID() || u.branch[1].ChrID() != v.branch[1].ChrID() {
			continue
		}
		if chainLength(u, v) < finder.minBlockSize {
			continue
		}
		if !finder.emittable(u, v) {
			continue
		}
		current := int(atomic.AddInt32(&finder.blocksFound, 1))
		for l := 0; l < 2; l++ {
			it, jt := u.branch[l], v.branch[l]
			if jt.IsPositiveStrand() {
				finder.blocks = append(finder.blocks, NewBlockInstance(+current, jt.ChrID(), it.Position(), jt.Position()+finder.k))
			} else {
				finder.blocks = append(finder.blocks, NewBlockInstance(-current, jt.ChrID(), jt.Position()-finder.k, it.Position()))
			}
		}
	}
}

// emittable rejects pairings whose matched sink is not downstream of the
// source on both branches; the resulting intervals would be empty or run
// off the chromosome.
func (finder *BlocksFinder) emittable(u, v Fork) bool {
	for l := 0; l < 2; l++ {
		it, jt := u.branch[l], v.branch[l]
		var start, end int64
		if jt.IsPositiveStrand() {
			start, end = it.Position(), jt.Position()+finder.k
		} else {
			start, end = jt.Position()-finder.k, it.Position()
		}
		if start < 0 || start >= end || end > int64(len(finder.storage.ChrSequence(jt.ChrID()))) {
			return false
		}
	}
	return true
}

// Coverage returns the fraction of chromosome positions covered by the
// emitted blocks; each chromosome counts len+1 positions.
func (finder *BlocksFinder) Coverage() float64 {
	var total, totalCovered int
	for chr := 0; chr < finder.storage.ChrNumber(); chr++ {
		covered := make([]bool, len(finder.storage.ChrSequence(chr))+1)
		for _, b := range finder.blocks {
			if b.ChrID() != chr {
				continue
			}
			for i := b.Start(); i < b.End(); i++ {
				covered[i] = true
			}
		}
		total += len(covered)
		for _, c := range covered {
			if c {
				totalCovered++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(totalCovered) / float64(total)
}
