package blocksfinder

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"

	"github.com/devenderarora/SibeliaZ/dna"
)

// GenerateOutput reports coverage and writes the block coordinate file
// under outDir, plus one FASTA per block id when genSeq is set. With
// compress set the coordinate file is bgzf compressed so it stays
// tabix indexable.
func (finder *BlocksFinder) GenerateOutput(outDir string, genSeq, compress bool) error {
	log.Printf("[GenerateOutput] blocks found: %d\n", finder.blocksFound)
	log.Printf("[GenerateOutput] coverage: %.2f\n", finder.Coverage())

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	if err := finder.writeCoordsGFF(outDir, compress); err != nil {
		return err
	}
	if genSeq {
		blocksDir := filepath.Join(outDir, "blocks")
		if err := os.MkdirAll(blocksDir, 0755); err != nil {
			return err
		}
		if err := finder.ListBlocksSequences(blocksDir); err != nil {
			return err
		}
	}
	return nil
}

func (finder *BlocksFinder) writeCoordsGFF(outDir string, compress bool) error {
	fn := filepath.Join(outDir, "blocks_coords.gff")
	if compress {
		fn += ".gz"
	}
	fp, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer fp.Close()

	var w io.Writer = fp
	if compress {
		bz := bgzf.NewWriter(fp, 1)
		defer bz.Close()
		w = bz
	}
	bw := bufio.NewWriter(w)
	if err := finder.WriteCoordsGFF(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteCoordsGFF streams the emitted blocks as GFF3, one line per
// instance, 1-based closed coordinates.
func (finder *BlocksFinder) WriteCoordsGFF(w io.Writer) error {
	if _, err := io.WriteString(w, "##gff-version 3\n"); err != nil {
		return err
	}
	blocks := finder.sortedBlocks()
	for _, b := range blocks {
		strand := byte('+')
		if !b.Direction() {
			strand = '-'
		}
		seqid := seqID(finder.storage.ChrDescription(b.ChrID()))
		_, err := fmt.Fprintf(w, "%s\tSibeliaZ\tLCB\t%d\t%d\t.\t%c\t.\tID=%d\n",
			seqid, b.Start()+1, b.End(), strand, b.BlockID())
		if err != nil {
			return err
		}
	}
	return nil
}

// seqID trims a FASTA description to the GFF seqid column.
func seqID(desc string) string {
	if i := strings.IndexByte(desc, ' '); i >= 0 {
		return desc[:i]
	}
	return desc
}

func (finder *BlocksFinder) sortedBlocks() []BlockInstance {
	blocks := make([]BlockInstance, len(finder.blocks))
	copy(blocks, finder.blocks)
	sort.Slice(blocks, func(i, j int) bool {
		a, b := blocks[i], blocks[j]
		if a.BlockID() != b.BlockID() {
			return a.BlockID() < b.BlockID()
		}
		if a.ChrID() != b.ChrID() {
			return a.ChrID() < b.ChrID()
		}
		return a.Start() < b.Start()
	})
	return blocks
}

// ListBlocksSequences writes one FASTA per block id into directory; each
// record is one instance, reverse complemented on the negative strand.
func (finder *BlocksFinder) ListBlocksSequences(directory string) error {
	blocks := finder.sortedBlocks()
	for begin := 0; begin < len(blocks); {
		end := begin
		for end < len(blocks) && blocks[end].BlockID() == blocks[begin].BlockID() {
			end++
		}
		fn := filepath.Join(directory, strconv.Itoa(blocks[begin].BlockID())+".fa")
		if err := finder.writeBlockFasta(fn, blocks[begin:end]); err != nil {
			return err
		}
		begin = end
	}
	return nil
}

func (finder *BlocksFinder) writeBlockFasta(fn string, group []BlockInstance) error {
	fp, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer fp.Close()
	bw := bufio.NewWriter(fp)
	for i, b := range group {
		chrSeq := finder.storage.ChrSequence(b.ChrID())
		chrSize := int64(len(chrSeq))
		piece := chrSeq[b.Start():b.End()]
		start := b.Start()
		strand := byte('+')
		if !b.Direction() {
			piece = dna.ReverseComplement(piece)
			start = chrSize - b.End()
			strand = '-'
		}
		_, err := fmt.Fprintf(bw, ">%d_%d %s;%d;%d;%c;%d\n",
			b.BlockID(), i, finder.storage.ChrDescription(b.ChrID()), start, b.Length(), strand, chrSize)
		if err != nil {
			return err
		}
		if err := outputLines(bw, piece); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// outputLines wraps seq at 80 columns.
func outputLines(w io.Writer, seq []byte) error {
	for len(seq) > 80 {
		if _, err := w.Write(seq[:80]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		seq = seq[80:]
	}
	if _, err := w.Write(seq); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
