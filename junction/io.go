package junction

import (
	"encoding/gob"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/google/brotli/go/cbrotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// LoadFasta reads chromosomes from a FASTA file. Files ending in .gz or
// .br are decompressed on the fly. Bases are folded to upper case.
func LoadFasta(fn string) ([]Record, error) {
	fp, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	var reader io.Reader = fp
	if strings.HasSuffix(fn, ".gz") {
		gzfp, err := gzip.NewReader(fp)
		if err != nil {
			return nil, err
		}
		defer gzfp.Close()
		reader = gzfp
	} else if strings.HasSuffix(fn, ".br") {
		brfp := cbrotli.NewReader(fp)
		defer brfp.Close()
		reader = brfp
	}

	fafp := fasta.NewReader(reader, linear.NewSeq("", nil, alphabet.DNA))
	var records []Record
	for {
		s, err := fafp.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		l := s.(*linear.Seq)
		seq := make([]byte, len(l.Seq))
		for i, v := range l.Seq {
			b := byte(v)
			if b >= 'a' && b <= 'z' {
				b -= 'a' - 'A'
			}
			seq[i] = b
		}
		desc := l.ID
		if l.Desc != "" {
			desc += " " + l.Desc
		}
		records = append(records, Record{Description: desc, Seq: seq})
	}
	return records, nil
}

type storageSnapshot struct {
	K          int
	Chr        []Record
	Coordinate [][]Occurrence
}

// Save writes a zstd compressed gob snapshot of the storage.
func (storage *Storage) Save(fn string) error {
	fp, err := os.Create(fn)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(fp, zstd.WithEncoderCRC(false), zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(1))
	if err != nil {
		fp.Close()
		return err
	}
	snap := storageSnapshot{K: storage.k, Chr: storage.chr, Coordinate: storage.coordinate}
	if err := gob.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		fp.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

// Load reads a snapshot written by Save and rebuilds the instance index.
func Load(fn string) (*Storage, error) {
	fp, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	zr, err := zstd.NewReader(fp, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	var snap storageSnapshot
	if err := gob.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, err
	}
	return NewStorage(snap.Chr, snap.Coordinate, snap.K), nil
}
