package junction

import (
	"log"
	"time"

	"github.com/jwaldrip/odin/cli"

	"github.com/devenderarora/SibeliaZ/utils"
)

// Build is the 'build' subcommand: read genomes from FASTA, sample the
// junction graph and write the storage snapshot next to the prefix.
func Build(c cli.Command) {
	opt, _ := utils.CheckGlobalArgs(c)
	input := c.Flag("input").String()
	if input == "" {
		log.Fatalf("[Build] args 'input' not set\n")
	}
	window, ok := c.Flag("WinSize").Get().(int)
	if !ok {
		log.Fatalf("[Build] args 'WinSize': %v set error\n", c.Flag("WinSize").String())
	}

	start := time.Now()
	records, err := LoadFasta(input)
	if err != nil {
		log.Fatalf("[Build] read file: %s error: %v\n", input, err)
	}
	var bases int
	for _, rec := range records {
		bases += len(rec.Seq)
	}
	log.Printf("[Build] loaded %d chromosomes, %d bases\n", len(records), bases)

	storage := BuildStorage(records, opt.Kmer, window)
	var marks int
	for chr := 0; chr < storage.ChrNumber(); chr++ {
		marks += storage.ChrVerticesCount(chr)
	}
	log.Printf("[Build] sampled %d junctions over %d vertices\n", marks, storage.VerticesNumber()-1)

	fn := opt.Prefix + ".junction.zst"
	if err := storage.Save(fn); err != nil {
		log.Fatalf("[Build] write file: %s error: %v\n", fn, err)
	}
	log.Printf("[Build] wrote %s in %v\n", fn, time.Since(start))
}
