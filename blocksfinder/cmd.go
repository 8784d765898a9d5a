package blocksfinder

import (
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/jwaldrip/odin/cli"

	"github.com/devenderarora/SibeliaZ/junction"
	"github.com/devenderarora/SibeliaZ/utils"
)

// LCB is the 'lcb' subcommand: load the junction storage written by build
// and run block detection.
func LCB(c cli.Command) {
	opt, _ := utils.CheckGlobalArgs(c)
	minBlockSize := intFlag(c, "b")
	maxBranchSize := intFlag(c, "m")
	maxFlankingSize := intFlag(c, "a")
	outDir := c.Flag("o").String()
	genSeq, _ := c.Flag("Seq").Get().(bool)
	compress, _ := c.Flag("Compress").Get().(bool)
	dumpVertex := intFlag(c, "DumpVertex")

	if opt.Cpuprofile != "" {
		fp, err := os.Create(opt.Cpuprofile)
		if err != nil {
			log.Fatalf("[LCB] create file: %s error: %v\n", opt.Cpuprofile, err)
		}
		pprof.StartCPUProfile(fp)
		defer pprof.StopCPUProfile()
	}

	fn := opt.Prefix + ".junction.zst"
	storage, err := junction.Load(fn)
	if err != nil {
		log.Fatalf("[LCB] read file: %s error: %v\n", fn, err)
	}
	if storage.K() != opt.Kmer {
		log.Fatalf("[LCB] storage kmer length: %d does not match args 'K': %d\n", storage.K(), opt.Kmer)
	}

	start := time.Now()
	finder := NewBlocksFinder(storage, storage.K())
	finder.FindBlocks(minBlockSize, maxBranchSize, maxFlankingSize, opt.NumCPU)
	log.Printf("[LCB] enumeration and pairing took %v\n", time.Since(start))

	if err := finder.GenerateOutput(outDir, genSeq, compress); err != nil {
		log.Fatalf("[LCB] write output dir: %s error: %v\n", outDir, err)
	}

	if dumpVertex != 0 {
		dotFn := filepath.Join(outDir, "vertex_"+strconv.FormatInt(dumpVertex, 10)+".dot")
		fp, err := os.Create(dotFn)
		if err != nil {
			log.Fatalf("[LCB] create file: %s error: %v\n", dotFn, err)
		}
		if err := storage.DumpVertexDot(dumpVertex, 5, fp); err != nil {
			log.Fatalf("[LCB] write file: %s error: %v\n", dotFn, err)
		}
		fp.Close()
	}
}

func intFlag(c cli.Command, name string) int64 {
	v, ok := c.Flag(name).Get().(int)
	if !ok {
		log.Fatalf("[LCB] args '%s': %v set error\n", name, c.Flag(name).String())
	}
	return int64(v)
}
