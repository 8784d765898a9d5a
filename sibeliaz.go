package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/jwaldrip/odin/cli"

	"github.com/devenderarora/SibeliaZ/blocksfinder"
	"github.com/devenderarora/SibeliaZ/junction"
)

const Kmerdef = 25

var app = cli.New("1.0.0", "Locally collinear block finder over a compacted de Bruijn junction graph", func(c cli.Command) {})

func init() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6091", nil))
	}()
	app.DefineStringFlag("C", "sibeliaz.cfg", "configure file")
	app.DefineStringFlag("cpuprofile", "cpu.prof", "write cpu profile to file")
	app.DefineIntFlag("K", Kmerdef, "kmer length")
	app.DefineStringFlag("p", "./out/K25", "prefix of the output file")
	app.DefineIntFlag("t", 1, "number of CPU used")
	build := app.DefineSubCommand("build", "sample the junction graph from genome sequences", junction.Build)
	{
		build.DefineStringFlag("input", "genomes.fa", "input FASTA file, .gz and .br accepted")
		build.DefineIntFlag("WinSize", 25, "junction sampling window")
	}
	lcb := app.DefineSubCommand("lcb", "find locally collinear blocks", blocksfinder.LCB)
	{
		lcb.DefineIntFlag("b", 5000, "minimum block size")
		lcb.DefineIntFlag("m", 500, "maximum bubble branch size")
		lcb.DefineIntFlag("a", 500, "maximum flanking size")
		lcb.DefineStringFlag("o", "sibeliaz_out", "output directory")
		lcb.DefineBoolFlag("Seq", false, "emit block sequences, one FASTA per block")
		lcb.DefineBoolFlag("Compress", false, "bgzf compress the coords file")
		lcb.DefineIntFlag("DumpVertex", 0, "write the dot neighborhood of the vertex")
	}
}

func main() {
	app.Start()
}
