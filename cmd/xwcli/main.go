package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crosswarped.com/xwfill"
	"crosswarped.com/xwfill/internal"
)

const usage = `usage: xwcli [flags] generate <structure-file> <words-file> [output-file]`

func main() {
	timeout := flag.Duration("timeout", 1*time.Minute, "The timeout for the solver")
	workers := flag.Int("workers", 1, "Number of parallel search workers")
	seed := flag.Uint64("seed", 0, "Shuffle tied candidate words with this seed (0 keeps deterministic order)")
	noPropagate := flag.Bool("no-propagate", false, "Disable arc propagation during search")
	excludedFile := flag.String("excluded", "", "The file to load excluded words from")
	verbose := flag.Bool("v", false, "Enable debug logging")

	profile := flag.Bool("profile", false, "Profile the solver")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")
	memoryProfileFile := flag.String("memory-profile-file", "mem.pprof", "The file to write the memory profile to")

	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	args := flag.Args()
	if len(args) < 3 || len(args) > 4 || args[0] != "generate" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	structureFile, wordsFile := args[1], args[2]
	outputFile := ""
	if len(args) == 4 {
		outputFile = args[3]
	}

	structure, err := os.ReadFile(structureFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", structureFile).Msg("reading structure")
	}
	puzzle, err := xwfill.Parse(string(structure))
	if err != nil {
		log.Fatal().Err(err).Str("file", structureFile).Msg("parsing structure")
	}

	var excluded []string
	if *excludedFile != "" {
		bank, err := internal.LoadWordBank(*excludedFile, nil)
		if err != nil {
			log.Fatal().Err(err).Str("file", *excludedFile).Msg("loading excluded words")
		}
		excluded = bank.Words()
	}

	bank, err := internal.LoadWordBank(wordsFile, excluded)
	if err != nil {
		log.Fatal().Err(err).Str("file", wordsFile).Msg("loading words")
	}
	log.Info().Int("words", bank.Len()).Int("slots", len(puzzle.Variables())).Msg("loaded puzzle")
	for _, v := range puzzle.Variables() {
		log.Debug().Stringer("slot", v).Int("candidates", len(bank.OfLength(v.Length))).Msg("vocabulary per slot")
	}

	var mf *os.File
	if *profile {
		f, err := os.Create(*profileFile)
		if err != nil {
			log.Fatal().Err(err).Msg("creating profile file")
		}
		defer f.Close()

		mf, err = os.Create(*memoryProfileFile)
		if err != nil {
			log.Fatal().Err(err).Msg("creating memory profile file")
		}
		defer mf.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("starting CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	params := xwfill.SolverParams{
		DisablePropagation: *noPropagate,
		Workers:            *workers,
	}
	if *seed != 0 {
		params.Rand = rand.New(rand.NewPCG(*seed, *seed))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	solver := xwfill.NewSolver(puzzle, bank.Words(), params)
	start := time.Now()
	assignment, outcome := solver.Solve(ctx)
	log.Info().Dur("elapsed", time.Since(start)).Stringer("outcome", outcome).Msg("solve finished")

	if mf != nil {
		pprof.WriteHeapProfile(mf)
	}

	switch outcome {
	case xwfill.Solved:
		rendered := puzzle.Render(assignment).Repr()
		fmt.Println(rendered)
		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(rendered+"\n"), 0o644); err != nil {
				log.Fatal().Err(err).Str("file", outputFile).Msg("writing output")
			}
		}
	case xwfill.NoSolution:
		fmt.Println("No solution.")
	case xwfill.Aborted:
		fmt.Fprintln(os.Stderr, "Search aborted:", ctx.Err())
		os.Exit(1)
	}
}
