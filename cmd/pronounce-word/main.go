package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pronounce-dev/pronounce-word/internal/config"
	"github.com/pronounce-dev/pronounce-word/internal/forvo"
	"github.com/pronounce-dev/pronounce-word/internal/progress"
	"github.com/pronounce-dev/pronounce-word/internal/pronounce"
)

// countFlag counts repeated occurrences of a boolean flag, so -d -d
// raises verbosity twice.
type countFlag int

func (c *countFlag) String() string { return strconv.Itoa(int(*c)) }

func (c *countFlag) IsBoolFlag() bool { return true }

func (c *countFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if v {
		*c++
	} else {
		*c = 0
	}
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	// Command line flags
	var (
		cycleFlag    = flag.Bool("c", false, "cycle through pronunciations across invocations")
		numFlag      = flag.Int("num", 0, "with -c, cycle only through the first N pronunciations (0 = all)")
		playNFlag    = flag.Int("n", -1, "play pronunciation with index N (the default mode plays index 0)")
		randomFlag   = flag.Bool("r", false, "play a random pronunciation")
		forceFlag    = flag.Bool("f", false, "re-download audio files even when already cached")
		rebuildFlag  = flag.Bool("rebuild-metadata", false, "rebuild the word mapping from the files in the cache directory")
		overrideFlag = flag.Bool("override", false, "discard cached metadata and resolve the word again")
		configFlag   = flag.String("config", "", "path to config file")
	)
	var verbosity countFlag
	flag.Var(&verbosity, "d", "show verbose output (repeatable)")

	flag.Parse()

	if flag.NArg() == 0 && !*rebuildFlag {
		fmt.Println("Pronounce Word - fetch and play word pronunciations")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  pronounce-word [options] <word>")
		fmt.Println("  pronounce-word -rebuild-metadata")
		fmt.Println()
		fmt.Println("For interactive mode, use: pronounce-tui")
		fmt.Println()
		flag.PrintDefaults()
		return 1
	}

	playModes := 0
	for _, set := range []bool{*cycleFlag, *playNFlag >= 0, *randomFlag} {
		if set {
			playModes++
		}
	}
	if playModes > 1 {
		fmt.Fprintln(os.Stderr, "Error: -c, -n and -r are mutually exclusive")
		return 2
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create pronouncer with progress callback
	p := pronounce.New(settings, func(event progress.Event) {
		if event.Level == progress.LevelVerbose && verbosity < 1 {
			return
		}

		prefix := ""
		switch event.Level {
		case progress.LevelError:
			prefix = "❌ "
		case progress.LevelWarning:
			prefix = "⚠️  "
		case progress.LevelSuccess:
			prefix = "✅ "
		case progress.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})

	if err := p.Setup(ctx, *rebuildFlag, *overrideFlag, *forceFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		return 1
	}

	word := ""
	if flag.NArg() > 0 {
		word = flag.Arg(0)
	}
	opErr := runOperation(ctx, p, word, runOptions{
		rebuild:   *rebuildFlag,
		override:  *overrideFlag,
		force:     *forceFlag,
		cycle:     *cycleFlag,
		num:       *numFlag,
		playN:     *playNFlag,
		random:    *randomFlag,
		playModes: playModes,
	})

	// The run may have discovered metadata even when the operation
	// failed, so the mapping is saved unconditionally.
	if err := p.Teardown(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving word data: %v\n", err)
		return 1
	}

	if opErr != nil {
		if ctx.Err() != nil {
			fmt.Println("\nCancelled.")
			return 130
		}
		if errors.Is(opErr, forvo.ErrWordNotFound) {
			fmt.Fprintf(os.Stderr, "Error: no pronunciations found: %v\n", opErr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", opErr)
		}
		return 1
	}
	return 0
}

// runOptions carries the parsed flag values for one invocation.
type runOptions struct {
	rebuild   bool
	override  bool
	force     bool
	cycle     bool
	num       int
	playN     int
	random    bool
	playModes int
}

// runOperation dispatches the single operation of this invocation.
//
// Maintenance modes win over play modes: with -rebuild-metadata or
// -override nothing is played, but -f still re-fetches the named
// word's files afterwards. Without any mode flag the first
// pronunciation plays.
func runOperation(ctx context.Context, p *pronounce.Pronouncer, word string, opts runOptions) error {
	if opts.rebuild || opts.override {
		if opts.playModes > 0 {
			fmt.Println("⚠️  Play flags are ignored with -rebuild-metadata and -override")
		}
		if opts.rebuild {
			// The scan already ran during Setup.
			fmt.Println("✅ Word mapping rebuilt from cache directory")
		} else {
			if err := p.OverrideMetadata(ctx, word); err != nil {
				return err
			}
			fmt.Printf("✅ Metadata refreshed for %q\n", word)
		}
		if opts.force && word != "" {
			return p.ForceDownload(ctx, word)
		}
		return nil
	}

	switch {
	case opts.cycle:
		return p.Cycle(ctx, word, opts.num)
	case opts.random:
		return p.Random(ctx, word)
	case opts.playN >= 0:
		return p.Pronounce(ctx, word, opts.playN)
	default:
		return p.Pronounce(ctx, word, 0)
	}
}
