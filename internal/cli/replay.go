package cli

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/livescope/livescope/internal/capture"
	"github.com/livescope/livescope/internal/config"
	"github.com/livescope/livescope/internal/constants"
	"github.com/livescope/livescope/internal/liveview"
	"github.com/livescope/livescope/internal/logging"
)

func newReplayCmd() *cobra.Command {
	var (
		functions int
		events    int
		threads   int
		sortBy    string
		filter    string
		rows      int
		logLevel  string
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Feed a synthetic capture through the live view and print the result",
		Long: `Replay drives the whole engine without an attached target: it generates
symbol, thread and timing events, ingests them while the view refreshes
concurrently, then prints the filtered and sorted statistics table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if rows <= 0 {
				rows = cfg.View.TableRows
			}

			col, ok := liveview.ColumnByName(sortBy)
			if !ok {
				return fmt.Errorf("unknown sort column %q", sortBy)
			}

			logger := logging.New(logging.Config{
				Level:  cfg.Log.Level,
				Pretty: cfg.Log.Pretty,
			})

			session := capture.NewSession(logger)
			hooks := newHookSet()
			tracks := newFrameTrackSet()
			timeline := &sessionTimeline{session: session, logger: logger}

			view := liveview.NewView(session, liveview.Deps{
				State:           session,
				Hooks:           hooks,
				FrameTracks:     tracks,
				Timeline:        timeline,
				VisibleSink:     &highlightLog{logger: logger},
				RefreshInterval: cfg.View.RefreshInterval,
			}, logger)

			gen := newEventGenerator(seed, functions, threads)
			session.StartCapture()
			gen.announce(session)

			// First half before the view exists on screen, second half while
			// the refresh ticker is re-sorting concurrently.
			gen.feed(session, events/2)
			view.OnSessionDataChanged()
			view.Sort(col, false)

			ctx, cancel := context.WithCancel(cmd.Context())
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				view.Run(ctx)
			}()

			gen.feed(session, events-events/2)
			time.Sleep(2 * cfg.View.RefreshInterval)
			cancel()
			wg.Wait()
			session.StopCapture()

			view.OnSessionDataChanged()
			view.SetFilter(filter)
			view.Sort(col, false)

			logger.Info().
				Str("session", session.ID()).
				Int("intervals", session.TotalIntervals()).
				Int("visible", view.NumRows()).
				Msg("Replay complete")

			printTable(cmd, view, rows)

			if view.NumRows() > 0 {
				top := view.RowFor(0)
				minIv, maxIv := session.FindMinMaxInterval(top.Address)
				if minIv != nil && maxIv != nil {
					logger.Info().
						Str("function", top.Name).
						Uint64("min_ns", minIv.DurationNs()).
						Uint64("max_ns", maxIv.DurationNs()).
						Msg("Extremal intervals of top row")
				}
				view.JumpToFirst(0)
				view.JumpToLast(0)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&functions, "functions", 24, "Number of distinct functions to simulate")
	cmd.Flags().IntVar(&events, "events", 5000, "Number of timing intervals to ingest")
	cmd.Flags().IntVar(&threads, "threads", 4, "Number of simulated threads")
	cmd.Flags().StringVar(&sortBy, "sort", "Count", "Sort column (Hooked, Function, Count, Total, Avg, Min, Max, Module, Address)")
	cmd.Flags().StringVar(&filter, "filter", "", "Filter tokens (AND, case-insensitive substring match)")
	cmd.Flags().IntVar(&rows, "rows", 0, "Row budget for the printed table (0 = config default)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override configured log level")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed for the synthetic workload")

	return cmd
}

func printTable(cmd *cobra.Command, view *liveview.View, rows int) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)

	for _, col := range liveview.Columns() {
		fmt.Fprintf(w, "%s\t", col)
	}
	fmt.Fprintln(w)

	n := view.NumRows()
	if n > rows {
		n = rows
	}
	for i := 0; i < n; i++ {
		for _, col := range liveview.Columns() {
			fmt.Fprintf(w, "%s\t", view.GetDisplayValue(i, col))
		}
		fmt.Fprintln(w)
	}
	_ = w.Flush()
}

// eventGenerator produces a deterministic synthetic workload.
type eventGenerator struct {
	rng       *rand.Rand
	functions []capture.AddressInfo
	threads   int
	clock     uint64
}

var (
	genVerbs = []string{"Update", "Render", "Compute", "Load", "Flush", "Decode"}
	genNouns = []string{"Physics", "Audio", "Mesh", "Texture", "Input", "Frame"}
)

func newEventGenerator(seed int64, functionCount, threads int) *eventGenerator {
	g := &eventGenerator{
		rng:     rand.New(rand.NewSource(seed)),
		threads: threads,
		clock:   1,
	}

	base := uint64(0x140001000)
	for i := 0; i < functionCount; i++ {
		name := fmt.Sprintf("Game::%s%s%d", genVerbs[i%len(genVerbs)], genNouns[(i/len(genVerbs))%len(genNouns)], i)
		module := "game.exe"
		if i%3 == 0 {
			module = "engine.dll"
		}
		g.functions = append(g.functions, capture.AddressInfo{
			AbsoluteAddress: base + uint64(i)*0x40,
			FunctionName:    name,
			ModulePath:      module,
		})
	}
	// A couple of instrumentation-internal functions; they collect stats but
	// must stay out of the view.
	for i := 0; i < 2; i++ {
		g.functions = append(g.functions, capture.AddressInfo{
			AbsoluteAddress: base + uint64(functionCount+i)*0x40,
			FunctionName:    fmt.Sprintf("%strampoline%d", constants.InstrumentationPrefix, i),
			ModulePath:      "livescope.so",
		})
	}
	return g
}

// announce delivers symbol, address and thread metadata ahead of the timing
// stream, the way a capture backend does on attach.
func (g *eventGenerator) announce(sink capture.Listener) {
	for _, info := range g.functions {
		sink.OnAddressResolved(info)
		sink.OnSymbolBinding(capture.KeyForString(info.FunctionName), info.FunctionName)
	}
	for t := 0; t < g.threads; t++ {
		sink.OnThreadNamed(int32(100+t), fmt.Sprintf("worker-%d", t))
	}
}

// feed ingests n timing intervals with randomized durations on a strictly
// advancing clock.
func (g *eventGenerator) feed(sink capture.Listener, n int) {
	for i := 0; i < n; i++ {
		info := g.functions[g.rng.Intn(len(g.functions))]
		duration := uint64(100 + g.rng.Intn(5_000_000))
		g.clock += uint64(10 + g.rng.Intn(1000))

		sink.OnTiming(capture.TimingInterval{
			FunctionAddress: info.AbsoluteAddress,
			Start:           g.clock,
			End:             g.clock + duration,
			ThreadID:        int32(100 + g.rng.Intn(g.threads)),
		})
	}
}
