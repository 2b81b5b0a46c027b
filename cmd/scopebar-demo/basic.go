package main

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/scopebar"
	"github.com/ShayCichocki/scopebar/pkg/scope"
)

var (
	basicCount    int
	basicDuration time.Duration
)

var basicCmd = &cobra.Command{
	Use:   "basic",
	Short: "Run a flat pool of concurrent workers",
	RunE:  runBasic,
}

func init() {
	basicCmd.Flags().IntVar(&basicCount, "count", 5, "number of concurrent workers")
	basicCmd.Flags().DurationVar(&basicDuration, "duration", 2*time.Second, "mean worker duration")
}

func runBasic(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	tracker := scope.NewTracker()
	display := cfg.NewDisplay(tracker)
	defer display.Stop()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < basicCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, sctx := tracker.Begin(ctx, "work", scope.Int("worker", i))
			s.Enter()
			defer s.End()

			steps := int64(20)
			scopebar.For(sctx).SetTemplate(scopebar.ProgressTemplate(20))
			scopebar.For(sctx).SetLength(steps)
			for step := int64(0); step < steps; step++ {
				time.Sleep(jitter(basicDuration / time.Duration(steps)))
				scopebar.For(sctx).IncPosition(1)
			}
		}(i)
	}
	wg.Wait()

	color.Green("✓ %d workers finished", basicCount)
	return nil
}

// jitter returns d scaled by a random factor in [0.5, 1.5).
func jitter(d time.Duration) time.Duration {
	return d/2 + time.Duration(rand.Int63n(int64(d)))
}
