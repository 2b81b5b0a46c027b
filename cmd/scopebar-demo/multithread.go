package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/scopebar"
	"github.com/ShayCichocki/scopebar/pkg/scope"
)

var multithreadCount int

var multithreadCmd = &cobra.Command{
	Use:   "multithread",
	Short: "Run more workers than visible slots to exercise the footer",
	RunE:  runMultithread,
}

func init() {
	multithreadCmd.Flags().IntVar(&multithreadCount, "count", 20, "number of concurrent workers")
}

func runMultithread(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	tracker := scope.NewTracker()
	display := cfg.NewDisplay(tracker)
	defer display.Stop()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < multithreadCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, _ := tracker.Begin(ctx, fmt.Sprintf("job-%02d", i))
			s.Enter()
			defer s.End()

			time.Sleep(jitter(2 * time.Second))
			// Progress output must not clobber the live rows.
			scopebar.Printf("job-%02d done\n", i)
		}(i)
	}
	wg.Wait()

	color.Green("✓ %d jobs finished", multithreadCount)
	return nil
}
