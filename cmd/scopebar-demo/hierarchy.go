package main

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/scopebar"
	"github.com/ShayCichocki/scopebar/pkg/scope"
)

var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy",
	Short: "Run nested scopes to show parent/child row grouping",
	RunE:  runHierarchy,
}

func runHierarchy(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	tracker := scope.NewTracker()
	display := cfg.NewDisplay(tracker)
	defer display.Stop()

	ctx := context.Background()
	build, bctx := tracker.Begin(ctx, "build", scope.String("target", "release"))
	build.Enter()
	scopebar.ForScope(build).SetFinishMessage("build finished")

	for _, stage := range []string{"fetch", "compile", "link"} {
		s, sctx := tracker.Begin(bctx, stage)
		s.Enter()

		scopebar.For(sctx).SetTemplate(scopebar.ProgressTemplate(20))
		scopebar.For(sctx).SetLength(10)
		for i := 0; i < 10; i++ {
			time.Sleep(150 * time.Millisecond)
			scopebar.For(sctx).IncPosition(1)
		}
		s.End()
	}
	build.End()

	color.Green("✓ hierarchy done")
	return nil
}
