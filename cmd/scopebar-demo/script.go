package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/scopebar"
	"github.com/ShayCichocki/scopebar/pkg/scope"
)

// scriptUnit describes one scope in a replayed workload.
type scriptUnit struct {
	Name     string        `yaml:"name"`
	Duration time.Duration `yaml:"duration"`
	// Steps, when nonzero, renders the unit as a progress bar advanced
	// evenly over Duration.
	Steps int64 `yaml:"steps"`
	// Parallel runs the children concurrently instead of in order.
	Parallel bool         `yaml:"parallel"`
	Children []scriptUnit `yaml:"children"`
}

// script is the top-level yaml document: a list of root units, run
// concurrently.
type script struct {
	Units []scriptUnit `yaml:"units"`
}

var scriptCmd = &cobra.Command{
	Use:   "script <file.yaml>",
	Short: "Replay a yaml-described workload tree",
	Long: `Replay a workload tree described in yaml. Root units run concurrently;
children run in order unless the unit sets parallel: true.

Example:

  units:
    - name: build
      parallel: true
      children:
        - name: compile
          duration: 3s
          steps: 30
        - name: docs
          duration: 2s
    - name: test
      duration: 4s`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func runScript(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	var sc script
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return fmt.Errorf("parse script: %w", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	tracker := scope.NewTracker()
	display := cfg.NewDisplay(tracker)
	defer display.Stop()

	ctx := context.Background()
	var wg sync.WaitGroup
	for _, u := range sc.Units {
		wg.Add(1)
		go func(u scriptUnit) {
			defer wg.Done()
			playUnit(ctx, tracker, u)
		}(u)
	}
	wg.Wait()

	color.Green("✓ script finished")
	return nil
}

// playUnit runs one unit: enter, advance for its duration, run children,
// end.
func playUnit(ctx context.Context, tracker *scope.Tracker, u scriptUnit) {
	s, sctx := tracker.Begin(ctx, u.Name)
	s.Enter()
	defer s.End()

	if u.Steps > 0 {
		scopebar.For(sctx).SetTemplate(scopebar.ProgressTemplate(20))
		scopebar.For(sctx).SetLength(u.Steps)
		step := u.Duration / time.Duration(u.Steps)
		for i := int64(0); i < u.Steps; i++ {
			time.Sleep(step)
			scopebar.For(sctx).IncPosition(1)
		}
	} else if u.Duration > 0 {
		time.Sleep(u.Duration)
	}

	if u.Parallel {
		var wg sync.WaitGroup
		for _, c := range u.Children {
			wg.Add(1)
			go func(c scriptUnit) {
				defer wg.Done()
				playUnit(sctx, tracker, c)
			}(c)
		}
		wg.Wait()
		return
	}
	for _, c := range u.Children {
		playUnit(sctx, tracker, c)
	}
}
