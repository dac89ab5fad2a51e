package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Faultbox/astramesh/internal/assets"
	"github.com/Faultbox/astramesh/internal/job"
	"github.com/Faultbox/astramesh/internal/scene"
	"github.com/Faultbox/astramesh/internal/store"
)

var (
	genKind     string
	genPrompt   string
	genImage    string
	genCancelAt int
	genVirtual  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a simulated generation job and print its progress",
	Long: `Starts a text or image generation job and runs the task queue until the job
finishes. Interrupting the command cancels the job at its next step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runGenerate(ctx, cmd, newStore(cfg))
	},
}

func init() {
	generateCmd.Flags().StringVar(&genKind, "kind", string(scene.JobText), "Job kind: text or image")
	generateCmd.Flags().StringVar(&genPrompt, "prompt", "", "Text prompt")
	generateCmd.Flags().StringVar(&genImage, "image", "", "Reference image for an image job")
	generateCmd.Flags().IntVar(&genCancelAt, "cancel-at", 0, "Cancel once progress reaches this value (0 = never)")
	generateCmd.Flags().BoolVar(&genVirtual, "virtual", false, "Run on the virtual clock instead of real time")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context, cmd *cobra.Command, s *store.Store) error {
	out := cmd.OutOrStdout()

	off := s.Jobs().OnEvent(func(e job.Event) {
		fmt.Fprintf(out, "%-9s %3d%%\n", e.Kind, e.Progress)
		if e.Kind == job.EventProgress && genCancelAt > 0 && e.Progress >= genCancelAt {
			s.CancelGeneration()
		}
	})
	defer off()

	var j *job.Job
	switch scene.JobKind(genKind) {
	case scene.JobText:
		if genPrompt != "" {
			s.SetPrompt(genPrompt)
		}
		j = s.StartGenerationContext(ctx)
	case scene.JobImage:
		ref, err := assets.ProbeImage(genImage)
		if err != nil {
			return fmt.Errorf("image job: %w", err)
		}
		j = s.StartImageGenerationContext(ctx, ref)
	default:
		return fmt.Errorf("unknown job kind %q", genKind)
	}
	if j == nil {
		return errors.New("generation rejected")
	}

	if err := s.Queue().Drain(ctx, !genVirtual); err != nil && ctx.Err() == nil {
		return err
	}
	// After an interrupt the job still has a step queued that observes it.
	for j.State() == job.Running {
		d, ok := s.Queue().Next()
		if !ok {
			break
		}
		s.Queue().Advance(d)
	}
	fmt.Fprintf(out, "job %d %s\n", j.ID, j.State())
	return nil
}
