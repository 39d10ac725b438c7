package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recera/polynet/internal/console"
	"github.com/recera/polynet/pkg/export"
	"github.com/recera/polynet/pkg/partition"
	"github.com/recera/polynet/pkg/scene"
	"github.com/recera/polynet/pkg/state"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		output string
		width  float64
		height float64
		sides  int
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame to an SVG file",
		Long: `Renders a single frame at the given viewport size and writes it as SVG.
Use -o - to write to stdout. --seed makes the solid/dotted split repeatable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := a.cfg.Tunables()
			if cmd.Flags().Changed("sides") {
				t.Sides = sides
			}
			if output == "" {
				output = a.cfg.ExportPath()
			}

			var src partition.Source
			if cmd.Flags().Changed("seed") {
				src = partition.NewSource(seed)
			} else {
				src = partition.NewEntropySource()
			}

			st := state.Mount(state.New(t), width, height)
			frame := scene.Compose(st, src)
			a.log.Debug("rendered frame", "sides", st.Sides, "edges", len(frame.Edges),
				"solid", frame.Emphasized.Len(), "size", frame.Outer())

			if output == "-" {
				return frame.WriteSVG(cmd.OutOrStdout())
			}
			if err := export.NewPool().WriteFile(output, frame); err != nil {
				return fmt.Errorf("render %s: %w", output, err)
			}
			console.Success(cmd.ErrOrStderr(), "wrote %s (%d sides, %d edges)", output, st.Sides, len(frame.Edges))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default from config)")
	cmd.Flags().Float64Var(&width, "width", 800, "Viewport width in pixels")
	cmd.Flags().Float64Var(&height, "height", 800, "Viewport height in pixels")
	cmd.Flags().IntVarP(&sides, "sides", "n", state.DefaultSides, "Number of polygon sides (clamped to the configured bounds)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the edge split")
	return cmd
}
