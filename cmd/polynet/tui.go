package main

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/recera/polynet/cmd/polynet/internal/ui"
	"github.com/recera/polynet/pkg/partition"
	"github.com/recera/polynet/pkg/state"
)

func newTUICommand(a *app) *cobra.Command {
	var (
		seed   uint64
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the diagram in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Export.Dir
			if cmd.Flags().Changed("out-dir") {
				dir = outDir
			}

			var src partition.Source
			if cmd.Flags().Changed("seed") {
				src = partition.NewSource(seed)
			} else {
				src = partition.NewEntropySource()
			}

			model := ui.NewModel(ui.Options{
				Initial:    state.New(a.cfg.Tunables()),
				Source:     src,
				ExportPath: filepath.Join(dir, a.cfg.Export.Filename),
				Logger:     a.log,
			})

			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			final, err := p.Run()
			if m, ok := final.(ui.Model); ok {
				m.Close()
			}
			if err != nil {
				return fmt.Errorf("run terminal ui: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the edge split")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory saved frames go to (default from config)")
	return cmd
}
