package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the upload preview and blocks until the user commits or
// quits. It returns how many records were saved (0 when the user backed
// out without committing).
func Run(ctx context.Context, cfg Config) (int, error) {
	if cfg.Preview == nil || cfg.Engine == nil || cfg.Resolver == nil {
		return 0, fmt.Errorf("preview, engine, and resolver are required")
	}

	program := tea.NewProgram(
		newModel(ctx, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	if err != nil {
		return 0, fmt.Errorf("running preview: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return 0, fmt.Errorf("unexpected final model type %T", final)
	}
	return m.committed, nil
}
