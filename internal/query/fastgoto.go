package query

import (
	"context"

	"github.com/standardbeagle/julie/internal/types"
)

// GotoParams are fast_goto's parameters (spec §6).
type GotoParams struct {
	Symbol      string
	ContextFile string
	LineNumber  int
}

// FastGoto resolves symbol to its ranked definition candidates.
func (e *Engine) FastGoto(ctx context.Context, p GotoParams) ([]types.Symbol, error) {
	defs, err := e.findDefinitions(ctx, p.Symbol)
	if err != nil {
		return nil, err
	}
	return rankDefinitions(defs, p.ContextFile, p.LineNumber), nil
}
