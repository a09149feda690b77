package verify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/telemetry"
)

// BoardReport is the geometry observed on the page.
type BoardReport struct {
	Rows        int   `json:"rows"`
	TilesPerRow []int `json:"tiles_per_row"`
}

// VerifyBoard waits for the board root, then checks the row count and the
// tile count of every row in document order. Rows and tiles are counted as
// rendered once the root is attached; an empty board is a count mismatch. Rows are numbered from 1 in
// failure messages.
func (e *Engine) VerifyBoard(ctx context.Context, scope locator.Scope, rows, cols int) (*BoardReport, error) {
	_, span := telemetry.StartSpan(ctx, "verify.board")
	defer span.End()

	report, err := e.verifyBoard(ctx, scope, rows, cols)
	telemetry.RecordError(span, err)
	return report, err
}

func (e *Engine) verifyBoard(ctx context.Context, scope locator.Scope, rows, cols int) (*BoardReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	board, err := e.finder.Attached(scope, e.catalog.Board, e.waits.Board)
	if err != nil {
		return nil, err
	}

	rowElems, err := e.finder.Present(board, e.catalog.BoardRow)
	if err != nil {
		return nil, err
	}

	report := &BoardReport{Rows: len(rowElems)}
	if len(rowElems) != rows {
		return report, &AssertionError{
			Check:    "row count",
			Expected: strconv.Itoa(rows),
			Actual:   strconv.Itoa(len(rowElems)),
		}
	}

	for i, row := range rowElems {
		tiles, err := e.finder.Present(row, e.catalog.Tile)
		if err != nil {
			return report, fmt.Errorf("row %d: %w", i+1, err)
		}
		report.TilesPerRow = append(report.TilesPerRow, len(tiles))
		if len(tiles) != cols {
			return report, &AssertionError{
				Check:    fmt.Sprintf("tile count in row %d", i+1),
				Expected: strconv.Itoa(cols),
				Actual:   strconv.Itoa(len(tiles)),
			}
		}
	}

	debugLog.Debugf("board is %dx%d", rows, cols)
	return report, nil
}
