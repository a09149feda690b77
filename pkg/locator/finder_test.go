package locator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/locator/locatortest"
)

const testWait = 30 * time.Millisecond

func TestFinder_OneUsesPrimaryRule(t *testing.T) {
	page := locatortest.NewPage()
	dialog := locatortest.NewNode("dialog").SetText("How To Play")
	page.Add("[id='help-dialog']", dialog)

	f := locator.NewFinder(testWait)
	el, err := f.One(page, locator.NewTarget("help dialog", locator.ID("help-dialog")))
	require.NoError(t, err)

	text, err := el.InnerText()
	require.NoError(t, err)
	assert.Equal(t, "How To Play", text)
}

func TestFinder_OneFallsBackInRankOrder(t *testing.T) {
	page := locatortest.NewPage()
	page.Add("[class*='Board-module_board']", locatortest.NewNode("board"))

	target := locator.NewTarget("board",
		locator.ClassContains("Board-module_board"),
		locator.ID("board"),
	)

	f := locator.NewFinder(testWait)
	el, err := f.One(page, target)
	require.NoError(t, err)
	require.NotNil(t, el)
}

func TestFinder_OneWaitsForLateElement(t *testing.T) {
	page := locatortest.NewPage()
	time.AfterFunc(5*time.Millisecond, func() {
		page.Add("[data-testid='Play']", locatortest.NewNode("play"))
	})

	f := locator.NewFinder(200 * time.Millisecond)
	_, err := f.One(page, locator.NewTarget("play button", locator.TestID("Play")))
	require.NoError(t, err)
}

func TestFinder_NotFound(t *testing.T) {
	page := locatortest.NewPage()
	f := locator.NewFinder(testWait)

	_, err := f.One(page, locator.NewTarget("enter key", locator.AriaLabel("button", "enter")))
	require.Error(t, err)
	assert.True(t, locator.IsNotFound(err))
	assert.True(t, errors.Is(err, locatortest.ErrTimeout), "underlying wait error is preserved")

	var nf *locator.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "enter key", nf.Target)
	assert.Equal(t, []string{"button[aria-label='enter']"}, nf.Selectors)
	assert.Contains(t, err.Error(), `"enter key" not found`)
}

func TestFinder_VisibleIgnoresHiddenElement(t *testing.T) {
	page := locatortest.NewPage()
	consent := locatortest.NewNode("consent").SetHidden(true)
	page.Add("button[class*='purr-blocker-card__button']", consent)

	target := locator.DefaultCatalog().Consent
	f := locator.NewFinder(time.Second)

	_, err := f.Visible(page, target, testWait)
	require.Error(t, err)

	consent.SetHidden(false)
	_, err = f.Visible(page, target, testWait)
	require.NoError(t, err)
}

func TestFinder_AttachedUsesCallerBound(t *testing.T) {
	page := locatortest.NewPage()
	board := locator.DefaultCatalog().Board
	f := locator.NewFinder(time.Hour)

	start := time.Now()
	_, err := f.Attached(page, board, testWait)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	var nf *locator.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, testWait, nf.Wait)

	page.Add("[class*='Board-module_board']", locatortest.NewNode("board"))
	_, err = f.Attached(page, board, testWait)
	require.NoError(t, err)
}

func TestFinder_Present(t *testing.T) {
	row := locatortest.NewNode("row")
	tile := locator.DefaultCatalog().Tile
	f := locator.NewFinder(time.Hour)

	elems, err := f.Present(row, tile)
	require.NoError(t, err)
	assert.Empty(t, elems)

	for i := 0; i < 5; i++ {
		row.Add("[class*='Tile-module_tile']", locatortest.NewNode("tile"))
	}
	elems, err = f.Present(row, tile)
	require.NoError(t, err)
	assert.Len(t, elems, 5)
}
