package verify

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/locator/locatortest"
)

const (
	rowClass     = "Row-module_row__pwpBq"
	invalidClass = "Row-module_invalid__sE3c0"
)

var testWaits = Waits{
	Implicit: 30 * time.Millisecond,
	Explicit: 100 * time.Millisecond,
	Board:    30 * time.Millisecond,
	Settle:   40 * time.Millisecond,
	Poll:     2 * time.Millisecond,
}

// fakeGame is an in-memory page with a board, an on-screen keyboard and a
// toast. Submitting a word outside words marks row 1 invalid and shows the
// rejection toast, after delay.
type fakeGame struct {
	page  *locatortest.Node
	board *locatortest.Node
	rows  []*locatortest.Node
	toast *locatortest.Node
	keys  map[rune]*locatortest.Node
	enter *locatortest.Node

	words map[string]bool
	delay time.Duration

	mu    sync.Mutex
	typed strings.Builder
}

func newFakeGame(words ...string) *fakeGame {
	catalog := locator.DefaultCatalog()
	g := &fakeGame{
		page:  locatortest.NewPage(),
		board: locatortest.NewNode("board"),
		toast: locatortest.NewNode("toast"),
		keys:  make(map[rune]*locatortest.Node),
		enter: locatortest.NewNode("enter"),
		words: make(map[string]bool),
	}
	for _, w := range words {
		g.words[w] = true
	}

	g.page.Add(catalog.Board.Selectors()[0], g.board)
	for r := 1; r <= DefaultRows; r++ {
		row := locatortest.NewNode(fmt.Sprintf("row %d", r)).SetAttr("class", rowClass)
		for c := 0; c < DefaultColumns; c++ {
			row.Add(catalog.Tile.Selectors()[0], locatortest.NewNode("tile"))
		}
		g.rows = append(g.rows, row)
		g.board.Add(catalog.BoardRow.Selectors()[0], row)
		g.page.Add(catalog.Row(r).Selectors()[0], row)
	}
	g.page.Add(catalog.Toast.Selectors()[0], g.toast)

	for letter := 'a'; letter <= 'z'; letter++ {
		letter := letter
		key := locatortest.NewNode("key " + string(letter)).OnClick(func(*locatortest.Node) {
			g.mu.Lock()
			defer g.mu.Unlock()
			g.typed.WriteRune(letter)
		})
		g.keys[letter] = key
		g.page.Add(catalog.LetterKey(letter).Selectors()[0], key)
	}

	g.enter.OnClick(func(*locatortest.Node) {
		g.mu.Lock()
		word := g.typed.String()
		g.typed.Reset()
		g.mu.Unlock()

		if g.words[word] {
			return
		}
		react := func() {
			g.rows[0].SetAttr("class", rowClass+" "+invalidClass)
			g.toast.SetText("Not in word list")
		}
		if g.delay > 0 {
			time.AfterFunc(g.delay, react)
			return
		}
		react()
	})
	g.page.Add(catalog.Enter.Selectors()[0], g.enter)
	return g
}

func (g *fakeGame) typedSoFar() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.typed.String()
}

func newTestEngine(opts ...Option) *Engine {
	return NewEngine(locator.DefaultCatalog(), locator.NewFinder(testWaits.Implicit), testWaits, opts...)
}
