package harness

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/entrhq/wordleprobe/pkg/browser"
	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/locator/locatortest"
	"github.com/entrhq/wordleprobe/pkg/verify"
)

const (
	rowClass     = "Row-module_row__pwpBq"
	invalidClass = "Row-module_invalid__sE3c0"
	testURL      = "http://fixture.test/games/wordle/index.html"
)

// fakeSite is an in-memory puzzle page: consent card, Play, help dialog,
// board, keyboard and toast. Words outside accepted are rejected.
type fakeSite struct {
	page   *locatortest.Node
	dialog *locatortest.Node
	board  *locatortest.Node
	rows   []*locatortest.Node
	toast  *locatortest.Node

	title    string
	accepted map[string]bool

	mu    sync.Mutex
	typed strings.Builder
}

type siteOption func(*fakeSite, *locator.Catalog)

// withoutPlay drops the Play control so onboarding cannot enter the game.
func withoutPlay() siteOption {
	return func(s *fakeSite, c *locator.Catalog) {
		s.page.Remove(c.Play.Selectors()[0])
	}
}

// withoutConsent drops the consent card, as on a profile that already agreed.
func withoutConsent() siteOption {
	return func(s *fakeSite, c *locator.Catalog) {
		s.page.Remove(c.Consent.Selectors()[0])
	}
}

// withRows leaves only n rows on the board.
func withRows(n int) siteOption {
	return func(s *fakeSite, c *locator.Catalog) {
		s.board.Remove(c.BoardRow.Selectors()[0])
		s.board.Add(c.BoardRow.Selectors()[0], s.rows[:n]...)
	}
}

func withTitle(title string) siteOption {
	return func(s *fakeSite, _ *locator.Catalog) {
		s.title = title
	}
}

func newFakeSite(opts ...siteOption) *fakeSite {
	catalog := locator.DefaultCatalog()
	s := &fakeSite{
		page:     locatortest.NewPage(),
		dialog:   locatortest.NewNode("help dialog").SetText(strings.Join(verify.DefaultHelpText, "\n")),
		board:    locatortest.NewNode("board"),
		toast:    locatortest.NewNode("toast"),
		title:    DefaultConfig().Oracle.ExpectedTitle,
		accepted: map[string]bool{"happy": true},
	}

	s.page.Add(catalog.Consent.Selectors()[0], locatortest.NewNode("consent"))

	play := locatortest.NewNode("play").OnClick(func(*locatortest.Node) {
		s.page.Add(catalog.HelpDialog.Selectors()[0], s.dialog)
	})
	s.page.Add(catalog.Play.Selectors()[0], play)

	closeButton := locatortest.NewNode("close").OnClick(func(*locatortest.Node) {
		s.dialog.SetHidden(true)
	})
	s.dialog.Add(catalog.CloseHelp.Selectors()[0], closeButton)

	s.page.Add(catalog.Board.Selectors()[0], s.board)
	for r := 1; r <= verify.DefaultRows; r++ {
		row := locatortest.NewNode(fmt.Sprintf("row %d", r)).SetAttr("class", rowClass)
		for c := 0; c < verify.DefaultColumns; c++ {
			row.Add(catalog.Tile.Selectors()[0], locatortest.NewNode("tile"))
		}
		s.rows = append(s.rows, row)
		s.board.Add(catalog.BoardRow.Selectors()[0], row)
		s.page.Add(catalog.Row(r).Selectors()[0], row)
	}
	s.page.Add(catalog.Toast.Selectors()[0], s.toast)

	for letter := 'a'; letter <= 'z'; letter++ {
		letter := letter
		key := locatortest.NewNode("key " + string(letter)).OnClick(func(*locatortest.Node) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.typed.WriteRune(letter)
		})
		s.page.Add(catalog.LetterKey(letter).Selectors()[0], key)
	}

	enter := locatortest.NewNode("enter").OnClick(func(*locatortest.Node) {
		s.mu.Lock()
		word := s.typed.String()
		s.typed.Reset()
		s.mu.Unlock()

		if s.accepted[word] {
			return
		}
		s.rows[0].SetAttr("class", rowClass+" "+invalidClass)
		s.toast.SetText(verify.DefaultRejectionMessage)
	})
	s.page.Add(catalog.Enter.Selectors()[0], enter)

	for _, opt := range opts {
		opt(s, catalog)
	}
	return s
}

func (s *fakeSite) Root() locator.Scope { return s.page }

func (s *fakeSite) Title() (string, error) { return s.title, nil }

func (s *fakeSite) URL() string { return testURL }

func (s *fakeSite) Snapshot(maxLength int) (*browser.DOMSnapshot, error) {
	return browser.CleanDOM(`<html><head><title>`+s.title+`</title></head><body><div id="board"></div></body></html>`, maxLength)
}

func (s *fakeSite) Screenshot(path string) error {
	return os.WriteFile(path, []byte("png"), 0600)
}

// fakeBackend hands out a fresh fakeSite per case.
type fakeBackend struct {
	site     func() *fakeSite
	initErr  error
	openErr  error
	closeErr error

	mu       sync.Mutex
	opened   []*fakeSite
	closed   int
	shutdown bool
}

func newFakeBackend(opts ...siteOption) *fakeBackend {
	return &fakeBackend{site: func() *fakeSite { return newFakeSite(opts...) }}
}

func (b *fakeBackend) Initialize() error { return b.initErr }

func (b *fakeBackend) Open(ctx context.Context, _ browser.LaunchOptions) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.openErr != nil {
		return nil, b.openErr
	}
	site := b.site()
	b.mu.Lock()
	b.opened = append(b.opened, site)
	b.mu.Unlock()
	return site, nil
}

func (b *fakeBackend) Close(Page) error {
	b.mu.Lock()
	b.closed++
	b.mu.Unlock()
	return b.closeErr
}

func (b *fakeBackend) Shutdown() error {
	b.shutdown = true
	return nil
}

// testConfig returns a valid config with waits scaled for the fake site.
func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TargetURL = testURL
	cfg.Waits = verify.Waits{
		Implicit: 30 * time.Millisecond,
		Explicit: 100 * time.Millisecond,
		Board:    30 * time.Millisecond,
		Settle:   40 * time.Millisecond,
		Poll:     2 * time.Millisecond,
	}
	cfg.Artifacts.OutputDir = t.TempDir()
	return cfg
}
