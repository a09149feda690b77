package locator

import (
	"errors"
	"fmt"
	"strings"
)

// Catalog is the element contract of the page under test.
type Catalog struct {
	Consent    Target `yaml:"consent" json:"consent"`
	Play       Target `yaml:"play" json:"play"`
	HelpDialog Target `yaml:"help_dialog" json:"help_dialog"`
	CloseHelp  Target `yaml:"close_help" json:"close_help"`
	Board      Target `yaml:"board" json:"board"`
	BoardRow   Target `yaml:"board_row" json:"board_row"`
	Tile       Target `yaml:"tile" json:"tile"`
	Toast      Target `yaml:"toast" json:"toast"`
	Enter      Target `yaml:"enter" json:"enter"`

	// Letter keys are labelled KeyLabelFormat with the letter substituted.
	KeyTag         string `yaml:"key_tag" json:"key_tag"`
	KeyLabelFormat string `yaml:"key_label_format" json:"key_label_format"`

	// Rows are labelled RowLabelFormat with the 1-indexed row number substituted.
	RowTag         string `yaml:"row_tag" json:"row_tag"`
	RowLabelFormat string `yaml:"row_label_format" json:"row_label_format"`
}

// DefaultCatalog returns the catalog for the published puzzle page.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Consent:    NewTarget("consent button", Rule{Strategy: ByClassContains, Value: "purr-blocker-card__button", Tag: "button"}),
		Play:       NewTarget("play button", TestID("Play")),
		HelpDialog: NewTarget("help dialog", ID("help-dialog")),
		CloseHelp:  NewTarget("help dialog close button", AriaLabel("button", "Close")),
		Board:      NewTarget("board", ClassContains("Board-module_board")),
		BoardRow:   NewTarget("board row", ClassContains("Row-module_row")),
		Tile:       NewTarget("tile", ClassContains("Tile-module_tile")),
		Toast:      NewTarget("toast", IDPrefix("div", "ToastContainer-module_gameToaster")),
		Enter:      NewTarget("enter key", AriaLabel("button", "enter")),

		KeyTag:         "button",
		KeyLabelFormat: "add %s",
		RowTag:         "div",
		RowLabelFormat: "Row %d",
	}
}

// LetterKey returns the target for the on-screen key of one letter.
func (c *Catalog) LetterKey(letter rune) Target {
	label := fmt.Sprintf(c.KeyLabelFormat, string(letter))
	return NewTarget(fmt.Sprintf("key %q", string(letter)), AriaLabel(c.KeyTag, label))
}

// Row returns the target for the n-th board row (1-indexed) by its label.
func (c *Catalog) Row(n int) Target {
	label := fmt.Sprintf(c.RowLabelFormat, n)
	return NewTarget(strings.ToLower(label), AriaLabel(c.RowTag, label))
}

// Validate checks every target and enforces that identity lookups never
// depend on generated names.
func (c *Catalog) Validate() error {
	var errs []error

	all := []Target{c.Consent, c.Play, c.HelpDialog, c.CloseHelp, c.Board, c.BoardRow, c.Tile, c.Toast, c.Enter}
	for _, t := range all {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	for _, t := range []Target{c.Play, c.HelpDialog, c.CloseHelp, c.Enter} {
		for _, r := range t.Rules {
			if r.Strategy.Partial() {
				errs = append(errs, fmt.Errorf("target %q must not use partial strategy %s", t.Name, r.Strategy))
			}
		}
	}

	if err := checkFormat("key_label_format", c.KeyLabelFormat, "%s"); err != nil {
		errs = append(errs, err)
	}
	if err := checkFormat("row_label_format", c.RowLabelFormat, "%d"); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func checkFormat(field, format, verb string) error {
	if strings.Count(format, "%") != 1 || !strings.Contains(format, verb) {
		return fmt.Errorf("%s must contain exactly one %s verb, got %q", field, verb, format)
	}
	return nil
}
