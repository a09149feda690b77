// Package locatortest provides an in-memory fake of the locator interfaces for
// exercising page logic without a browser.
//
// A fake page is a tree of Nodes. Instead of evaluating CSS, each node maps
// selector strings to the child nodes they match, so tests register exactly
// the selectors the code under test is expected to use. Handles resolve
// lazily like Playwright locators: mutating a node after a handle was created
// is visible through the handle.
package locatortest

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/wordleprobe/pkg/locator"
)

// ErrTimeout is returned by WaitFor when the state is not reached in time.
var ErrTimeout = errors.New("locatortest: timeout")

// DefaultTimeout is used by WaitFor and Click when given a zero timeout.
const DefaultTimeout = 50 * time.Millisecond

// Node is a fake DOM element.
type Node struct {
	Name string

	mu       sync.Mutex
	text     string
	attrs    map[string]string
	hidden   bool
	children map[string][]*Node
	clicks   int
	onClick  func(n *Node)
	clickErr error
}

// NewNode creates a visible node.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		attrs:    make(map[string]string),
		children: make(map[string][]*Node),
	}
}

// NewPage creates a root node to act as the page scope.
func NewPage() *Node {
	return NewNode("document")
}

// Add registers kids as the matches of selector under n and returns n.
func (n *Node) Add(selector string, kids ...*Node) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children[selector] = append(n.children[selector], kids...)
	return n
}

// Remove drops every match registered for selector.
func (n *Node) Remove(selector string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.children, selector)
}

// SetText sets the rendered text.
func (n *Node) SetText(text string) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.text = text
	return n
}

// SetAttr sets an attribute.
func (n *Node) SetAttr(name, value string) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attrs[name] = value
	return n
}

// SetHidden marks the node hidden or visible.
func (n *Node) SetHidden(hidden bool) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hidden = hidden
	return n
}

// OnClick installs a callback run after each successful click.
func (n *Node) OnClick(fn func(n *Node)) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onClick = fn
	return n
}

// FailClicks makes every click on the node return err.
func (n *Node) FailClicks(err error) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clickErr = err
	return n
}

// Clicks returns how many times the node was clicked.
func (n *Node) Clicks() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.clicks
}

// Attr returns an attribute value.
func (n *Node) Attr(name string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attrs[name]
}

func (n *Node) matches(selector string) []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*Node, len(n.children[selector]))
	copy(out, n.children[selector])
	return out
}

func (n *Node) isHidden() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hidden
}

// Locator implements locator.Scope.
func (n *Node) Locator(selector string) locator.Element {
	return &Set{
		desc: n.Name + " " + selector,
		resolve: func() []*Node {
			return n.matches(selector)
		},
	}
}

// Set is the fake locator.Element.
type Set struct {
	desc    string
	resolve func() []*Node
}

var _ locator.Element = (*Set)(nil)

func (s *Set) Locator(selector string) locator.Element {
	return &Set{
		desc: s.desc + " " + selector,
		resolve: func() []*Node {
			var out []*Node
			for _, p := range s.resolve() {
				out = append(out, p.matches(selector)...)
			}
			return out
		},
	}
}

func (s *Set) First() locator.Element {
	return &Set{
		desc: s.desc + " >> first",
		resolve: func() []*Node {
			nodes := s.resolve()
			if len(nodes) == 0 {
				return nil
			}
			return nodes[:1]
		},
	}
}

func (s *Set) Count() (int, error) {
	return len(s.resolve()), nil
}

func (s *Set) All() ([]locator.Element, error) {
	nodes := s.resolve()
	out := make([]locator.Element, 0, len(nodes))
	for i, node := range nodes {
		node := node
		out = append(out, &Set{
			desc:    fmt.Sprintf("%s >> nth=%d", s.desc, i),
			resolve: func() []*Node { return []*Node{node} },
		})
	}
	return out, nil
}

func (s *Set) WaitFor(state locator.WaitState, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	deadline := time.Now().Add(timeout)
	for {
		if s.reached(state) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s waiting for %s to be %s", ErrTimeout, timeout, s.desc, state)
		}
		time.Sleep(time.Millisecond)
	}
}

func (s *Set) reached(state locator.WaitState) bool {
	nodes := s.resolve()
	switch state {
	case locator.StateAttached:
		return len(nodes) > 0
	case locator.StateDetached:
		return len(nodes) == 0
	case locator.StateVisible:
		return len(nodes) > 0 && !nodes[0].isHidden()
	case locator.StateHidden:
		return len(nodes) == 0 || nodes[0].isHidden()
	}
	return false
}

func (s *Set) single() (*Node, error) {
	nodes := s.resolve()
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("%w: no element matches %s", ErrTimeout, s.desc)
	case 1:
		return nodes[0], nil
	default:
		return nil, fmt.Errorf("strict mode violation: %s resolved to %d elements", s.desc, len(nodes))
	}
}

func (s *Set) Click(timeout time.Duration) error {
	if err := s.WaitFor(locator.StateVisible, timeout); err != nil {
		return err
	}
	node, err := s.single()
	if err != nil {
		return err
	}

	node.mu.Lock()
	if node.clickErr != nil {
		err := node.clickErr
		node.mu.Unlock()
		return err
	}
	node.clicks++
	fn := node.onClick
	node.mu.Unlock()

	if fn != nil {
		fn(node)
	}
	return nil
}

func (s *Set) InnerText() (string, error) {
	node, err := s.single()
	if err != nil {
		return "", err
	}
	node.mu.Lock()
	defer node.mu.Unlock()
	return node.text, nil
}

func (s *Set) Attribute(name string) (string, error) {
	node, err := s.single()
	if err != nil {
		return "", err
	}
	return node.Attr(name), nil
}

func (s *Set) IsVisible() (bool, error) {
	nodes := s.resolve()
	return len(nodes) > 0 && !nodes[0].isHidden(), nil
}
