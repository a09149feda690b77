// Package verify drives the on-screen keyboard and asserts on the state the
// page renders in response.
//
// There are three verification protocols (help dialog copy, board geometry
// and submission outcome) and one input protocol (typing a word through the
// letter keys and pressing enter). Input is only ever delivered through
// clicks on the page's own controls.
//
// The submission check is two-sided: the class fingerprint of the row and the
// toast text must agree on whether the word was rejected.
//
// Every failed comparison is an *AssertionError carrying the expected and
// observed values.
package verify
