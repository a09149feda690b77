// Package harness runs the verification scenarios against the puzzle page.
//
// A Runner executes each Scenario in its own browser session:
//
//	open session → onboard → scenario steps → evidence (on failure) → close session
//
// Setup builds a Case holding the page, the help dialog and a state Tracker,
// and passes it to the scenario explicitly. Teardown is deferred as soon as
// the session exists, so it runs on every exit path. A close failure is
// recorded on the result and only becomes the primary error when the case
// had otherwise passed.
//
// Scenarios run strictly one after another. Cancelling the run context stops
// scheduling; it does not interrupt the scenario in flight.
//
// Results are collected into a RunSummary that the console Logger prints and
// the ArtifactWriter persists as run.json and summary.md.
package harness
