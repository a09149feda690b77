// Package browser owns the lifecycle of the browser sessions the harness
// drives, through Playwright.
//
// # Architecture
//
// A Launcher provisions the Playwright driver once per process and opens one
// Session per verification case. Sessions are never pooled or shared: each
// case gets a fresh browser, a fresh isolated context and a single page.
//
// # Launch configuration
//
// DefaultLaunchOptions returns the fixed capability set the harness runs
// under:
//
//   - automation sandbox disabled (--no-sandbox)
//   - shared-memory device disabled (--disable-dev-shm-usage)
//   - headless rendering
//   - isolated profile (a fresh non-persistent browser context)
//   - maximized window (--start-maximized, no fixed viewport)
//   - implicit wait of 20s applied as the page default timeout
//
// # Failure policy
//
// Anything that goes wrong while opening a session is reported as a
// *SetupError ("setup problem detected") and is never retried. Close is safe
// to call with a nil or already closed session.
//
// # Example Usage
//
//	launcher := browser.NewLauncher()
//	if err := launcher.Initialize(); err != nil {
//	    return err
//	}
//	defer launcher.Shutdown()
//
//	session, err := launcher.Open(ctx, browser.DefaultLaunchOptions())
//	defer launcher.Close(session)
package browser
