// Package locator resolves semantic element descriptions on the page under
// test into concrete DOM queries.
//
// Lookups are ranked by how stable the underlying attribute is across
// deployments of the page:
//
//  1. ByID: a fixed element id (help dialog)
//  2. ByTestID: a data-testid attribute (primary navigation)
//  3. ByAriaLabel: an accessible label (keyboard keys, row identity, close button)
//  4. ByClassContains / ByIDPrefix: a stable substring of a generated class
//     name or id (board, rows, tiles, toast container)
//
// The page's whole element contract lives in a Catalog. When the page's build
// tooling changes how it mangles class names only the rank 4 rules in the
// catalog need to change, and the catalog can be overridden from config.
//
// A lookup either returns the element (or the ordered set of elements) or
// fails with a *NotFoundError; callers never continue with a missing element.
package locator
