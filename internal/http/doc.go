// Package http provides an optional preview API for header and navigation
// rendering.
//
// Routes mount under the configured base path (empty by default):
//   - Header markup: GET /header
//   - Resolved header description: GET /header/spec
//   - Navbar markup: GET /nav
//   - Mainsite menu cache: POST /nav/refresh, DELETE /nav/cache
//
// Requests describe the queried object with query parameters, see
// query.ParseValues. Host applications can register the handlers on their own
// mux instead.
package http
