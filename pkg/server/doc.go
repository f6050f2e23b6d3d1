// Package server hosts a dgrid in the browser.
//
// GET / renders the grid as a complete HTML page. The page opens a
// websocket to /ws; each connection gets its own grid.Grid, driven by a
// single session goroutine. The browser sends events addressed by
// hydration id:
//
//	{"hid": "h3", "event": "click", "value": ""}
//
// and the session answers every state change with the re-rendered grid:
//
//	{"html": "<div class=\"dgrid-widgets dgrid dgrid-grid\" ...>"}
//
// Protocol failures are reported as {"error": {...}} using the codes of
// the dgrid error registry.
//
// # Query Parameters
//
// Both / and /ws accept page, sort and desc, so a page link such as
// /?sort=name&desc=1&page=2 opens the same view over the live session.
//
// # Data Changes
//
// SetStore replaces the base store of every session. Watch reloads a data
// file with fsnotify and is typically wired to SetStore.
package server
