// Package tui is a terminal front end for a dgrid. It drives the same
// grid.Grid the browser host uses, so sorting and paging behave the same.
package tui
