// Package ui holds the terminal presentation helpers shared by the
// one-shot commands (check, init, config): the semantic color palette,
// status symbols, a line spinner, and the problem table.
//
// The full-screen dashboard lives in internal/display.
package ui
