package ui

// Unicode symbols for status lines.
const (
	SymbolSuccess = "✓"
	SymbolFail    = "✗"
	SymbolWarning = "!"
	SymbolPending = "○"
)
