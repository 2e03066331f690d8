// Package display implements the dashboard's display collaborators.
//
// TUI is a bubbletea program that draws each frame full-screen: a header
// with the host position and snapshot age, the host band, and one row per
// problem colored by severity. Key presses are forwarded to Handlers so the
// keyboard can stand in for the physical buttons.
//
// LogDisplay writes frames as log records for headless runs.
package display
