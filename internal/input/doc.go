// Package input provides the board.Pin implementations behind the refresh
// and advance buttons: virtual pins pressed from the keyboard, and physical
// buttons wired to a Modbus TCP I/O module.
package input
