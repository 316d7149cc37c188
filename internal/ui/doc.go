// Package ui provides styled terminal output for aidline's one-shot commands.
//
// This package renders headers, success boxes, and error boxes using lipgloss
// styles, for commands that print a result and exit (submit, locate, track).
// The interactive request form lives in the tui package; this package covers
// everything that does not need an event loop.
//
// The Printer type is the main entry point:
//
//	p := ui.NewPrinter(nil) // writes to stdout
//	p.PrintHeader("Ambulance Request", "aidline submit", params)
//	p.PrintSuccess("Request accepted", details)
//
// Error boxes carry fallback instructions so a user whose submission failed
// always sees the emergency number to call instead.
package ui
