// Package ui provides terminal UI components for the unifi-discovery CLI.
//
// This package uses Bubble Tea and Lipgloss to render scan output. Two
// modes are supported:
//
//   - One-shot rendering: RenderDeviceTable and RenderDeviceDetail turn
//     scan results into styled, aligned text for plain command output.
//   - Live view: RunLiveScan drives a scan behind a spinner with an
//     incrementally growing device list, quitting automatically when the
//     scan finishes or when the user presses q.
//
// The package deliberately knows nothing about how scans run; the caller
// hands RunLiveScan a closure and wires the per-device callback into it.
package ui
