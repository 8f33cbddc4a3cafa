// Package ui renders clusterwatch's terminal output.
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess  (green)  - healthy hosts, finished refreshes
//	ColorError    (red)    - unreachable hosts, failed refreshes
//	ColorWarning  (yellow) - failed checks, cooldowns, contention
//	ColorInfo     (cyan)   - informational notices
//	ColorMuted    (gray)   - addresses, timing
//
// Use DisableColors() for --no-color or non-terminal output.
//
// A Spinner marks a running refresh:
//
//	s := ui.NewSpinner(os.Stdout, "Refreshing gpu")
//	s.Start()
//	// ... run the playbook ...
//	s.Success("Refreshed gpu")
//
// When the writer is not a terminal the spinner prints its label once
// and only the final line afterwards.
package ui
