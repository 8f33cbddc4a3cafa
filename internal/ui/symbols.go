package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess     = "✓" // Refresh finished
	SymbolFail        = "✗" // Refresh failed
	SymbolPending     = "○" // Not yet refreshed
	SymbolComplete    = "●" // Healthy host
	SymbolSkipped     = "⊘" // Refresh skipped (cooldown, contention)
	SymbolWarning     = "▲" // Host failed a check
	SymbolUnreachable = "✗" // Host did not answer
)

// StatusSymbol returns the symbol for a host status.
func StatusSymbol(status string) string {
	switch status {
	case "healthy":
		return SymbolComplete
	case "failed":
		return SymbolWarning
	case "unreachable":
		return SymbolUnreachable
	default:
		return SymbolPending
	}
}
