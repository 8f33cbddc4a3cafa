// Package cli implements the clusterwatch command-line interface.
//
// Commands are built by NewRootCmd so each invocation, and each test,
// gets a fresh tree:
//
//	clusterwatch refresh [category]  - Refresh one category, honoring the cooldown
//	clusterwatch status              - Cooldowns, lock holder and saved host health
//	clusterwatch hosts               - The host reference table by location
//	clusterwatch doctor              - Check config, ansible and the state directory
//	clusterwatch monitor             - Live dashboard, refresh from the keyboard
//	clusterwatch version             - Build information
//
// Every command loads .clusterwatch.yaml (see internal/config), wires a
// refresh.Coordinator over the shared state directory and renders the
// result with internal/ui.
//
// # Exit codes
//
//	0  success, including degraded refreshes that saved partial results
//	1  failure (config, collector, state)
//	2  try again later (cooldown active, lock held, lost the cooldown race)
package cli
