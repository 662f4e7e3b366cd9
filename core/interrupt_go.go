//go:build !tinygo

package core

// State stands in for the saved interrupt mask when running under regular Go
type State uintptr

// disableInterrupts is a no-op on regular Go: the simulated bank has no ISRs
func disableInterrupts() State {
	return 0
}

// restoreInterrupts is a no-op on regular Go
func restoreInterrupts(state State) {
}
