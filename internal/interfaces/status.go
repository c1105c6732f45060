package interfaces

// StatusSink receives progress notifications. Report must not block.
type StatusSink interface {
	Report(agent, ticker, status string)
}
