package results

// NoticeMsg reports the outcome of a copy or export for the status bar.
type NoticeMsg struct {
	Text string
}
