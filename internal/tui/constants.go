package tui

import "time"

const (
	// DialogWidth is the width of the framed dialog, borders included
	DialogWidth = 44

	// DialogPadding is the inner horizontal padding of the dialog frame
	DialogPadding = 2

	// MinFlushInterval keeps a misconfigured interval from spinning the loop
	MinFlushInterval = time.Second
)
