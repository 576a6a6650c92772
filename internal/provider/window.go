package provider

import "time"

// Window is a closed time range for candle requests.
type Window struct {
	From time.Time
	To   time.Time
}

// LastDays returns the window covering the days before now.
func LastDays(days int, now time.Time) Window {
	return Window{From: now.AddDate(0, 0, -days), To: now}
}
