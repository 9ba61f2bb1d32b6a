package cache

import "time"

// Run is one recorded digest run. Articles themselves are never stored.
type Run struct {
	ID      int64
	RanAt   time.Time
	City    string
	Fetched int
	Fresh   int
	Shown   int
	Status  string
	Error   string
}
