package domain

import "time"

const timestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders a unix-millisecond timestamp in the layout used by
// every serialized record.
func FormatTimestamp(ts int64) string {
	return time.UnixMilli(ts).Format(timestampLayout)
}
