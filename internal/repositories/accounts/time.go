package accounts

import "time"

// created_at is stored as unix seconds so scanning stays driver-agnostic.
func timeFromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
