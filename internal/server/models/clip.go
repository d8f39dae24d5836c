package models

import "time"

// Clip is a Twitch clip archived for a daily recap. CreatedAt holds the
// clip's broadcast date (day precision, recap timezone). StorageKey points
// at the archived media object in S3 and is empty until an upload happens.
type Clip struct {
	ID          int64
	CreatedAt   time.Time
	URL         string
	Title       string
	Channel     string
	CreatorName string
	StorageKey  string
}

// ClipAggregate carries per-clip bookkeeping kept outside the clip row.
type ClipAggregate struct {
	ID     int64
	Views  int64
	Author string
}
