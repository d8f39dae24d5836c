package models

import "time"

// Message is a single chat line recorded from an IRC channel.
// Channel is stored with its leading "#".
type Message struct {
	ID          int64
	Timestamp   time.Time
	Channel     string
	User        string
	Content     string
	DisplayName string
}
