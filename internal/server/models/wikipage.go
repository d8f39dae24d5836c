package models

import "time"

type WikiPage struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
}
