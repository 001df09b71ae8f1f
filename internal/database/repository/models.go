package repository

import "time"

// Session represents a session row.
type Session struct {
	ID        string
	CreatedAt time.Time
	TouchedAt time.Time
	Runs      int64
}

// Value represents a session_values row. Value holds the JSON encoding.
type Value struct {
	SessionID string
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// Download represents a file written by a download button.
type Download struct {
	ID        string
	SessionID string
	FileName  string
	MIME      string
	Size      int64
	Path      string
	CreatedAt time.Time
}
