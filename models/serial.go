package models

import "time"

// SerialPoolEntry is a serial number released by a deleted invoice and
// waiting to be reused.
type SerialPoolEntry struct {
	Number    int       `json:"number"`
	Available bool      `json:"available"`
	DeletedAt time.Time `json:"deletedAt"`
}
