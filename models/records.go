package models

import "time"

// SearchRecord is an audit entry written after every availability search.
type SearchRecord struct {
	ID         string    `bson:"id" json:"id"`
	RequestID  string    `bson:"requestId,omitempty" json:"requestId,omitempty"`
	Mode       string    `bson:"mode" json:"mode"`
	LocationID string    `bson:"locationId" json:"locationId"`
	ServiceIDs []string  `bson:"serviceIds" json:"serviceIds"`
	Provider   string    `bson:"provider,omitempty" json:"provider,omitempty"`
	DateStart  string    `bson:"dateStart" json:"dateStart"`
	DateEnd    string    `bson:"dateEnd" json:"dateEnd"`
	Found      bool      `bson:"found" json:"found"`
	Results    int       `bson:"results" json:"results"`
	DurationMs int64     `bson:"durationMs" json:"durationMs"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
