package models

import "time"

// ProcessedRecord is a single classified road-condition observation.
type ProcessedRecord struct {
	ID        int64     `db:"id" json:"id"`
	RoadState string    `db:"road_state" json:"road_state"`
	UserID    int64     `db:"user_id" json:"user_id"`
	X         float64   `db:"x" json:"x"`
	Y         float64   `db:"y" json:"y"`
	Z         float64   `db:"z" json:"z"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}
