package model

import (
	"encoding/json"
	"time"
)

// ScoreRecord catalogues one converted score.
type ScoreRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Composers []string  `json:"composers,omitempty"`
	Parts     int       `json:"parts"`
	Notes     int       `json:"notes"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type ConvertResponse struct {
	ID          string          `json:"id"`
	Composition json.RawMessage `json:"composition"`
}

type RecordsResponse struct {
	Records []ScoreRecord `json:"records"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
	Kind  string `json:"kind,omitempty"`
}
