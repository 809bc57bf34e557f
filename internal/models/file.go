package models

import "time"

// QuestionFile is a raw question file cached for re-ingestion.
type QuestionFile struct {
	Filename   string    `json:"filename"`
	Payload    []byte    `json:"payload,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Setting is a single persisted key/value setting.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
