// Package types contains common wire types used across the application
package types

// Observation mirrors the JSON schema for one measurement in POST /score.
// Value is a pointer so a missing field can be told apart from zero.
type Observation struct {
	Type  string `json:"type"`
	Value *int   `json:"value"`
}

// ScoreResponse is the success payload for POST /score.
type ScoreResponse struct {
	Score int `json:"score"`
}
