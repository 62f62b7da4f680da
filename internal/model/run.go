package model

import "time"

// VerificationRun is a persisted verification batch kept for auditing.
type VerificationRun struct {
	CreatedAt time.Time   `json:"created_at"`
	ID        string      `json:"id"`
	Source    string      `json:"source"`
	Result    BatchResult `json:"result"`
	Threshold int         `json:"threshold"`
}
