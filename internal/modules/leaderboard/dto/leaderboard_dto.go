package dto

import "github.com/google/uuid"

// Entry is a single ranked row. Rank follows standard competition ranking:
// tied totals share a rank and the next distinct total's rank skips the tied
// count (1, 1, 3, ...). Members with zero credits in the window are absent.
type Entry struct {
	MemberID    uuid.UUID `json:"member_id"`
	DisplayName string    `json:"display_name"`
	Points      int       `json:"points"`
	Rank        int       `json:"rank"`
	IsRequester bool      `json:"is_requester"`
}
