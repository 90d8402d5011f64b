package service

import (
	leaderboardDto "github.com/alumnihub/pointsledger/internal/modules/leaderboard/dto"
	ledgerRepo "github.com/alumnihub/pointsledger/internal/modules/ledger/repository"
)

// assignRanks converts summed totals (already ordered by points descending)
// into entries with competition ranks: ties share a rank, and the rank after
// a tie equals 1 + the count of strictly higher totals, so gaps appear after
// ties ([50, 50, 30] -> [1, 1, 3]).
func assignRanks(totals []ledgerRepo.MemberTotal) []leaderboardDto.Entry {
	entries := make([]leaderboardDto.Entry, 0, len(totals))

	rank := 0
	prevPoints := 0
	for i, t := range totals {
		if i == 0 || t.Points != prevPoints {
			rank = i + 1
			prevPoints = t.Points
		}

		entries = append(entries, leaderboardDto.Entry{
			MemberID:    t.MemberID,
			DisplayName: t.DisplayName,
			Points:      t.Points,
			Rank:        rank,
		})
	}

	return entries
}
