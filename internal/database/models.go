package database

// MatchResult is one finished match as stored in the results table.
type MatchResult struct {
	ID            string `json:"id"`
	CreatedAt     string `json:"created_at"`
	Player        string `json:"player"`
	Opponent      string `json:"opponent"`
	PlayerScore   int    `json:"player_score"`
	OpponentScore int    `json:"opponent_score"`
	Winner        string `json:"winner"`
	HandsPlayed   int    `json:"hands_played"`
}
