package entity

// Score holds the win/loss/draw tallies kept across games.
type Score struct {
	PlayerWins int64 `json:"player_wins"`
	AIWins     int64 `json:"ai_wins"`
	Draws      int64 `json:"draws"`
}
