package entity

// BotMark is the side the computer plays in ModeAI.
const BotMark = PlayerO

// Session is the state owned by one game caller: the board plus who moves, how, and whether play goes on.
type Session struct {
	ID          string     `json:"id"`
	Board       Board      `json:"board"`
	Turn        Mark       `json:"player_turn"`
	Mode        Mode       `json:"mode"`
	Difficulty  Difficulty `json:"difficulty"`
	Active      bool       `json:"active"`
	Outcome     Outcome    `json:"outcome"`
	WinningLine *Line      `json:"winning_line,omitempty"`
}

func NewSession(id string, mode Mode, difficulty Difficulty) *Session {
	session := &Session{
		ID:         id,
		Mode:       mode,
		Difficulty: difficulty,
	}
	session.Restart()

	return session
}

// Restart clears the board and hands the first move to X.
func (that *Session) Restart() {
	that.Board.Reset()
	that.Turn = PlayerX
	that.Active = true
	that.Outcome = Outcome{Result: ResultInProgress}
	that.WinningLine = nil
}

func (that *Session) IsWithBot() bool {
	return that.Mode == ModeAI
}

// IsBotTurn reports whether the computer has to move next.
func (that *Session) IsBotTurn() bool {
	return that.Active && that.IsWithBot() && that.Turn == BotMark
}
