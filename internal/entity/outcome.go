package entity

type Result string

const (
	ResultInProgress Result = "in_progress"
	ResultWin        Result = "win"
	ResultDraw       Result = "draw"
)

// Outcome is derived from a board; Winner is set only for ResultWin.
type Outcome struct {
	Result Result `json:"result"`
	Winner Mark   `json:"winner,omitempty"`
}

func (that Outcome) IsTerminal() bool {
	return that.Result != ResultInProgress
}

func (that Outcome) IsWin() bool {
	return that.Result == ResultWin
}

func (that Outcome) IsDraw() bool {
	return that.Result == ResultDraw
}
