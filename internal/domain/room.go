package domain

// Phase is the coarse stage of a room. Phases only move forward.
type Phase string

const (
	PhaseWaiting    Phase = "waiting"
	PhasePlacing    Phase = "placing"
	PhaseInProgress Phase = "in-progress"
	PhaseFinished   Phase = "finished"
)

var phaseRank = map[Phase]int{
	PhaseWaiting:    0,
	PhasePlacing:    1,
	PhaseInProgress: 2,
	PhaseFinished:   3,
}

// Before reports whether p comes strictly earlier than other.
func (p Phase) Before(other Phase) bool {
	return phaseRank[p] < phaseRank[other]
}

const DefaultBoardSize = 10

// BoardSizes lists the sizes a room may be created with.
var BoardSizes = []int{8, 10, 15}

func ValidBoardSize(n int) bool {
	for _, s := range BoardSizes {
		if s == n {
			return true
		}
	}
	return false
}

type Result string

const (
	ResultHit  Result = "hit"
	ResultMiss Result = "miss"
)

// Move is one entry of the append-only shot log.
type Move struct {
	By     ConnID `json:"by"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Result Result `json:"result"`
}
