package game

// Board geometry. The board is a 100x100 square; paddles slide along Y on
// the left (Team 1) and right (Team 2) edges.
const (
	BoardSize        = 100.0
	CenterLine       = BoardSize / 2
	PaddleMin        = 0.0
	PaddleMax        = BoardSize
	PaddleStart      = 50.0
	PaddleHalfHeight = 10.0
	LeftContactX     = 2.0
	RightContactX    = BoardSize - LeftContactX
	BallSpeed        = 1.0

	BotStep     = 2.0
	BotDeadZone = 5.0

	MaxNameLength = 32
)
