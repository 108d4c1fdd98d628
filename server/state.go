package server

import "math"

const (
	CanvasWidth  = 800.0
	CanvasHeight = 600.0
	PaddleWidth  = 10.0
	PaddleHeight = 100.0

	// paddleInset 球拍距左右边界的距离
	paddleInset = 20.0
	// BallSpeed 发球基准速度
	BallSpeed = 5.0
	// speedUp 每次击球后速度放大倍数（不封顶）
	speedUp = 1.1
	// serveSpreadY 发球时纵向速度范围 [-serveSpreadY/2, serveSpreadY/2)
	serveSpreadY = 8.0
)

// Ball 共享的球
type Ball struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	Speed float64 `json:"speed"`
}

// GameState 下发给客户端的完整快照
type GameState struct {
	Ball         Ball                 `json:"ball"`
	Players      map[Slot]PlayerState `json:"players"`
	Scores       map[Slot]int         `json:"scores"`
	PaddleHeight float64              `json:"paddleHeight"`
	PaddleWidth  float64              `json:"paddleWidth"`
	CanvasWidth  float64              `json:"canvasWidth"`
	CanvasHeight float64              `json:"canvasHeight"`
	IsPlaying    bool                 `json:"isPlaying"`
}

// newBall 房间创建时的初始球：居中，向右下方
func newBall() Ball {
	return Ball{
		X:     CanvasWidth / 2,
		Y:     CanvasHeight / 2,
		DX:    BallSpeed,
		DY:    BallSpeed,
		Speed: BallSpeed,
	}
}

// centerPaddle 球拍垂直居中时的上沿位置
func centerPaddle() float64 {
	return CanvasHeight/2 - PaddleHeight/2
}

// clampPaddle 把球拍上沿限制在 [0, CanvasHeight-PaddleHeight]
func clampPaddle(y float64) float64 {
	if math.IsNaN(y) || y < 0 {
		return 0
	}
	if y > CanvasHeight-PaddleHeight {
		return CanvasHeight - PaddleHeight
	}
	return y
}
