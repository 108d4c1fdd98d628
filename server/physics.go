package server

import "math"

// randSource 随机源；*rand.Rand 满足该接口，测试可注入确定序列
type randSource interface {
	Float64() float64
}

// stepResult 单个 Tick 内发生的离散事件，供指标统计
type stepResult struct {
	PaddleHits int
	Scorer     Slot // 空表示本 Tick 无进球
}

// step 推进一个 Tick：移动 → 上下墙反弹 → 球拍碰撞 → 得分判定
// players 按座位下标存放，空位为 nil
func step(ball *Ball, players *[2]*Player, rng randSource) stepResult {
	var res stepResult

	ball.X += ball.DX
	ball.Y += ball.DY

	// 上下墙：钳制到边界并让 dy 指离墙面
	if ball.Y <= 0 {
		ball.Y = 0
		ball.DY = math.Abs(ball.DY)
	} else if ball.Y >= CanvasHeight {
		ball.Y = CanvasHeight
		ball.DY = -math.Abs(ball.DY)
	}

	if p := players[SlotFirst.index()]; p != nil {
		if ball.X >= paddleInset && ball.X <= paddleInset+PaddleWidth &&
			ball.Y >= p.Y && ball.Y <= p.Y+PaddleHeight {
			ball.DX = math.Abs(ball.DX) * speedUp
			ball.DY *= speedUp
			ball.X = paddleInset + PaddleWidth + 1
			res.PaddleHits++
		}
	}

	if p := players[SlotSecond.index()]; p != nil {
		left := CanvasWidth - paddleInset - PaddleWidth
		if ball.X >= left && ball.X <= CanvasWidth-paddleInset &&
			ball.Y >= p.Y && ball.Y <= p.Y+PaddleHeight {
			ball.DX = -math.Abs(ball.DX) * speedUp
			ball.DY *= speedUp
			ball.X = left - 1
			res.PaddleHits++
		}
	}

	switch {
	case ball.X < 0:
		res.Scorer = SlotSecond
	case ball.X > CanvasWidth:
		res.Scorer = SlotFirst
	}
	if res.Scorer != "" {
		if p := players[res.Scorer.index()]; p != nil {
			p.Score++
		}
		serve(ball, rng)
	}
	return res
}

// serve 发球：回到中心，dx = ±BallSpeed，dy 在 [-4, 4) 内且不为 0
func serve(ball *Ball, rng randSource) {
	ball.X = CanvasWidth / 2
	ball.Y = CanvasHeight / 2
	if rng.Float64() > 0.5 {
		ball.DX = BallSpeed
	} else {
		ball.DX = -BallSpeed
	}
	ball.DY = (rng.Float64() - 0.5) * serveSpreadY
	if ball.DY == 0 {
		ball.DY = serveSpreadY / 4
	}
	ball.Speed = BallSpeed
}
