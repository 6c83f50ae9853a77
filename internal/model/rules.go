package model

// Grid is the 8x8 board indexed [y][x]. A nil square is empty. Pieces are
// shared between copies since they are never modified in place.
type Grid [8][8]*Piece

func (g *Grid) at(p Position) *Piece {
	return g[p.y][p.x]
}

// apply plays move on a copy of g with capture semantics and returns the copy.
func (g *Grid) apply(move Move) Grid {
	next := *g
	next[move.To.y][move.To.x] = next[move.From.y][move.From.x]
	next[move.From.y][move.From.x] = nil
	return next
}

func (g *Grid) kingPosition(color Color) (Position, bool) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := g[y][x]; pc != nil && pc.Type == King && pc.Color == color {
				return Position{x: x, y: y}, true
			}
		}
	}
	return Position{}, false
}

// inCheck reports whether the king of color is attacked on g. Attacks are
// tested with the shape rules alone: the attacker's own king safety and whose
// turn it is do not matter. A board without that king is never in check.
func (g *Grid) inCheck(color Color) bool {
	king, ok := g.kingPosition(color)
	if !ok {
		return false
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pc := g[y][x]
			if pc == nil || pc.Color == color {
				continue
			}
			if g.validShape(Move{From: Position{x: x, y: y}, To: king}) {
				return true
			}
		}
	}
	return false
}

// validShape checks the piece specific movement and capture rules for the
// piece standing on move.From. It does not look at king safety.
func (g *Grid) validShape(move Move) bool {
	pc := g.at(move.From)
	if pc == nil {
		return false
	}
	switch pc.Type {
	case Pawn:
		return g.validPawnMove(move, pc.Color)
	case Rook:
		return g.validRookMove(move)
	case Knight:
		return g.validKnightMove(move, pc.Color)
	case Bishop:
		return g.validBishopMove(move)
	case Queen:
		return g.validRookMove(move) || g.validBishopMove(move)
	case King:
		return g.validKingMove(move, pc.Color)
	}
	return false
}

func pawnDirection(color Color) int {
	if color == White {
		return -1
	}
	return 1
}

func pawnStartRow(color Color) int {
	if color == White {
		return 6
	}
	return 1
}

func (g *Grid) validPawnMove(move Move, color Color) bool {
	dir := pawnDirection(color)
	from, to := move.From, move.To

	if from.x == to.x {
		if to.y == from.y+dir && g.at(to) == nil {
			return true
		}
		if from.y == pawnStartRow(color) && to.y == from.y+2*dir &&
			g.at(to) == nil && g[from.y+dir][from.x] == nil {
			return true
		}
	}

	if abs(to.x-from.x) == 1 && to.y == from.y+dir {
		target := g.at(to)
		return target != nil && target.Color != color
	}
	return false
}

func (g *Grid) validRookMove(move Move) bool {
	if move.From.x != move.To.x && move.From.y != move.To.y {
		return false
	}
	return g.pathClear(move.From, move.To)
}

func (g *Grid) validBishopMove(move Move) bool {
	if abs(move.To.x-move.From.x) != abs(move.To.y-move.From.y) {
		return false
	}
	return g.pathClear(move.From, move.To)
}

func (g *Grid) validKnightMove(move Move, color Color) bool {
	dx := abs(move.To.x - move.From.x)
	dy := abs(move.To.y - move.From.y)
	if !(dx == 1 && dy == 2 || dx == 2 && dy == 1) {
		return false
	}
	return !g.ownPiece(move.To, color)
}

func (g *Grid) validKingMove(move Move, color Color) bool {
	dx := abs(move.To.x - move.From.x)
	dy := abs(move.To.y - move.From.y)
	if dx > 1 || dy > 1 || dx == 0 && dy == 0 {
		return false
	}
	return !g.ownPiece(move.To, color)
}

// pathClear walks the squares strictly between from and to. The destination
// may be empty or hold an opposing piece, which makes the move a capture.
func (g *Grid) pathClear(from, to Position) bool {
	dx := sign(to.x - from.x)
	dy := sign(to.y - from.y)

	x, y := from.x+dx, from.y+dy
	for x != to.x || y != to.y {
		if g[y][x] != nil {
			return false
		}
		x += dx
		y += dy
	}

	mover := g.at(from)
	return mover != nil && !g.ownPiece(to, mover.Color)
}

func (g *Grid) ownPiece(p Position, color Color) bool {
	pc := g.at(p)
	return pc != nil && pc.Color == color
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
