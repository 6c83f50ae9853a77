package model

type Player struct {
	ID string
}

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color PlayerColor `json:"color"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
	// PlayerColorBoth is reported to the owner of a local game.
	PlayerColorBoth PlayerColor = "both"
)

func (c PlayerColor) Color() Color {
	return Color(c)
}

// Seats records who plays which side. In a local game the same id holds both.
type Seats struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (s *Seats) colorsOf(playerID string) []Color {
	colors := []Color{}
	if playerID == "" {
		return colors
	}
	if s.White.ID == playerID {
		colors = append(colors, White)
	}
	if s.Black.ID == playerID {
		colors = append(colors, Black)
	}
	return colors
}

func (s *Seats) plays(playerID string, color Color) bool {
	for _, c := range s.colorsOf(playerID) {
		if c == color {
			return true
		}
	}
	return false
}

func (s *Seats) full() bool {
	return s.White.ID != "" && s.Black.ID != ""
}
