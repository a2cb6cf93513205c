package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

// MascotMood selects which mascot art to display.
type MascotMood int

const (
	MascotIdle     MascotMood = iota // Headlights on
	MascotThinking                   // Waiting on the backend
	MascotProud                      // Just scored
	MascotOops                       // Something failed
)

const mascotIdle = `   ______
  /|_||_\'.__
 (  ◉  _   ◉ _\
 =´-(_)----(_)-´`

const mascotThinking = `   ______   ?
  /|_||_\'.__
 (  ◔  _   ◔ _\
 =´-(_)----(_)-´`

const mascotProud = `   ______   ★
  /|_||_\'.__
 (  ★  ‿   ★ _\
 =´-(_)----(_)-´`

const mascotOops = `   ______   !
  /|_||_\'.__
 (  ×  ︵  × _\
 =´-(_)----(_)-´`

// Mascot returns the car mascot art for mood.
func Mascot(mood MascotMood) string {
	art := mascotIdle
	fg := theme.Primary

	switch mood {
	case MascotThinking:
		art = mascotThinking
		fg = theme.ArcadeCyan
	case MascotProud:
		art = mascotProud
		fg = theme.ArcadeYellow
	case MascotOops:
		art = mascotOops
		fg = theme.Error
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
