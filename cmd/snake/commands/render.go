package commands

import (
	"errors"
	"fmt"

	"github.com/battlesnakeio/classic/rules"
	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	snakeColor   = termbox.ColorGreen
	headColor    = termbox.ColorYellow

	// a cell is two columns wide so the board looks square
	cellWidth = 2
	left      = 4
	top       = 1
)

// terminal draws the game with termbox. It implements worker.Renderer.
type terminal struct{}

func (terminal) DrawFrame(frame rules.Frame) error {
	return render(&frame)
}

func (terminal) ShowGameOver(score int) error {
	_, bottom := cellToScreen(0, rules.FieldWidth+1)
	tbprint(left, bottom+1, termbox.ColorRed, bgColor, fmt.Sprintf("Game Over! Your score: %d", score))
	tbprint(left, bottom+2, defaultColor, bgColor, "Press r to try again, esc to quit")
	return termbox.Flush()
}

func (terminal) ShowStartScreen() error {
	if err := termbox.Clear(defaultColor, bgColor); err != nil {
		return err
	}
	tbprint(left, top, snakeColor, bgColor, "Snake")
	tbprint(left, top+2, defaultColor, bgColor, "Use the arrow keys to steer, eat to grow.")
	tbprint(left, top+3, defaultColor, bgColor, "Press enter to start, esc to quit")
	return termbox.Flush()
}

func (terminal) HideStartScreen() error {
	if err := termbox.Clear(defaultColor, bgColor); err != nil {
		return err
	}
	return termbox.Flush()
}

func render(frame *rules.Frame) error {
	if frame == nil {
		return errors.New("received nil frame")
	}
	err := termbox.Clear(defaultColor, defaultColor)
	if err != nil {
		return err
	}

	renderTitle(frame)
	renderBoard()
	renderFood(frame.Food)
	for _, p := range rules.Parts(frame) {
		renderPart(p)
	}

	return termbox.Flush()
}

func cellToScreen(col, row int) (int, int) {
	return left + col*cellWidth, top + row
}

func renderTitle(frame *rules.Frame) {
	text := fmt.Sprintf("Snake - Score %d - Turn %d", frame.Score, frame.Turn)
	if frame.Death != nil {
		text = fmt.Sprintf("%s - %s", text, frame.Death.Cause)
	}
	tbprint(left, top, defaultColor, defaultColor, text)
}

// renderBoard frames the playable cells, the bottom edge follows the
// collision bound.
func renderBoard() {
	x0, y0 := cellToScreen(rules.OffsetX-1, rules.OffsetY-1)
	x1, y1 := cellToScreen(rules.FieldWidth+1, rules.FieldWidth+1)

	for y := y0 + 1; y < y1; y++ {
		termbox.SetCell(x0+1, y, '│', defaultColor, bgColor)
		termbox.SetCell(x1, y, '│', defaultColor, bgColor)
	}
	termbox.SetCell(x0+1, y0, '┌', defaultColor, bgColor)
	termbox.SetCell(x0+1, y1, '└', defaultColor, bgColor)
	termbox.SetCell(x1, y0, '┐', defaultColor, bgColor)
	termbox.SetCell(x1, y1, '┘', defaultColor, bgColor)

	fill(x0+2, y0, x1-x0-2, 1, termbox.Cell{Ch: '─'})
	fill(x0+2, y1, x1-x0-2, 1, termbox.Cell{Ch: '─'})
}

func renderFood(f rules.Food) {
	x, y := cellToScreen(f.Position.Cell())
	termbox.SetCell(x, y, foodRune(f.Sprite), defaultColor, bgColor)
}

func renderPart(p rules.Part) {
	x, y := cellToScreen(p.Position.Cell())
	r, color := partRune(p), snakeColor
	if p.Kind == rules.PartHead {
		color = headColor
	}
	termbox.SetCell(x, y, r, color, bgColor)
	if p.Kind == rules.PartBody && p.Sprite == rules.SpriteHorizontal {
		termbox.SetCell(x+1, y, r, color, bgColor)
	}
}

var foodRunes = map[string]rune{
	"apple":  '\U0001F34E',
	"banana": '\U0001F34C',
	"cherry": '\U0001F352',
	"mango":  '\U0001F96D',
	"orange": '\U0001F34A',
}

func foodRune(sprite string) rune {
	if r, ok := foodRunes[sprite]; ok {
		return r
	}
	return '*'
}

var (
	headRunes = map[rules.Direction]rune{
		rules.DirectionUp:    '▲',
		rules.DirectionDown:  '▼',
		rules.DirectionLeft:  '◀',
		rules.DirectionRight: '▶',
	}
	bodyRunes = map[rules.Sprite]rune{
		rules.SpriteVertical:      '│',
		rules.SpriteHorizontal:    '─',
		rules.SpriteTurnLeftUp:    '┘',
		rules.SpriteTurnLeftDown:  '┐',
		rules.SpriteTurnRightUp:   '└',
		rules.SpriteTurnRightDown: '┌',
	}
	tailRunes = map[rules.Direction]rune{
		rules.DirectionUp:    '╵',
		rules.DirectionDown:  '╷',
		rules.DirectionLeft:  '╴',
		rules.DirectionRight: '╶',
	}
)

func partRune(p rules.Part) rune {
	var (
		r  rune
		ok bool
	)
	switch p.Kind {
	case rules.PartHead:
		r, ok = headRunes[p.Direction]
	case rules.PartBody:
		r, ok = bodyRunes[p.Sprite]
	case rules.PartTail:
		r, ok = tailRunes[p.Direction]
	}
	if !ok {
		return '■'
	}
	return r
}

func fill(x, y, w, h int, cell termbox.Cell) {
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			termbox.SetCell(x+lx, y+ly, cell.Ch, cell.Fg, cell.Bg)
		}
	}
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}
