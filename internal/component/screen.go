package component

import (
	"github.com/occore/occore/internal/interfaces"
	"github.com/occore/occore/internal/signal"
)

// cellGrid holds three parallel width*height grids (background,
// foreground, codepoint), flattened with index = y*width + x — the flat
// array spec.md's Design Notes recommend in place of the source's
// jagged `unsigned int**` buffers.
type cellGrid struct {
	width, height int
	bg, fg        []uint32
	ch            []rune
}

func newCellGrid(width, height int) *cellGrid {
	g := &cellGrid{width: width, height: height}
	g.bg = make([]uint32, width*height)
	g.fg = make([]uint32, width*height)
	g.ch = make([]rune, width*height)
	for i := range g.ch {
		g.ch[i] = ' '
	}
	return g
}

func (g *cellGrid) index(x, y int) (int, bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0, false
	}
	return y*g.width + x, true
}

// Screen is the host-side cell grid a GPU paints into (spec.md §4.6):
// resolution/viewport lifecycle, a keyboard list, and the bound window.
type Screen struct {
	address string
	name    string

	colorDepth       int
	maxWidth         int
	maxHeight        int
	ratioW, ratioH   int
	width, height    int
	viewportW        int
	viewportH        int
	keyboards        []string
	grid             *cellGrid
	window           interfaces.Window
	fontW, fontH     int
}

func NewScreen(address, name string, colorDepth, maxWidth, maxHeight, ratioW, ratioH int, keyboards []string, window interfaces.Window) *Screen {
	s := &Screen{
		address:    address,
		name:       name,
		colorDepth: colorDepth,
		maxWidth:   maxWidth,
		maxHeight:  maxHeight,
		ratioW:     ratioW,
		ratioH:     ratioH,
		keyboards:  append([]string(nil), keyboards...),
		window:     window,
		fontW:      8,
		fontH:      16,
	}
	s.resize(maxWidth, maxHeight)
	return s
}

func (s *Screen) Address() string { return s.address }
func (s *Screen) Name() string    { return s.name }
func (s *Screen) Type() string    { return "screen" }

func (s *Screen) Methods() []string { return []string{"getKeyboards"} }

func (s *Screen) Invoke(owner Owner, method string, args []signal.Value) ([]signal.Value, error) {
	switch method {
	case "getKeyboards":
		pairs := make([]signal.Pair, len(s.keyboards))
		for i, k := range s.keyboards {
			pairs[i] = signal.Pair{Key: signal.Number(float64(i + 1)), Value: signal.String(k)}
		}
		return []signal.Value{signal.Table(pairs)}, nil
	default:
		return nil, NewGuestError("screen: no such method: %s", method)
	}
}

// resize reallocates the grids and the host window. Contents after
// resize are undefined (matching the original): the guest repaints.
func (s *Screen) resize(w, h int) {
	s.width, s.height = w, h
	s.viewportW, s.viewportH = w, h
	s.grid = newCellGrid(w, h)
	if s.window != nil {
		s.window.Resize(w*s.fontW, h*s.fontH)
		s.window.Clear()
	}
}

func (s *Screen) MaxWidth() int  { return s.maxWidth }
func (s *Screen) MaxHeight() int { return s.maxHeight }
func (s *Screen) Width() int     { return s.width }
func (s *Screen) Height() int    { return s.height }

func (s *Screen) SetCell(x, y int, bg, fg uint32, ch rune) bool {
	idx, ok := s.grid.index(x, y)
	if !ok {
		return false
	}
	s.grid.bg[idx] = bg
	s.grid.fg[idx] = fg
	s.grid.ch[idx] = ch
	return true
}

func (s *Screen) Cell(x, y int) (bg, fg uint32, ch rune, ok bool) {
	idx, within := s.grid.index(x, y)
	if !within {
		return 0, 0, 0, false
	}
	return s.grid.bg[idx], s.grid.fg[idx], s.grid.ch[idx], true
}

// Update flushes pending cell paints to the host window, matching
// Screen::update()'s SDL blit loop.
func (s *Screen) Update() {
	if s.window == nil {
		return
	}
	cells := make([]interfaces.Cell, 0, len(s.grid.ch))
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			idx, _ := s.grid.index(x, y)
			cells = append(cells, interfaces.Cell{
				X: x, Y: y,
				Codepoint:  s.grid.ch[idx],
				Foreground: s.grid.fg[idx],
				Background: s.grid.bg[idx],
			})
		}
	}
	s.window.Blit(cells)
}
