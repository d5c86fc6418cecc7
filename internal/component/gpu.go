package component

import (
	"unicode/utf8"

	"github.com/occore/occore/internal/signal"
)

// Gpu paints into a bound Screen: two colour registers and block
// operations (spec.md §4.7), grounded on components.cpp's Gpu::invoke.
type Gpu struct {
	address string
	name    string

	colorDepth int
	maxWidth   int
	maxHeight  int

	background uint32
	foreground uint32

	bound *Screen
}

func NewGpu(address, name string, colorDepth, maxWidth, maxHeight int) *Gpu {
	return &Gpu{
		address:    address,
		name:       name,
		colorDepth: colorDepth,
		maxWidth:   maxWidth,
		maxHeight:  maxHeight,
		background: 0x000000,
		foreground: 0xFFFFFF,
	}
}

func (g *Gpu) Address() string { return g.address }
func (g *Gpu) Name() string    { return g.name }
func (g *Gpu) Type() string    { return "gpu" }

func (g *Gpu) Methods() []string {
	return []string{
		"bind", "getResolution", "setResolution", "maxResolution",
		"getViewport", "setViewport", "getDepth", "maxDepth", "setDepth",
		"setBackground", "setForeground", "getBackground", "getForeground",
		"fill", "set", "get", "copy", "getScreen",
	}
}

// alwaysAllowedUnbound lists the methods spec.md §3's invariant permits
// on an unbound GPU, plus the supplemented getScreen.
var alwaysAllowedUnbound = map[string]bool{
	"bind": true, "maxResolution": true, "getDepth": true, "maxDepth": true,
	"setDepth": true, "getBackground": true, "getForeground": true,
	"setBackground": true, "setForeground": true, "getScreen": true,
}

func (g *Gpu) Invoke(owner Owner, method string, args []signal.Value) ([]signal.Value, error) {
	if g.bound == nil && !alwaysAllowedUnbound[method] {
		return nil, NewGuestError("gpu: no screen bound")
	}

	switch method {
	case "bind":
		return g.bind(owner, args)
	case "getResolution":
		return []signal.Value{signal.Number(float64(g.bound.Width())), signal.Number(float64(g.bound.Height()))}, nil
	case "setResolution":
		return g.setResolution(args)
	case "maxResolution":
		return g.maxResolution()
	case "getViewport":
		return []signal.Value{signal.Number(float64(g.bound.viewportW)), signal.Number(float64(g.bound.viewportH))}, nil
	case "setViewport":
		return g.setViewport(args)
	case "getDepth":
		return []signal.Value{signal.Number(float64(g.colorDepth))}, nil
	case "maxDepth":
		return []signal.Value{signal.Number(float64(g.colorDepth))}, nil
	case "setDepth":
		if len(args) > 0 && args[0].Kind == signal.KindNumber {
			g.colorDepth = int(args[0].Num)
		}
		return []signal.Value{signal.Bool(true)}, nil
	case "setBackground":
		return g.setColor(&g.background, args)
	case "setForeground":
		return g.setColor(&g.foreground, args)
	case "getBackground":
		return []signal.Value{signal.Number(float64(g.background))}, nil
	case "getForeground":
		return []signal.Value{signal.Number(float64(g.foreground))}, nil
	case "fill":
		return g.fill(args)
	case "set":
		return g.set(args)
	case "get":
		return g.get(args)
	case "copy":
		return g.copy(args)
	case "getScreen":
		if g.bound == nil {
			return nil, nil
		}
		return []signal.Value{signal.String(g.bound.Address())}, nil
	default:
		return nil, NewGuestError("gpu: no such method: %s", method)
	}
}

func (g *Gpu) bind(owner Owner, args []signal.Value) ([]signal.Value, error) {
	addr, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	resolver, ok := owner.(ComponentResolver)
	if !ok {
		return []signal.Value{signal.Bool(false), signal.String("no such component")}, nil
	}
	target, found := resolver.ResolveComponent(addr)
	if !found {
		return []signal.Value{signal.Bool(false), signal.String("no such component")}, nil
	}
	screen, isScreen := target.(*Screen)
	if !isScreen {
		return []signal.Value{signal.Bool(false), signal.String("component is not a screen")}, nil
	}
	g.bound = screen
	return []signal.Value{signal.Bool(true)}, nil
}

// ComponentResolver lets a GPU's bind method resolve a sibling
// component's address without internal/component importing
// internal/machine. machine.Computer implements both Owner and this.
type ComponentResolver interface {
	ResolveComponent(addr string) (Component, bool)
}

func (g *Gpu) maxResolution() ([]signal.Value, error) {
	mw, mh := g.maxWidth, g.maxHeight
	if g.bound != nil {
		if g.bound.MaxWidth() < mw {
			mw = g.bound.MaxWidth()
		}
		if g.bound.MaxHeight() < mh {
			mh = g.bound.MaxHeight()
		}
	}
	return []signal.Value{signal.Number(float64(mw)), signal.Number(float64(mh))}, nil
}

func (g *Gpu) setResolution(args []signal.Value) ([]signal.Value, error) {
	w, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	h, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	maxRes, _ := g.maxResolution()
	maxW, maxH := maxRes[0].Num, maxRes[1].Num
	if w < 1 || h < 1 || w > maxW || h > maxH {
		return nil, NewGuestError("gpu: resolution out of range")
	}
	if int(w) == g.bound.Width() && int(h) == g.bound.Height() {
		return []signal.Value{signal.Bool(false)}, nil
	}
	g.bound.resize(int(w), int(h))
	return []signal.Value{signal.Bool(true)}, nil
}

// setViewport accepts viewports larger than the resolution without
// rejecting them (spec.md §9 open question (b)); the original's
// setViewport happens to also reallocate the grid via update_size,
// which we do not replicate since it would destroy painted content for
// no guest-visible benefit beyond what changing the viewport itself
// already implies.
func (g *Gpu) setViewport(args []signal.Value) ([]signal.Value, error) {
	w, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	h, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	g.bound.viewportW = int(w)
	g.bound.viewportH = int(h)
	return []signal.Value{signal.Bool(true)}, nil
}

func (g *Gpu) setColor(reg *uint32, args []signal.Value) ([]signal.Value, error) {
	c, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	palette := len(args) > 1 && args[1].Kind == signal.KindBool && args[1].Bool
	if palette {
		return nil, NewGuestError("palette is not implemented yet")
	}
	old := *reg
	*reg = uint32(int64(c))
	return []signal.Value{signal.Number(float64(old))}, nil
}

func (g *Gpu) fill(args []signal.Value) ([]signal.Value, error) {
	x, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	y, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	w, err := argNumber(args, 2)
	if err != nil {
		return nil, err
	}
	h, err := argNumber(args, 3)
	if err != nil {
		return nil, err
	}
	s, err := argString(args, 4)
	if err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, NewGuestError("gpu: fill: empty fill string")
	}
	ch, _ := utf8.DecodeRuneInString(s)

	x0, y0 := int(x)-1, int(y)-1
	iw, ih := int(w), int(h)
	if x0 < 0 || y0 < 0 || x0+iw > g.bound.Width() || y0+ih > g.bound.Height() {
		return []signal.Value{signal.Bool(false)}, nil
	}
	for dy := 0; dy < ih; dy++ {
		for dx := 0; dx < iw; dx++ {
			g.bound.SetCell(x0+dx, y0+dy, g.background, g.foreground, ch)
		}
	}
	g.bound.Update()
	return []signal.Value{signal.Bool(true)}, nil
}

func (g *Gpu) set(args []signal.Value) ([]signal.Value, error) {
	x, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	y, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	s, err := argString(args, 2)
	if err != nil {
		return nil, err
	}
	vertical := len(args) > 3 && args[3].Kind == signal.KindBool && args[3].Bool

	x0, y0 := int(x)-1, int(y)-1
	ok := true
	idx := 0
	for _, r := range s {
		var px, py int
		if vertical {
			px, py = x0, y0+idx
		} else {
			px, py = x0+idx, y0
		}
		if !g.bound.SetCell(px, py, g.background, g.foreground, r) {
			ok = false
			break
		}
		idx++
	}
	g.bound.Update()
	return []signal.Value{signal.Bool(ok)}, nil
}

func (g *Gpu) get(args []signal.Value) ([]signal.Value, error) {
	x, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	y, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	bg, fg, ch, ok := g.bound.Cell(int(x)-1, int(y)-1)
	if !ok {
		return nil, NewGuestError("coordinates out of bounds")
	}
	return []signal.Value{signal.String(string(ch)), signal.Number(float64(fg)), signal.Number(float64(bg))}, nil
}

func (g *Gpu) copy(args []signal.Value) ([]signal.Value, error) {
	x, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	y, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	w, err := argNumber(args, 2)
	if err != nil {
		return nil, err
	}
	h, err := argNumber(args, 3)
	if err != nil {
		return nil, err
	}
	dx, err := argNumber(args, 4)
	if err != nil {
		return nil, err
	}
	dy, err := argNumber(args, 5)
	if err != nil {
		return nil, err
	}

	x0, y0 := int(x)-1, int(y)-1
	iw, ih := int(w), int(h)
	offX, offY := int(dx), int(dy)

	// Snapshot the source rectangle before writing any destination cell,
	// so overlapping copies (spec.md Testable Property 4) read the
	// pre-copy state rather than cells this same call already wrote.
	type snap struct {
		x, y       int
		bg, fg     uint32
		ch         rune
	}
	var cells []snap
	for sy := y0; sy < y0+ih; sy++ {
		for sx := x0; sx < x0+iw; sx++ {
			bg, fg, ch, ok := g.bound.Cell(sx, sy)
			if !ok {
				continue
			}
			cells = append(cells, snap{x: sx + offX, y: sy + offY, bg: bg, fg: fg, ch: ch})
		}
	}

	wrote := false
	for _, c := range cells {
		if g.bound.SetCell(c.x, c.y, c.bg, c.fg, c.ch) {
			wrote = true
		}
	}
	if wrote {
		g.bound.Update()
	}
	return []signal.Value{signal.Bool(wrote)}, nil
}
