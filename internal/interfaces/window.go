package interfaces

// Cell is one screen grid cell: a codepoint painted in foreground color
// on a background color, both packed 0xRRGGBB same as the guest-facing
// GPU/Screen color values.
type Cell struct {
	X, Y       int
	Codepoint  rune
	Foreground uint32
	Background uint32
}

// Window is the host-side render target a bound Screen paints into.
// termwindow.Window is the real terminal-backed implementation; a
// Screen also accepts a nil Window, which the component tests use.
type Window interface {
	Resize(w, h int)
	Blit(cells []Cell)
	Clear()
}
