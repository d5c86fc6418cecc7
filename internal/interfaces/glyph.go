package interfaces

// GlyphRasterizer turns a codepoint into a monochrome glyph bitmap. No
// production Window implementation needs this (terminal cells are
// already character-addressed) but it keeps the font-rendering boundary
// named and testable, the way the original's lazily-loaded TTF font did.
type GlyphRasterizer interface {
	Glyph(codepoint rune) (mask []bool, w, h int)
}
