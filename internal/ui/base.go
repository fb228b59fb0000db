// Package ui holds pieces shared by the terminal UI components.
package ui

// Base tracks focus and size for a component. Embed it in component models.
type Base struct {
	width, height int
	focused       bool
}

// SetFocused sets whether the component has keyboard focus.
func (b *Base) SetFocused(focused bool) { b.focused = focused }

// IsFocused reports whether the component has keyboard focus.
func (b Base) IsFocused() bool { return b.focused }

// SetSize sets the outer dimensions, borders included.
func (b *Base) SetSize(width, height int) {
	b.width = max(width, 0)
	b.height = max(height, 0)
}

// Width returns the outer width.
func (b Base) Width() int { return b.width }

// Height returns the outer height.
func (b Base) Height() int { return b.height }

// InnerHeight returns the rows left after overhead, never negative.
func (b Base) InnerHeight(overhead int) int { return max(b.height-overhead, 0) }
