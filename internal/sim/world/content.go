package world

// Content is what a cell holds: Empty, or a token with a power-of-two
// value. The doubling combine rule keeps every reachable value a power
// of two; ValidContent enforces that on untrusted input.
type Content int

const Empty Content = 0

func (c Content) IsToken() bool { return c > 0 }

func ValidContent(c Content) bool {
	if c == Empty {
		return true
	}
	return c > 0 && c&(c-1) == 0
}
