package ppm

// Exclusions is the set of symbols ruled out while coding the current symbol.
// Symbols are only ever added; the whole set is cleared before the next symbol.
type Exclusions struct {
	excluded [256]bool
	count    int
}

func (e *Exclusions) Exclude(b byte) {
	if !e.excluded[b] {
		e.excluded[b] = true
		e.count++
	}
}

func (e *Exclusions) IsExcluded(b byte) bool {
	return e.excluded[b]
}

// Clear empties the set. It costs nothing when the set is already empty.
func (e *Exclusions) Clear() {
	if e.count == 0 {
		return
	}
	e.excluded = [256]bool{}
	e.count = 0
}

// Len returns the number of excluded symbols.
func (e *Exclusions) Len() int {
	return e.count
}
