package entity

// AdjacentKind identifies what an Adjacent pointer refers to.
type AdjacentKind int

const (
	// AdjacentNone means there is nothing in that direction.
	AdjacentNone AdjacentKind = iota
	// AdjacentPageIndex points at another page of the same condition.
	AdjacentPageIndex
	// AdjacentOtherCondition points at page 1 of a different condition.
	AdjacentOtherCondition
)

// Adjacent is the next or previous pointer of a Page. It holds either nothing,
// a page index of the same condition, or a different condition, never two of them.
type Adjacent struct {
	kind      AdjacentKind
	index     int
	condition Condition
}

// NoAdjacent returns an absent pointer.
func NoAdjacent() Adjacent {
	return Adjacent{kind: AdjacentNone}
}

// AdjacentPage returns a pointer to page index of the same condition.
func AdjacentPage(index int) Adjacent {
	return Adjacent{kind: AdjacentPageIndex, index: index}
}

// AdjacentCondition returns a pointer to a different condition.
func AdjacentCondition(c Condition) Adjacent {
	return Adjacent{kind: AdjacentOtherCondition, condition: c}
}

// Kind reports which variant a holds.
func (a Adjacent) Kind() AdjacentKind { return a.kind }

// IsNone reports whether a is absent.
func (a Adjacent) IsNone() bool { return a.kind == AdjacentNone }

// PageIndex returns the page index when a points at the same condition.
func (a Adjacent) PageIndex() (int, bool) {
	if a.kind != AdjacentPageIndex {
		return 0, false
	}
	return a.index, true
}

// Condition returns the target condition when a points at a different condition.
func (a Adjacent) Condition() (Condition, bool) {
	if a.kind != AdjacentOtherCondition {
		return nil, false
	}
	return a.condition, true
}

// Page is one page of a condition's entries plus its adjacency.
// Index is 1-based; ByID pages always have Index 1.
type Page struct {
	Condition Condition
	Index     int
	Entries   []*Entry
	Next      Adjacent
	Prev      Adjacent
}
