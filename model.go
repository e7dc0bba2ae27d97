package ppm

import (
	"math"
)

const none = -1

// Kind tells symbols apart from the two sentinels that every model carries.
type Kind uint8

const (
	Symbol Kind = iota
	Escape
	EndOfStream
)

func (k Kind) String() string {
	switch k {
	case Symbol:
		return "symbol"
	case Escape:
		return "escape"
	case EndOfStream:
		return "end-of-stream"
	}
	return "unknown"
}

// A Candidate is one possible outcome of a coding decision.
type Candidate struct {
	Kind   Kind
	Symbol byte   // meaningless for sentinels
	Count  uint32 // weight of the candidate in the decision
}

// trieNode represents a context followed by a symbol.
// Its count is the number of times the symbol has followed the context of its parent.
type trieNode struct {
	symbol byte
	count  uint32

	parent   int32
	children []int32 // arena indices, in order of first appearance
}

// A Model is an adaptive PPM model: a trie of every context up to the maximum
// order, counting the symbols that followed each of them.
//
// The escape and end-of-stream sentinels belong to the model and keep a count of 1.
type Model struct {
	nodes []trieNode // nodes[0] is the root, the empty context

	escape Candidate
	eos    Candidate
}

// NewModel returns a model that has seen nothing.
func NewModel() *Model {
	return &Model{
		nodes:  []trieNode{{parent: none}},
		escape: Candidate{Kind: Escape, Count: 1},
		eos:    Candidate{Kind: EndOfStream, Count: 1},
	}
}

func (m *Model) child(parent int32, b byte) int32 {
	for _, c := range m.nodes[parent].children {
		if m.nodes[c].symbol == b {
			return c
		}
	}
	return none
}

func (m *Model) addChild(parent int32, b byte) int32 {
	idx := int32(len(m.nodes))
	m.nodes = append(m.nodes, trieNode{symbol: b, parent: parent})
	m.nodes[parent].children = append(m.nodes[parent].children, idx)
	return idx
}

// Add records that b followed ctx.
// Every suffix of ctx, from the empty context up to ctx itself, is updated,
// so all orders learn from a single call.
func (m *Model) Add(ctx *Context, b byte) {
	syms := ctx.Bytes()
	for off := 0; off <= len(syms); off++ {
		m.addSuffix(syms[off:], b)
	}
}

func (m *Model) addSuffix(suffix []byte, b byte) {
	cur := int32(0)
	for _, s := range suffix {
		next := m.child(cur, s)
		if next == none {
			next = m.addChild(cur, s)
		}
		cur = next
	}

	leaf := m.child(cur, b)
	if leaf == none {
		leaf = m.addChild(cur, b)
	}
	if m.nodes[leaf].count < math.MaxUint32 {
		m.nodes[leaf].count++
	}
}

// Candidates appends to dst the symbols seen after ctx that are not excluded,
// followed by the escape sentinel.
// It returns false if ctx itself has never been seen.
func (m *Model) Candidates(dst []Candidate, ctx *Context, excl *Exclusions) ([]Candidate, bool) {
	cur := int32(0)
	for _, s := range ctx.Bytes() {
		cur = m.child(cur, s)
		if cur == none {
			return dst, false
		}
	}

	for _, c := range m.nodes[cur].children {
		n := m.nodes[c]
		if excl.IsExcluded(n.symbol) {
			continue
		}
		dst = append(dst, Candidate{Kind: Symbol, Symbol: n.symbol, Count: n.count})
	}
	dst = append(dst, m.escape)
	return dst, true
}

// UniformCandidates appends to dst the list of order -1: every byte value
// that is not excluded with a count of 1, then the escape and end-of-stream sentinels.
func (m *Model) UniformCandidates(dst []Candidate, excl *Exclusions) []Candidate {
	for i := 0; i < 256; i++ {
		b := byte(i)
		if excl.IsExcluded(b) {
			continue
		}
		dst = append(dst, Candidate{Kind: Symbol, Symbol: b, Count: 1})
	}
	return append(dst, m.escape, m.eos)
}

// FindSymbol returns the position of symbol b in list, or -1.
func (m *Model) FindSymbol(list []Candidate, b byte) int {
	for i, c := range list {
		if c.Kind == Symbol && c.Symbol == b {
			return i
		}
	}
	return -1
}

// FindEscape returns the position of the escape sentinel in list, or -1.
func (m *Model) FindEscape(list []Candidate) int {
	for i, c := range list {
		if m.IsEscape(c) {
			return i
		}
	}
	return -1
}

// FindEndOfStream returns the position of the end-of-stream sentinel in list, or -1.
func (m *Model) FindEndOfStream(list []Candidate) int {
	for i, c := range list {
		if m.IsEndOfStream(c) {
			return i
		}
	}
	return -1
}

// ExcludeAll excludes every symbol of list.
func (m *Model) ExcludeAll(list []Candidate, excl *Exclusions) {
	for _, c := range list {
		if c.Kind == Symbol {
			excl.Exclude(c.Symbol)
		}
	}
}

func (m *Model) IsEscape(c Candidate) bool {
	return c.Kind == Escape
}

func (m *Model) IsEndOfStream(c Candidate) bool {
	return c.Kind == EndOfStream
}

// Nodes returns the number of contexts and symbols stored, the empty context excluded.
func (m *Model) Nodes() int {
	return len(m.nodes) - 1
}
