package differ

import "github.com/devKoy/csv-version-compare/pkg/table"

// matchState is the set of old-row positions already claimed during one
// comparison pass. A position is never claimed twice.
type matchState struct {
	consumed []bool
	count    int
}

func newMatchState(n int) *matchState {
	return &matchState{consumed: make([]bool, n)}
}

func (m *matchState) has(pos int) bool {
	return m.consumed[pos]
}

func (m *matchState) consume(pos int) {
	if !m.consumed[pos] {
		m.consumed[pos] = true
		m.count++
	}
}

// keyIndex maps key tuples to the ordered positions of the rows carrying
// them, over the full unwindowed dataset.
type keyIndex struct {
	key     table.Key
	entries map[string]*posting
}

type posting struct {
	positions []int
	// offset skips the leading positions already known to be consumed.
	offset int
}

func newKeyIndex(ds table.Dataset, key table.Key) *keyIndex {
	idx := &keyIndex{
		key:     key,
		entries: make(map[string]*posting, ds.Len()),
	}
	for pos := 0; pos < ds.Len(); pos++ {
		tuple := key.Tuple(ds.Row(pos))
		p, ok := idx.entries[tuple]
		if !ok {
			p = &posting{}
			idx.entries[tuple] = p
		}
		p.positions = append(p.positions, pos)
	}
	return idx
}

// first returns the position of the first unconsumed row whose key equals
// row's key, or -1.
func (idx *keyIndex) first(row table.Row, exclude *matchState) int {
	p, ok := idx.entries[idx.key.Tuple(row)]
	if !ok {
		return -1
	}
	p.advance(exclude)
	for _, pos := range p.positions[p.offset:] {
		if exclude == nil || !exclude.has(pos) {
			return pos
		}
	}
	return -1
}

func (p *posting) advance(exclude *matchState) {
	if exclude == nil {
		return
	}
	for p.offset < len(p.positions) && exclude.has(p.positions[p.offset]) {
		p.offset++
	}
}
