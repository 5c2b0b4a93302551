package kernel

import "math/bits"

// prioTable is the O(1) ready-priority bitmap, §4.1. Bit p lives at word
// p/32, bit 31-(p%32) within that word, so the highest-priority (numerically
// smallest) ready task is found by scanning words low-to-high and taking the
// leading zero count of the first non-zero word. Grounded on
// core/prio.rs's PrioTable, with the hand-rolled CLZ loop there replaced by
// bits.LeadingZeros32 from the standard library; there is no ecosystem
// library in the retrieval pack for this and the stdlib intrinsic is the
// idiomatic Go replacement for a CLZ instruction.
type prioTable struct {
	words []uint32
	prios int
}

func newPrioTable(prios int) *prioTable {
	return &prioTable{
		words: make([]uint32, (prios+31)/32),
		prios: prios,
	}
}

func (t *prioTable) wordBit(p OsPrio) (word int, bit uint32) {
	word = int(p) / 32
	bit = uint32(0x80000000) >> (uint32(p) % 32)
	return
}

// insert marks priority p ready.
func (t *prioTable) insert(p OsPrio) {
	w, b := t.wordBit(p)
	t.words[w] |= b
}

// remove clears priority p.
func (t *prioTable) remove(p OsPrio) {
	w, b := t.wordBit(p)
	t.words[w] &^= b
}

// isSet reports whether priority p is currently marked ready.
func (t *prioTable) isSet(p OsPrio) bool {
	w, b := t.wordBit(p)
	return t.words[w]&b != 0
}

// isEmpty reports whether no priority is marked ready.
func (t *prioTable) isEmpty() bool {
	for _, w := range t.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// highest returns the numerically smallest set priority and true, or
// (0, false) if the table is empty. Caller must hold the critical section.
func (t *prioTable) highest() (OsPrio, bool) {
	for i, w := range t.words {
		if w == 0 {
			continue
		}
		return OsPrio(i*32 + bits.LeadingZeros32(w)), true
	}
	return 0, false
}
