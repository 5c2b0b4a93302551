package kernel

import "testing"

func TestPrioTableInsertRemove(t *testing.T) {
	pt := newPrioTable(64)

	if !pt.isEmpty() {
		t.Fatal("new table should be empty")
	}

	pt.insert(40)
	if pt.isEmpty() {
		t.Fatal("table should not be empty after insert")
	}
	if !pt.isSet(40) {
		t.Fatal("prio 40 should be set")
	}
	if pt.isSet(41) {
		t.Fatal("prio 41 should not be set")
	}

	pt.remove(40)
	if !pt.isEmpty() {
		t.Fatal("table should be empty after remove")
	}
}

func TestPrioTableHighestPicksNumericallySmallest(t *testing.T) {
	pt := newPrioTable(64)
	pt.insert(10)
	pt.insert(3)
	pt.insert(50)

	high, ok := pt.highest()
	if !ok {
		t.Fatal("expected a highest priority")
	}
	if high != 3 {
		t.Fatalf("highest = %d, want 3", high)
	}

	pt.remove(3)
	high, ok = pt.highest()
	if !ok || high != 10 {
		t.Fatalf("highest after removing 3 = %d,%v, want 10,true", high, ok)
	}
}

func TestPrioTableHighestEmpty(t *testing.T) {
	pt := newPrioTable(64)
	if _, ok := pt.highest(); ok {
		t.Fatal("expected no highest priority on empty table")
	}
}

func TestPrioTableCrossesWordBoundary(t *testing.T) {
	pt := newPrioTable(64)
	pt.insert(31)
	pt.insert(32)

	high, ok := pt.highest()
	if !ok || high != 31 {
		t.Fatalf("highest = %d,%v, want 31,true", high, ok)
	}
	pt.remove(31)
	high, ok = pt.highest()
	if !ok || high != 32 {
		t.Fatalf("highest = %d,%v, want 32,true", high, ok)
	}
}
