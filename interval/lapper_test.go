package interval

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
)

func TestLapperEqualNaive(t *testing.T) {
	ivs := make([]Interval[int], 0, 2000)
	for i := 0; i < 2000; i++ {
		start := rand.Int63n(100000)
		length := rand.Int63n(500) + 1
		ivs = append(ivs, Interval[int]{Start: start, Stop: start + length, Val: i})
	}
	l := New(ivs)

	for q := 0; q < 200; q++ {
		qs := rand.Int63n(100000)
		qe := qs + rand.Int63n(1000) + 1

		got := l.FindSlice(qs, qe)
		want := naiveFind(ivs, qs, qe)

		if len(got) != len(want) {
			t.Fatalf("query (%d,%d): got %d results, naive got %d", qs, qe, len(got), len(want))
		}
		gotSet := make(map[int]Interval[int], len(got))
		for _, iv := range got {
			gotSet[iv.Val] = iv
		}
		for _, iv := range want {
			if other, ok := gotSet[iv.Val]; !ok || other.Start != iv.Start || other.Stop != iv.Stop {
				t.Fatalf("query (%d,%d): naive result %v missing from tree result", qs, qe, iv)
			}
		}
	}
}

func TestHalfOpenBoundary(t *testing.T) {
	l := New([]Interval[string]{{Start: 10, Stop: 20, Val: "A"}})
	if l.HasOverlap(20, 30) {
		t.Errorf("abutting interval after stop must not overlap")
	}
	if !l.HasOverlap(19, 21) {
		t.Errorf("interval straddling stop must overlap")
	}
	if l.HasOverlap(0, 10) {
		t.Errorf("abutting interval before start must not overlap")
	}
	if !l.HasOverlap(9, 11) {
		t.Errorf("interval straddling start must overlap")
	}
}

func TestZeroWidthQueryAlwaysEmpty(t *testing.T) {
	l := New([]Interval[string]{{Start: 10, Stop: 20, Val: "A"}})
	if l.HasOverlap(15, 15) {
		t.Errorf("zero-width query must never report overlap, even for an interior instant")
	}
	if got := l.FindSlice(15, 15); len(got) != 0 {
		t.Errorf("zero-width Find must yield nothing, got %v", got)
	}
}

func TestInsertRemoveRoundTrip(t *testing.T) {
	l := &Lapper[int]{}
	iv := Interval[int]{Start: 5, Stop: 9, Val: 1}
	if !l.Insert(iv) {
		t.Fatalf("first insert should report true")
	}
	if l.Insert(iv) {
		t.Fatalf("duplicate insert should report false")
	}
	if l.Len() != 1 {
		t.Fatalf("expected len 1, got %d", l.Len())
	}
	if !l.Remove(iv) {
		t.Fatalf("remove of present interval should report true")
	}
	if l.Remove(iv) {
		t.Fatalf("remove of absent interval should report false")
	}
	if l.Len() != 0 {
		t.Fatalf("expected len 0 after remove, got %d", l.Len())
	}
}

func TestInsertRemoveManyStaysConsistent(t *testing.T) {
	l := &Lapper[int]{}
	var live []Interval[int]
	for i := 0; i < 5000; i++ {
		start := rand.Int63n(1000)
		iv := Interval[int]{Start: start, Stop: start + rand.Int63n(50) + 1, Val: i}
		l.Insert(iv)
		live = append(live, iv)
	}
	for i := 0; i < 2000; i++ {
		victim := live[rand.Intn(len(live))]
		l.Remove(victim)
	}
	checkTreeConsistency(t, l)
}

func TestMultipleIntervalsSameRange(t *testing.T) {
	l := New([]Interval[string]{
		{Start: 1, Stop: 5, Val: "A"},
		{Start: 1, Stop: 5, Val: "B"},
	})
	got := l.FindSlice(2, 3)
	if len(got) != 2 {
		t.Fatalf("expected both same-range intervals, got %v", got)
	}
}

func TestMinimalLapper(t *testing.T) {
	l := New([]Interval[int]{{Start: 3, Stop: 7, Val: 0}})
	if result := l.FindSlice(1, 2); len(result) != 0 {
		t.Errorf("fail query minimal lapper (1, 2)")
	}
	if result := l.FindSlice(2, 4); len(result) != 1 {
		t.Errorf("fail query minimal lapper (2, 4)")
	}
}

func TestNormalLapper(t *testing.T) {
	l := New([]Interval[int]{
		{Start: 1, Stop: 2, Val: 0},
		{Start: 2, Stop: 3, Val: 1},
		{Start: 5, Stop: 7, Val: 2},
		{Start: 4, Stop: 6, Val: 3},
		{Start: 6, Stop: 9, Val: 4},
	})
	if result := l.FindSlice(3, 5); len(result) != 1 {
		t.Errorf("fail query multiple lapper for (3, 5), got %d", len(result))
	}
}

func checkTreeConsistency[V comparable](t *testing.T, l *Lapper[V]) {
	t.Helper()
	treeOrder := inorder(l.root, nil)
	sortedCopy := l.Intervals()
	sort.Slice(sortedCopy, func(i, j int) bool {
		return keyLess(sortedCopy[i].Start, sortedCopy[i].Stop, sortedCopy[j].Start, sortedCopy[j].Stop)
	})
	if len(treeOrder) != len(sortedCopy) {
		t.Fatalf("tree has %d entries, sorted set has %d", len(treeOrder), len(sortedCopy))
	}
	if countNode(l.root) != l.Len() {
		t.Fatalf("tree entry count %d disagrees with Len() %d", countNode(l.root), l.Len())
	}
	checkBalanced(t, l.root)
}

func checkBalanced[V comparable](t *testing.T, n *avlNode[V]) {
	t.Helper()
	if n == nil {
		return
	}
	bf := balanceFactor(n)
	if bf > 1 || bf < -1 {
		t.Fatalf("AVL balance invariant violated at node (%d,%d): balance factor %d", n.start, n.stop, bf)
	}
	checkBalanced(t, n.left)
	checkBalanced(t, n.right)
}

func BenchmarkInsertBatch100000(b *testing.B) {
	ivs := make([]Interval[int], 100000)
	for i := range ivs {
		start := rand.Int63n(1000000)
		ivs[i] = Interval[int]{Start: start, Stop: start + rand.Int63n(1000) + 1, Val: i}
	}
	for i := 0; i < b.N; i++ {
		New(ivs)
	}
}

var benchLapper *Lapper[int]

func init() {
	ivs := make([]Interval[int], 100000)
	for i := range ivs {
		start := rand.Int63n(1000000)
		ivs[i] = Interval[int]{Start: start, Stop: start + rand.Int63n(1000) + 1, Val: i}
	}
	benchLapper = New(ivs)
}

func BenchmarkFindLapper(b *testing.B) {
	for i := 0; i < b.N; i++ {
		benchLapper.FindSlice(0, 100000)
	}
}

func BenchmarkFindNaive(b *testing.B) {
	ivs := benchLapper.Intervals()
	for i := 0; i < b.N; i++ {
		naiveFind(ivs, 0, 100000)
	}
}

func ExampleLapper_Find() {
	l := New([]Interval[string]{
		{Start: 0, Stop: 10, Val: "morning"},
		{Start: 10, Stop: 20, Val: "afternoon"},
	})
	for iv := range l.Find(5, 15) {
		fmt.Println(iv.Val)
	}
	// Unordered output:
	// morning
	// afternoon
}
