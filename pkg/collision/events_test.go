// pkg/collision/events_test.go
package collision

import (
	"testing"

	"github.com/opd-ai/go-linesim/pkg/physics"
)

func newTestLine(id physics.LineID) *physics.Line {
	return physics.NewLine(id,
		physics.Vector2D{X: float64(id), Y: 0},
		physics.Vector2D{X: float64(id) + 1, Y: 0},
		physics.Vector2D{},
	)
}

func TestEventList_AppendAndLen(t *testing.T) {
	list := NewEventList()
	if list.Len() != 0 {
		t.Fatalf("new list Len() = %d", list.Len())
	}

	list.Append(newTestLine(1), newTestLine(2), physics.L1WithL2)
	list.Append(newTestLine(3), newTestLine(4), physics.L2WithL1)

	if list.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", list.Len())
	}
	events := list.Events()
	if events[0].L1.ID != 1 || events[0].L2.ID != 2 || events[0].Type != physics.L1WithL2 {
		t.Errorf("first event = (%d, %d, %v)", events[0].L1.ID, events[0].L2.ID, events[0].Type)
	}
}

func TestEventList_Merge(t *testing.T) {
	a := NewEventList()
	a.Append(newTestLine(1), newTestLine(2), physics.L1WithL2)

	b := NewEventList()
	b.Append(newTestLine(3), newTestLine(4), physics.AlreadyIntersected)
	b.Append(newTestLine(5), newTestLine(6), physics.L2WithL1)

	a.Merge(b)

	if a.Len() != 3 {
		t.Errorf("merged Len() = %d, expected 3", a.Len())
	}
	if b.Len() != 0 {
		t.Errorf("source Len() after merge = %d, expected 0", b.Len())
	}
}

func TestEventList_Sort(t *testing.T) {
	list := NewEventList()
	list.Append(newTestLine(5), newTestLine(9), physics.L1WithL2)
	list.Append(newTestLine(1), newTestLine(7), physics.L1WithL2)
	list.Append(newTestLine(1), newTestLine(3), physics.L2WithL1)
	list.Append(newTestLine(2), newTestLine(4), physics.L1WithL2)

	list.Sort()

	want := [][2]physics.LineID{{1, 3}, {1, 7}, {2, 4}, {5, 9}}
	for i, e := range list.Events() {
		if e.L1.ID != want[i][0] || e.L2.ID != want[i][1] {
			t.Errorf("event %d = (%d, %d), expected (%d, %d)",
				i, e.L1.ID, e.L2.ID, want[i][0], want[i][1])
		}
	}
}
