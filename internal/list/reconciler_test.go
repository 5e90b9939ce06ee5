package list

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/teknohive/fessctl/internal/board"
)

// item builds a minimal board.Item with the given id.
func item(t *testing.T, id string) board.Item {
	t.Helper()
	var it board.Item
	if err := json.Unmarshal([]byte(fmt.Sprintf(`{"id":%q}`, id)), &it); err != nil {
		t.Fatalf("failed to build item %q: %v", id, err)
	}
	return it
}

// ids projects the visible sequence to its id list.
func ids(r *Reconciler) []string {
	items := r.Items()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestApplySnapshotReplacesWholesale(t *testing.T) {
	r := New()
	r.ApplySnapshot([]board.Item{item(t, "a"), item(t, "b")})
	r.ApplySnapshot([]board.Item{item(t, "c")})

	if diff := cmp.Diff([]string{"c"}, ids(r)); diff != "" {
		t.Errorf("snapshot not replaced wholesale (-want +got):\n%s", diff)
	}
}

func TestPushesPrependInArrivalOrder(t *testing.T) {
	r := New()
	r.ApplySnapshot([]board.Item{item(t, "s1"), item(t, "s2")})
	r.ApplyPushedItem(item(t, "x1"))
	r.ApplyPushedItem(item(t, "x2"))
	r.ApplyPushedItem(item(t, "x3"))

	// [xn,...,x1] ++ S, never re-sorted.
	want := []string{"x3", "x2", "x1", "s1", "s2"}
	if diff := cmp.Diff(want, ids(r)); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestPushDoesNotDeduplicate(t *testing.T) {
	r := New()
	r.ApplySnapshot([]board.Item{item(t, "a")})
	r.ApplyPushedItem(item(t, "a"))

	// Duplicate ids stay visible; this mirrors the upstream behavior.
	want := []string{"a", "a"}
	if diff := cmp.Diff(want, ids(r)); diff != "" {
		t.Errorf("unexpected list (-want +got):\n%s", diff)
	}
}

func TestRemoveItemDropsAllMatchesKeepsOrder(t *testing.T) {
	r := New()
	r.ApplySnapshot([]board.Item{item(t, "a"), item(t, "b"), item(t, "a"), item(t, "c")})
	r.RemoveItem("a")

	want := []string{"b", "c"}
	if diff := cmp.Diff(want, ids(r)); diff != "" {
		t.Errorf("unexpected list after removal (-want +got):\n%s", diff)
	}
}

func TestRemoveItemMatchesNormalizedID(t *testing.T) {
	r := New()
	var numeric board.Item
	if err := json.Unmarshal([]byte(`{"id":7}`), &numeric); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	r.ApplySnapshot([]board.Item{numeric, item(t, "b")})

	// Removal by the string form of a numeric id.
	r.RemoveItem("7")

	want := []string{"b"}
	if diff := cmp.Diff(want, ids(r)); diff != "" {
		t.Errorf("normalized id removal failed (-want +got):\n%s", diff)
	}
}

func TestRemoveItemMissingIDIsNoop(t *testing.T) {
	r := New()
	r.ApplySnapshot([]board.Item{item(t, "a")})
	r.RemoveItem("zzz")

	if got := r.Len(); got != 1 {
		t.Errorf("expected untouched list, got %d items", got)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	r := New()
	r.ApplySnapshot([]board.Item{item(t, "a"), item(t, "b")})

	got := r.Items()
	got[0] = item(t, "mutated")

	if ids(r)[0] != "a" {
		t.Error("Items() must return a copy, not the backing slice")
	}
}
