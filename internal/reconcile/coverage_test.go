package reconcile

import "testing"

func set(keys ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}

func TestUnindexed_SetDifference(t *testing.T) {
	catalog := map[string]string{"a": "A", "b": "B", "c": "C"}
	got := Unindexed(catalog, set("b"), "unindexed")
	want := set("a", "c")
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k := range want {
		if _, ok := got[k]; !ok {
			t.Errorf("missing key %q in %v", k, got)
		}
	}
}

func TestUnindexed_ExcludesAuxiliaryKey(t *testing.T) {
	catalog := map[string]string{"unindexed": "unindexed", "a": "A"}
	got := Unindexed(catalog, set(), "unindexed")
	if _, ok := got["unindexed"]; ok {
		t.Errorf("auxiliary key must never be unindexed: %v", got)
	}
	if _, ok := got["a"]; !ok {
		t.Errorf("missing key a in %v", got)
	}
}

func TestUnindexed_ExcludesAuxEvenWhenLinked(t *testing.T) {
	catalog := map[string]string{"unindexed": "unindexed"}
	// Something accidentally links to the auxiliary note; it still must not
	// appear.
	got := Unindexed(catalog, set("unindexed"), "unindexed")
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestUnindexed_AllLinked(t *testing.T) {
	catalog := map[string]string{"a": "A", "b": "B"}
	got := Unindexed(catalog, set("a", "b"), "unindexed")
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestUnindexed_EmptyCatalog(t *testing.T) {
	got := Unindexed(map[string]string{}, set("a"), "unindexed")
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
