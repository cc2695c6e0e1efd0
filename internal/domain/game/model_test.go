package game

import "testing"

func TestParseKind(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]Kind{"points": KindPoints, " Time": KindTime, "Zeit": KindTime} {
		got, err := ParseKind(raw)
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %s, want %s", raw, got, want)
		}
	}
	if _, err := ParseKind("distance"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestStateLocked(t *testing.T) {
	t.Parallel()

	if StatePending.Locked() {
		t.Fatalf("pending game must accept results")
	}
	if !StateComplete.Locked() || !StateScored.Locked() {
		t.Fatalf("complete and scored games must be locked")
	}
}
