package easteregg

import "testing"

func TestPressCompletesKonami(t *testing.T) {
	d := NewDetector()
	for i, code := range Konami {
		done := d.Press(code)
		if last := i == len(Konami)-1; done != last {
			t.Fatalf("key %d (%s): done=%v", i, code, done)
		}
	}
	if d.Progress() != 0 {
		t.Errorf("progress should reset after completion, got %d", d.Progress())
	}
}

func TestWrongKeyResetsWithoutRecheck(t *testing.T) {
	d := NewDetector()
	d.Press("ArrowUp")
	d.Press("ArrowUp")
	d.Press("ArrowUp") // expected ArrowDown
	if d.Progress() != 0 {
		t.Fatalf("expected reset to 0, got %d", d.Progress())
	}

	seq := append([]string{"KeyA"}, Konami...)
	d = NewDetector()
	completed := false
	for _, c := range seq {
		completed = d.Press(c) || completed
	}
	if !completed {
		t.Error("a full sequence after a stray first key should still complete")
	}
}
