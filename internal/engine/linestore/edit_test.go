package linestore

import (
	"testing"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name      string
		col       int
		makeNew   bool
		want      []string
		wantColor []string
	}{
		{"middle", 5, true, []string{"hello", " world", "next"}, []string{"0-5:kw", "1-6:str", ""}},
		{"truncate", 5, false, []string{"hello", "next"}, []string{"0-5:kw", ""}},
		{"start", 0, true, []string{"", "hello world", "next"}, []string{"", "0-5:kw 6-11:str", ""}},
		{"past end", 40, true, []string{"hello world", "", "next"}, []string{"0-5:kw 6-11:str", "", ""}},
		{"negative", -3, false, []string{"", "next"}, []string{"", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			mustPut(t, s, 0, "hello world", Insert)
			mustPut(t, s, 1, "next", Insert)
			if err := s.PutColor(0, "0-5:kw 6-11:str"); err != nil {
				t.Fatal(err)
			}

			if err := s.SplitLine(0, tt.col, tt.makeNew); err != nil {
				t.Fatalf("SplitLine() = %v", err)
			}
			mustVerify(t, s)
			assertLines(t, s, tt.want)
			for i, want := range tt.wantColor {
				if _, got, _ := s.Color(i, Current); got != want {
					t.Errorf("Color(%d) = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestSplitLineBacksOffToRuneStart(t *testing.T) {
	s := newTestStore(t)
	mustPut(t, s, 0, "a世b", Insert)
	if err := s.SplitLine(0, 2, true); err != nil {
		t.Fatal(err)
	}
	assertLines(t, s, []string{"a", "世b"})
}

func TestJoinLine(t *testing.T) {
	s := newTestStore(t)
	mustPut(t, s, 0, "ab", Insert)
	mustPut(t, s, 1, "xyz", Insert)
	if err := s.PutColor(0, "0-2:a"); err != nil {
		t.Fatal(err)
	}
	if err := s.PutColor(1, "1-3:b"); err != nil {
		t.Fatal(err)
	}

	truncated, err := s.JoinLine(0)
	if err != nil {
		t.Fatalf("JoinLine() = %v", err)
	}
	if truncated {
		t.Error("short join should not truncate")
	}
	mustVerify(t, s)
	assertLines(t, s, []string{"abxyz"})
	if _, got, _ := s.Color(0, Current); got != "0-2:a 3-5:b" {
		t.Errorf("joined annotation = %q", got)
	}
}

func TestJoinLineAcrossBlocks(t *testing.T) {
	s := newTestStore(t)
	want := fill(t, s, 30)
	for s.Lines() > 1 {
		if _, err := s.JoinLine(0); err != nil {
			t.Fatal(err)
		}
		mustVerify(t, s)
	}
	joined := ""
	for _, w := range want {
		joined += w
	}
	assertLines(t, s, []string{joined})
}

func TestJoinLineTruncates(t *testing.T) {
	s := newTestStore(t, WithMaxLineLength(6))
	mustPut(t, s, 0, "abcd", Insert)
	mustPut(t, s, 1, "efgh", Insert)
	if err := s.PutColor(1, "0-4:x"); err != nil {
		t.Fatal(err)
	}

	truncated, err := s.JoinLine(0)
	if err != nil {
		t.Fatal(err)
	}
	if !truncated {
		t.Error("expected truncation")
	}
	mustVerify(t, s)
	assertLines(t, s, []string{"abcdef"})
	if _, got, _ := s.Color(0, Current); got != "4-6:x" {
		t.Errorf("truncated annotation = %q", got)
	}
}

func TestMarks(t *testing.T) {
	s := newTestStore(t)
	for i, text := range []string{"a", "b", "c", "d", "e", "f"} {
		mustPut(t, s, i, text, Insert)
	}

	marks := map[int]Mark{0: MarkJoin, 1: MarkDelete, 3: MarkJoin, 4: MarkDelete}
	for n, m := range marks {
		if err := s.MarkLine(n, m); err != nil {
			t.Fatal(err)
		}
	}
	mustVerify(t, s)
	if s.PendingMarks() != 4 {
		t.Fatalf("PendingMarks() = %d, want 4", s.PendingMarks())
	}
	for n, m := range marks {
		if got := s.Marked(n); got != m {
			t.Errorf("Marked(%d) = %d, want %d", n, got, m)
		}
	}
	if s.Marked(2) != MarkNone || s.Marked(99) != MarkNone {
		t.Error("unmarked lines should report MarkNone")
	}

	// Marks alone do not restructure anything.
	assertLines(t, s, []string{"a", "b", "c", "d", "e", "f"})

	if err := s.ApplyMarks(); err != nil {
		t.Fatalf("ApplyMarks() = %v", err)
	}
	mustVerify(t, s)
	if s.PendingMarks() != 0 {
		t.Errorf("PendingMarks() = %d after apply", s.PendingMarks())
	}
	assertLines(t, s, []string{"a", "cd", "f"})
}

func TestMarkNoneClears(t *testing.T) {
	s := newTestStore(t)
	fill(t, s, 3)
	if err := s.MarkLine(1, MarkDelete); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkLine(1, MarkJoin); err != nil {
		t.Fatal(err)
	}
	if s.PendingMarks() != 1 {
		t.Errorf("re-marking should not double count, got %d", s.PendingMarks())
	}
	if err := s.MarkLine(1, MarkNone); err != nil {
		t.Fatal(err)
	}
	mustVerify(t, s)
	if s.PendingMarks() != 0 {
		t.Errorf("PendingMarks() = %d", s.PendingMarks())
	}
}

func TestDeleteMarkedLine(t *testing.T) {
	s := newTestStore(t)
	fill(t, s, 3)
	if err := s.MarkLine(1, MarkDelete); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteLines(1, 1); err != nil {
		t.Fatal(err)
	}
	mustVerify(t, s)
	if s.PendingMarks() != 0 {
		t.Errorf("deleting a marked line should drop its mark, got %d", s.PendingMarks())
	}
}

func TestApplyMarksManyBlocks(t *testing.T) {
	s := newTestStore(t)
	want := fill(t, s, 60)
	var kept []string
	for i := range want {
		if i%3 == 0 {
			if err := s.MarkLine(i, MarkDelete); err != nil {
				t.Fatal(err)
			}
			continue
		}
		kept = append(kept, want[i])
	}
	if err := s.ApplyMarks(); err != nil {
		t.Fatal(err)
	}
	mustVerify(t, s)
	assertLines(t, s, kept)
}
