package spans

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []Span
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"single", "0-4:kw", []Span{{0, 4, "kw"}}, false},
		{"several", "0-4:kw  6-9:str", []Span{{0, 4, "kw"}, {6, 9, "str"}}, false},
		{"drops empty span", "3-3:kw 4-5:x", []Span{{4, 5, "x"}}, false},
		{"no attr", "0-4", nil, true},
		{"no range", "4:kw", nil, true},
		{"inverted", "5-2:kw", nil, true},
		{"not a number", "a-2:kw", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("Parse(%q) error = %v, want ErrMalformed", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.in, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatSorts(t *testing.T) {
	got := Format([]Span{{6, 9, "b"}, {0, 2, "a"}, {4, 4, "empty"}})
	if got != "0-2:a 6-9:b" {
		t.Errorf("Format = %q", got)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		col  int
		head string
		tail string
	}{
		{"empty", "", 3, "", ""},
		{"all before", "0-2:a", 5, "0-2:a", ""},
		{"all after", "6-8:a", 5, "", "1-3:a"},
		{"straddle", "2-8:a", 5, "2-5:a", "0-3:a"},
		{"boundary goes to tail", "5-7:a", 5, "", "0-2:a"},
		{"end at col stays", "0-5:a", 5, "0-5:a", ""},
		{"mixed", "0-2:a 3-7:b 9-10:c", 4, "0-2:a 3-4:b", "0-3:b 5-6:c"},
		{"malformed kept whole", "junk", 2, "junk", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head, tail := Split(tt.in, tt.col)
			if head != tt.head || tail != tt.tail {
				t.Errorf("Split(%q, %d) = (%q, %q), want (%q, %q)", tt.in, tt.col, head, tail, tt.head, tt.tail)
			}
		})
	}
}

func TestJoinInvertsSplit(t *testing.T) {
	in := "0-2:a 3-7:b 9-10:c"
	head, tail := Split(in, 5)
	joined := Join(head, 5, tail)
	// The straddling span comes back as two adjacent spans.
	if joined != "0-2:a 3-5:b 5-7:b 9-10:c" {
		t.Errorf("Join = %q", joined)
	}
}

func TestShiftAndTruncate(t *testing.T) {
	if got := Shift("0-2:a", 3); got != "3-5:a" {
		t.Errorf("Shift = %q", got)
	}
	if got := Shift("0-2:a", 0); got != "0-2:a" {
		t.Errorf("Shift by zero = %q", got)
	}
	if got := Truncate("0-2:a 4-9:b", 6); got != "0-2:a 4-6:b" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Join("", 4, "0-1:x"); got != "4-5:x" {
		t.Errorf("Join onto empty = %q", got)
	}
}
