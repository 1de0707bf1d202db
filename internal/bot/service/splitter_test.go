package service

import (
	"strings"
	"testing"
)

func TestSplitText_Empty(t *testing.T) {
	if chunks := SplitText("", 500, 100); chunks != nil {
		t.Errorf("expected nil for empty text, got %v", chunks)
	}
	if chunks := SplitText("   \n\t ", 500, 100); chunks != nil {
		t.Errorf("expected nil for whitespace text, got %v", chunks)
	}
}

func TestSplitText_ShortTextSingleChunk(t *testing.T) {
	chunks := SplitText("a short document", 500, 100)
	if len(chunks) != 1 {
		t.Fatalf("expected one chunk, got %d", len(chunks))
	}
	if chunks[0] != "a short document" {
		t.Errorf("unexpected chunk: %q", chunks[0])
	}
}

func TestSplitText_ChunksRespectSize(t *testing.T) {
	text := strings.Repeat("word ", 400)
	chunks := SplitText(text, 100, 20)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len([]rune(chunk)) > 100 {
			t.Errorf("chunk %d exceeds size: %d runes", i, len([]rune(chunk)))
		}
	}
}

func TestSplitText_OverlapCarriesText(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 50)
	chunks := SplitText(text, 100, 40)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// consecutive chunks start 60 runes apart, so the tail of one chunk
	// reappears at the head of the next
	runes := []rune(text)
	secondStart := string(runes[60:70])
	if !strings.Contains(chunks[0], strings.TrimSpace(secondStart)) && !strings.Contains(chunks[1], strings.TrimSpace(secondStart)) {
		t.Errorf("expected overlap region present in adjacent chunks")
	}
}

func TestSplitText_CutsOnWhitespace(t *testing.T) {
	text := strings.Repeat("supercalifragilistic ", 30)
	chunks := SplitText(text, 100, 0)

	for i, chunk := range chunks[:len(chunks)-1] {
		if strings.HasSuffix(chunk, "supercalifragilisti") {
			t.Errorf("chunk %d cut mid-word: %q", i, chunk)
		}
	}
}

func TestSplitText_CoversWholeText(t *testing.T) {
	text := strings.Repeat("one two three four five six seven eight nine ten ", 30)
	chunks := SplitText(text, 120, 30)

	last := chunks[len(chunks)-1]
	tail := strings.TrimSpace(text)
	if !strings.HasSuffix(tail, last[len(last)-10:]) {
		t.Errorf("last chunk does not reach end of text: %q", last)
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tc := range cases {
		got := CosineSimilarity(tc.a, tc.b)
		if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
