package meter

import (
	"math"
	"testing"

	"poemlab/internal/phonetics"
)

func TestAnalyzeIambicPentameter(t *testing.T) {
	lines := []string{"0101010101", "0101010101", "0101010111", "0101010102"}
	a := Analyze(lines)
	if a.Foot != Iamb || a.FeetPerLine != 5 {
		t.Fatalf("expected iamb x5, got %s x%d", a.Foot, a.FeetPerLine)
	}
	if a.Name != "iambic pentameter" {
		t.Fatalf("unexpected name %q", a.Name)
	}
	if a.Confidence <= 0.9 || a.Confidence > 1 {
		t.Fatalf("unexpected confidence %f", a.Confidence)
	}
	// Only the spondaic ending of line 3 deviates: combined index 20+8.
	if len(a.Deviations) != 1 || a.Deviations[0] != 28 {
		t.Fatalf("unexpected deviations %v", a.Deviations)
	}
	if d := a.Lines[2].DeviationDensity(); d <= 0 || d > MismatchDensity {
		t.Fatalf("unexpected density %f", d)
	}
}

func TestAnalyzeTernaryFeet(t *testing.T) {
	a := Analyze([]string{"100100100100", "100100100100", "10010010010"})
	if a.Foot != Dactyl || a.FeetPerLine != 4 {
		t.Fatalf("expected dactylic tetrameter, got %s x%d", a.Foot, a.FeetPerLine)
	}
	if !Ternary(a.Foot) || Ternary(Iamb) {
		t.Fatal("ternary classification wrong")
	}
}

func TestAnalyzeEmptyAndIrregular(t *testing.T) {
	a := Analyze(nil)
	if a.Foot != Unknown || a.Confidence != 0 || a.Name != "free verse" {
		t.Fatalf("unexpected empty analysis %+v", a)
	}

	a = Analyze([]string{"1", "0", ""})
	if a.Confidence < 0 || a.Confidence > 1 {
		t.Fatalf("confidence out of range: %f", a.Confidence)
	}
}

func TestAnalyzeLowConfidenceIsFreeVerse(t *testing.T) {
	// Iamb fits on average but wins only one line in three.
	a := Analyze([]string{"000010", "0011010", "11010"})
	if a.Foot != Unknown || a.Name != "free verse" || a.FeetPerLine != 0 {
		t.Fatalf("expected free verse, got %s %q x%d", a.Foot, a.Name, a.FeetPerLine)
	}
	if a.Confidence <= 0 || a.Confidence >= minConfidence {
		t.Fatalf("unexpected confidence %f", a.Confidence)
	}
	if len(a.Deviations) != 0 {
		t.Fatalf("expected no deviations without a foot, got %v", a.Deviations)
	}
}

func TestLinePatternDemotesFunctionWords(t *testing.T) {
	r := phonetics.NewResolver(phonetics.Default())
	var words []phonetics.Word
	for _, w := range []string{"The", "morning", "light", "returns", "across", "the", "bay"} {
		words = append(words, r.Resolve(w))
	}
	if got := LinePattern(words); got != "0101010101" {
		t.Fatalf("unexpected line pattern %q", got)
	}
}

func TestRegularity(t *testing.T) {
	if got := Regularity([]int{10, 10, 10}); got != 1 {
		t.Fatalf("expected 1 for uniform lines, got %f", got)
	}
	got := Regularity([]int{5, 7, 5})
	if math.Abs(got-1/(1+8.0/9.0)) > 1e-9 {
		t.Fatalf("unexpected regularity %f", got)
	}
	if Regularity(nil) != 0 {
		t.Fatal("expected zero regularity for no lines")
	}
}

func TestName(t *testing.T) {
	cases := map[string]string{
		Name(Trochee, 4): "trochaic tetrameter",
		Name(Anapest, 3): "anapestic trimeter",
		Name(Iamb, 12):   "iambic meter",
		Name(Unknown, 5): "free verse",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}
