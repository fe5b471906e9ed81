package form

import (
	"fmt"

	"poemlab/internal/meter"
)

const (
	ShakespeareanSonnet Type = "shakespearean_sonnet"
	PetrarchanSonnet    Type = "petrarchan_sonnet"
	SpenserianSonnet    Type = "spenserian_sonnet"
	Haiku               Type = "haiku"
	Tanka               Type = "tanka"
	Cinquain            Type = "cinquain"
	Nonet               Type = "nonet"
	Fib                 Type = "fib"
	Limerick            Type = "limerick"
	Villanelle          Type = "villanelle"
	Rondeau             Type = "rondeau"
	Sestina             Type = "sestina"
	Triolet             Type = "triolet"
	TerzaRima           Type = "terza_rima"
	OttavaRima          Type = "ottava_rima"
	RhymeRoyal          Type = "rhyme_royal"
	Ballad              Type = "ballad"
	HeroicCouplets      Type = "heroic_couplets"
	BlankVerse          Type = "blank_verse"
	Quatrain            Type = "quatrain"
	Couplet             Type = "couplet"
	Sonnet              Type = "sonnet"
	FreeVerse           Type = "free_verse"
)

// Registry is the priority list: specific forms first, generic catch-alls last. A
// definition's index is its priority in tie-breaks.
var Registry = []Definition{
	{ShakespeareanSonnet, CategorySonnet, "14 lines, ABAB CDCD EFEF GG, iambic pentameter", checkShakespearean},
	{PetrarchanSonnet, CategorySonnet, "14 lines, ABBAABBA octave and CDECDE or CDCDCD sestet, iambic pentameter", checkPetrarchan},
	{SpenserianSonnet, CategorySonnet, "14 lines, interlocking ABAB BCBC CDCD EE, iambic pentameter", checkSpenserian},
	{Haiku, CategorySyllabic, "3 unrhymed lines of 5-7-5 syllables", checkHaiku},
	{Tanka, CategorySyllabic, "5 unrhymed lines of 5-7-5-7-7 syllables", checkTanka},
	{Cinquain, CategorySyllabic, "5 lines of 2-4-6-8-2 syllables", checkCinquain},
	{Nonet, CategorySyllabic, "9 lines counting down from 9 syllables to 1", checkNonet},
	{Fib, CategorySyllabic, "6 lines following the Fibonacci sequence 1-1-2-3-5-8", checkFib},
	{Limerick, CategoryFixed, "5 anapestic lines rhyming AABBA", checkLimerick},
	{Villanelle, CategoryFixed, "19 lines: five ABA tercets and an ABAA quatrain", checkVillanelle},
	{Rondeau, CategoryFixed, "15 lines in three stanzas, AABBA AABR AABBAR", checkRondeau},
	{Sestina, CategoryFixed, "six sestets rotating six end words and a three-line envoi", checkSestina},
	{Triolet, CategoryFixed, "8 lines rhyming ABAAABAB", checkTriolet},
	{TerzaRima, CategoryFixed, "chained tercets ABA BCB CDC", checkTerzaRima},
	{OttavaRima, CategoryStanzaic, "8-line iambic pentameter stanzas rhyming ABABABCC", checkOttavaRima},
	{RhymeRoyal, CategoryStanzaic, "7-line iambic pentameter stanzas rhyming ABABBCC", checkRhymeRoyal},
	{Ballad, CategoryMetrical, "quatrains in common meter rhyming ABCB or ABAB", checkBallad},
	{HeroicCouplets, CategoryMetrical, "rhymed iambic pentameter couplets", checkHeroicCouplets},
	{BlankVerse, CategoryMetrical, "unrhymed iambic pentameter", checkBlankVerse},
	{Quatrain, CategoryStanzaic, "a single rhymed four-line stanza", checkQuatrain},
	{Couplet, CategoryStanzaic, "two rhyming lines", checkCouplet},
	{Sonnet, CategorySonnet, "14 rhymed lines of iambic pentameter", checkSonnet},
	{FreeVerse, CategoryOpen, "no consistent meter or rhyme", checkFreeVerse},
}

// Generic sonnets stay below a well-evidenced named subtype.
const genericSonnetCap = 0.85

// Free verse is discounted when a strong meter was detected independently.
const (
	freeVerseMeterPenalty = 0.7
	strongMeter           = 0.7
)

func notesLines(in Input, want int) string {
	return fmt.Sprintf("%d lines (expected %d)", in.LineCount, want)
}

func notesScheme(in Input, want string) string {
	return fmt.Sprintf("rhyme scheme %s (expected %s)", in.Scheme, want)
}

func notesMeter(in Input) string {
	return fmt.Sprintf("meter %s, confidence %.2f", in.MeterName, in.MeterConfidence)
}

func notesSyllables(in Input, want []int) string {
	return fmt.Sprintf("syllables %s (expected %s)", joinInts(in.Syllables), joinInts(want))
}

func checkSonnetVariant(in Input, scheme []string, shapes [][]int) (float64, Evidence) {
	var s scorer
	s.add(0.3, lineMatch(in.LineCount, 14), &s.ev.LineCount, notesLines(in, 14))
	s.add(0.35, schemeMatch(in.Scheme, scheme...), &s.ev.RhymeScheme, notesScheme(in, scheme[0]))
	s.add(0.25, meterMatch(in, meter.Iamb, 5), &s.ev.Meter, notesMeter(in))
	shape := stanzaShape(in, shapes...)
	s.add(0.1, boolScore(shape), &s.ev.StanzaStructure, "")
	return s.result()
}

func checkShakespearean(in Input) (float64, Evidence) {
	return checkSonnetVariant(in, []string{"ABABCDCDEFEFGG"}, [][]int{{14}, {4, 4, 4, 2}, {12, 2}})
}

func checkPetrarchan(in Input) (float64, Evidence) {
	return checkSonnetVariant(in,
		[]string{"ABBAABBACDECDE", "ABBAABBACDCDCD", "ABBAABBACDEDCE"},
		[][]int{{14}, {8, 6}, {4, 4, 3, 3}})
}

func checkSpenserian(in Input) (float64, Evidence) {
	return checkSonnetVariant(in, []string{"ABABBCBCCDCDEE"}, [][]int{{14}, {4, 4, 4, 2}, {12, 2}})
}

func checkSyllabic(in Input, want []int, unrhymedWeight float64) (float64, Evidence) {
	var s scorer
	s.add(0.3, lineMatch(in.LineCount, len(want)), &s.ev.LineCount, notesLines(in, len(want)))
	syllableWeight := 0.6 - unrhymedWeight
	s.add(syllableWeight, syllableMatch(in.Syllables, want, 0), &s.ev.SyllablePattern, notesSyllables(in, want))
	if unrhymedWeight > 0 {
		s.add(unrhymedWeight, unrhymed(in.Scheme), nil, "")
	}
	s.add(0.1, boolScore(in.StanzaCount == 1), &s.ev.StanzaStructure, "")
	return s.result()
}

func checkHaiku(in Input) (float64, Evidence) {
	return checkSyllabic(in, []int{5, 7, 5}, 0.1)
}

func checkTanka(in Input) (float64, Evidence) {
	return checkSyllabic(in, []int{5, 7, 5, 7, 7}, 0.1)
}

func checkCinquain(in Input) (float64, Evidence) {
	return checkSyllabic(in, []int{2, 4, 6, 8, 2}, 0)
}

func checkNonet(in Input) (float64, Evidence) {
	return checkSyllabic(in, []int{9, 8, 7, 6, 5, 4, 3, 2, 1}, 0)
}

func checkFib(in Input) (float64, Evidence) {
	return checkSyllabic(in, []int{1, 1, 2, 3, 5, 8}, 0)
}

func checkLimerick(in Input) (float64, Evidence) {
	var s scorer
	s.add(0.25, lineMatch(in.LineCount, 5), &s.ev.LineCount, notesLines(in, 5))
	s.add(0.4, schemeMatch(in.Scheme, "AABBA"), &s.ev.RhymeScheme, notesScheme(in, "AABBA"))
	s.add(0.2, meterMatch(in, meter.Anapest, 0), &s.ev.Meter, notesMeter(in))
	want := []int{9, 9, 6, 6, 9}
	s.add(0.15, syllableMatch(in.Syllables, want, 2), &s.ev.SyllablePattern, notesSyllables(in, want))
	return s.result()
}

func checkVillanelle(in Input) (float64, Evidence) {
	const scheme = "ABAABAABAABAABAABAA"
	var s scorer
	s.add(0.3, lineMatch(in.LineCount, 19), &s.ev.LineCount, notesLines(in, 19))
	s.add(0.4, schemeMatch(in.Scheme, scheme), &s.ev.RhymeScheme, notesScheme(in, scheme))
	s.add(0.2, boolScore(stanzaShape(in, []int{3, 3, 3, 3, 3, 4})), &s.ev.StanzaStructure, "")
	s.add(0.1, meterMatch(in, meter.Iamb, 5), &s.ev.Meter, notesMeter(in))
	return s.result()
}

func checkRondeau(in Input) (float64, Evidence) {
	const scheme = "AABBAAABCAABBAC"
	var s scorer
	s.add(0.3, lineMatch(in.LineCount, 15), &s.ev.LineCount, notesLines(in, 15))
	s.add(0.4, schemeMatch(in.Scheme, scheme), &s.ev.RhymeScheme, notesScheme(in, scheme))
	s.add(0.2, boolScore(stanzaShape(in, []int{5, 4, 6})), &s.ev.StanzaStructure, "")
	s.add(0.1, in.Regularity, nil, "")
	return s.result()
}

func checkSestina(in Input) (float64, Evidence) {
	const scheme = "ABCDEF" + "FAEBDC" + "CFDABE" + "ECBFAD" + "DEACFB" + "BDFECA" + "ECA"
	var s scorer
	s.add(0.35, lineMatch(in.LineCount, 39), &s.ev.LineCount, notesLines(in, 39))
	s.add(0.35, boolScore(stanzaShape(in, []int{6, 6, 6, 6, 6, 6, 3})), &s.ev.StanzaStructure, "")
	s.add(0.3, schemeMatch(in.Scheme, scheme), &s.ev.RhymeScheme, "end words rotate across stanzas")
	return s.result()
}

func checkTriolet(in Input) (float64, Evidence) {
	var s scorer
	s.add(0.35, lineMatch(in.LineCount, 8), &s.ev.LineCount, notesLines(in, 8))
	s.add(0.45, schemeMatch(in.Scheme, "ABAAABAB"), &s.ev.RhymeScheme, notesScheme(in, "ABAAABAB"))
	s.add(0.2, boolScore(in.StanzaCount == 1), &s.ev.StanzaStructure, "")
	return s.result()
}

func checkTerzaRima(in Input) (float64, Evidence) {
	var s scorer
	fits := in.LineCount >= 6 && (in.LineCount%3 == 0 || in.LineCount%3 == 1)
	s.add(0.2, boolScore(fits), &s.ev.LineCount, fmt.Sprintf("%d lines", in.LineCount))
	s.add(0.5, schemeF1(groups(in.Scheme), terzaRima(in.LineCount)), &s.ev.RhymeScheme, notesScheme(in, "ABA BCB CDC ..."))
	tercets := len(in.LinesPerStanza) >= 2
	for i, n := range in.LinesPerStanza {
		last := i == len(in.LinesPerStanza)-1
		if n != 3 && !(last && (n == 1 || n == 2)) {
			tercets = false
		}
	}
	s.add(0.2, boolScore(tercets), &s.ev.StanzaStructure, "")
	s.add(0.1, meterMatch(in, meter.Iamb, 0), &s.ev.Meter, notesMeter(in))
	return s.result()
}

func checkRhymedStanzas(in Input, unit string) (float64, Evidence) {
	size := len(unit)
	var s scorer
	s.add(0.2, boolScore(in.LineCount > 0 && in.LineCount%size == 0), &s.ev.LineCount,
		fmt.Sprintf("%d lines in stanzas of %d", in.LineCount, size))
	s.add(0.5, schemeF1(groups(in.Scheme), repeatUnit(unit, in.LineCount)), &s.ev.RhymeScheme, notesScheme(in, unit))
	s.add(0.2, meterMatch(in, meter.Iamb, 5), &s.ev.Meter, notesMeter(in))
	s.add(0.1, boolScore(uniformStanzas(in, size, 1)), &s.ev.StanzaStructure, "")
	return s.result()
}

func checkOttavaRima(in Input) (float64, Evidence) {
	return checkRhymedStanzas(in, "ABABABCC")
}

func checkRhymeRoyal(in Input) (float64, Evidence) {
	return checkRhymedStanzas(in, "ABABBCC")
}

func checkBallad(in Input) (float64, Evidence) {
	var s scorer
	s.add(0.3, boolScore(uniformStanzas(in, 4, 2)), &s.ev.StanzaStructure, fmt.Sprintf("%d stanzas", in.StanzaCount))
	actual := groups(in.Scheme)
	scheme := schemeF1(actual, repeatUnit("ABCB", in.LineCount))
	if alt := schemeF1(actual, repeatUnit("ABAB", in.LineCount)); alt > scheme {
		scheme = alt
	}
	s.add(0.3, scheme, &s.ev.RhymeScheme, notesScheme(in, "ABCB"))
	want := alternating(in.LineCount, 8, 6)
	s.add(0.2, syllableMatch(in.Syllables, want, 1), &s.ev.SyllablePattern, "alternating 8 and 6 syllables")
	s.add(0.2, meterMatch(in, meter.Iamb, 0), &s.ev.Meter, notesMeter(in))
	return s.result()
}

func checkHeroicCouplets(in Input) (float64, Evidence) {
	var s scorer
	s.add(0.1, boolScore(in.LineCount >= 4 && in.LineCount%2 == 0), &s.ev.LineCount, fmt.Sprintf("%d lines", in.LineCount))
	s.add(0.5, schemeF1(groups(in.Scheme), repeatUnit("AA", in.LineCount)), &s.ev.RhymeScheme, notesScheme(in, "AABBCC ..."))
	s.add(0.4, meterMatch(in, meter.Iamb, 5), &s.ev.Meter, notesMeter(in))
	return s.result()
}

func checkBlankVerse(in Input) (float64, Evidence) {
	var s scorer
	s.add(0.6, meterMatch(in, meter.Iamb, 5), &s.ev.Meter, notesMeter(in))
	s.add(0.3, unrhymed(in.Scheme), &s.ev.RhymeScheme, "unrhymed line endings")
	s.add(0.1, in.Regularity, nil, "")
	c, ev := s.result()
	if in.LineCount < 5 {
		c *= 0.5
	}
	return c, ev
}

func checkQuatrain(in Input) (float64, Evidence) {
	var s scorer
	s.add(0.4, lineMatch(in.LineCount, 4), &s.ev.LineCount, notesLines(in, 4))
	s.add(0.4, schemeMatch(in.Scheme, "ABAB", "AABB", "ABBA", "ABCB"), &s.ev.RhymeScheme, notesScheme(in, "ABAB"))
	s.add(0.2, in.Regularity, nil, "")
	return s.result()
}

func checkCouplet(in Input) (float64, Evidence) {
	var s scorer
	s.add(0.4, lineMatch(in.LineCount, 2), &s.ev.LineCount, notesLines(in, 2))
	s.add(0.4, schemeMatch(in.Scheme, "AA"), &s.ev.RhymeScheme, notesScheme(in, "AA"))
	s.add(0.2, in.Regularity, nil, "")
	return s.result()
}

func checkSonnet(in Input) (float64, Evidence) {
	var s scorer
	s.add(0.4, lineMatch(in.LineCount, 14), &s.ev.LineCount, notesLines(in, 14))
	s.add(0.2, 1-unrhymed(in.Scheme), &s.ev.RhymeScheme, fmt.Sprintf("rhyme scheme %s", in.Scheme))
	s.add(0.3, meterMatch(in, meter.Iamb, 5), &s.ev.Meter, notesMeter(in))
	s.add(0.1, boolScore(stanzaShape(in, []int{14}, []int{8, 6}, []int{4, 4, 4, 2})), &s.ev.StanzaStructure, "")
	c, ev := s.result()
	return c * genericSonnetCap, ev
}

func checkFreeVerse(in Input) (float64, Evidence) {
	var s scorer
	metered := 0.0
	if in.Foot != meter.Unknown {
		metered = in.MeterConfidence
	}
	s.add(0.3, 1, nil, "")
	s.add(0.3, 1-metered, &s.ev.Meter, notesMeter(in))
	s.add(0.2, unrhymed(in.Scheme), &s.ev.RhymeScheme, fmt.Sprintf("rhyme scheme %s", in.Scheme))
	s.add(0.2, 1-in.Regularity, nil, fmt.Sprintf("line length regularity %.2f", in.Regularity))
	c, ev := s.result()
	if in.Foot != meter.Unknown && in.MeterConfidence >= strongMeter {
		c *= freeVerseMeterPenalty
		ev.Notes = append(ev.Notes, "discounted: a consistent meter was detected")
	}
	return c, ev
}
