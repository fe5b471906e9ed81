package melody

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const ticksPerQuarter = 480

// Semitone offsets of each tonic above C.
var tonics = map[string]uint8{"C": 0, "D": 2, "E": 4, "G": 7, "A": 9}

func keySignature(key, mode string) smf.Message {
	if mode == "minor" {
		switch key {
		case "D":
			return smf.DMin()
		case "E":
			return smf.EMin()
		default:
			return smf.AMin()
		}
	}
	switch key {
	case "D":
		return smf.DMaj()
	case "G":
		return smf.GMaj()
	default:
		return smf.CMaj()
	}
}

func parseMeter(sig string) (num, denom uint8, err error) {
	parts := strings.Split(sig, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time signature %q", sig)
	}
	n, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time signature %q: %w", sig, err)
	}
	d, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time signature %q: %w", sig, err)
	}
	return uint8(n), uint8(d), nil
}

// WriteSketch renders a one-track Standard MIDI File: meter, tempo and key up front, one
// placeholder note per syllable (stressed syllables on the fifth, louder), each line's
// text as a lyric and a marker at every phrase break.
func WriteSketch(w io.Writer, s Suggestion, lines []string, patterns []string) error {
	num, denom, err := parseMeter(s.TimeSignature)
	if err != nil {
		return err
	}
	noteLen := uint32(ticksPerQuarter)
	if denom == 8 {
		noteLen = ticksPerQuarter / 2
	}
	tonic := uint8(60) + tonics[s.Key]

	breaks := map[int]bool{}
	for _, b := range s.PhraseBreaks {
		breaks[b] = true
	}
	sections := map[int]bool{}
	for _, b := range s.SectionBreaks {
		sections[b] = true
	}

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("melody sketch"))
	tr.Add(0, smf.MetaMeter(num, denom))
	tr.Add(0, smf.MetaTempo(float64(s.Tempo)))
	tr.Add(0, keySignature(s.Key, s.Mode))

	var delta uint32
	for i, p := range patterns {
		if i < len(lines) {
			tr.Add(delta, smf.MetaLyric(lines[i]))
			delta = 0
		}
		for _, stress := range p {
			pitch, vel := tonic, uint8(70)
			if stress != '0' {
				pitch, vel = tonic+7, 100
			}
			tr.Add(delta, midi.NoteOn(0, pitch, vel))
			tr.Add(noteLen, midi.NoteOff(0, pitch))
			delta = 0
		}
		if breaks[i] {
			label := "phrase"
			if sections[i] {
				label = "section"
			}
			tr.Add(0, smf.MetaMarker(label))
			delta = noteLen
		}
	}
	tr.Close(delta)

	file := smf.New()
	file.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	if err := file.Add(tr); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("write smf: %w", err)
	}
	return nil
}
