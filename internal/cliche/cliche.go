// Package cliche flags stock phrases and worn-out rhyme pairs.
package cliche

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"poemlab/internal/preprocess"
)

//go:embed phrases.txt
var phrasesTxt []byte

//go:embed pairs.txt
var pairsTxt []byte

// Reports with at least this share of lines carrying a finding are flagged.
const heavyShare = 0.25

type Kind string

const (
	Phrase    Kind = "phrase"
	RhymePair Kind = "rhyme_pair"
)

type Finding struct {
	Kind Kind   `json:"kind"`
	Line int    `json:"line"`
	Text string `json:"text"`
	// Word is the index of the first matched word within the line.
	Word int `json:"word"`
}

type Report struct {
	Findings []Finding `json:"findings"`
	Share    float64   `json:"share"`
	Flags    []string  `json:"flags"`
}

var (
	phrases [][]string
	pairs   map[string]map[string]struct{}
)

func init() {
	phrases = nil
	for _, line := range readLines(phrasesTxt) {
		phrases = append(phrases, strings.Fields(line))
	}
	pairs = map[string]map[string]struct{}{}
	for _, line := range readLines(pairsTxt) {
		parts := strings.Split(line, "\t")
		if len(parts) != 2 {
			continue
		}
		addPair(parts[0], parts[1])
		addPair(parts[1], parts[0])
	}
}

func addPair(a, b string) {
	if pairs[a] == nil {
		pairs[a] = map[string]struct{}{}
	}
	pairs[a][b] = struct{}{}
}

func readLines(raw []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.ToLower(line))
	}
	return out
}

// tokenize matches the preprocessor's word split so word indices line up with the
// analyzed lines.
func tokenize(text string) []string {
	words := preprocess.Words(text)
	for i, w := range words {
		words[i] = strings.ToLower(strings.ReplaceAll(w, "’", "'"))
	}
	return words
}

// Analyze scans lines for stock phrases. rhymeGroups holds the line indices of each
// rhyme group; end words of lines in the same group are checked against the pair list.
func Analyze(lines []string, rhymeGroups [][]int) Report {
	r := Report{Findings: []Finding{}, Flags: []string{}}
	words := make([][]string, len(lines))
	for i, line := range lines {
		words[i] = tokenize(line)
		for _, p := range phrases {
			if at := indexOf(words[i], p); at >= 0 {
				r.Findings = append(r.Findings, Finding{Kind: Phrase, Line: i, Text: strings.Join(p, " "), Word: at})
			}
		}
	}

	for _, g := range rhymeGroups {
		for x := 0; x < len(g); x++ {
			for y := x + 1; y < len(g); y++ {
				a, b := g[x], g[y]
				if a < 0 || b < 0 || a >= len(words) || b >= len(words) || len(words[a]) == 0 || len(words[b]) == 0 {
					continue
				}
				wa, wb := words[a][len(words[a])-1], words[b][len(words[b])-1]
				if _, ok := pairs[wa][wb]; ok {
					r.Findings = append(r.Findings, Finding{Kind: RhymePair, Line: b, Text: wa + "/" + wb, Word: len(words[b]) - 1})
				}
			}
		}
	}

	sort.SliceStable(r.Findings, func(i, j int) bool {
		if r.Findings[i].Line != r.Findings[j].Line {
			return r.Findings[i].Line < r.Findings[j].Line
		}
		return r.Findings[i].Word < r.Findings[j].Word
	})

	if len(lines) > 0 {
		hit := map[int]bool{}
		for _, f := range r.Findings {
			hit[f.Line] = true
		}
		r.Share = float64(len(hit)) / float64(len(lines))
	}
	if r.Share >= heavyShare {
		r.Flags = append(r.Flags, fmt.Sprintf("Stock language on %.0f%% of lines", r.Share*100))
	}
	return r
}

func indexOf(words, phrase []string) int {
	if len(phrase) == 0 {
		return -1
	}
outer:
	for i := 0; i+len(phrase) <= len(words); i++ {
		for j, p := range phrase {
			if words[i+j] != p {
				continue outer
			}
		}
		return i
	}
	return -1
}
