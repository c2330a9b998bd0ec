// Package lexicon loads pronunciation data used to count syllables exactly
// for words the heuristic counter gets wrong.
package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var errSkipLine = errors.New("skip line")

// Dictionary maps lowercase words to the syllable count of their primary
// pronunciation.
type Dictionary struct {
	syllables map[string]int
	Stats     Stats
}

// Stats holds parser statistics for logging.
type Stats struct {
	TotalLines   int
	CommentLines int
	ParsedLines  int
	UniqueWords  int
}

// LoadCMU reads a CMU Pronouncing Dictionary file.
func LoadCMU(filePath string) (*Dictionary, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ParseCMU(f)
}

// ParseCMU parses CMU dictionary lines ("WORD  P1 P2 ..."). Alternate
// pronunciations ("WORD(2)") are ignored.
func ParseCMU(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{syllables: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		d.Stats.TotalLines++
		line := scanner.Text()

		word, variant, count, err := parseLine(line)
		if err == errSkipLine {
			if strings.HasPrefix(line, ";;;") {
				d.Stats.CommentLines++
			}
			continue
		}
		if err != nil {
			continue
		}

		d.Stats.ParsedLines++
		if _, seen := d.syllables[word]; seen && variant > 0 {
			continue
		}
		d.syllables[word] = count
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	d.Stats.UniqueWords = len(d.syllables)
	return d, nil
}

// Syllables reports the dictionary syllable count for word, case-insensitive.
func (d *Dictionary) Syllables(word string) (int, bool) {
	if d == nil {
		return 0, false
	}
	n, ok := d.syllables[strings.ToLower(word)]
	return n, ok
}

func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.syllables)
}

func parseLine(line string) (word string, variant, syllables int, err error) {
	if line == "" || strings.HasPrefix(line, ";;;") {
		return "", 0, 0, errSkipLine
	}

	// Two spaces separate the word from its phonemes.
	parts := strings.SplitN(line, "  ", 2)
	if len(parts) != 2 {
		return "", 0, 0, errSkipLine
	}

	rawWord := strings.TrimSpace(parts[0])
	phonemes := strings.Fields(parts[1])
	if rawWord == "" || len(phonemes) == 0 {
		return "", 0, 0, errSkipLine
	}

	word, variant = parseWordAndVariant(rawWord)
	return word, variant, countVowels(phonemes), nil
}

// countVowels counts phonemes carrying a stress marker; in ARPAbet only
// vowels do, one per syllable.
func countVowels(phonemes []string) int {
	n := 0
	for _, p := range phonemes {
		last := p[len(p)-1]
		if last == '0' || last == '1' || last == '2' {
			n++
		}
	}
	return n
}

// parseWordAndVariant splits "HOUSE(2)" into "house" and variant index 1.
func parseWordAndVariant(raw string) (string, int) {
	idx := strings.IndexByte(raw, '(')
	if idx == -1 {
		return strings.ToLower(raw), 0
	}

	end := strings.IndexByte(raw[idx:], ')')
	if end == -1 {
		return strings.ToLower(raw), 0
	}

	n, err := strconv.Atoi(raw[idx+1 : idx+end])
	if err != nil {
		return strings.ToLower(raw), 0
	}
	return strings.ToLower(raw[:idx]), n - 1
}
