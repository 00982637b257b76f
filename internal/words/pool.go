// Package words owns the drawing vocabulary: difficulty tiers, short-term
// locks on words in active use, and the masked renderings shown to players
// who have not guessed yet.
package words

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// How long a picked word is considered "in use". Selection is biased away
// from locked words; the lock is never a hard gate.
const lockDuration = 30 * time.Second

// How many re-rolls Pick attempts before serving a locked word anyway.
const pickRetries = 5

const fallbackTier = "easy"

// Pool selects words per difficulty tier and tracks which words were handed
// out recently so two rooms rarely draw the same word back to back.
type Pool struct {
	mu    sync.Mutex
	tiers map[string][]string
	locks map[string]time.Time
	now   func() time.Time
}

// NewPool validates the tiers and builds a pool. An empty tier is a
// configuration error and should be fatal at startup.
func NewPool(tiers map[string][]string) (*Pool, error) {
	if len(tiers) == 0 {
		return nil, errors.New("no word tiers configured")
	}
	if _, ok := tiers[fallbackTier]; !ok {
		return nil, fmt.Errorf("word tiers must include %q", fallbackTier)
	}
	for tier, list := range tiers {
		if len(list) == 0 {
			return nil, fmt.Errorf("word tier %q is empty", tier)
		}
	}
	return &Pool{
		tiers: tiers,
		locks: make(map[string]time.Time),
		now:   time.Now,
	}, nil
}

// Pick returns a random word from the tier, locking it until Release or the
// lock expires. Unknown difficulties fall back to the easiest tier.
func (p *Pool) Pick(difficulty string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	list, ok := p.tiers[strings.ToLower(difficulty)]
	if !ok {
		list = p.tiers[fallbackTier]
	}

	word := list[rand.Intn(len(list))]
	for i := 0; i < pickRetries && p.lockedLocked(word); i++ {
		word = list[rand.Intn(len(list))]
	}
	p.locks[strings.ToLower(word)] = p.now()
	return word
}

// Release drops the lock on a word. Called when its round ends, whatever the
// outcome.
func (p *Pool) Release(word string) {
	p.mu.Lock()
	delete(p.locks, strings.ToLower(word))
	p.mu.Unlock()
}

// IsLocked reports whether the word was picked less than lockDuration ago
// and not yet released.
func (p *Pool) IsLocked(word string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lockedLocked(word)
}

func (p *Pool) lockedLocked(word string) bool {
	at, ok := p.locks[strings.ToLower(word)]
	return ok && p.now().Sub(at) < lockDuration
}

// Mask renders a word with only a fraction of its characters revealed. The
// first character is always shown, then random positions until at least
// ceil(len * revealFraction) positions (minimum 1) are visible. The choice
// of positions is randomized per call.
func Mask(word string, revealFraction float64) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}

	reveal := int(math.Ceil(float64(len(runes)) * revealFraction))
	if reveal < 1 {
		reveal = 1
	}
	if reveal > len(runes) {
		reveal = len(runes)
	}

	revealed := make(map[int]bool, reveal)
	revealed[0] = true
	for len(revealed) < reveal {
		revealed[rand.Intn(len(runes))] = true
	}

	return render(runes, func(i int) bool { return revealed[i] })
}

// Hint renders a word as blanks, optionally revealing the first and last
// letters. With both flags false only the word's length shows.
func Hint(word string, first, last bool) string {
	runes := []rune(word)
	return render(runes, func(i int) bool {
		return (first && i == 0) || (last && i == len(runes)-1)
	})
}

func render(runes []rune, show func(int) bool) string {
	parts := make([]string, len(runes))
	for i, r := range runes {
		if show(i) {
			parts[i] = string(r)
		} else {
			parts[i] = "_"
		}
	}
	return strings.Join(parts, " ")
}

// LoadDir reads one <tier>.txt file per difficulty from dir, one word per
// line, skipping blanks.
func LoadDir(dir string) (map[string][]string, error) {
	tiers := make(map[string][]string)
	for _, tier := range []string{"easy", "medium", "hard"} {
		list, err := loadFile(filepath.Join(dir, tier+".txt"))
		if err != nil {
			return nil, fmt.Errorf("loading %s words: %w", tier, err)
		}
		tiers[tier] = list
	}
	return tiers, nil
}

func loadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var list []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if word := strings.TrimSpace(scanner.Text()); word != "" {
			list = append(list, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
