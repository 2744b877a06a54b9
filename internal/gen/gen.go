// Package gen produces placeholder copy for generated content.
//
// Two flavours share one gofakeit Faker-backed implementation: Random draws
// from a seeded PCG and Static feeds the Faker from a call counter so repeated
// runs yield identical text after Reset.
package gen

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Generator is the helper surface exposed to providers.
type Generator interface {
	Word() string
	Words(n int) string
	Sentence(words int) string
	Name(length int) string
	String(length int) string
	Abbreviation(length int) string
	Paragraph() string
	Paragraphs(n int) []string
	HTMLHeading(level int) string
	HTMLParagraph() string
	RichText(paragraphs int) string
	Markdown(paragraphs int) string
	URL(domain string) string
	Email(domain string) string
	Phone() string
	Bool() bool
	Int(min, max int) int
	Date(from, to time.Time) time.Time
	Item(items []string) string
	Items(items []string, n int) []string
}

type text struct {
	fake  *gofakeit.Faker
	title cases.Caser
}

func newText(src rand.Source) text {
	return text{fake: gofakeit.NewFaker(src, true), title: cases.Title(language.English)}
}

// intN returns a value in [0, n). n is always > 0.
func (t text) intN(n int) int {
	return t.fake.Number(0, n-1)
}

// Random generates randomized copy.
type Random struct {
	text
	seed uint64
}

// NewRandom returns a generator seeded with seed. A zero seed is replaced by
// the current time.
func NewRandom(seed uint64) *Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Random{text: newText(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed: seed}
}

// Seed reports the effective seed.
func (r *Random) Seed() uint64 {
	return r.seed
}

// Static generates deterministic copy driven by a call counter.
type Static struct {
	text
	counter *counter
}

// counter is a rand.Source that derives each value from the number of draws
// so far. Rewinding n replays the same sequence.
type counter struct {
	mu   sync.Mutex
	n    uint64
	item int
}

func (c *counter) Uint64() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	z := c.n * 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// NewStatic returns a deterministic generator positioned at the start of its cycle.
func NewStatic() *Static {
	c := &counter{}
	return &Static{text: newText(c), counter: c}
}

// Reset rewinds the cycle so the next calls repeat the first outputs.
func (s *Static) Reset() {
	s.counter.mu.Lock()
	defer s.counter.mu.Unlock()
	s.counter.n = 0
	s.counter.item = 0
}

// Item walks items in order, one step per call.
func (s *Static) Item(items []string) string {
	if len(items) == 0 {
		return ""
	}
	s.counter.mu.Lock()
	defer s.counter.mu.Unlock()
	v := items[s.counter.item%len(items)]
	s.counter.item++
	return v
}

func (t text) Word() string {
	return t.fake.LoremIpsumWord()
}

func (t text) Words(n int) string {
	if n <= 0 {
		n = 1
	}
	words := make([]string, n)
	for i := range words {
		words[i] = t.Word()
	}
	return strings.Join(words, " ")
}

// Sentence returns a capitalised sentence. words <= 0 picks 5 to 14 words.
func (t text) Sentence(words int) string {
	if words <= 0 {
		words = t.fake.Number(5, 14)
	}
	body := t.Words(words)
	return t.title.String(body[:firstWordEnd(body)]) + body[firstWordEnd(body):] + "."
}

func firstWordEnd(s string) int {
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		return idx
	}
	return len(s)
}

// Name returns a pronounceable, title-cased name. length <= 0 defaults to 8.
func (t text) Name(length int) string {
	if length <= 0 {
		length = 8
	}
	var b strings.Builder
	for i := 0; i < length; i++ {
		if i%2 == 0 {
			b.WriteByte(consonants[t.intN(len(consonants))])
		} else {
			b.WriteByte(vowels[t.intN(len(vowels))])
		}
	}
	return t.title.String(b.String())
}

func (t text) String(length int) string {
	if length <= 0 {
		length = 8
	}
	return t.fake.Password(true, true, true, false, false, length)
}

func (t text) Abbreviation(length int) string {
	if length <= 0 {
		length = 2
	}
	return strings.ToUpper(t.fake.LetterN(uint(length)))
}

// Paragraph returns three to six sentences.
func (t text) Paragraph() string {
	n := t.fake.Number(3, 6)
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = t.Sentence(0)
	}
	return strings.Join(sentences, " ")
}

func (t text) Paragraphs(n int) []string {
	if n <= 0 {
		n = 1
	}
	out := make([]string, n)
	for i := range out {
		out[i] = t.Paragraph()
	}
	return out
}

// HTMLHeading wraps a short sentence in <hN>. level is clamped to 1..6.
func (t text) HTMLHeading(level int) string {
	level = min(max(level, 1), 6)
	heading := strings.TrimSuffix(t.Sentence(t.fake.Number(3, 5)), ".")
	return fmt.Sprintf("<h%d>%s</h%d>", level, heading, level)
}

func (t text) HTMLParagraph() string {
	return "<p>" + t.Paragraph() + "</p>"
}

func (t text) URL(domain string) string {
	if domain == "" {
		domain = t.fake.RandomString(domainWords) + ".com"
	}
	return fmt.Sprintf("https://www.%s/%s/%s", domain, t.Word(), t.Word())
}

func (t text) Email(domain string) string {
	if domain == "" {
		domain = t.fake.RandomString(domainWords) + ".com"
	}
	return strings.ToLower(t.Name(6)) + "@" + domain
}

// Phone returns a number in the reserved 555 range.
func (t text) Phone() string {
	return t.fake.Numerify("+1 555 01## ####")
}

func (t text) Bool() bool {
	return t.fake.Bool()
}

// Int returns a value in [lo, hi]. Bounds are swapped when reversed.
func (t text) Int(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return t.fake.Number(lo, hi)
}

// Date returns a second-resolution time in [from, to].
func (t text) Date(from, to time.Time) time.Time {
	if to.Before(from) {
		from, to = to, from
	}
	span := int(to.Sub(from) / time.Second)
	if span <= 0 {
		return from
	}
	return from.Add(time.Duration(t.fake.Number(0, span)) * time.Second)
}

func (t text) Item(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return t.fake.RandomString(items)
}

// Items returns up to n distinct entries of items.
func (t text) Items(items []string, n int) []string {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	shuffled := append([]string(nil), items...)
	t.fake.ShuffleStrings(shuffled)
	return shuffled[:min(n, len(shuffled))]
}

var (
	_ Generator = (*Random)(nil)
	_ Generator = (*Static)(nil)
)
