package bank

import (
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultCategory = "general"

var ErrNotEnoughQuestions = errors.New("not enough questions in bank")

type Item struct {
	Text       string   `yaml:"text"`
	Category   string   `yaml:"category"`
	Difficulty float64  `yaml:"difficulty"`
	Keywords   []string `yaml:"keywords"`
}

type bankFile struct {
	Questions []Item `yaml:"questions"`
}

// Bank is an immutable list of interview questions read from YAML.
type Bank struct {
	items []Item
}

func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank %s: %w", path, err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("question bank %s: %w", path, err)
	}
	return b, nil
}

func Parse(data []byte) (*Bank, error) {
	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(file.Questions) == 0 {
		return nil, errors.New("no questions defined")
	}

	items := make([]Item, 0, len(file.Questions))
	for idx, item := range file.Questions {
		item.Text = strings.TrimSpace(item.Text)
		if item.Text == "" {
			return nil, fmt.Errorf("question %d has no text", idx+1)
		}
		if item.Difficulty < 0 || item.Difficulty > 10 {
			return nil, fmt.Errorf("question %d difficulty %.1f outside [0,10]", idx+1, item.Difficulty)
		}
		item.Category = strings.ToLower(strings.TrimSpace(item.Category))
		if item.Category == "" {
			item.Category = DefaultCategory
		}
		item.Keywords = normalizeKeywords(item.Keywords)
		items = append(items, item)
	}

	return &Bank{items: items}, nil
}

func (b *Bank) Len() int {
	return len(b.items)
}

// Pick returns n consecutive questions starting at an offset derived from
// seed, wrapping around the end of the bank. The same seed always yields the
// same questions.
func (b *Bank) Pick(seed string, n int) ([]Item, error) {
	if n <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", n)
	}
	if n > len(b.items) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrNotEnoughQuestions, n, len(b.items))
	}

	sum := sha1.Sum([]byte(seed))
	offset := int(binary.BigEndian.Uint32(sum[:4]) % uint32(len(b.items)))

	out := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		item := b.items[(offset+i)%len(b.items)]
		item.Keywords = append([]string(nil), item.Keywords...)
		out = append(out, item)
	}
	return out, nil
}

func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" || seen[keyword] {
			continue
		}
		seen[keyword] = true
		out = append(out, keyword)
	}
	return out
}
