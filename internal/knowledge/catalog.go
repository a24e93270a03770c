// Package knowledge holds the static inputs of the assistant: the company
// knowledge document, the keyword sets, the ordered topic table and the
// quick-action prompts. Everything is loaded once at startup and treated as
// read-only afterwards.
package knowledge

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Topic is one row of the retrieval table.
type Topic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

// QuickAction is a canned prompt offered by the chat surface.
type QuickAction struct {
	Label  string `yaml:"label"`
	Icon   string `yaml:"icon,omitempty"`
	Prompt string `yaml:"prompt"`
}

// Catalog is the parsed form of catalog.yaml.
type Catalog struct {
	DomainKeywords []string                 `yaml:"domain_keywords"`
	CoarseKeywords []string                 `yaml:"coarse_keywords"`
	DefaultTopic   string                   `yaml:"default_topic"`
	Topics         []Topic                  `yaml:"topics"`
	QuickActions   map[string][]QuickAction `yaml:"quick_actions"`
}

var (
	ErrEmptyTopicTable = errors.New("topic table is empty")
	ErrInvalidTopic    = errors.New("invalid topic")
	ErrUnknownDefault  = errors.New("default topic not in table")
)

// DefaultCatalog parses the embedded catalog. It panics on a malformed
// embed since that can only be a build defect.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog override from path. An empty path returns the
// embedded default.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topics file: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates YAML catalog data. Keywords are
// lowercased so matching can work on a lowercased query.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) normalize() {
	c.DomainKeywords = lowerAll(c.DomainKeywords)
	c.CoarseKeywords = lowerAll(c.CoarseKeywords)
	c.DefaultTopic = strings.TrimSpace(c.DefaultTopic)
	for i := range c.Topics {
		c.Topics[i].Name = strings.TrimSpace(c.Topics[i].Name)
		c.Topics[i].Keywords = lowerAll(c.Topics[i].Keywords)
	}
}

// Validate checks the table invariants: at least one topic, unique names,
// non-empty keywords and answers, and a default that exists. Gate keyword
// lists may not hold empty entries, since "" matches every query.
func (c *Catalog) Validate() error {
	if len(c.Topics) == 0 {
		return ErrEmptyTopicTable
	}
	if err := checkKeywords("domain_keywords", c.DomainKeywords); err != nil {
		return err
	}
	if err := checkKeywords("coarse_keywords", c.CoarseKeywords); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Topics))
	for i, t := range c.Topics {
		if t.Name == "" {
			return fmt.Errorf("%w: topic #%d has no name", ErrInvalidTopic, i+1)
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: duplicate topic %q", ErrInvalidTopic, t.Name)
		}
		seen[t.Name] = true
		if len(t.Keywords) == 0 {
			return fmt.Errorf("%w: topic %q has no keywords", ErrInvalidTopic, t.Name)
		}
		for _, kw := range t.Keywords {
			if kw == "" {
				return fmt.Errorf("%w: topic %q has an empty keyword", ErrInvalidTopic, t.Name)
			}
		}
		if strings.TrimSpace(t.Answer) == "" {
			return fmt.Errorf("%w: topic %q has no answer", ErrInvalidTopic, t.Name)
		}
	}
	if !seen[c.DefaultTopic] {
		return fmt.Errorf("%w: %q", ErrUnknownDefault, c.DefaultTopic)
	}
	return nil
}

// Topic returns the named topic.
func (c *Catalog) Topic(name string) (Topic, bool) {
	for _, t := range c.Topics {
		if t.Name == name {
			return t, true
		}
	}
	return Topic{}, false
}

// TopicNames returns topic names in table order.
func (c *Catalog) TopicNames() []string {
	names := make([]string, len(c.Topics))
	for i, t := range c.Topics {
		names[i] = t.Name
	}
	return names
}

// Actions returns the quick actions configured for a strategy.
func (c *Catalog) Actions(strategy string) []QuickAction {
	return c.QuickActions[strategy]
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}

func checkKeywords(list string, keywords []string) error {
	for i, kw := range keywords {
		if kw == "" {
			return fmt.Errorf("%w: %s entry #%d is empty", ErrInvalidTopic, list, i+1)
		}
	}
	return nil
}
