package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_TableOrder(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, []string{
		"about", "services", "jobs", "career", "apply",
		"benefits", "contact", "location", "skills", "requirements",
	}, c.TopicNames())
	assert.Equal(t, "about", c.DefaultTopic)
	assert.Len(t, c.DomainKeywords, 26)
	assert.Equal(t, []string{"cr", "it", "infopark", "company", "job", "career", "service", "about", "work", "apply"}, c.CoarseKeywords)
}

func TestDefaultCatalog_Invariants(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())

	for _, topic := range c.Topics {
		assert.NotEmpty(t, topic.Keywords, topic.Name)
		assert.NotEmpty(t, topic.Answer, topic.Name)
	}

	apply, ok := c.Topic("apply")
	require.True(t, ok)
	assert.Contains(t, apply.Keywords, "how to")
	assert.Contains(t, apply.Answer, "careers@critinfopark.com")
}

func TestDefaultCatalog_QuickActions(t *testing.T) {
	c := DefaultCatalog()

	gen := c.Actions("generative")
	require.Len(t, gen, 5)
	assert.Equal(t, "About Company", gen[0].Label)
	assert.Equal(t, "Tell me about CR IT Infopark in brief", gen[0].Prompt)

	ret := c.Actions("retrieval")
	require.Len(t, ret, 5)
	assert.Equal(t, "How do I apply for a job?", ret[2].Prompt)

	assert.Empty(t, c.Actions("unknown"))
}

func TestParseCatalog_LowercasesKeywords(t *testing.T) {
	c, err := ParseCatalog([]byte(`
domain_keywords: [Infopark]
default_topic: greet
topics:
  - name: greet
    keywords: [Hello, " HI "]
    answer: hey
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"infopark"}, c.DomainKeywords)
	assert.Equal(t, []string{"hello", "hi"}, c.Topics[0].Keywords)
}

func TestParseCatalog_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{
			name: "empty table",
			yaml: "default_topic: about\n",
			err:  ErrEmptyTopicTable,
		},
		{
			name: "duplicate name",
			yaml: `
default_topic: a
topics:
  - {name: a, keywords: [x], answer: one}
  - {name: a, keywords: [y], answer: two}
`,
			err: ErrInvalidTopic,
		},
		{
			name: "no keywords",
			yaml: `
default_topic: a
topics:
  - {name: a, keywords: [], answer: one}
`,
			err: ErrInvalidTopic,
		},
		{
			name: "blank answer",
			yaml: `
default_topic: a
topics:
  - {name: a, keywords: [x], answer: "  "}
`,
			err: ErrInvalidTopic,
		},
		{
			name: "blank coarse keyword",
			yaml: `
coarse_keywords: [job, "  "]
default_topic: a
topics:
  - {name: a, keywords: [x], answer: one}
`,
			err: ErrInvalidTopic,
		},
		{
			name: "empty domain keyword",
			yaml: `
domain_keywords: [""]
default_topic: a
topics:
  - {name: a, keywords: [x], answer: one}
`,
			err: ErrInvalidTopic,
		},
		{
			name: "unknown default",
			yaml: `
default_topic: missing
topics:
  - {name: a, keywords: [x], answer: one}
`,
			err: ErrUnknownDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseCatalog_BadYAML(t *testing.T) {
	_, err := ParseCatalog([]byte("topics: [unclosed"))
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, c.Topics, 10)

	path := filepath.Join(t.TempDir(), "topics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_topic: only
topics:
  - {name: only, keywords: [x], answer: single}
`), 0o644))

	c, err = LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, c.TopicNames())

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDocument(t *testing.T) {
	doc, err := LoadDocument("")
	require.NoError(t, err)
	assert.Equal(t, "embedded", doc.Source)
	assert.Contains(t, doc.Text, "CR IT Infopark")

	doc, err = LoadDocument(filepath.Join(t.TempDir(), "company_knowledge.md"))
	require.NoError(t, err)
	assert.Equal(t, MissingDocumentText, doc.Text)

	path := filepath.Join(t.TempDir(), "kb.md")
	require.NoError(t, os.WriteFile(path, []byte("custom knowledge"), 0o644))
	doc, err = LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "custom knowledge", doc.Text)
}
