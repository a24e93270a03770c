package knowledge

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

//go:embed company_knowledge.md
var defaultDocument string

// MissingDocumentText replaces the knowledge document when an override
// file cannot be found. The assistant keeps working with it.
const MissingDocumentText = "Company knowledge file not found. Please ensure company_knowledge.md exists."

// Document is the raw knowledge text embedded in the generative system prompt.
type Document struct {
	Source string
	Text   string
}

// DefaultDocument returns the embedded knowledge document.
func DefaultDocument() Document {
	return Document{Source: "embedded", Text: defaultDocument}
}

// LoadDocument reads the knowledge document. An empty path yields the
// embedded copy; a missing file yields MissingDocumentText. Other read
// errors are returned.
func LoadDocument(path string) (Document, error) {
	if path == "" {
		return DefaultDocument(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{Source: path, Text: MissingDocumentText}, nil
		}
		return Document{}, fmt.Errorf("reading knowledge file: %w", err)
	}
	return Document{Source: path, Text: string(data)}, nil
}
