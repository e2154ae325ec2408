package policy

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk fixture: a policy plus the wizard template.
type Document struct {
	Policy   Policy   `yaml:"policy"`
	Template Template `yaml:"template"`
}

// Load reads a policy document from a YAML file.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the user's flag/config
	if err != nil {
		return Document{}, fmt.Errorf("reading policy: %w", err)
	}
	return Parse(data)
}

// Parse decodes a policy document. Unknown keys are rejected so typos in
// fixtures surface instead of silently producing empty policies.
func Parse(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("parsing policy: %w", err)
	}
	if doc.Template.HelpLinks == nil {
		doc.Template.HelpLinks = map[string]string{}
	}
	return doc, nil
}
