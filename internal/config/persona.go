package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFraming is used when no persona file is configured.
const DefaultFraming = "You are a helpful assistant for the engineering faculty. " +
	"Answer accurately and concisely, using the provided background material when it is relevant."

// Persona describes the assistant's fixed framing text and the knowledge
// documents whose contents are pre-extracted at startup as background text.
type Persona struct {
	Framing            string   `yaml:"framing"`
	KnowledgeDocuments []string `yaml:"knowledge_documents"`
	KnowledgeMaxChars  int      `yaml:"knowledge_max_chars"`
}

func defaultPersona() Persona {
	return Persona{
		Framing:           DefaultFraming,
		KnowledgeMaxChars: 8000,
	}
}

// LoadPersona reads the persona YAML file. An empty or missing path yields
// the defaults; a malformed file is an error.
func LoadPersona(path string) (Persona, error) {
	persona := defaultPersona()
	if path == "" {
		return persona, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return persona, nil
		}
		return Persona{}, fmt.Errorf("read persona file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &persona); err != nil {
		return Persona{}, fmt.Errorf("parse persona file: %w", err)
	}

	if persona.Framing == "" {
		persona.Framing = DefaultFraming
	}
	if persona.KnowledgeMaxChars <= 0 {
		persona.KnowledgeMaxChars = 8000
	}
	return persona, nil
}
