package file

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/marl/pkg/core"
)

// storeData is the persistent shape of the whole store file.
type storeData struct {
	Version   int             `json:"version" yaml:"version"`
	UpdatedAt time.Time       `json:"updated_at" yaml:"updated_at"`
	Documents []core.Document `json:"documents" yaml:"documents"`
}

// Serializer defines how the store file is encoded on disk.
type Serializer interface {
	// Encode converts the store contents to bytes.
	Encode(data *storeData) ([]byte, error)
	// Decode parses bytes back into store contents.
	Decode(raw []byte) (*storeData, error)
}

// SerializerFor picks a serializer by file extension (".yaml"/".yml" get
// YAML, everything else JSON).
func SerializerFor(ext string) Serializer {
	switch ext {
	case ".yaml", ".yml":
		return &YAMLSerializer{}
	default:
		return &JSONSerializer{}
	}
}

// JSONSerializer stores documents as indented JSON.
type JSONSerializer struct{}

func (s *JSONSerializer) Encode(data *storeData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

func (s *JSONSerializer) Decode(raw []byte) (*storeData, error) {
	var data storeData
	decoder := json.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	normalizeDocuments(&data)
	return &data, nil
}

// YAMLSerializer stores documents as YAML.
type YAMLSerializer struct{}

func (s *YAMLSerializer) Encode(data *storeData) ([]byte, error) {
	return yaml.Marshal(data)
}

func (s *YAMLSerializer) Decode(raw []byte) (*storeData, error) {
	var data storeData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	normalizeDocuments(&data)
	return &data, nil
}

// normalizeDocuments deep-copies decoded documents so every nested value
// uses the canonical map/slice shapes the comparison helpers expect.
// YAML in particular decodes nested mappings as map[string]any already, but
// cloning also detaches the documents from the decoder's buffers.
func normalizeDocuments(data *storeData) {
	for i, doc := range data.Documents {
		data.Documents[i] = doc.Clone()
	}
}
