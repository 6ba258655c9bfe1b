package catalog

import (
	"encoding/json"
	"strings"
)

// Capability tags what a model can generate.
type Capability string

const (
	CapabilityText  Capability = "text"
	CapabilityImage Capability = "image"
	CapabilityVideo Capability = "video"
	CapabilityAudio Capability = "audio"
)

// Well-known provider names, matched case-insensitively.
const (
	ProviderOpenAI      = "OpenAI"
	ProviderGoogleAI    = "Google AI"
	ProviderMiniMax     = "MiniMax"
	ProviderProprietary = "Propietario"
)

// Provider is one configured AI vendor integration as served by the backend
// catalog endpoint.
type Provider struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	IsActive          bool        `json:"isActive"`
	IsAvailable       bool        `json:"isAvailable"`
	RequiresAPIKey    bool        `json:"requiresApiKey"`
	SupportsStreaming bool        `json:"supportsStreaming"`
	Parameters        []Parameter `json:"parameters"`
	Models            []Model     `json:"models"`
}

// Parameter is a weakly-typed label/value pair. Duplicate labels are allowed;
// flattening is last-wins.
type Parameter struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

func (p *Parameter) UnmarshalJSON(data []byte) error {
	// Value may be absent or null in backend payloads; default to "".
	var raw struct {
		ID    string  `json:"id"`
		Label string  `json:"label"`
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ID = raw.ID
	p.Label = raw.Label
	if raw.Value != nil {
		p.Value = *raw.Value
	}
	return nil
}

// Model is a specific deployable model under a provider.
type Model struct {
	ID            string         `json:"id"`
	ModelKey      string         `json:"modelKey"`
	Name          string         `json:"name"`
	Endpoint      string         `json:"endpoint"`
	MaxTokens     int            `json:"maxTokens"`
	ContextWindow int            `json:"contextWindow"`
	Capabilities  CapabilityList `json:"capabilities"`
	IsDefault     bool           `json:"isDefault"`
}

// HasCapability reports whether the model's capability set contains c.
func (m *Model) HasCapability(c Capability) bool {
	for _, have := range m.Capabilities {
		if strings.EqualFold(string(have), string(c)) {
			return true
		}
	}
	return false
}

// CapabilityList tolerates the two serializations the backend produces: a
// plain JSON array, or the same array re-encoded as a JSON string. Malformed
// input decodes to an empty set, never an error.
type CapabilityList []Capability

func (c *CapabilityList) UnmarshalJSON(data []byte) error {
	var direct []Capability
	if err := json.Unmarshal(data, &direct); err == nil {
		*c = direct
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		var nested []Capability
		if err := json.Unmarshal([]byte(encoded), &nested); err == nil {
			*c = nested
			return nil
		}
	}

	*c = CapabilityList{}
	return nil
}

// ParseCapabilities normalizes a raw capabilities value that may be a string
// slice, a JSON-encoded string, or anything else (empty set).
func ParseCapabilities(raw interface{}) CapabilityList {
	switch v := raw.(type) {
	case CapabilityList:
		return v
	case []Capability:
		return CapabilityList(v)
	case []string:
		out := make(CapabilityList, 0, len(v))
		for _, s := range v {
			out = append(out, Capability(s))
		}
		return out
	case string:
		var nested []Capability
		if err := json.Unmarshal([]byte(v), &nested); err == nil {
			return nested
		}
		return CapabilityList{}
	default:
		return CapabilityList{}
	}
}
