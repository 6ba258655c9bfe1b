package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilityList_UnmarshalArray(t *testing.T) {
	var m Model
	err := json.Unmarshal([]byte(`{"modelKey":"gpt-4o","capabilities":["text","image"]}`), &m)
	assert.NoError(t, err)
	assert.Equal(t, CapabilityList{CapabilityText, CapabilityImage}, m.Capabilities)
}

func TestCapabilityList_UnmarshalEncodedString(t *testing.T) {
	var m Model
	err := json.Unmarshal([]byte(`{"modelKey":"gpt-4o","capabilities":"[\"text\",\"video\"]"}`), &m)
	assert.NoError(t, err)
	assert.Equal(t, CapabilityList{CapabilityText, CapabilityVideo}, m.Capabilities)
}

func TestCapabilityList_MalformedIsEmptySet(t *testing.T) {
	var m Model
	err := json.Unmarshal([]byte(`{"modelKey":"gpt-4o","capabilities":"not json"}`), &m)
	assert.NoError(t, err)
	assert.Empty(t, m.Capabilities)
}

func TestParseCapabilities_Idempotent(t *testing.T) {
	in := CapabilityList{CapabilityText, CapabilityImage}
	assert.Equal(t, in, ParseCapabilities(in))
	assert.Equal(t, CapabilityList{CapabilityText, CapabilityImage}, ParseCapabilities(`["text","image"]`))
	assert.Empty(t, ParseCapabilities("not json"))
	assert.Empty(t, ParseCapabilities(42))
}

func TestParameter_UnmarshalDefaultsValue(t *testing.T) {
	var p Parameter
	assert.NoError(t, json.Unmarshal([]byte(`{"id":"1","label":"API_KEY"}`), &p))
	assert.Equal(t, "API_KEY", p.Label)
	assert.Equal(t, "", p.Value)

	assert.NoError(t, json.Unmarshal([]byte(`{"id":"1","label":"API_KEY","value":null}`), &p))
	assert.Equal(t, "", p.Value)
}

func TestModel_HasCapability(t *testing.T) {
	m := Model{Capabilities: CapabilityList{CapabilityText, CapabilityVideo}}
	assert.True(t, m.HasCapability(CapabilityVideo))
	assert.True(t, m.HasCapability(Capability("VIDEO")))
	assert.False(t, m.HasCapability(CapabilityAudio))
}

func TestFlattenParameters(t *testing.T) {
	p := &Provider{Parameters: []Parameter{
		{Label: "API_KEY", Value: "first"},
		{Label: "", Value: "skipped"},
		{Label: "EMPTY", Value: ""},
		{Label: "API_KEY", Value: "last-wins"},
		{Label: "GROUP_ID", Value: "g1"},
	}}

	flat := FlattenParameters(p)
	assert.Equal(t, "last-wins", flat["API_KEY"])
	assert.Equal(t, "g1", flat["GROUP_ID"])
	assert.NotContains(t, flat, "")
	assert.NotContains(t, flat, "EMPTY")
}

func TestSettingsFromParameters(t *testing.T) {
	p := &Provider{Parameters: []Parameter{
		{Label: "API_KEY", Value: "abc"},
		{Label: "GROUP_ID", Value: "g1"},
	}}

	s := SettingsFromParameters(p)
	assert.Equal(t, "abc", s.APIKey)
	assert.Equal(t, "g1", s.GroupID)
	assert.Equal(t, "", s.WebhookURL)
	assert.Equal(t, "", s.JSON2VideoAPIKey)
	assert.Equal(t, "", s.JSON2VideoWebhookURL)
}
