package catalog

// Well-known parameter labels stored by the provider admin UI.
const (
	paramAPIKey               = "API_KEY"
	paramGroupID              = "GROUP_ID"
	paramWebhookURL           = "WEBHOOK_URL"
	paramJSON2VideoAPIKey     = "JSON2VIDEO_API_KEY"
	paramJSON2VideoWebhookURL = "JSON2VIDEO_WEBHOOK_URL"
)

// Settings is the typed view over a provider's label/value parameter bag.
// Empty string means "not configured".
type Settings struct {
	APIKey               string
	GroupID              string
	WebhookURL           string
	JSON2VideoAPIKey     string
	JSON2VideoWebhookURL string
}

// FlattenParameters collapses the parameter list into a map. Entries with an
// empty label or value are skipped; duplicate labels resolve last-wins.
func FlattenParameters(p *Provider) map[string]string {
	out := make(map[string]string)
	if p == nil {
		return out
	}
	for _, param := range p.Parameters {
		if param.Label == "" || param.Value == "" {
			continue
		}
		out[param.Label] = param.Value
	}
	return out
}

// SettingsFromParameters is the single mapping step from the raw parameter
// bag to the typed settings bundle.
func SettingsFromParameters(p *Provider) Settings {
	params := FlattenParameters(p)
	return Settings{
		APIKey:               params[paramAPIKey],
		GroupID:              params[paramGroupID],
		WebhookURL:           params[paramWebhookURL],
		JSON2VideoAPIKey:     params[paramJSON2VideoAPIKey],
		JSON2VideoWebhookURL: params[paramJSON2VideoWebhookURL],
	}
}

// ProviderConfig bundles everything a handler needs about one provider.
type ProviderConfig struct {
	Provider *Provider
	Models   []Model
	Settings Settings
}
