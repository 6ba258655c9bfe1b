package catalog

import "context"

// ResolvedModelConfig is the request-scoped endpoint+credential bundle for
// one vendor call. A nil Model with non-empty credentials means the provider
// exists but no model satisfied the request, which lets handlers report "no
// model for capability" instead of "no credentials".
type ResolvedModelConfig struct {
	Model             *Model
	Endpoint          string
	APIKey            string
	GroupID           string
	SupportsStreaming bool
}

// Resolver turns (provider, model-key-or-default, capability) requests into
// concrete endpoint+credential bundles.
type Resolver struct {
	store *Store
}

func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// ModelConfig selects a model by exact modelKey match, falling back to the
// model flagged default, then to the first model in list order.
func (r *Resolver) ModelConfig(ctx context.Context, providerName, modelKey, token string) ResolvedModelConfig {
	cfg := r.store.Config(ctx, providerName, token)
	if cfg.Provider == nil || len(cfg.Models) == 0 {
		return ResolvedModelConfig{}
	}

	var selected *Model
	if modelKey != "" {
		for i := range cfg.Models {
			if cfg.Models[i].ModelKey == modelKey {
				selected = &cfg.Models[i]
				break
			}
		}
	}
	if selected == nil {
		for i := range cfg.Models {
			if cfg.Models[i].IsDefault {
				selected = &cfg.Models[i]
				break
			}
		}
	}
	if selected == nil {
		selected = &cfg.Models[0]
	}

	return ResolvedModelConfig{
		Model:             selected,
		Endpoint:          selected.Endpoint,
		APIKey:            cfg.Settings.APIKey,
		GroupID:           cfg.Settings.GroupID,
		SupportsStreaming: cfg.Provider.SupportsStreaming,
	}
}

// ModelByCapability selects the first model in list order whose capability
// set contains the capability. Unlike ModelConfig it does not prefer the
// default model; the first match wins.
func (r *Resolver) ModelByCapability(ctx context.Context, providerName string, capability Capability, token string) ResolvedModelConfig {
	cfg := r.store.Config(ctx, providerName, token)
	if cfg.Provider == nil {
		return ResolvedModelConfig{}
	}

	resolved := ResolvedModelConfig{
		APIKey:            cfg.Settings.APIKey,
		GroupID:           cfg.Settings.GroupID,
		SupportsStreaming: cfg.Provider.SupportsStreaming,
	}

	for i := range cfg.Models {
		if cfg.Models[i].HasCapability(capability) {
			resolved.Model = &cfg.Models[i]
			resolved.Endpoint = cfg.Models[i].Endpoint
			break
		}
	}

	return resolved
}
