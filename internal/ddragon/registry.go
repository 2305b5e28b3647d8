package ddragon

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const defaultBaseURL = "https://ddragon.leagueoflegends.com"

// entry holds one unit or item record from Data Dragon.
type entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Registry maps opaque TFT identifiers to display names. It is populated
// once at process start via Load and read-only afterwards. Lookups for
// unknown ids fall back to a deterministic name derived from the id itself,
// so the registry is usable (degraded) even when Load never ran.
type Registry struct {
	baseURL   string
	client    *http.Client
	mu        sync.RWMutex
	champions map[string]string
	items     map[string]string
	version   string
	loaded    bool
}

// NewRegistry creates an empty registry pointing at the public Data Dragon CDN.
func NewRegistry() *Registry {
	return &Registry{
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		champions: make(map[string]string),
		items:     make(map[string]string),
	}
}

// NewRegistryWithBase creates a registry against a custom Data Dragon host.
func NewRegistryWithBase(baseURL string) *Registry {
	r := NewRegistry()
	r.baseURL = baseURL
	return r
}

// Load fetches the latest TFT champion and item tables from Data Dragon.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var versions []string
	if err := r.fetch("/api/versions.json", &versions); err != nil {
		return fmt.Errorf("failed to fetch versions: %w", err)
	}
	if len(versions) == 0 {
		return fmt.Errorf("no versions available")
	}
	r.version = versions[0]

	var champData struct {
		Data map[string]entry `json:"data"`
	}
	champURL := fmt.Sprintf("/cdn/%s/data/en_US/tft-champion.json", r.version)
	if err := r.fetch(champURL, &champData); err != nil {
		return fmt.Errorf("failed to fetch tft champions: %w", err)
	}
	for _, c := range champData.Data {
		if c.ID != "" && c.Name != "" {
			r.champions[c.ID] = c.Name
		}
	}

	var itemData struct {
		Data map[string]entry `json:"data"`
	}
	itemURL := fmt.Sprintf("/cdn/%s/data/en_US/tft-item.json", r.version)
	if err := r.fetch(itemURL, &itemData); err != nil {
		return fmt.Errorf("failed to fetch tft items: %w", err)
	}
	for _, it := range itemData.Data {
		if it.ID != "" && it.Name != "" {
			r.items[it.ID] = it.Name
		}
	}

	r.loaded = true
	fmt.Printf("Loaded %d TFT champions and %d items from Data Dragon (v%s)\n",
		len(r.champions), len(r.items), r.version)
	return nil
}

func (r *Registry) fetch(path string, out interface{}) error {
	resp, err := r.client.Get(r.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("data dragon returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ChampionName returns the display name for a unit id, falling back to a
// name derived from the id when unknown.
func (r *Registry) ChampionName(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.champions[id]; ok {
		return name
	}
	return FallbackName(id)
}

// ItemName returns the display name for an item id, falling back to a name
// derived from the id when unknown.
func (r *Registry) ItemName(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.items[id]; ok {
		return name
	}
	return FallbackName(id)
}

// IsLoaded returns whether Load has completed successfully.
func (r *Registry) IsLoaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}
