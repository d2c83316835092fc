// internal/process/catalog.go
package process

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// SettingsCatalog is a file-backed FormSettings lookup. The builder UI
// owns the authoring of these settings; this service only reads them.
type SettingsCatalog struct {
	mu    sync.RWMutex
	forms map[string]FormSettings
}

// LoadSettingsCatalog reads a JSON array of form settings from disk.
func LoadSettingsCatalog(path string) (*SettingsCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var all []FormSettings
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	c := NewSettingsCatalog()
	for _, fs := range all {
		c.Put(fs)
	}
	return c, nil
}

func NewSettingsCatalog() *SettingsCatalog {
	return &SettingsCatalog{forms: make(map[string]FormSettings)}
}

// Put registers or replaces one form's settings.
func (c *SettingsCatalog) Put(fs FormSettings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forms[fs.FormID] = fs
}

// FormSettings returns the settings for a form id.
func (c *SettingsCatalog) FormSettings(ctx context.Context, formID string) (*FormSettings, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fs, ok := c.forms[formID]
	if !ok {
		return nil, fmt.Errorf("no settings registered for form %q", formID)
	}
	return &fs, nil
}
