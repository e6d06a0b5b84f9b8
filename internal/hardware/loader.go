// Package hardware loads hardware configuration documents and merges them
// into UI schemas.
package hardware

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/KevinKickass/PanelSchema/internal/schema"
	"github.com/KevinKickass/PanelSchema/internal/types"
)

// Extensions are tried in this order when a document is loaded by name.
var Extensions = []string{".json", ".jsonc", ".yaml", ".yml", ".toml"}

type Loader struct {
	cache       sync.Map
	validator   *schema.Validator
	searchPaths []string
	logger      *zap.Logger
}

func NewLoader(validator *schema.Validator, searchPaths []string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		validator:   validator,
		searchPaths: searchPaths,
		logger:      logger,
	}
}

// Load finds a hardware document by name ("core", "core-lite") across the
// search paths. A name that already carries an extension is used as is.
func (l *Loader) Load(name string) (*types.HardwareConfig, error) {
	if cached, ok := l.cache.Load(name); ok {
		return cached.(*types.HardwareConfig).Clone(), nil
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range Extensions {
			candidates = append(candidates, name+ext)
		}
	}

	var foundPath string
	for _, searchPath := range l.searchPaths {
		for _, c := range candidates {
			fullPath := filepath.Join(searchPath, c)
			if _, err := os.Stat(fullPath); err == nil {
				foundPath = fullPath
				break
			}
		}
		if foundPath != "" {
			break
		}
	}

	if foundPath == "" {
		return nil, fmt.Errorf("hardware config not found: %s (searched in: %v)", name, l.searchPaths)
	}

	hw, err := l.LoadFile(foundPath)
	if err != nil {
		return nil, err
	}

	l.cache.Store(name, hw.Clone())
	return hw, nil
}

// LoadFile reads, normalizes and validates one hardware document.
func (l *Loader) LoadFile(path string) (*types.HardwareConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hardware config: %w", err)
	}

	normalized, err := Normalize(path, data)
	if err != nil {
		return nil, err
	}

	hw, err := l.validator.ValidateHardware(normalized)
	if err != nil {
		return nil, fmt.Errorf("validation failed for %s: %w", path, err)
	}

	l.logger.Debug("Loaded hardware config",
		zap.String("path", path),
		zap.String("system_type", string(hw.SystemType)),
		zap.Int("outputs", len(hw.Outputs)))

	return hw, nil
}

func (l *Loader) ClearCache() {
	l.cache.Range(func(key, value interface{}) bool {
		l.cache.Delete(key)
		return true
	})
}

// Normalize converts a YAML or TOML document to JSON, chosen by the file
// extension. JSON and JSONC pass through untouched.
func Normalize(path string, data []byte) ([]byte, error) {
	var doc map[string]interface{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML %s: %w", path, err)
		}
	default:
		return data, nil
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s to JSON: %w", path, err)
	}
	return out, nil
}
