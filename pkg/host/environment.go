package host

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-gridsweep/pkg/generation"
)

// MemoryEnvironment is an in-memory Environment for hosts that track shared
// configuration without a live diffusion backend, and for tests. Name lookups
// are case-insensitive and fall back to a unique substring match, mirroring
// the loose matching hosts typically offer for checkpoint names.
type MemoryEnvironment struct {
	mu            sync.Mutex
	samplers      []string
	checkpoints   []string
	hypernetworks []string
	cfg           generation.Config
}

var _ Environment = (*MemoryEnvironment)(nil)

// NewMemoryEnvironment constructs an environment seeded with an initial
// shared configuration.
func NewMemoryEnvironment(cfg generation.Config) *MemoryEnvironment {
	return &MemoryEnvironment{cfg: cfg}
}

// RegisterSamplers adds sampler names to the lookup catalog.
func (m *MemoryEnvironment) RegisterSamplers(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samplers = append(m.samplers, names...)
}

// RegisterCheckpoints adds checkpoint names to the lookup catalog.
func (m *MemoryEnvironment) RegisterCheckpoints(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkpoints = append(m.checkpoints, names...)
}

// RegisterHypernetworks adds hypernetwork names to the lookup catalog.
func (m *MemoryEnvironment) RegisterHypernetworks(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hypernetworks = append(m.hypernetworks, names...)
}

// LookupSampler resolves a sampler name.
func (m *MemoryEnvironment) LookupSampler(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return closestMatch(m.samplers, name)
}

// LookupCheckpoint resolves a checkpoint name.
func (m *MemoryEnvironment) LookupCheckpoint(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return closestMatch(m.checkpoints, name)
}

// LookupHypernetwork resolves a hypernetwork name.
func (m *MemoryEnvironment) LookupHypernetwork(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return closestMatch(m.hypernetworks, name)
}

// SelectCheckpoint activates a checkpoint by its canonical name.
func (m *MemoryEnvironment) SelectCheckpoint(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := closestMatch(m.checkpoints, name); !ok {
		return fmt.Errorf("host: unknown checkpoint %q", name)
	}
	m.cfg.Checkpoint = name
	return nil
}

// SelectHypernetwork activates a hypernetwork; an empty name clears it.
func (m *MemoryEnvironment) SelectHypernetwork(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" {
		m.cfg.Hypernetwork = ""
		return nil
	}
	if _, ok := closestMatch(m.hypernetworks, name); !ok {
		return fmt.Errorf("host: unknown hypernetwork %q", name)
	}
	m.cfg.Hypernetwork = name
	return nil
}

// SetHypernetworkStrength updates the active hypernetwork strength.
func (m *MemoryEnvironment) SetHypernetworkStrength(strength float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.HypernetworkStrength = strength
}

// SetClipSkip updates the CLIP layer-skip count.
func (m *MemoryEnvironment) SetClipSkip(layers int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.ClipSkip = layers
}

// Config returns a snapshot of the current shared configuration.
func (m *MemoryEnvironment) Config() generation.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// RestoreConfig replaces the shared configuration with a snapshot.
func (m *MemoryEnvironment) RestoreConfig(cfg generation.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	return nil
}

func closestMatch(catalog []string, query string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return "", false
	}
	for _, name := range catalog {
		if strings.ToLower(name) == needle {
			return name, true
		}
	}
	match := ""
	for _, name := range catalog {
		if strings.Contains(strings.ToLower(name), needle) {
			if match != "" {
				// ambiguous substring, refuse to guess
				return "", false
			}
			match = name
		}
	}
	return match, match != ""
}
