// Package modifier selects coherent sets of behavioral-trait adjectives
// ("modifiers") from a categorized pool, avoiding contradictions, keeping
// intensity levels matched and preferring category diversity.
package modifier

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/sat8bit/taiwa/errs"
)

// Category maps a spectrum name to its ordered modifier strings, mild to
// extreme (e.g. "anger" -> ["mildly irritated", "very angry", ...]).
type Category map[string][]string

// Rules are the optional application rules of a pool.
type Rules struct {
	// AvoidContradictions lists base-trait pairs that must never co-occur.
	AvoidContradictions [][]string `yaml:"avoidContradictions"`
	// ComplementaryCombinations lists base-trait pairs that pair well.
	ComplementaryCombinations [][]string `yaml:"complementaryCombinations"`
	// ContextualWeighting maps a context type to the category names that
	// should be preferred when selecting under that context.
	ContextualWeighting map[string][]string `yaml:"contextualWeighting"`
}

// Pool is the in-memory modifier vocabulary. It is read-only after loading
// and safe to share across concurrent conversation generations.
type Pool struct {
	Categories map[string]Category `yaml:"modifyingAdjectives"`
	Rules      Rules               `yaml:"applicationRules"`
}

// CategoryInfo describes a single category for introspection.
type CategoryInfo struct {
	SpectraCount         int
	SpectrumNames        []string
	TotalModifiers       int
	ModifiersPerSpectrum map[string]int
}

// CategoryNames returns the category names in lexical order.
func (p *Pool) CategoryNames() []string {
	names := make([]string, 0, len(p.Categories))
	for name := range p.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info returns introspection data for a category, or false if unknown.
func (p *Pool) Info(category string) (CategoryInfo, bool) {
	cat, ok := p.Categories[category]
	if !ok {
		return CategoryInfo{}, false
	}
	info := CategoryInfo{
		SpectraCount:         len(cat),
		ModifiersPerSpectrum: make(map[string]int, len(cat)),
	}
	for name, spectrum := range cat {
		info.SpectrumNames = append(info.SpectrumNames, name)
		info.ModifiersPerSpectrum[name] = len(spectrum)
		info.TotalModifiers += len(spectrum)
	}
	sort.Strings(info.SpectrumNames)
	return info, true
}

// Parse decodes a pool document. The document must carry a non-empty
// modifyingAdjectives mapping; application rules are optional.
func Parse(data []byte) (*Pool, error) {
	var p Pool
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errs.ConfigWrap("modifier pool", "malformed document", err)
	}
	if len(p.Categories) == 0 {
		return nil, errs.Config("modifier pool", "missing required modifyingAdjectives structure")
	}
	for _, pair := range p.Rules.AvoidContradictions {
		if len(pair) != 2 {
			return nil, errs.Config("modifier pool", fmt.Sprintf("avoidContradictions entry %v is not a pair", pair))
		}
	}
	for _, pair := range p.Rules.ComplementaryCombinations {
		if len(pair) != 2 {
			return nil, errs.Config("modifier pool", fmt.Sprintf("complementaryCombinations entry %v is not a pair", pair))
		}
	}
	return &p, nil
}

// Loader loads pools from files and caches them by path. A path is parsed
// once; later loads return the same in-memory pool.
type Loader struct {
	mu    sync.Mutex
	pools map[string]*Pool
}

// NewLoader creates an empty Loader.
func NewLoader() *Loader {
	return &Loader{pools: make(map[string]*Pool)}
}

// Load reads and parses the pool at path, or returns the cached pool if the
// path has been loaded before.
func (l *Loader) Load(path string) (*Pool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if pool, ok := l.pools[path]; ok {
		return pool, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.ConfigWrap(path, "cannot read modifier pool", err)
	}
	pool, err := Parse(data)
	if err != nil {
		return nil, err
	}
	l.pools[path] = pool
	return pool, nil
}
