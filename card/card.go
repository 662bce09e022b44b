// Package card loads conversation cards: the YAML files that wire a
// scenario, two persona cards, modifier settings and turn parameters into
// one runnable conversation definition.
package card

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sat8bit/taiwa/errs"
	"github.com/sat8bit/taiwa/modifier"
	"github.com/sat8bit/taiwa/persona"
	"github.com/sat8bit/taiwa/vignette"
)

// Scenario points at the vignette grounding the conversation. Exactly one
// of VignetteFile or FeedURL should be set.
type Scenario struct {
	VignetteFile string `yaml:"vignetteFile"`
	FeedURL      string `yaml:"feedUrl"`
	Domain       string `yaml:"domain"`
}

// Parameters controls the shape of the generated conversation.
type Parameters struct {
	Initiator string `yaml:"initiator"`
	NumTurns  int    `yaml:"numTurns"`
}

// ModifierConfig selects the modifier pool and how aggressively to keep the
// drawn combination coherent. Absent entirely, modifiers are disabled.
type ModifierConfig struct {
	ModifiersFile        string `yaml:"modifiersFile"`
	PersonalityCoherence string `yaml:"personalityCoherence"`
	TargetModifierCount  int    `yaml:"targetModifierCount"`
}

// ParticipantConfig is one participant entry of the card, keyed by
// participant id in the Participants map.
type ParticipantConfig struct {
	PersonaFile          string   `yaml:"personaFile"`
	LLMRole              string   `yaml:"llmRole"`
	Description          string   `yaml:"description"`
	ConversationBehavior string   `yaml:"conversationBehavior"`
	ApplyModifiers       bool     `yaml:"applyModifiers"`
	AppliedModifiers     []string `yaml:"appliedModifiers"`
}

// Card is a parsed conversation card. File references inside it are
// resolved relative to the card's own directory.
type Card struct {
	Title          string                       `yaml:"title"`
	Description    string                       `yaml:"description"`
	Scenario       Scenario                     `yaml:"scenario"`
	Parameters     Parameters                   `yaml:"conversationParameters"`
	ModifierConfig *ModifierConfig              `yaml:"modifierConfig"`
	Participants   map[string]ParticipantConfig `yaml:"participants"`

	dir string
}

type cardFile struct {
	Card Card `yaml:"conversationCard"`
}

// Load reads and validates the conversation card at path. Structural
// problems surface here as ConfigErrors; referenced files are only checked
// when they are actually loaded.
func Load(path string) (*Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("card.Load: %w", errs.ConfigWrap(path, "cannot read conversation card", err))
	}

	var file cardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("card.Load: %w", errs.ConfigWrap(path, "malformed conversation card", err))
	}

	c := file.Card
	c.dir = filepath.Dir(path)

	if len(c.Participants) == 0 {
		return nil, fmt.Errorf("card.Load: %w", errs.Config(path, "missing participants section"))
	}
	if c.Scenario.VignetteFile == "" && c.Scenario.FeedURL == "" {
		return nil, fmt.Errorf("card.Load: %w", errs.Config(path, "scenario needs vignetteFile or feedUrl"))
	}
	if c.Parameters.Initiator == "" {
		return nil, fmt.Errorf("card.Load: %w", errs.Config(path, "conversationParameters.initiator is required"))
	}
	if _, ok := c.Participants[c.Parameters.Initiator]; !ok {
		return nil, fmt.Errorf("card.Load: %w", errs.Config(path, fmt.Sprintf("initiator %q is not a participant", c.Parameters.Initiator)))
	}
	if c.Parameters.NumTurns < 1 {
		c.Parameters.NumTurns = 1
	}

	return &c, nil
}

// Resolve maps a file reference in the card to an absolute-ish path
// relative to the card's directory.
func (c *Card) Resolve(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(c.dir, ref)
}

// VignetteSource returns the scenario source the card points at.
func (c *Card) VignetteSource() vignette.Source {
	if c.Scenario.FeedURL != "" {
		return vignette.NewFeedSource(c.Scenario.FeedURL)
	}
	return vignette.NewFileSource(c.Resolve(c.Scenario.VignetteFile))
}

// Coherence returns the configured coherence level, defaulting to balanced.
func (c *Card) Coherence() modifier.CoherenceLevel {
	if c.ModifierConfig == nil || c.ModifierConfig.PersonalityCoherence == "" {
		return modifier.CoherenceBalanced
	}
	return modifier.CoherenceLevel(c.ModifierConfig.PersonalityCoherence)
}

// TargetModifiers returns the configured modifier count, defaulting to 3.
func (c *Card) TargetModifiers() int {
	if c.ModifierConfig == nil || c.ModifierConfig.TargetModifierCount < 1 {
		return 3
	}
	return c.ModifierConfig.TargetModifierCount
}

// LoadPool loads the modifier pool the card references through loader.
// It returns nil when the card has no modifier configuration.
func (c *Card) LoadPool(loader *modifier.Loader) (*modifier.Pool, error) {
	if c.ModifierConfig == nil || c.ModifierConfig.ModifiersFile == "" {
		return nil, nil
	}
	pool, err := loader.Load(c.Resolve(c.ModifierConfig.ModifiersFile))
	if err != nil {
		return nil, fmt.Errorf("card.LoadPool: %w", err)
	}
	return pool, nil
}

// BuildParticipants loads every referenced persona card and assembles the
// participants in deterministic (id-sorted) order.
func (c *Card) BuildParticipants() ([]*persona.Participant, error) {
	ids := make([]string, 0, len(c.Participants))
	for id := range c.Participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	participants := make([]*persona.Participant, 0, len(ids))
	for _, id := range ids {
		pc := c.Participants[id]
		if pc.PersonaFile == "" {
			return nil, fmt.Errorf("card.BuildParticipants: %w", errs.Config(id, "missing personaFile"))
		}

		personaCard, err := persona.LoadCard(c.Resolve(pc.PersonaFile))
		if err != nil {
			return nil, fmt.Errorf("card.BuildParticipants: participant %s: %w", id, err)
		}

		p, err := persona.NewParticipant(persona.Spec{
			ID:             id,
			LLMRole:        pc.LLMRole,
			IsInitiator:    id == c.Parameters.Initiator,
			Behavior:       pc.ConversationBehavior,
			ApplyModifiers: pc.ApplyModifiers,
			Categories:     pc.AppliedModifiers,
			Card:           personaCard,
		})
		if err != nil {
			return nil, fmt.Errorf("card.BuildParticipants: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, nil
}
