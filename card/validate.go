package card

import (
	"fmt"
	"os"
	"strings"

	"github.com/sat8bit/taiwa/modifier"
	"github.com/sat8bit/taiwa/persona"
)

// Report collects the findings of a card validation pass. OK is true when
// no errors (warnings allowed) were found.
type Report struct {
	OK    bool
	Lines []string
}

func (r *Report) pass(format string, args ...any) {
	r.Lines = append(r.Lines, "ok      "+fmt.Sprintf(format, args...))
}

func (r *Report) warn(format string, args ...any) {
	r.Lines = append(r.Lines, "warning "+fmt.Sprintf(format, args...))
}

func (r *Report) fail(format string, args ...any) {
	r.OK = false
	r.Lines = append(r.Lines, "error   "+fmt.Sprintf(format, args...))
}

// Validate checks a conversation card and everything it references: persona
// cards, their prompt files, the vignette and the modifier pool. It never
// stops at the first problem so one run reports everything at once.
func Validate(path string) *Report {
	r := &Report{OK: true}

	c, err := Load(path)
	if err != nil {
		r.fail("cannot load conversation card: %v", err)
		return r
	}
	r.pass("conversation card loaded: %s", path)

	validateParticipants(r, c)
	validateVignette(r, c)
	validateModifiers(r, c)

	if r.OK {
		r.pass("all interfaces validated")
	}
	return r
}

func validateParticipants(r *Report, c *Card) {
	r.pass("found %d participants", len(c.Participants))
	if len(c.Participants) != 2 {
		r.fail("conversation needs exactly 2 participants, card has %d", len(c.Participants))
	}

	for id, pc := range c.Participants {
		if pc.PersonaFile == "" {
			r.fail("%s: missing personaFile", id)
			continue
		}

		personaCard, err := persona.LoadCard(c.Resolve(pc.PersonaFile))
		if err != nil {
			r.fail("%s: %v", id, err)
			continue
		}
		r.pass("%s: persona card loaded (%s, model %s)", id, personaCard.DisplayName, personaCard.ModelConfig.ModelName)

		switch pc.LLMRole {
		case persona.LLMRoleAssistant, persona.LLMRoleUser:
			r.pass("%s: llmRole %q", id, pc.LLMRole)
		case "":
			r.warn("%s: no llmRole specified, defaulting to assistant", id)
		default:
			r.fail("%s: invalid llmRole %q (must be user or assistant)", id, pc.LLMRole)
		}

		if pc.ApplyModifiers && len(pc.AppliedModifiers) == 0 {
			r.warn("%s: applyModifiers is set but no appliedModifiers categories given", id)
		}
		if pc.Description == "" {
			r.warn("%s: no description provided", id)
		}
	}
}

func validateVignette(r *Report, c *Card) {
	if c.Scenario.FeedURL != "" {
		r.pass("scenario uses feed %s (content checked at generation time)", c.Scenario.FeedURL)
		return
	}

	path := c.Resolve(c.Scenario.VignetteFile)
	data, err := os.ReadFile(path)
	if err != nil {
		r.fail("vignette file not readable: %v", err)
		return
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		r.fail("vignette file is empty: %s", path)
		return
	}
	r.pass("vignette has content (%d chars)", len(content))
	if len(content) < 100 {
		r.warn("vignette content seems quite short")
	}
}

func validateModifiers(r *Report, c *Card) {
	if c.ModifierConfig == nil {
		r.warn("no modifierConfig section (modifiers disabled)")
		return
	}
	if c.ModifierConfig.ModifiersFile == "" {
		r.fail("modifierConfig is present but modifiersFile is missing")
		return
	}

	pool, err := modifier.NewLoader().Load(c.Resolve(c.ModifierConfig.ModifiersFile))
	if err != nil {
		r.fail("cannot load modifier pool: %v", err)
		return
	}
	r.pass("modifier pool loaded with %d categories", len(pool.Categories))

	switch c.Coherence() {
	case modifier.CoherenceLow, modifier.CoherenceBalanced, modifier.CoherenceHigh:
		r.pass("personality coherence: %s", c.Coherence())
	default:
		r.fail("invalid personalityCoherence %q", c.ModifierConfig.PersonalityCoherence)
	}

	for id, pc := range c.Participants {
		if !pc.ApplyModifiers {
			continue
		}
		for _, category := range pc.AppliedModifiers {
			if _, ok := pool.Categories[category]; ok {
				r.pass("%s: modifier category %q exists", id, category)
			} else {
				r.fail("%s: modifier category %q not found in pool", id, category)
			}
		}
	}
}
