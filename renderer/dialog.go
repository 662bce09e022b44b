package renderer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DialogFormat selects how extracted dialog is laid out for review.
type DialogFormat string

const (
	FormatStandard   DialogFormat = "standard"
	FormatClinical   DialogFormat = "clinical"
	FormatScreenplay DialogFormat = "screenplay"
)

var (
	xmlTagPattern      = regexp.MustCompile(`<[^>]+\s*/>`)
	speakerLinePattern = regexp.MustCompile(`(?m)^[A-Z\s]+:\s*`)
	blankRunPattern    = regexp.MustCompile(`\n\s*\n`)
)

// Dialog renders the document's conversation as plain reviewer-facing text
// in the requested format.
func (d *Document) Dialog(format DialogFormat) (string, error) {
	switch format {
	case FormatStandard:
		return d.standardDialog(), nil
	case FormatClinical:
		return d.clinicalDialog(), nil
	case FormatScreenplay:
		return d.screenplayDialog(), nil
	default:
		return "", fmt.Errorf("renderer.Dialog: unknown format %q", format)
	}
}

func (d *Document) standardDialog() string {
	var out []string

	created := d.CreatedTimestamp
	if len(created) > 10 {
		created = created[:10]
	}
	out = append(out,
		fmt.Sprintf("=== %s ===", d.Title),
		fmt.Sprintf("Domain: %s", d.Domain),
		fmt.Sprintf("Date: %s", created),
		fmt.Sprintf("Total Turns: %d", d.TotalTurns),
		"",
		"PARTICIPANTS:")

	for _, id := range d.personaIDs() {
		p := d.Personas[id]
		out = append(out, fmt.Sprintf("  - %s (%s)", p.Name, p.ConversationRole))
		if len(p.Modifiers) > 0 {
			out = append(out, fmt.Sprintf("    Behavioral state: %s", strings.Join(p.Modifiers, ", ")))
		}
	}

	out = append(out, "", "CONVERSATION:", strings.Repeat("-", 50))
	for _, turn := range d.ConversationTurns {
		for _, ex := range turn.Exchanges {
			out = append(out, fmt.Sprintf("%s: %s", ex.Name, cleanContent(ex.Message.Content, ex.Name)))
		}
	}
	out = append(out, strings.Repeat("-", 50))
	return strings.Join(out, "\n")
}

func (d *Document) clinicalDialog() string {
	var out []string

	out = append(out,
		fmt.Sprintf("CLINICAL REVIEW: %s", d.Title),
		strings.Repeat("=", 60),
		"",
		"ASSESSMENT CONTEXT:",
		fmt.Sprintf("  Setting: %s", titleCase(d.Domain)),
		"  Interaction Type: Initial Assessment",
		"",
		"PARTICIPANT ANALYSIS:")

	for _, id := range d.personaIDs() {
		p := d.Personas[id]
		out = append(out, fmt.Sprintf("  %s (%s):", p.Name, p.ConversationRole))
		if len(p.Modifiers) > 0 {
			out = append(out, fmt.Sprintf("    Current state: %s", strings.Join(p.Modifiers, ", ")))
		}
		out = append(out, fmt.Sprintf("    Role in interaction: %s", p.ConversationRole), "")
	}

	out = append(out, "DIALOG TRANSCRIPT:", strings.Repeat("-", 40))
	for _, turn := range d.ConversationTurns {
		out = append(out, "", fmt.Sprintf("[TURN %d]", turn.TurnNumber))
		for i, ex := range turn.Exchanges {
			kind := "Question"
			if i > 0 {
				kind = "Response"
			}
			out = append(out, fmt.Sprintf("  %s - %s: %s", kind, ex.Name, cleanContent(ex.Message.Content, ex.Name)))
		}
	}
	out = append(out, "", strings.Repeat("-", 40))
	return strings.Join(out, "\n")
}

func (d *Document) screenplayDialog() string {
	var out []string

	out = append(out, strings.ToUpper(d.Title), "", "CHARACTERS:")
	for _, id := range d.personaIDs() {
		p := d.Personas[id]
		out = append(out, fmt.Sprintf("  %s - %s", p.Name, p.ConversationRole))
	}
	out = append(out, "", fmt.Sprintf("SCENE: %s", d.Domain), "")

	for _, turn := range d.ConversationTurns {
		for _, ex := range turn.Exchanges {
			speaker := strings.ToUpper(ex.Name)
			content := cleanContent(ex.Message.Content, speaker)

			var dialog, actions []string
			for _, line := range strings.Split(content, "\n") {
				line = strings.TrimSpace(line)
				switch {
				case line == "":
				case strings.HasPrefix(line, "*") && strings.HasSuffix(line, "*") && len(line) > 1:
					actions = append(actions, strings.Trim(line, "*"))
				default:
					dialog = append(dialog, line)
				}
			}

			if len(actions) > 0 {
				out = append(out, fmt.Sprintf("(%s)", strings.Join(actions, "; ")))
			}
			if len(dialog) > 0 {
				out = append(out, speaker)
				for _, line := range dialog {
					out = append(out, "    "+line)
				}
			}
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}

// personaIDs returns participant ids with the initiator first so headers
// read in speaking order.
func (d *Document) personaIDs() []string {
	var initiators, rest []string
	for id, p := range d.Personas {
		if p.ConversationRole == "initiator" {
			initiators = append(initiators, id)
		} else {
			rest = append(rest, id)
		}
	}
	sort.Strings(initiators)
	sort.Strings(rest)
	return append(initiators, rest...)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// cleanContent strips self-closing XML-ish tags and leading speaker
// prefixes models sometimes emit despite instruction.
func cleanContent(content, speaker string) string {
	if content == "" {
		return ""
	}
	content = xmlTagPattern.ReplaceAllString(content, "")

	prefix := regexp.MustCompile(`^` + regexp.QuoteMeta(strings.ToUpper(speaker)) + `:\s*`)
	content = prefix.ReplaceAllString(content, "")
	content = speakerLinePattern.ReplaceAllString(content, "")
	content = blankRunPattern.ReplaceAllString(content, "\n")
	return strings.TrimSpace(content)
}
