// Package conversation drives the turn loop that generates one dialogue:
// draw modifiers once, fix system prompts, then alternate exchanges between
// the initiator and the responder until the turn budget is spent.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sat8bit/taiwa/bus"
	"github.com/sat8bit/taiwa/errs"
	"github.com/sat8bit/taiwa/llm"
	"github.com/sat8bit/taiwa/modifier"
	"github.com/sat8bit/taiwa/persona"
	"github.com/sat8bit/taiwa/prompt"
	"github.com/sat8bit/taiwa/transcript"
)

// Placeholder replaces an empty or whitespace-only provider response so the
// exchange-count invariant holds even when the model returns nothing.
const Placeholder = "I need to think about how to respond appropriately to this situation."

// Config wires an Orchestrator. The modifier pool may be nil, in which case
// every participant gets an empty selection.
type Config struct {
	Title       string
	Description string
	Domain      string

	Participants []*persona.Participant
	InitiatorID  string
	Scenario     string

	Client llm.Client
	Engine *modifier.Engine
	Pool   *modifier.Pool
	Level  modifier.CoherenceLevel
	Target int // target modifier count per participant

	Bus          bus.Bus // optional: streams events to renderers
	CaptureDebug bool
}

// Orchestrator generates conversations from a fixed configuration. Run may
// be called repeatedly (and concurrently): each call draws a fresh modifier
// selection and owns its exchange log exclusively.
type Orchestrator struct {
	cfg       Config
	turnOrder [2]*persona.Participant
}

// New validates the configuration and fixes the turn order. All
// configuration errors surface here, before any provider call is made.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("conversation.New: %w", errs.Config("conversation", "missing llm client"))
	}
	if len(cfg.Participants) != 2 {
		return nil, fmt.Errorf("conversation.New: %w", errs.Config("conversation", fmt.Sprintf("want exactly 2 participants, got %d", len(cfg.Participants))))
	}
	if cfg.Participants[0].ID == cfg.Participants[1].ID {
		return nil, fmt.Errorf("conversation.New: %w", errs.Config("conversation", "participant ids must be unique"))
	}

	var initiator, responder *persona.Participant
	for _, p := range cfg.Participants {
		if p.ID == cfg.InitiatorID {
			initiator = p
		} else {
			responder = p
		}
	}
	if initiator == nil {
		return nil, fmt.Errorf("conversation.New: %w", errs.Config("conversation", fmt.Sprintf("initiator %q not found among participants", cfg.InitiatorID)))
	}

	if cfg.Target <= 0 {
		cfg.Target = 3
	}
	if cfg.Level == "" {
		cfg.Level = modifier.CoherenceBalanced
	}
	if cfg.Engine == nil {
		cfg.Engine = modifier.NewEngine()
	}

	return &Orchestrator{
		cfg:       cfg,
		turnOrder: [2]*persona.Participant{initiator, responder},
	}, nil
}

// Run generates one complete conversation of numTurns turns (two exchanges
// per turn). A provider failure or blank response never aborts the run:
// the exchange slot is filled with a marker or placeholder and generation
// continues, so the transcript always has 2*numTurns records.
func (o *Orchestrator) Run(ctx context.Context, numTurns int) *transcript.Conversation {
	selection := o.drawModifiers()

	prompts := make(map[string]string, len(o.cfg.Participants))
	for _, p := range o.cfg.Participants {
		prompts[p.ID] = prompt.BuildSystemPrompt(p, o.cfg.Scenario, selection[p.ID])
	}

	conv := &transcript.Conversation{
		ID:            uuid.NewString(),
		Title:         o.cfg.Title,
		Description:   o.cfg.Description,
		Domain:        o.cfg.Domain,
		CreatedAt:     time.Now(),
		NumTurns:      numTurns,
		SystemPrompts: prompts,
		Modifiers:     selection,
		Participants:  append([]*persona.Participant(nil), o.cfg.Participants...),
	}
	if o.cfg.CaptureDebug {
		conv.Debug = &transcript.Debug{Modifiers: selection, SystemPrompts: prompts}
	}

	o.broadcast(&transcript.Event{
		Kind:           transcript.KindSystem,
		ConversationID: conv.ID,
		Text:           fmt.Sprintf("generating %q (%d turns)", o.cfg.Title, numTurns),
		At:             time.Now(),
	})

	var log []*transcript.Record
	for turn := 0; turn < numTurns; turn++ {
		for part := 0; part < 2; part++ {
			current := o.turnOrder[part]
			messages := prompt.BuildHistory(log, current, prompts[current.ID])

			text, err := o.cfg.Client.Complete(ctx, messages, current.Model)
			if err != nil {
				text = fmt.Sprintf("[Error generating response: %v]", err)
				slog.Error("generation failed, substituting marker",
					"conversation", conv.ID, "turn", turn, "participant", current.ID, "error", err)
				o.broadcast(&transcript.Event{
					Kind:           transcript.KindError,
					ConversationID: conv.ID,
					Text:           text,
					At:             time.Now(),
				})
			}
			text = strings.TrimSpace(text)
			if text == "" {
				text = Placeholder
			}

			rec := &transcript.Record{
				Turn:          turn,
				ParticipantID: current.ID,
				DisplayName:   current.DisplayName,
				Role:          current.LLMRole,
				Content:       text,
				Modifiers:     selection[current.ID],
			}
			log = append(log, rec)

			if conv.Debug != nil {
				conv.Debug.Exchanges = append(conv.Debug.Exchanges, &transcript.DebugExchange{
					Turn:          turn,
					Part:          part,
					ParticipantID: current.ID,
					IsInitiator:   current.IsInitiator,
					HistoryLength: len(log) - 1,
					Messages:      messages,
					Response:      text,
					At:            time.Now(),
				})
			}

			o.broadcast(&transcript.Event{
				Kind:           transcript.KindExchange,
				ConversationID: conv.ID,
				Record:         rec,
				At:             time.Now(),
			})
		}
	}

	conv.Records = log
	o.broadcast(&transcript.Event{
		Kind:           transcript.KindDone,
		ConversationID: conv.ID,
		At:             time.Now(),
	})
	return conv
}

// drawModifiers selects modifiers once per conversation. The selection must
// stay fixed for the whole conversation to keep its personality coherent;
// it is never recomputed mid-run.
func (o *Orchestrator) drawModifiers() map[string][]string {
	selection := make(map[string][]string, len(o.cfg.Participants))
	for _, p := range o.cfg.Participants {
		if !p.ApplyModifiers || o.cfg.Pool == nil {
			selection[p.ID] = []string{}
			continue
		}

		sel := o.cfg.Engine.Select(o.cfg.Pool, p.Categories, o.cfg.Domain, o.cfg.Level, o.cfg.Target)
		for _, unknown := range sel.UnknownCategories {
			slog.Warn("requested modifier category not found in pool",
				"participant", p.ID, "category", unknown)
		}

		report := modifier.Validate(o.cfg.Pool, sel.Modifiers)
		if !report.IsValid {
			slog.Warn("modifier combination failed validation",
				"participant", p.ID,
				"conflictingPairs", report.ConflictingPairs,
				"suggestions", strings.Join(report.Suggestions, "; "))
		}
		selection[p.ID] = sel.Modifiers
	}
	return selection
}

func (o *Orchestrator) broadcast(e *transcript.Event) {
	if o.cfg.Bus == nil {
		return
	}
	if err := o.cfg.Bus.Broadcast(e); err != nil {
		slog.Error("broadcast failed", "error", err)
	}
}
