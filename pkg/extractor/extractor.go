// Package extractor turns document fragments into entity and relationship
// candidates. A generation backend does the real extraction; when it is
// unavailable or returns unusable output, a deterministic heuristic keeps
// indexing working offline.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/soundprediction/forge/pkg/nlp"
	"github.com/soundprediction/forge/pkg/types"
)

// MaxFallbackEntities caps how many heuristic entities one fragment yields.
const MaxFallbackEntities = 16

// DefaultStrength is assigned to relationships the model returns without one.
const DefaultStrength = 1.0

// Extractor extracts entities and relationships from fragments.
type Extractor struct {
	llm    nlp.Client
	logger *slog.Logger
}

// New creates an extractor backed by the given generation client. A nil
// client behaves like a disabled backend.
func New(llm nlp.Client, logger *slog.Logger) *Extractor {
	if llm == nil {
		llm = nlp.NewDisabledClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{llm: llm, logger: logger}
}

// Extract returns the entities and relationships found in the fragment.
// Generation failures and unparseable responses degrade to the capitalized
// term heuristic instead of failing the indexing run. Returned entities have
// empty ids and carry the fragment id in their source set.
func (x *Extractor) Extract(ctx context.Context, fragment types.Fragment) ([]types.Entity, []types.Relationship, error) {
	prompt := buildPrompt(fragment.Text)

	resp, err := x.llm.Chat(ctx, []types.Message{nlp.NewUserMessage(prompt)})
	if err == nil && resp != nil {
		if entities, relationships, ok := parseExtraction(resp.Content, fragment.ID); ok {
			return entities, relationships, nil
		}
		x.logger.Debug("extraction response unparseable, using heuristic", "fragment", fragment.ID)
	} else if err != nil {
		x.logger.Debug("extraction backend failed, using heuristic", "fragment", fragment.ID, "error", err)
	}

	return fallbackEntities(fragment), nil, nil
}

func buildPrompt(text string) string {
	return fmt.Sprintf(
		"You are an entity extraction system. Extract entities and relationships.\n"+
			"Return strict JSON with fields: entities, relationships.\n"+
			"entities: [{name, entity_type, description}]\n"+
			"relationships: [{source, target, rel_type, description, strength}]\n"+
			"Text: \n%s",
		text,
	)
}

// extractedEntity and extractedRelationship use pointers for required fields
// so that a response missing them is rejected rather than silently zeroed.
type extractedEntity struct {
	Name        *string `json:"name"`
	EntityType  *string `json:"entity_type"`
	Description *string `json:"description"`
}

type extractedRelationship struct {
	Source      *string  `json:"source"`
	Target      *string  `json:"target"`
	RelType     *string  `json:"rel_type"`
	Description *string  `json:"description"`
	Strength    *float64 `json:"strength"`
}

type extractionPayload struct {
	Entities      *[]extractedEntity       `json:"entities"`
	Relationships *[]extractedRelationship `json:"relationships"`
}

// parseExtraction pulls the JSON object out of a model response and converts
// it to graph inputs. Both top-level keys must be present, and every entity
// and relationship must carry its required fields; anything less reports
// failure so the caller falls back.
func parseExtraction(response, fragmentID string) ([]types.Entity, []types.Relationship, bool) {
	candidate, ok := nlp.RepairJSON(response)
	if !ok {
		return nil, nil, false
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, nil, false
	}
	if payload.Entities == nil || payload.Relationships == nil {
		return nil, nil, false
	}

	entities := make([]types.Entity, 0, len(*payload.Entities))
	for _, e := range *payload.Entities {
		if e.Name == nil || e.EntityType == nil {
			return nil, nil, false
		}
		entities = append(entities, types.Entity{
			Name:              *e.Name,
			EntityType:        *e.EntityType,
			Description:       deref(e.Description),
			SourceFragmentIDs: []string{fragmentID},
		})
	}

	relationships := make([]types.Relationship, 0, len(*payload.Relationships))
	for _, r := range *payload.Relationships {
		if r.Source == nil || r.Target == nil || r.RelType == nil {
			return nil, nil, false
		}
		strength := DefaultStrength
		if r.Strength != nil {
			strength = *r.Strength
		}
		relationships = append(relationships, types.Relationship{
			Source:      *r.Source,
			Target:      *r.Target,
			RelType:     *r.RelType,
			Description: deref(r.Description),
			Strength:    strength,
		})
	}

	return entities, relationships, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// fallbackEntities derives entities from capitalized terms in the fragment
// text: unique tokens longer than one character whose first rune is upper
// case, sorted, capped at MaxFallbackEntities, all typed "Concept". No
// relationships are inferred.
func fallbackEntities(fragment types.Fragment) []types.Entity {
	names := collectCapitalizedTerms(fragment.Text)
	if len(names) > MaxFallbackEntities {
		names = names[:MaxFallbackEntities]
	}

	entities := make([]types.Entity, 0, len(names))
	for _, name := range names {
		entities = append(entities, types.Entity{
			Name:              name,
			EntityType:        "Concept",
			SourceFragmentIDs: []string{fragment.ID},
		})
	}
	return entities
}

func collectCapitalizedTerms(text string) []string {
	seen := make(map[string]struct{})
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	for _, token := range tokens {
		if len(token) <= 1 {
			continue
		}
		first, _ := utf8.DecodeRuneInString(token)
		if unicode.IsUpper(first) {
			seen[token] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
