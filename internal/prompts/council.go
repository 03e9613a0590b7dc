// Package prompts builds the system instructions and tasks sent to the text
// generation service. Every step speaks through one or more council personas
// whose voices come from the asset library, with built-in defaults.
package prompts

import (
	"sort"
	"strings"
)

// Persona names understood by the builders.
const (
	MusicSupervisor = "Music_Supervisor"
	LeadVideoEditor = "Lead_Video_Editor"
	BrandGatekeeper = "Brand_Gatekeeper"
	HeadOfAR        = "Head_of_AR"
	ArtDirector     = "Art_Director"
	Copywriter      = "Copywriter"
	Arbitrator      = "Arbitrator"
)

// DefaultPersonas returns the built-in persona voices.
func DefaultPersonas() map[string]string {
	return map[string]string{
		MusicSupervisor: "Focuses on emotion, narrative, no fluff.",
		LeadVideoEditor: "Focuses on broadcast utility and transitions.",
		BrandGatekeeper: "Enforces catalog rules: redCola, SSC, EPP, and bans cliches.",
		HeadOfAR:        "Writes the 3-Sentence Track Description Arc.",
		ArtDirector:     "Focuses on MidJourney v7 parameters, textures, and lighting.",
		Copywriter:      "Focuses on direct response MailChimp rhythm.",
		Arbitrator:      "Synthesizes divergent ideas into a final output.",
	}
}

// Council holds the persona voices for a session.
type Council struct {
	personas map[string]string
	// Custom is true when voices were loaded from the asset library.
	Custom bool
}

// NewCouncil builds a council from loaded personas. When loaded is false the
// defaults are used unchanged; otherwise loaded voices replace defaults by
// name and defaults fill any persona the file omits.
func NewCouncil(personas map[string]string, loaded bool) *Council {
	merged := DefaultPersonas()
	if loaded {
		for name, voice := range personas {
			merged[name] = strings.TrimSpace(voice)
		}
	}
	return &Council{personas: merged, Custom: loaded}
}

// Voice returns the voice of a persona, or "" when unknown.
func (c *Council) Voice(name string) string {
	if c == nil {
		return DefaultPersonas()[name]
	}
	return c.personas[name]
}

// Names returns the persona names sorted alphabetically.
func (c *Council) Names() []string {
	names := make([]string, 0, len(c.personas))
	for name := range c.personas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
