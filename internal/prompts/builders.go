package prompts

import (
	"fmt"
	"strings"
)

// Step names a generation step exposed for prompt inspection.
type Step string

const (
	StepAnalysis         Step = "analysis"
	StepHarvest          Step = "harvest"
	StepDescriptions     Step = "descriptions"
	StepAlbumDescription Step = "album-description"
	StepAlbumName        Step = "album-name"
	StepCoverArt         Step = "cover-art"
	StepMailChimp        Step = "mailchimp"
)

// Steps lists the steps in workflow order.
var Steps = []Step{StepAnalysis, StepHarvest, StepDescriptions, StepAlbumDescription, StepAlbumName, StepCoverArt, StepMailChimp}

// ParseStep resolves a step name.
func ParseStep(name string) (Step, error) {
	normalized := Step(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	for _, step := range Steps {
		if step == normalized {
			return step, nil
		}
	}
	return "", fmt.Errorf("unknown step %q", name)
}

// MidJourneySuffix terminates every cover art prompt.
const MidJourneySuffix = "--v 7.0 --ar 1:1 --sref [URL]"

// Prompt is a system instruction plus the task text, along with the
// personas that speak in it.
type Prompt struct {
	System  string
	Task    string
	Members string
}

// Analysis builds the audio analysis instruction. The reply is a JSON object
// with Title, Composer, Keywords, and Description fields.
func (c *Council) Analysis(catalog string) Prompt {
	system := fmt.Sprintf(`You are acting as a dual-persona council:
1. Music Supervisor: %s
2. Lead Video Editor: %s

Analyze the provided audio track for the %s catalog. Provide a highly detailed, human-like analysis in JSON format.

Required JSON Structure:
{
    "Title": "A creative, evocative title for the track",
    "Composer": "",
    "Keywords": "Exactly 15 to 20 comma-separated keywords (mood, genre, instrumentation, editorial use). Keep all phrases to 3 words maximum.",
    "Description": "A rough initial description of the track's narrative and utility."
}
Note: Leave 'Composer' blank.`, c.Voice(MusicSupervisor), c.Voice(LeadVideoEditor), catalog)
	return Prompt{System: system, Task: "Analyze the attached audio.", Members: "Music Supervisor & Lead Video Editor"}
}

// Harvest asks for a shorter equivalent of an over-length keyword.
func Harvest(keyword string) Prompt {
	return Prompt{
		Task:    fmt.Sprintf("Rephrase the keyword '%s' so it is exactly 1, 2, or 3 words maximum. Preserve the original semantic meaning perfectly. Return ONLY the new keyword, no other text.", keyword),
		Members: "Harvest Loop",
	}
}

// TrackDescription refines a rough description into the three sentence arc.
func (c *Council) TrackDescription(title, roughDescription, catalog string) Prompt {
	system := fmt.Sprintf(`You are the Head of A&R (%s).
Your output is being audited by the Lead Video Editor (%s) and the Brand Gatekeeper (%s).
Catalog Context: %s.

STRICT RULES:
1. You must write EXACTLY 3 sentences.
2. Sentence 1: Hook/Ingestion (Must describe immediate feel/instrumentation).
3. Sentence 2: Development (How the track builds or shifts).
4. Sentence 3: Utility/Resolution (How it should be used in editing/sync).
5. ANTIGRAVITY PROTOCOL: The very first word of the first sentence CANNOT be an article ("A", "An", "The"). Start immediately with an adjective or noun.`,
		c.Voice(HeadOfAR), c.Voice(LeadVideoEditor), c.Voice(BrandGatekeeper), catalog)
	task := fmt.Sprintf("Refine the following rough description for the track '%s' into the 3-Sentence Arc.\n\nRough Description:\n%s", title, roughDescription)
	return Prompt{System: system, Task: task, Members: "Head of A&R, Lead Editor, Gatekeeper"}
}

// AlbumDescription synthesizes the track descriptions into one sentence.
func (c *Council) AlbumDescription(trackDescriptions []string, catalog string) Prompt {
	system := fmt.Sprintf(`You are the Arbitrator (%s).
Based on the provided track descriptions for the new '%s' album, synthesize everything into EXACTLY ONE powerful, punchy sentence that summarizes the entire album's vibe and utility. Do not write more than one sentence.`,
		c.Voice(Arbitrator), catalog)
	var task strings.Builder
	task.WriteString("Track Descriptions:")
	for _, desc := range trackDescriptions {
		task.WriteString("\n- ")
		task.WriteString(desc)
	}
	return Prompt{System: system, Task: task.String(), Members: "The Arbitrator"}
}

// AlbumName brainstorms five title concepts.
func (c *Council) AlbumName(albumDescription, catalog string) Prompt {
	system := fmt.Sprintf(`You are working as the Arbitrator (%s) and the Brand Gatekeeper (%s).
Catalog: %s.

Task: Brainstorm exactly 5 highly original, non-linear concept titles for this album.
Rule: Ban all library music cliches (e.g., "Cinematic Journeys", "Epic Battles", "Emotional Piano"). Think Different.
Format your response as a numbered list of exactly 5 titles.`,
		c.Voice(Arbitrator), c.Voice(BrandGatekeeper), catalog)
	return Prompt{System: system, Task: "Album Description (Vibe): " + albumDescription, Members: "The Arbitrator & Brand Gatekeeper"}
}

// CoverArt writes one MidJourney prompt per reference URL.
func (c *Council) CoverArt(albumName, albumDescription, catalog string, referenceURLs []string) Prompt {
	system := fmt.Sprintf(`You are the Art Director (%s) constrained by the Brand Gatekeeper (%s).
Catalog: %s

Task: Write exactly %d MidJourney v7 prompts for this album's cover art.
Use abstract, emotional metaphors and detailed camera/lighting terminology. Provide ONLY the %d prompts as text separated by double newlines. Do not add conversational intro text.

STRICT RULE: Every prompt must end exactly with: %s
Substitute [URL] with one of the provided reference URLs sequentially.`,
		c.Voice(ArtDirector), c.Voice(BrandGatekeeper), catalog, len(referenceURLs), len(referenceURLs), MidJourneySuffix)
	var task strings.Builder
	fmt.Fprintf(&task, "Album Name: %s\nAlbum Description: %s\n\nAvailable Reference URLs to append:", albumName, albumDescription)
	for i, url := range referenceURLs {
		fmt.Fprintf(&task, "\nURL %d: %s", i+1, url)
	}
	return Prompt{System: system, Task: task.String(), Members: "Art Director & Brand Gatekeeper"}
}

// MailChimp writes the promotional studio memo.
func (c *Council) MailChimp(albumName, albumDescription, catalog string) Prompt {
	system := fmt.Sprintf(`You are a council: Copywriter (%s), Supervisor (%s), and Gatekeeper (%s).
The Arbitrator (%s) will synthesize your ideas.

Task: Write a final 3-to-4 sentence promotional intro for MailChimp about the new %s album.
Rule: It must read like a professional studio memo to music supervisors, NOT a cheap sales pitch. Respect the intelligence of the reader.`,
		c.Voice(Copywriter), c.Voice(MusicSupervisor), c.Voice(BrandGatekeeper), c.Voice(Arbitrator), catalog)
	task := fmt.Sprintf("Album Name: %s\nAlbum Description: %s", albumName, albumDescription)
	return Prompt{System: system, Task: task, Members: "Copywriter, Supervisor, Gatekeeper, Arbitrator"}
}

// Example returns the prompt for step filled with placeholder inputs, used
// to show operators what each step sends.
func (c *Council) Example(step Step, catalog string) Prompt {
	switch step {
	case StepAnalysis:
		return c.Analysis(catalog)
	case StepHarvest:
		return Harvest("example keyword that is far too long")
	case StepDescriptions:
		return c.TrackDescription("Example", "Example", catalog)
	case StepAlbumDescription:
		return c.AlbumDescription([]string{"Example"}, catalog)
	case StepAlbumName:
		return c.AlbumName("Example", catalog)
	case StepCoverArt:
		return c.CoverArt("Example", "Example", catalog, []string{"https://placeholder.url/example.jpg"})
	case StepMailChimp:
		return c.MailChimp("Example", "Example", catalog)
	default:
		return Prompt{}
	}
}
