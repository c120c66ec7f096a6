// Package content parses the semi-structured markup that the generation
// backend embeds in otherwise free-form responses.
//
// The markup is a wire contract shared with the generation prompt: a section
// delimiter opens a flashcard section, each card starts with an ordinal glyph
// and carries literal front/back field markers. Everything outside that
// grammar is prose. Parsing never fails, malformed cards degrade to prose.
package content

import (
	"regexp"
	"strings"
)

// Markup tokens. These must stay in lockstep with the persona instructions
// that teach the model to emit them.
const (
	// SectionDelimiter marks the start of a flashcard section.
	SectionDelimiter = "【フラッシュカード】"
	// FrontMarker precedes the front (keyword) text of a card.
	FrontMarker = "表："
	// BackMarker precedes the back (hint) text of a card.
	BackMarker = "裏："
)

// cardOrdinals are the glyphs that open a card inside a flashcard section.
const cardOrdinals = "①②③"

// sectionOpener starts any bracketed section marker and terminates a card's
// back text.
const sectionOpener = "【"

// cardPattern matches the inside of a single card segment, the text between
// one ordinal glyph and the next card or section boundary.
var cardPattern = regexp.MustCompile(`(?s)\A\s*` + FrontMarker + `(.*?)\s*` + BackMarker + `(.*)\z`)

// Kind tags a parsed block.
type Kind string

const (
	KindProse     Kind = "prose"
	KindFlashcard Kind = "flashcard"
)

// Block is one parsed piece of a response, either [Prose] or [Flashcard].
type Block interface {
	Kind() Kind
}

// Prose is a run of plain text.
type Prose struct {
	Text string
}

func (Prose) Kind() Kind { return KindProse }

// Flashcard is a front/back study card extracted from a flashcard section.
type Flashcard struct {
	Front string
	Back  string
}

func (Flashcard) Kind() Kind { return KindFlashcard }

// Parse splits raw response text into prose and flashcard blocks.
//
// Text without a section delimiter is returned verbatim as a single prose
// block. Otherwise the text before the delimiter becomes a leading prose
// block, every well-formed card in the section becomes a flashcard block in
// source order, and whatever the card grammar did not consume is emitted as
// one trailing prose block. A section with no well-formed cards therefore
// comes back as prose, never silently dropped.
func Parse(raw string) []Block {
	delimiterAt := strings.Index(raw, SectionDelimiter)
	if delimiterAt < 0 {
		return []Block{Prose{Text: raw}}
	}

	blocks := []Block{}
	if header := strings.TrimSpace(raw[:delimiterAt]); header != "" {
		blocks = append(blocks, Prose{Text: header})
	}

	body := raw[delimiterAt+len(SectionDelimiter):]
	cards, remainder := parseCards(body)
	for _, card := range cards {
		blocks = append(blocks, card)
	}
	if remainder != "" {
		blocks = append(blocks, Prose{Text: remainder})
	}

	return blocks
}

// parseCards walks the flashcard section body. The body is cut into segments
// at ordinal glyphs; each segment either parses as one card or falls through
// to the remainder untouched.
func parseCards(body string) ([]Flashcard, string) {
	cards := []Flashcard{}
	leftover := strings.Builder{}

	rest := body
	if firstOrdinal := strings.IndexAny(rest, cardOrdinals); firstOrdinal < 0 {
		return cards, strings.TrimSpace(body)
	} else {
		leftover.WriteString(rest[:firstOrdinal])
		rest = rest[firstOrdinal:]
	}

	for rest != "" {
		// rest starts at an ordinal glyph; the segment runs until the next one.
		_, ordinalLen := ordinalAt(rest)
		segment := rest[ordinalLen:]
		segmentEnd := len(segment)
		if nextOrdinal := strings.IndexAny(segment, cardOrdinals); nextOrdinal >= 0 {
			segmentEnd = nextOrdinal
		}

		cardText := segment[:segmentEnd]
		trailing := ""
		if opener := strings.Index(cardText, sectionOpener); opener >= 0 {
			trailing = cardText[opener:]
			cardText = cardText[:opener]
		}

		if match := cardPattern.FindStringSubmatch(cardText); match != nil {
			cards = append(cards, Flashcard{
				Front: strings.TrimSpace(match[1]),
				Back:  strings.TrimSpace(match[2]),
			})
			leftover.WriteString(trailing)
		} else {
			// Malformed card, keep the whole segment including its ordinal.
			leftover.WriteString(rest[:ordinalLen+segmentEnd])
		}

		rest = segment[segmentEnd:]
	}

	return cards, strings.TrimSpace(leftover.String())
}

// ordinalAt reports the ordinal rune at the start of s and its byte length.
func ordinalAt(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}
