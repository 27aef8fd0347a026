package requisite

import (
	"regexp"
	"strings"
)

type TokenType int

const (
	TokenMarker TokenType = iota
	TokenText
	TokenTerminator
	TokenEnd
)

type Token struct {
	Type   TokenType
	Value  string
	Marker MarkerKind // Only meaningful for TokenMarker
}

type MarkerKind int

const (
	MarkerPrerequisite MarkerKind = iota
	MarkerAntirequisite
	MarkerCorequisite
	MarkerCombined // "Prereq/coreq:"
)

type LexerState int

const (
	LexerBoundary LexerState = iota // Previous character is not a letter, a marker may start here
	LexerWord                       // Inside a word, markers are not recognized
)

// Alternatives are tried leftmost-first, so the combined marker must precede its parts
var markerPattern = regexp.MustCompile(`^(?i)(pre-?req(?:uisite)?s?/co-?req(?:uisite)?s?|pre-?req(?:uisite)?s?|anti-?req(?:uisite)?s?|co-?req(?:uisite)?s?)[ \t]*:`)

// Tokenize splits a requirements description into markers, plain text and sentence terminators.
// A clause body is the text between a marker and the nearest following marker, terminator or end.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0)
	state := LexerBoundary
	textStart := 0

	flush := func(end int) {
		if end > textStart {
			tokens = append(tokens, Token{Type: TokenText, Value: text[textStart:end]})
		}
	}

	for pos := 0; pos < len(text); {
		char := text[pos]

		if state == LexerBoundary {
			if match := markerPattern.FindString(text[pos:]); match != "" {
				flush(pos)
				tokens = append(tokens, Token{Type: TokenMarker, Value: match, Marker: classifyMarker(match)})
				pos += len(match)
				textStart = pos
				continue
			}
		}

		switch {
		case char == '.' || char == ';':
			flush(pos)
			tokens = append(tokens, Token{Type: TokenTerminator, Value: string(char)})
			textStart = pos + 1
			state = LexerBoundary
		case isLetter(char):
			state = LexerWord
		default:
			state = LexerBoundary
		}
		pos++
	}
	flush(len(text))

	tokens = append(tokens, Token{Type: TokenEnd, Value: "$"})
	return tokens
}

func classifyMarker(marker string) MarkerKind {
	lowered := strings.ToLower(marker)
	switch {
	case strings.Contains(lowered, "/"):
		return MarkerCombined
	case strings.HasPrefix(lowered, "pre"):
		return MarkerPrerequisite
	case strings.HasPrefix(lowered, "anti"):
		return MarkerAntirequisite
	}
	return MarkerCorequisite
}

func isLetter(char byte) bool {
	return (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}
