package lead

import (
	"strings"
	"unicode"
)

// Lowercase connectors allowed inside a multi-token name.
var nameConnectors = map[string]bool{
	"van": true,
	"de":  true,
	"von": true,
}

// Lead-ins stripped before the name heuristic runs, so "My name is Jane
// Doe" yields the same name as a bare "Jane Doe".
var nameLeadIns = []string{
	"my name is ",
	"i'm ",
	"i am ",
}

// Short replies that look name-shaped but never are.
var nameStoplist = map[string]bool{
	"yes":    true,
	"sure":   true,
	"ok":     true,
	"yeah":   true,
	"no":     true,
	"thanks": true,
}

// Extract pulls lead slots out of one message. It is a pure function of its
// inputs: slots already set in current are never touched, and each slot's
// heuristic applies independently, so one message may fill several slots.
func Extract(message string, current Record) Record {
	out := current

	if out.Email == "" {
		if match := emailPattern.FindString(message); match != "" {
			out.Email = match
		}
	}

	if out.Platform == "" {
		lower := strings.ToLower(message)
		for _, p := range Platforms {
			if strings.Contains(lower, strings.ToLower(p)) {
				out.Platform = p
				break
			}
		}
	}

	if out.Name == "" {
		if name, ok := extractName(message); ok {
			out.Name = name
		}
	}

	return out
}

// extractName accepts a message as a name when it is 1-4 whitespace tokens,
// every token is capitalized or a lowercase connector, and the whole message
// is not a stoplisted short reply.
func extractName(message string) (string, bool) {
	trimmed := strings.TrimSpace(message)
	lower := strings.ToLower(trimmed)
	for _, leadIn := range nameLeadIns {
		if strings.HasPrefix(lower, leadIn) {
			trimmed = strings.TrimSpace(trimmed[len(leadIn):])
			break
		}
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) < 1 || len(tokens) > 4 {
		return "", false
	}
	if nameStoplist[strings.ToLower(trimmed)] {
		return "", false
	}
	for _, token := range tokens {
		if nameConnectors[strings.ToLower(token)] {
			continue
		}
		first, _ := firstRune(token)
		if !unicode.IsUpper(first) {
			return "", false
		}
	}
	return trimmed, true
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
