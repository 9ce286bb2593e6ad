package chat

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"todo-chat-backend/internal/types"
)

// Intent is a classified message. Title is set for add, ID for delete.
type Intent struct {
	Kind  types.Action
	Title string
	ID    int64
}

// rule inspects the trimmed message (raw) and its ASCII-folded copy. Both
// strings have the same byte length, so offsets found in folded index raw.
type rule struct {
	kind  types.Action
	match func(raw, folded string) (Intent, bool)
}

// rules are evaluated top to bottom; the first match wins. The help rule is
// a substring match and must stay below the explicit command forms.
var rules = []rule{
	{types.ActionAdd, matchAdd},
	{types.ActionShow, matchShow},
	{types.ActionDelete, matchDelete},
	{types.ActionGreeting, matchGreeting},
	{types.ActionHelp, matchHelp},
}

const (
	addPrefix    = "add todo"
	deletePrefix = "delete todo"
)

var showPhrases = map[string]struct{}{
	"show todos": {},
	"list todos": {},
	"get todos":  {},
	"my todos":   {},
}

var greetings = map[string]struct{}{
	"hi":             {},
	"hello":          {},
	"hey":            {},
	"good morning":   {},
	"good afternoon": {},
	"good evening":   {},
	"greetings":      {},
}

// Match classifies message. Every input yields an intent; unrecognised text
// is ActionUnknown.
func Match(message string) Intent {
	raw := strings.TrimSpace(message)
	folded := foldASCII(raw)
	for _, r := range rules {
		if in, ok := r.match(raw, folded); ok {
			in.Kind = r.kind
			return in
		}
	}
	return Intent{Kind: types.ActionUnknown}
}

// foldASCII lower-cases ASCII letters only and leaves every other byte
// untouched.
func foldASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func isSeparator(r rune) bool {
	return r == ':' || unicode.IsSpace(r)
}

// afterCommand returns what follows prefix when prefix is followed by at
// least one separator. The returned offset indexes both raw and folded.
func afterCommand(folded, prefix string) (int, bool) {
	if !strings.HasPrefix(folded, prefix) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(folded[len(prefix):])
	if !isSeparator(r) {
		return 0, false
	}
	return len(prefix), true
}

// matchAdd accepts "add todo", a run of ':'/whitespace, then a title. The
// title keeps the user's casing and has separator noise stripped from both
// ends.
func matchAdd(raw, folded string) (Intent, bool) {
	off, ok := afterCommand(folded, addPrefix)
	if !ok {
		return Intent{}, false
	}
	title := strings.TrimFunc(raw[off:], isSeparator)
	if title == "" {
		return Intent{}, false
	}
	return Intent{Title: title}, true
}

func matchShow(_, folded string) (Intent, bool) {
	_, ok := showPhrases[folded]
	return Intent{}, ok
}

// matchDelete accepts "delete todo", a run of ':'/whitespace, then decimal
// digits and nothing else.
func matchDelete(_, folded string) (Intent, bool) {
	off, ok := afterCommand(folded, deletePrefix)
	if !ok {
		return Intent{}, false
	}
	digits := strings.TrimLeftFunc(folded[off:], isSeparator)
	if digits == "" {
		return Intent{}, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Intent{}, false
		}
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// Out of range for an id; nothing could match it.
		return Intent{}, false
	}
	return Intent{ID: id}, true
}

func matchGreeting(_, folded string) (Intent, bool) {
	_, ok := greetings[folded]
	return Intent{}, ok
}

func matchHelp(_, folded string) (Intent, bool) {
	return Intent{}, strings.Contains(folded, "help")
}
