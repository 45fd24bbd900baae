package texturize

import (
	"strings"
	"unicode"
)

const (
	openDouble  = "&#8220;"
	closeDouble = "&#8221;"
	openSingle  = "&#8216;"
	closeSingle = "&#8217;"
	prime       = "&#8242;"
	doublePrime = "&#8243;"
)

// protectedTags hold text that is never transformed.
var protectedTags = map[string]bool{
	"code":   true,
	"kbd":    true,
	"pre":    true,
	"script": true,
	"style":  true,
	"tt":     true,
}

// sequences run after quotes are converted. Order matters: longer dashes
// must be replaced before shorter ones.
var sequences = strings.NewReplacer(
	"---", "&#8212;",
	" -- ", " &#8212; ",
	"--", "&#8211;",
	" - ", " &#8211; ",
	"...", "&#8230;",
	"(tm)", "&#8482;",
	"(TM)", "&#8482;",
	"(c)", "&#169;",
	"(C)", "&#169;",
	"(r)", "&#174;",
	"(R)", "&#174;",
)

var backticks = strings.NewReplacer("``", openDouble, "''", closeDouble)

// Text converts plain punctuation in text to typographic entities. Markup,
// shortcode brackets and the contents of code-like elements pass through
// unchanged.
func Text(text string) string {
	if text == "" {
		return ""
	}

	var (
		out   strings.Builder
		stack []string
	)
	out.Grow(len(text) + len(text)/8)

	for len(text) > 0 {
		switch {
		case strings.HasPrefix(text, "<!--"):
			end := strings.Index(text, "-->")
			if end < 0 {
				end = len(text)
			} else {
				end += len("-->")
			}
			out.WriteString(text[:end])
			text = text[end:]
		case isTagStart(text):
			end := strings.IndexByte(text, '>')
			if end < 0 {
				out.WriteString(text)
				return out.String()
			}
			tag := text[:end+1]
			stack = track(stack, tag)
			out.WriteString(tag)
			text = text[end+1:]
		case isShortcodeStart(text):
			end := strings.IndexByte(text, ']')
			out.WriteString(text[:end+1])
			text = text[end+1:]
		default:
			next := nextBoundary(text)
			segment := text[:next]
			if len(stack) > 0 {
				out.WriteString(segment)
			} else {
				out.WriteString(transform(segment))
			}
			text = text[next:]
		}
	}
	return out.String()
}

// nextBoundary returns the offset of the next tag, comment or shortcode in
// text, or len(text). A stray '<' or '[' is kept in the current segment.
func nextBoundary(text string) int {
	for i := 1; i < len(text); i++ {
		switch text[i] {
		case '<':
			if strings.HasPrefix(text[i:], "<!--") || isTagStart(text[i:]) {
				return i
			}
		case '[':
			if isShortcodeStart(text[i:]) {
				return i
			}
		}
	}
	return len(text)
}

func isTagStart(text string) bool {
	if len(text) < 2 || text[0] != '<' {
		return false
	}
	c := text[1]
	return c == '/' || c == '!' || c == '?' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isShortcodeStart(text string) bool {
	if len(text) < 3 || text[0] != '[' {
		return false
	}
	c := text[1]
	if c != '/' && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
		return false
	}
	end := strings.IndexByte(text, ']')
	return end > 0 && !strings.ContainsAny(text[1:end], "\n[<")
}

// track pushes opening protected tags and pops their closing tags.
func track(stack []string, tag string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(tag, "<"), ">")
	closing := strings.HasPrefix(inner, "/")
	inner = strings.TrimPrefix(inner, "/")
	name := inner
	if idx := strings.IndexFunc(inner, func(r rune) bool { return unicode.IsSpace(r) || r == '/' }); idx >= 0 {
		name = inner[:idx]
	}
	name = strings.ToLower(name)
	if !protectedTags[name] {
		return stack
	}
	if closing {
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i] == name {
				return stack[:i]
			}
		}
		return stack
	}
	if strings.HasSuffix(inner, "/") {
		return stack
	}
	return append(stack, name)
}

func transform(segment string) string {
	segment = backticks.Replace(segment)
	segment = quotes(segment)
	segment = sequences.Replace(segment)
	return multiply(segment)
}

func quotes(segment string) string {
	if !strings.ContainsAny(segment, `"'`) {
		return segment
	}
	runes := []rune(segment)
	var out strings.Builder
	for i, r := range runes {
		prev, next := rune(0), rune(0)
		if i > 0 {
			prev = runes[i-1]
		}
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch r {
		case '"':
			switch {
			case opens(prev):
				out.WriteString(openDouble)
			case unicode.IsDigit(prev) && !unicode.IsLetter(next):
				out.WriteString(doublePrime)
			default:
				out.WriteString(closeDouble)
			}
		case '\'':
			switch {
			case isWord(prev) && unicode.IsLetter(next):
				out.WriteString(closeSingle)
			case opens(prev) && unicode.IsDigit(next) && abbreviatedYear(runes[i+1:]):
				out.WriteString(closeSingle)
			case opens(prev):
				out.WriteString(openSingle)
			case unicode.IsDigit(prev) && !unicode.IsLetter(next) && next != 's':
				out.WriteString(prime)
			default:
				out.WriteString(closeSingle)
			}
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

func opens(prev rune) bool {
	if prev == 0 || unicode.IsSpace(prev) {
		return true
	}
	return strings.ContainsRune("([{\"-—–", prev)
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// abbreviatedYear matches two digits not followed by another word rune, as
// in '99 or '07s.
func abbreviatedYear(rest []rune) bool {
	if len(rest) < 2 || !unicode.IsDigit(rest[0]) || !unicode.IsDigit(rest[1]) {
		return false
	}
	if len(rest) == 2 {
		return true
	}
	after := rest[2]
	return !unicode.IsDigit(after) && (after == 's' || !unicode.IsLetter(after))
}

// multiply converts a standalone number x number, as in 1920x1080 or
// 2.5x3, to a multiplication sign. Both numbers must sit on word boundaries
// and a lone leading zero does not count, so 0x1F and 1920x1080px stay.
func multiply(segment string) string {
	if strings.IndexByte(segment, 'x') < 0 {
		return segment
	}
	runes := []rune(segment)
	var out strings.Builder
	for i, r := range runes {
		if r == 'x' && multiplies(runes, i) {
			out.WriteString("&#215;")
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

func multiplies(runes []rune, x int) bool {
	start := x
	for start > 0 && numeric(runes[start-1]) {
		start--
	}
	if start == x || !unicode.IsDigit(runes[start]) {
		return false
	}
	if start > 0 && isWordRune(runes[start-1]) {
		return false
	}
	if runes[start] == '0' && x-start == 1 {
		return false
	}

	end := x + 1
	if end >= len(runes) || !unicode.IsDigit(runes[end]) {
		return false
	}
	for end < len(runes) && numeric(runes[end]) {
		end++
	}
	return end == len(runes) || !isWordRune(runes[end])
}

func numeric(r rune) bool {
	return unicode.IsDigit(r) || r == '.' || r == ','
}

func isWordRune(r rune) bool {
	return isWord(r) || r == '_'
}
