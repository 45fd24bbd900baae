package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

// PlaceholderFormat marks where an extracted shortcode is rendered back in.
const PlaceholderFormat = "<!-- shortcode:%d -->"

var (
	openTagPattern = regexp.MustCompile(`^\[(\[?)([A-Za-z0-9_-]+)`)
	attrPattern    = regexp.MustCompile(`([\w-]+)\s*=\s*"([^"]*)"|([\w-]+)\s*=\s*'([^']*)'|([\w-]+)\s*=\s*([^\s'"]+)|"([^"]*)"|'([^']*)'|(\S+)`)
)

// WordPressParser extracts [name attr="v"]inner[/name] and self-closing
// [name] shortcodes. Only names accepted by the known func are extracted;
// anything else is copied through unchanged. [[name]] escapes a shortcode
// and renders as the literal [name].
type WordPressParser struct {
	known func(name string) bool
}

// NewWordPressParser builds a parser. A nil known func accepts every name.
func NewWordPressParser(known func(name string) bool) *WordPressParser {
	if known == nil {
		known = func(string) bool { return true }
	}
	return &WordPressParser{known: known}
}

// Extract replaces each recognised shortcode with a placeholder and returns
// the rewritten content alongside the parsed invocations in order.
func (p *WordPressParser) Extract(content string) (string, []interfaces.ParsedShortcode) {
	if !strings.Contains(content, "[") {
		return content, nil
	}

	var (
		out        strings.Builder
		shortcodes []interfaces.ParsedShortcode
		pos        int
	)

	for pos < len(content) {
		idx := strings.IndexByte(content[pos:], '[')
		if idx < 0 {
			out.WriteString(content[pos:])
			break
		}
		start := pos + idx
		out.WriteString(content[pos:start])

		tag, ok := p.scan(content, start)
		if !ok {
			out.WriteByte('[')
			pos = start + 1
			continue
		}

		if tag.escaped {
			out.WriteString(content[start+1 : tag.end-1])
			pos = tag.end
			continue
		}

		out.WriteString(fmt.Sprintf(PlaceholderFormat, len(shortcodes)))
		shortcodes = append(shortcodes, interfaces.ParsedShortcode{
			Name:   tag.name,
			Params: tag.params,
			Inner:  tag.inner,
			Raw:    content[start:tag.end],
		})
		pos = tag.end
	}

	return out.String(), shortcodes
}

type scannedTag struct {
	name    string
	params  map[string]any
	inner   string
	end     int
	escaped bool
}

// scan reads the shortcode opening at start, including any matching closing
// tag. end is the offset just past the full invocation.
func (p *WordPressParser) scan(content string, start int) (scannedTag, bool) {
	match := openTagPattern.FindStringSubmatch(content[start:])
	if match == nil {
		return scannedTag{}, false
	}
	name := strings.ToLower(match[2])
	if !p.known(name) {
		return scannedTag{}, false
	}

	attrStart := start + len(match[0])
	if attrStart < len(content) {
		if c := content[attrStart]; c != ']' && c != '/' && c != ' ' && c != '\t' && c != '\n' {
			return scannedTag{}, false
		}
	}
	closeRel := strings.IndexByte(content[attrStart:], ']')
	if closeRel < 0 {
		return scannedTag{}, false
	}
	rawAttrs := content[attrStart : attrStart+closeRel]
	if strings.Contains(rawAttrs, "[") {
		return scannedTag{}, false
	}
	end := attrStart + closeRel + 1

	tag := scannedTag{name: name}
	trimmed := strings.TrimSpace(rawAttrs)
	selfClosing := strings.HasSuffix(trimmed, "/")
	if selfClosing {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "/"))
	}
	tag.params = ParseAttributes(trimmed)

	if !selfClosing {
		closing := "[/" + match[2] + "]"
		if rel := indexFold(content[end:], closing); rel >= 0 {
			tag.inner = content[end : end+rel]
			end = end + rel + len(closing)
		}
	}

	if match[1] == "[" {
		if end < len(content) && content[end] == ']' {
			tag.escaped = true
			tag.end = end + 1
			return tag, true
		}
		return scannedTag{}, false
	}

	tag.end = end
	return tag, true
}

// ParseAttributes parses shortcode attributes. Named values may be double
// quoted, single quoted or bare; positional values are keyed "0", "1", ...
func ParseAttributes(raw string) map[string]any {
	params := map[string]any{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return params
	}

	positional := 0
	for _, m := range attrPattern.FindAllStringSubmatch(raw, -1) {
		switch {
		case m[1] != "":
			params[strings.ToLower(m[1])] = m[2]
		case m[3] != "":
			params[strings.ToLower(m[3])] = m[4]
		case m[5] != "":
			params[strings.ToLower(m[5])] = m[6]
		default:
			value := m[7] + m[8] + m[9]
			params[strconv.Itoa(positional)] = value
			positional++
		}
	}
	return params
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}
