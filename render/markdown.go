package render

import (
	"regexp"
	"strconv"
	"strings"
)

// MarkdownEmitter supplies the output-format-specific wrapping for the
// small inline-markdown subset spec section 4.D.3 describes: fenced and
// inline code spans, bold, and italic.
type MarkdownEmitter interface {
	Code(content string) string
	Bold(content string) string
	Italic(content string) string
}

var (
	fencedCodeRE = regexp.MustCompile("(?s)```(.*?)```")
	inlineCodeRE = regexp.MustCompile("`([^`]+)`")
	boldRE       = regexp.MustCompile(`(?s)\*\*(.+?)\*\*`)
	italicRE     = regexp.MustCompile(`\*([^*]+)\*`)
)

// ApplyMarkdown runs the spec's four-phase transform: (1) extract code
// spans to placeholders so their contents are immune to bold/italic
// matching, (2) apply bold (handling italic nested inside it), (3) apply
// standalone italic on what remains, (4) restore the code spans.
func ApplyMarkdown(text string, em MarkdownEmitter) string {
	var codeSpans []string
	extract := func(content string) string {
		codeSpans = append(codeSpans, content)
		return codePlaceholder(len(codeSpans) - 1)
	}

	text = fencedCodeRE.ReplaceAllStringFunc(text, func(m string) string {
		inner := m[3 : len(m)-3]
		return extract(inner)
	})
	text = inlineCodeRE.ReplaceAllStringFunc(text, func(m string) string {
		return extract(m[1 : len(m)-1])
	})

	text = boldRE.ReplaceAllStringFunc(text, func(m string) string {
		inner := m[2 : len(m)-2]
		inner = italicRE.ReplaceAllStringFunc(inner, func(im string) string {
			return em.Italic(im[1 : len(im)-1])
		})
		return em.Bold(inner)
	})

	text = italicRE.ReplaceAllStringFunc(text, func(m string) string {
		return em.Italic(m[1 : len(m)-1])
	})

	for i, span := range codeSpans {
		text = replacePlaceholder(text, i, em.Code(span))
	}
	return text
}

func codePlaceholder(i int) string {
	return "\x00CODE" + strconv.Itoa(i) + "\x00"
}

func replacePlaceholder(text string, i int, replacement string) string {
	return strings.ReplaceAll(text, codePlaceholder(i), replacement)
}
