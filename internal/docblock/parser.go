package docblock

import (
	"fmt"
	"strings"

	"styledoc/internal/extractor"
	"styledoc/internal/styleguide"
)

const modifierSeparator = " - "

// Parser turns fragments into sections. It holds only its renderers and is
// safe for concurrent use when they are.
type Parser struct {
	markup   MarkupRenderer
	template TemplateRenderer
}

// NewParser creates a parser backed by the given renderers.
func NewParser(markup MarkupRenderer, template TemplateRenderer) *Parser {
	return &Parser{markup: markup, template: template}
}

// paragraph is a run of non-blank lines.
type paragraph []string

func (p paragraph) text() string {
	return strings.Join(p, "\n")
}

type positioned struct {
	position   string
	paragraphs []paragraph
}

type templated struct {
	paragraphs []paragraph
	raw        string
	found      bool
}

type modifierLine struct {
	selector    string
	description string
}

type modified struct {
	paragraphs []paragraph
	modifiers  []modifierLine
}

// Parse interprets fragment. It returns ok=false without an error when the
// fragment carries no valid Styleguide declaration, and an error wrapping
// ErrRender when a renderer fails.
func (p *Parser) Parse(fragment string) (section styleguide.Section, ok bool, err error) {
	if !IsValid(fragment) {
		return styleguide.Section{}, false, nil
	}

	pos := extractPosition(strings.TrimSpace(extractor.Dedent(fragment)))
	tpl := extractTemplate(pos.paragraphs)
	mods := extractModifiers(tpl.paragraphs)
	title, rest := extractTitle(mods.paragraphs)

	base, err := p.renderTemplate(tpl, "")
	if err != nil {
		return styleguide.Section{}, false, err
	}

	var modifiers []styleguide.Modifier
	for _, m := range mods.modifiers {
		rendered, err := p.renderTemplate(tpl, strings.TrimLeft(m.selector, "."))
		if err != nil {
			return styleguide.Section{}, false, err
		}
		modifiers = append(modifiers, styleguide.Modifier{
			Selector:    m.selector,
			Description: m.description,
			Template:    rendered,
		})
	}

	description, err := p.markup.Render(joinParagraphs(rest))
	if err != nil {
		return styleguide.Section{}, false, fmt.Errorf("%w: description: %w", ErrRender, err)
	}

	section, err = styleguide.NewSection(pos.position, title, description, modifiers, base)
	if err != nil {
		return styleguide.Section{}, false, err
	}
	return section, true, nil
}

func (p *Parser) renderTemplate(tpl templated, modifier string) (string, error) {
	if !tpl.found {
		return "", nil
	}
	out, err := p.template.Render(tpl.raw, map[string]string{ModifierVar: modifier})
	if err != nil {
		return "", fmt.Errorf("%w: template for %q: %w", ErrRender, modifier, err)
	}
	return out, nil
}

// extractPosition takes the first declarator as the position and drops
// every declarator line before splitting into paragraphs.
func extractPosition(text string) positioned {
	var (
		position string
		kept     []string
	)
	for _, line := range strings.Split(text, "\n") {
		if m := declaratorRe.FindStringSubmatch(line); m != nil {
			if position == "" {
				position = m[1]
			}
			continue
		}
		kept = append(kept, line)
	}
	return positioned{position: position, paragraphs: splitParagraphs(kept)}
}

// extractTemplate treats the first paragraph opening with '<' and all that
// follow it as template text.
func extractTemplate(paragraphs []paragraph) templated {
	for i, p := range paragraphs {
		if !strings.HasPrefix(strings.TrimSpace(p.text()), "<") {
			continue
		}
		parts := make([]string, 0, len(paragraphs)-i)
		for _, tp := range paragraphs[i:] {
			parts = append(parts, extractor.Dedent(tp.text()))
		}
		return templated{
			paragraphs: paragraphs[:i:i],
			raw:        strings.Join(parts, "\n\n"),
			found:      true,
		}
	}
	return templated{paragraphs: paragraphs}
}

// extractModifiers removes the first paragraph containing " - " and reads
// one modifier per "selector - description" line. A line indented deeper
// than the last modifier line continues its description verbatim; any other
// line ends the continuation. Lines with an empty selector are ignored.
func extractModifiers(paragraphs []paragraph) modified {
	idx := -1
	for i, p := range paragraphs {
		if strings.Contains(p.text(), modifierSeparator) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return modified{paragraphs: paragraphs}
	}

	var (
		mods       []modifierLine
		lastIndent = -1
	)
	for _, line := range paragraphs[idx] {
		indent := extractor.IndentWidth(line)
		switch {
		case lastIndent >= 0 && indent > lastIndent:
			mods[len(mods)-1].description += line
		case strings.Contains(line, modifierSeparator):
			selector, desc, _ := strings.Cut(line, modifierSeparator)
			selector = strings.TrimSpace(selector)
			if selector == "" {
				lastIndent = -1
				continue
			}
			mods = append(mods, modifierLine{selector: selector, description: strings.TrimSpace(desc)})
			lastIndent = indent
		default:
			lastIndent = -1
		}
	}

	rest := make([]paragraph, 0, len(paragraphs)-1)
	rest = append(rest, paragraphs[:idx]...)
	rest = append(rest, paragraphs[idx+1:]...)
	return modified{paragraphs: rest, modifiers: mods}
}

func extractTitle(paragraphs []paragraph) (string, []paragraph) {
	if len(paragraphs) == 0 {
		return "", nil
	}
	return strings.TrimSpace(paragraphs[0].text()), paragraphs[1:]
}

func splitParagraphs(lines []string) []paragraph {
	var (
		out     []paragraph
		current paragraph
	)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				out = append(out, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

func joinParagraphs(paragraphs []paragraph) string {
	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		parts = append(parts, p.text())
	}
	return strings.Join(parts, "\n\n")
}
