// Package document converts rendered export Markdown into downloadable
// documents: a line-oriented DOCX writer and a sanitized HTML preview.
package document

import "strings"

// BlockKind classifies one line of export Markdown.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading1
	Heading2
	Heading3
	Bullet
)

func (k BlockKind) String() string {
	switch k {
	case Heading1:
		return "heading1"
	case Heading2:
		return "heading2"
	case Heading3:
		return "heading3"
	case Bullet:
		return "bullet"
	default:
		return "paragraph"
	}
}

// Block is a single document paragraph. Level is the list nesting depth for
// bullets and is always 0 today.
type Block struct {
	Kind  BlockKind
	Text  string
	Level int
}

// Model is the ordered block list of a document. Title only lands in the
// package properties.
type Model struct {
	Title  string
	Blocks []Block
}

// Parse maps every line of markdown to exactly one block. Only a leading
// heading or bullet marker is recognised; inline syntax passes through as text.
func Parse(markdown string) Model {
	lines := strings.Split(markdown, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, parseLine(line))
	}
	return Model{Blocks: blocks}
}

func parseLine(line string) Block {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return Block{Kind: Paragraph}
	case strings.HasPrefix(trimmed, "### "):
		return Block{Kind: Heading3, Text: trimmed[4:]}
	case strings.HasPrefix(trimmed, "## "):
		return Block{Kind: Heading2, Text: trimmed[3:]}
	case strings.HasPrefix(trimmed, "# "):
		return Block{Kind: Heading1, Text: trimmed[2:]}
	case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
		return Block{Kind: Bullet, Text: trimmed[2:]}
	default:
		return Block{Kind: Paragraph, Text: line}
	}
}
