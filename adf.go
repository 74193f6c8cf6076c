package jira

import "strings"

// ADFDocument is an Atlassian Document Format document, used by API v3 for
// rich-text fields such as descriptions and comment bodies.
type ADFDocument struct {
	Version int       `json:"version"` // always 1
	Type    string    `json:"type"`    // always "doc"
	Content []ADFNode `json:"content"`
}

// ADFNode is a node in an ADF document.
type ADFNode struct {
	Type    string         `json:"type"`
	Content []ADFNode      `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []ADFMark      `json:"marks,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// ADFMark is formatting applied to a text node.
type ADFMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ADF node types used by the builder.
const (
	ADFNodeDoc       = "doc"
	ADFNodeParagraph = "paragraph"
	ADFNodeText      = "text"
	ADFNodeHeading   = "heading"
	ADFNodeCodeBlock = "codeBlock"
	ADFNodeHardBreak = "hardBreak"
)

// NewADFDocument creates an empty ADF document.
func NewADFDocument() *ADFDocument {
	return &ADFDocument{
		Version: 1,
		Type:    ADFNodeDoc,
		Content: []ADFNode{},
	}
}

// TextDocument creates an ADF document holding one paragraph of plain text.
// This is the common case for descriptions and comments on API v3.
func TextDocument(text string) *ADFDocument {
	doc := NewADFDocument()
	doc.AddParagraph(text)
	return doc
}

// Validate checks the document structure.
func (d *ADFDocument) Validate() error {
	if d.Version != 1 {
		return ErrADFVersionOnly
	}
	if d.Type != ADFNodeDoc {
		return ErrADFTypeInvalid
	}
	return nil
}

// AddParagraph appends a paragraph of plain text.
func (d *ADFDocument) AddParagraph(text string) {
	d.Content = append(d.Content, ADFNode{
		Type:    ADFNodeParagraph,
		Content: []ADFNode{{Type: ADFNodeText, Text: text}},
	})
}

// AddHeading appends a heading. Levels outside 1..6 are clamped.
func (d *ADFDocument) AddHeading(level int, text string) {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	d.Content = append(d.Content, ADFNode{
		Type:    ADFNodeHeading,
		Attrs:   map[string]any{"level": level},
		Content: []ADFNode{{Type: ADFNodeText, Text: text}},
	})
}

// AddCodeBlock appends a code block with an optional language attribute.
func (d *ADFDocument) AddCodeBlock(code, language string) {
	node := ADFNode{
		Type:    ADFNodeCodeBlock,
		Content: []ADFNode{{Type: ADFNodeText, Text: code}},
	}
	if language != "" {
		node.Attrs = map[string]any{"language": language}
	}
	d.Content = append(d.Content, node)
}

// PlainText flattens the document to plain text, one line per block node.
func (d *ADFDocument) PlainText() string {
	var lines []string
	for _, node := range d.Content {
		lines = append(lines, nodePlainText(node))
	}
	return strings.Join(lines, "\n")
}

func nodePlainText(node ADFNode) string {
	if node.Type == ADFNodeText {
		return node.Text
	}
	var b strings.Builder
	for _, child := range node.Content {
		if child.Type == ADFNodeHardBreak {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(nodePlainText(child))
	}
	return b.String()
}

// RichTextPlain flattens a rich-text field to plain text. Jira returns ADF
// objects on v3 and plain strings on v2; JSON decoding leaves ADF as nested
// map[string]any, which is walked here.
func RichTextPlain(v any) string {
	switch body := v.(type) {
	case nil:
		return ""
	case string:
		return body
	case *ADFDocument:
		return body.PlainText()
	case map[string]any:
		return mapPlainText(body)
	default:
		return ""
	}
}

func mapPlainText(node map[string]any) string {
	if text, ok := node["text"].(string); ok {
		return text
	}

	content, ok := node["content"].([]any)
	if !ok {
		return ""
	}

	topLevel := node["type"] == ADFNodeDoc
	var parts []string
	for _, raw := range content {
		child, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		parts = append(parts, mapPlainText(child))
	}
	if topLevel {
		return strings.Join(parts, "\n")
	}
	return strings.Join(parts, "")
}
