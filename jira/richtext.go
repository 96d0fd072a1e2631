package jira

import (
	"encoding/json"
	"fmt"
	"strings"
)

// adfNode is a node of an Atlassian Document Format tree.
type adfNode struct {
	Type    string         `json:"type"`
	Content []adfNode      `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []adfMark      `json:"marks,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

type adfMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ADF node types rendered specially; anything else renders its children.
const (
	adfParagraph   = "paragraph"
	adfText        = "text"
	adfHardBreak   = "hardBreak"
	adfHeading     = "heading"
	adfBulletList  = "bulletList"
	adfOrderedList = "orderedList"
	adfCodeBlock   = "codeBlock"
	adfBlockquote  = "blockquote"
	adfRule        = "rule"
	adfMention     = "mention"
	adfEmoji       = "emoji"
	adfInlineCard  = "inlineCard"
	adfTableRow    = "tableRow"
)

// RenderText renders a rich-text value as Markdown-flavoured text.
//
// Jira sends descriptions and comment bodies either as plain strings or as
// ADF documents. Strings are returned as-is; ADF is rendered; anything that
// is neither renders as its JSON encoding.
func RenderText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	var doc adfNode
	if err := json.Unmarshal(data, &doc); err != nil || doc.Type == "" {
		return string(data)
	}

	var w strings.Builder
	renderBlock(&w, &doc)
	return strings.TrimSpace(w.String())
}

func renderBlock(w *strings.Builder, node *adfNode) {
	switch node.Type {
	case adfParagraph:
		renderInline(w, node.Content)
		w.WriteString("\n\n")

	case adfHeading:
		level := 1
		if l, ok := node.Attrs["level"].(float64); ok && l >= 1 && l <= 6 {
			level = int(l)
		}
		w.WriteString(strings.Repeat("#", level))
		w.WriteString(" ")
		renderInline(w, node.Content)
		w.WriteString("\n\n")

	case adfCodeBlock:
		lang, _ := node.Attrs["language"].(string)
		w.WriteString("```")
		w.WriteString(lang)
		w.WriteString("\n")
		renderInline(w, node.Content)
		w.WriteString("\n```\n\n")

	case adfBlockquote:
		var inner strings.Builder
		for i := range node.Content {
			renderBlock(&inner, &node.Content[i])
		}
		for _, line := range strings.Split(strings.TrimSpace(inner.String()), "\n") {
			w.WriteString("> ")
			w.WriteString(line)
			w.WriteString("\n")
		}
		w.WriteString("\n")

	case adfBulletList, adfOrderedList:
		for i := range node.Content {
			if node.Type == adfOrderedList {
				fmt.Fprintf(w, "%d. ", i+1)
			} else {
				w.WriteString("- ")
			}
			for j := range node.Content[i].Content {
				renderInline(w, node.Content[i].Content[j].Content)
			}
			w.WriteString("\n")
		}
		w.WriteString("\n")

	case adfTableRow:
		w.WriteString("|")
		for i := range node.Content {
			w.WriteString(" ")
			for j := range node.Content[i].Content {
				renderInline(w, node.Content[i].Content[j].Content)
			}
			w.WriteString(" |")
		}
		w.WriteString("\n")

	case adfRule:
		w.WriteString("---\n\n")

	case adfText:
		renderText(w, node)

	default:
		for i := range node.Content {
			renderBlock(w, &node.Content[i])
		}
	}
}

func renderInline(w *strings.Builder, nodes []adfNode) {
	for i := range nodes {
		node := &nodes[i]
		switch node.Type {
		case adfText:
			renderText(w, node)
		case adfHardBreak:
			w.WriteString("\n")
		case adfMention:
			if text, ok := node.Attrs["text"].(string); ok && text != "" {
				w.WriteString(text)
			} else if id, ok := node.Attrs["id"].(string); ok {
				w.WriteString("@")
				w.WriteString(id)
			}
		case adfEmoji:
			if shortName, ok := node.Attrs["shortName"].(string); ok {
				w.WriteString(shortName)
			}
		case adfInlineCard:
			if url, ok := node.Attrs["url"].(string); ok {
				w.WriteString(url)
			}
		default:
			renderInline(w, node.Content)
		}
	}
}

func renderText(w *strings.Builder, node *adfNode) {
	prefix, suffix := "", ""
	for _, mark := range node.Marks {
		switch mark.Type {
		case "strong":
			prefix = "**" + prefix
			suffix += "**"
		case "em":
			prefix = "*" + prefix
			suffix += "*"
		case "strike":
			prefix = "~~" + prefix
			suffix += "~~"
		case "code":
			prefix = "`" + prefix
			suffix += "`"
		case "link":
			if href, ok := mark.Attrs["href"].(string); ok {
				prefix = "[" + prefix
				suffix = suffix + "](" + href + ")"
			}
		}
	}

	w.WriteString(prefix)
	w.WriteString(node.Text)
	w.WriteString(suffix)
}
