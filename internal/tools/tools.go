// Package tools is the fixed catalog of tools shown on the launcher grid.
package tools

import (
	"fmt"

	"multitool/internal/models"
)

// Kind decides which interface a tool's detail view is built from.
type Kind int

const (
	KindPlaceholder Kind = iota // "Coming soon" view, owns no session state
	KindUpload                  // file upload + summarization
	KindChat                    // conversational
)

func (k Kind) String() string {
	switch k {
	case KindUpload:
		return "upload"
	case KindChat:
		return "chat"
	default:
		return "placeholder"
	}
}

type Tool struct {
	ID          models.ToolID
	Name        string
	Icon        string
	Description string
	Kind        Kind
}

// Available reports whether the tool does anything beyond a placeholder view.
func (t Tool) Available() bool { return t.Kind != KindPlaceholder }

var Definitions = []Tool{
	{
		ID:          models.ToolPDFSummarizer,
		Name:        "PDF Summarizer",
		Icon:        "📄",
		Description: "Upload a PDF and get an AI-generated summary of its content.",
		Kind:        KindUpload,
	},
	{
		ID:          models.ToolKeywordDetector,
		Name:        "Keyword Detector",
		Icon:        "🔍",
		Description: "Extract the key terms and topics from a piece of text.",
		Kind:        KindPlaceholder,
	},
	{
		ID:          models.ToolTextAnalyzer,
		Name:        "Text Analyzer",
		Icon:        "📊",
		Description: "Readability, sentiment and structure statistics for text.",
		Kind:        KindPlaceholder,
	},
	{
		ID:          models.ToolAIChat,
		Name:        "AI Chat Assistant",
		Icon:        "💬",
		Description: "Chat with the local language model.",
		Kind:        KindChat,
	},
}

func Lookup(id models.ToolID) (Tool, error) {
	for _, t := range Definitions {
		if t.ID == id {
			return t, nil
		}
	}
	return Tool{}, fmt.Errorf("unknown tool %q", id)
}
