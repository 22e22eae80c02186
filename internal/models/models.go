package models

// ToolID identifies one entry of the tool catalog
type ToolID string

const (
	ToolPDFSummarizer   ToolID = "pdf-summarizer"
	ToolKeywordDetector ToolID = "keyword-detector"
	ToolTextAnalyzer    ToolID = "text-analyzer"
	ToolAIChat          ToolID = "ai-chat"
)

// ViewState is the top-level screen the launcher is showing
type ViewState int

const (
	ViewGrid   ViewState = iota // Tool grid, no active tool
	ViewDetail                  // A single tool's interface
)

func (v ViewState) String() string {
	switch v {
	case ViewGrid:
		return "grid"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of a chat session's append-only history.
type ChatMessage struct {
	Role     string
	Content  string
	Sequence int
}

// SummaryResult is the sanitized outcome of a /summarize_pdf call.
type SummaryResult struct {
	Success          bool
	SummaryText      string
	OriginalLength   int
	SummaryLength    int
	CompressionRatio float64
	StrategyUsed     string
	ErrorMessage     string
}

// SummarySettings are the optional knobs forwarded to /summarize_pdf.
type SummarySettings struct {
	Length   string
	Strategy string
}

// ChatSettings are the generation knobs forwarded to /generate.
type ChatSettings struct {
	MaxTokens   int
	Temperature float64
}

const (
	SummaryLengthShort  = "short"
	SummaryLengthMedium = "medium"
	SummaryLengthLong   = "long"

	StrategyBalanced  = "balanced_extraction"
	StrategyKeyPoints = "key_points"
	StrategyDetailed  = "detailed"
)

var SummaryLengths = []string{SummaryLengthShort, SummaryLengthMedium, SummaryLengthLong}

var SummaryStrategies = []string{StrategyBalanced, StrategyKeyPoints, StrategyDetailed}

var MaxTokenPresets = []int{128, 256, 512}

// TemperaturePreset pairs a temperature with the label shown in the chat settings row
type TemperaturePreset struct {
	Label string
	Value float64
}

var TemperaturePresets = []TemperaturePreset{
	{Label: "Focused", Value: 0.3},
	{Label: "Balanced", Value: 0.7},
	{Label: "Creative", Value: 1.0},
}

func DefaultSummarySettings() SummarySettings {
	return SummarySettings{Length: SummaryLengthMedium, Strategy: StrategyBalanced}
}

func DefaultChatSettings() ChatSettings {
	return ChatSettings{MaxTokens: 256, Temperature: 0.7}
}

// UploadStatus is the lifecycle phase of an upload job. Values only ever increase.
type UploadStatus int

const (
	UploadPending UploadStatus = iota
	UploadUploading
	UploadUploaded
	UploadProcessing
	UploadCompleted
	UploadFailed
)

func (s UploadStatus) String() string {
	switch s {
	case UploadPending:
		return "pending"
	case UploadUploading:
		return "uploading"
	case UploadUploaded:
		return "uploaded"
	case UploadProcessing:
		return "processing"
	case UploadCompleted:
		return "completed"
	case UploadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s UploadStatus) Terminal() bool {
	return s == UploadCompleted || s == UploadFailed
}

// InFlight is true while a network call for the job is outstanding.
func (s UploadStatus) InFlight() bool {
	return s == UploadUploading || s == UploadUploaded || s == UploadProcessing
}
