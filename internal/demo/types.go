package demo

type errorResponse struct {
	Detail string `json:"detail"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	TempDir     string `json:"temp_dir"`
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	FilePath string `json:"file_path"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type summarizeRequest struct {
	FilePath        string `json:"file_path"`
	SummaryLength   string `json:"summary_length"`
	SummaryStrategy string `json:"summary_strategy"`
}

type summarizeResponse struct {
	Success          bool    `json:"success"`
	Summary          string  `json:"summary"`
	OriginalLength   int     `json:"original_length,omitempty"`
	SummaryLength    int     `json:"summary_length,omitempty"`
	CompressionRatio float64 `json:"compression_ratio,omitempty"`
	StrategyUsed     string  `json:"strategy_used,omitempty"`
	Error            string  `json:"error,omitempty"`
}

type generateRequest struct {
	Prompt      string  `json:"prompt" binding:"required"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}
