package model

// Evidence is one scored passage returned by the retrieval backend.
// Score is a normalized similarity in [0,1], higher meaning more relevant.
type Evidence struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// Citation is the caller-facing view of a retrieved passage, without the
// relevance score.
type Citation struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// ExplanationResponse is the response for a bill explanation request.
type ExplanationResponse struct {
	ExplanationText string           `json:"explanation_text"`
	Citations       []Citation       `json:"citations"`
	Flags           []ValidationFlag `json:"flags"`
}

// AppealDraftResponse is the response for a drafted appeal letter.
type AppealDraftResponse struct {
	AppealDraftText string           `json:"appeal_draft_text"`
	Citations       []Citation       `json:"citations"`
	Flags           []ValidationFlag `json:"flags"`
}
