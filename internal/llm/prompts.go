package llm

import (
	"fmt"
	"strings"

	"github.com/gyeh/billaudit/internal/model"
)

// SystemPrompt is the fixed instruction for every billing-analysis call.
const SystemPrompt = `You are an expert US medical billing analyst. Your task is to help a patient understand their medical bill and take action on potential issues. You must be formal, accurate, and base your entire response ONLY on the JSON data and the authoritative context provided. You must cite your sources.`

// FormatContext renders retrieved evidence into the prompt's
// authoritative-context block.
func FormatContext(evidence []model.Evidence) string {
	if len(evidence) == 0 {
		return "No relevant context found in the knowledge base."
	}
	var b strings.Builder
	for _, ev := range evidence {
		fmt.Fprintf(&b, "Source Content (Relevance Score: %.2f):\n%s\n\n", ev.Score, ev.Content)
	}
	return strings.TrimSpace(b.String())
}

// ExplanationPrompt composes the prompt for explaining a validated bill
// with citations.
func ExplanationPrompt(validationJSON, context string) string {
	return fmt.Sprintf(`
<INSTRUCTIONS>
A patient needs help understanding their medical bill. Your task is to provide a clear, concise explanation based ONLY on the provided JSON data and the authoritative context.

**Follow these steps exactly:**
1.  Provide a brief, one-sentence summary of the bill.
2.  Create a section titled "Analysis of Findings:".
3.  For EACH flagged item in the flags array, write an explanation.
4.  **Crucially, you MUST use the provided <AUTHORITATIVE_CONTEXT> to support your explanation for each flag. If a piece of context does not directly relate to a specific flag, DO NOT mention it in your explanation for that flag.**
5.  At the end of each explanation for a flag, you MUST include a citation in the format [Source: Source ID]. For example: [Source: CMS-Duplicate-Billing-001].
6.  If the context does not apply to a flag, do not invent a citation.
</INSTRUCTIONS>

<AUTHORITATIVE_CONTEXT>
%s
</AUTHORITATIVE_CONTEXT>

<JSON_DATA>
%s
</JSON_DATA>
`, context, validationJSON)
}

// AppealPrompt composes the prompt for drafting a formal appeal letter.
func AppealPrompt(validationJSON, context string) string {
	return fmt.Sprintf(`
<INSTRUCTIONS>
Your task is to draft a formal appeal letter for a patient based ONLY on the validated issues in the JSON data and the supporting evidence in the authoritative context.

**Follow these requirements exactly:**
1.  Draft a formal, polite, and citation-ready appeal letter.
2.  Start with placeholders for patient and insurance information.
3.  Use the Claim ID from the JSON in the subject line.
4.  In the letter's body, for each flag, state the issue found.
5.  **You MUST reference the authoritative context to strengthen the appeal. If a piece of context does not directly relate to a specific flag, DO NOT use it in the letter.**
6.  You MUST include the full text of the cited sources in a "References" section at the end of the letter.
</INSTRUCTIONS>

<AUTHORITATIVE_CONTEXT>
%s
</AUTHORITATIVE_CONTEXT>

<JSON_DATA>
%s
</JSON_DATA>
`, context, validationJSON)
}
