package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultAnalysisType is used when an insights request names none.
const DefaultAnalysisType = "general"

const insightsInstructions = `Analyze the inventory records below and respond with a single JSON object of the form
{"insights": ["..."], "recommendations": ["..."]}.
Each insight must reference only figures present in the records. Each recommendation must be a concrete action the user can take.`

// ComposeInsights renders the prompt for the insights operation. Records are
// serialized with sorted keys so the output is deterministic.
func ComposeInsights(records []map[string]any, analysisType string) (string, error) {
	if strings.TrimSpace(analysisType) == "" {
		analysisType = DefaultAnalysisType
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding inventory records: %w", err)
	}

	var b strings.Builder
	b.WriteString(Persona)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "ANALYSIS TYPE: %s\n\n", analysisType)
	b.WriteString(insightsInstructions)
	b.WriteString("\n\nINVENTORY RECORDS:\n")
	b.Write(data)
	return b.String(), nil
}
