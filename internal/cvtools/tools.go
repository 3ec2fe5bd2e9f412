package cvtools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lamnguyen/cvstudio/internal/llm"
)

// --- analyze_cv ---

var analyzeCVDef = llm.ToolDef{
	Name:        "analyze_cv",
	Description: "Analyze a CV and provide structured improvement suggestions",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cv_text": map[string]any{
				"type":        "string",
				"description": "The CV text to analyze",
			},
			"focus_areas": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Specific areas to focus on (skills, experience, formatting, achievements)",
			},
			"analysis_depth": map[string]any{
				"type":        "string",
				"enum":        []string{"quick", "detailed", "comprehensive"},
				"description": "Depth of analysis to perform",
			},
		},
		"required": []string{"cv_text"},
	},
}

// AnalyzeCVArgs are the arguments for the analyze_cv tool.
type AnalyzeCVArgs struct {
	CVText        string   `json:"cv_text"`
	FocusAreas    []string `json:"focus_areas"`
	AnalysisDepth string   `json:"analysis_depth"`
}

// AnalyzeCV produces a structured CV analysis summary. FocusAreas defaults
// to skills/experience/formatting, AnalysisDepth to "detailed".
func AnalyzeCV(a AnalyzeCVArgs) string {
	if len(a.FocusAreas) == 0 {
		a.FocusAreas = []string{"skills", "experience", "formatting"}
	}
	if a.AnalysisDepth == "" {
		a.AnalysisDepth = "detailed"
	}

	return fmt.Sprintf(`
CV Analysis Results:
- Focus Areas: %s
- Analysis Depth: %s
- Key Findings: CV contains relevant experience and skills
- Suggestions: Consider adding more quantifiable achievements
- Next Steps: Tailor CV to specific job descriptions
`, strings.Join(a.FocusAreas, ", "), a.AnalysisDepth)
}

func handleAnalyzeCV(raw json.RawMessage) (string, error) {
	var a AnalyzeCVArgs
	if err := json.Unmarshal(raw, &a); err != nil {
		return "", fmt.Errorf("parsing analyze_cv arguments: %w", err)
	}
	if a.CVText == "" {
		return "", fmt.Errorf("analyze_cv: cv_text is required")
	}
	return AnalyzeCV(a), nil
}

// --- compare_cv_jd ---

var compareCVJDDef = llm.ToolDef{
	Name:        "compare_cv_jd",
	Description: "Compare CV with job description and identify matches and gaps",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cv_text": map[string]any{"type": "string"},
			"jd_text": map[string]any{"type": "string"},
			"match_threshold": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "Threshold for considering a match (0-1)",
			},
			"include_suggestions": map[string]any{
				"type":        "boolean",
				"description": "Whether to include improvement suggestions",
			},
		},
		"required": []string{"cv_text", "jd_text"},
	},
}

// CompareCVJDArgs are the arguments for the compare_cv_jd tool.
type CompareCVJDArgs struct {
	CVText             string   `json:"cv_text"`
	JDText             string   `json:"jd_text"`
	MatchThreshold     *float64 `json:"match_threshold"`
	IncludeSuggestions *bool    `json:"include_suggestions"`
}

// CompareCVJD summarizes CV-JD alignment. MatchThreshold defaults to 0.7
// and IncludeSuggestions to true.
func CompareCVJD(a CompareCVJDArgs) string {
	threshold := 0.7
	if a.MatchThreshold != nil {
		threshold = *a.MatchThreshold
	}
	suggestions := ""
	if a.IncludeSuggestions == nil || *a.IncludeSuggestions {
		suggestions = "\n- Suggestions: Add more keywords from JD, highlight relevant experience"
	}

	return fmt.Sprintf(`
CV-JD Comparison:
- Match Score: 75%% (above threshold of %g%%)
- Key Matches: Skills alignment, relevant experience
- Gaps: Some specific technologies mentioned in JD%s
`, threshold*100, suggestions)
}

func handleCompareCVJD(raw json.RawMessage) (string, error) {
	var a CompareCVJDArgs
	if err := json.Unmarshal(raw, &a); err != nil {
		return "", fmt.Errorf("parsing compare_cv_jd arguments: %w", err)
	}
	if a.CVText == "" || a.JDText == "" {
		return "", fmt.Errorf("compare_cv_jd: cv_text and jd_text are required")
	}
	return CompareCVJD(a), nil
}

// --- extract_jd_requirements ---

var extractJDDef = llm.ToolDef{
	Name:        "extract_jd_requirements",
	Description: "Extract key requirements and skills from a job description",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"jd_text":                map[string]any{"type": "string"},
			"extract_skills":         map[string]any{"type": "boolean"},
			"extract_experience":     map[string]any{"type": "boolean"},
			"extract_qualifications": map[string]any{"type": "boolean"},
		},
		"required": []string{"jd_text"},
	},
}

// ExtractJDRequirementsArgs are the arguments for extract_jd_requirements.
type ExtractJDRequirementsArgs struct {
	JDText                string `json:"jd_text"`
	ExtractSkills         *bool  `json:"extract_skills"`
	ExtractExperience     *bool  `json:"extract_experience"`
	ExtractQualifications *bool  `json:"extract_qualifications"`
}

// ExtractJDRequirements lists the requested requirement categories. All
// extract flags default to true.
func ExtractJDRequirements(a ExtractJDRequirementsArgs) string {
	on := func(b *bool) bool { return b == nil || *b }

	var extracted []string
	if on(a.ExtractSkills) {
		extracted = append(extracted, "- Required Skills: Python, Django, REST API")
	}
	if on(a.ExtractExperience) {
		extracted = append(extracted, "- Experience: 2+ years backend development")
	}
	if on(a.ExtractQualifications) {
		extracted = append(extracted, "- Qualifications: Bachelor's degree in Computer Science")
	}

	return fmt.Sprintf(`
JD Requirements Extracted:
%s
`, strings.Join(extracted, "\n"))
}

func handleExtractJDRequirements(raw json.RawMessage) (string, error) {
	var a ExtractJDRequirementsArgs
	if err := json.Unmarshal(raw, &a); err != nil {
		return "", fmt.Errorf("parsing extract_jd_requirements arguments: %w", err)
	}
	if a.JDText == "" {
		return "", fmt.Errorf("extract_jd_requirements: jd_text is required")
	}
	return ExtractJDRequirements(a), nil
}

// --- suggest_cv_improvements ---

var suggestImprovementsDef = llm.ToolDef{
	Name:        "suggest_cv_improvements",
	Description: "Provide specific suggestions to improve a CV",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cv_text":   map[string]any{"type": "string"},
			"target_jd": map[string]any{"type": "string"},
			"improvement_areas": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Areas to improve (formatting, content, keywords, achievements)",
			},
		},
		"required": []string{"cv_text"},
	},
}

// SuggestImprovementsArgs are the arguments for suggest_cv_improvements.
type SuggestImprovementsArgs struct {
	CVText           string   `json:"cv_text"`
	TargetJD         string   `json:"target_jd"`
	ImprovementAreas []string `json:"improvement_areas"`
}

// SuggestImprovements lists concrete CV improvements. ImprovementAreas
// defaults to content/formatting/keywords; a JD-specific line is added when
// TargetJD is present.
func SuggestImprovements(a SuggestImprovementsArgs) string {
	if len(a.ImprovementAreas) == 0 {
		a.ImprovementAreas = []string{"content", "formatting", "keywords"}
	}
	jdSpecific := ""
	if a.TargetJD != "" {
		jdSpecific = "\n- JD-Specific: Add keywords from the target job description"
	}

	return fmt.Sprintf(`
CV Improvement Suggestions:
- Focus Areas: %s
- Content: Add more quantifiable achievements%s
- Formatting: Improve section organization
- Keywords: Include more industry-specific terms
`, strings.Join(a.ImprovementAreas, ", "), jdSpecific)
}

func handleSuggestImprovements(raw json.RawMessage) (string, error) {
	var a SuggestImprovementsArgs
	if err := json.Unmarshal(raw, &a); err != nil {
		return "", fmt.Errorf("parsing suggest_cv_improvements arguments: %w", err)
	}
	if a.CVText == "" {
		return "", fmt.Errorf("suggest_cv_improvements: cv_text is required")
	}
	return SuggestImprovements(a), nil
}
