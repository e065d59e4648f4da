// File: internal/prompt/assembler.go
package prompt

import (
	"fmt"
	"strings"

	"github.com/commitlens/commitlens-cli/api/schemas"
)

// System prompts per mode. The general reviewer is primed to honor injected
// API guidelines; the critical triage persona deliberately is not.
const (
	SystemPromptGeneral = "You are a professional code reviewer. Analyze code changes and " +
		"provide detailed feedback. When API guidelines are provided, use them to sharpen the analysis."
	SystemPromptCritical = "You are a senior DevOps engineer. Your job is to analyze code changes " +
		"and find critical problems: build failures, deployment risks, and runtime errors."
)

// Mode is the tagged variant selecting the prompt strategy. General carries
// the pre-formatted knowledge text; Critical structurally has none, which is
// what keeps retrieved documents out of triage prompts.
type Mode interface {
	isMode()
}

// General requests a broad review, optionally enriched with retrieved
// knowledge. Knowledge is inserted verbatim; empty means no knowledge block.
type General struct {
	Knowledge string
}

// Critical requests the fixed-structure critical-issue triage.
type Critical struct{}

func (General) isMode()  {}
func (Critical) isMode() {}

// Input is the shared parameter set of both modes.
type Input struct {
	Diff          string
	Filename      string
	CommitMessage string
	AnalysisTypes []schemas.AnalysisType
}

// analysisDescriptions maps each requestable analysis axis to its one
// instruction sentence. Unrecognized types are silently ignored.
var analysisDescriptions = map[schemas.AnalysisType]string{
	schemas.AnalysisCodeQuality:  "Code quality: assess readability, complexity, and structural problems.",
	schemas.AnalysisSecurity:     "Security: identify vulnerabilities and risky patterns.",
	schemas.AnalysisPerformance:  "Performance: point out changes that could degrade or improve performance.",
	schemas.AnalysisBugDetection: "Bug detection: find potential bugs and error-prone logic.",
	schemas.AnalysisRefactoring:  "Refactoring: suggest structural improvements to the changed code.",
}

// analysisOrder fixes the rendering order of description lines.
var analysisOrder = []schemas.AnalysisType{
	schemas.AnalysisCodeQuality,
	schemas.AnalysisSecurity,
	schemas.AnalysisPerformance,
	schemas.AnalysisBugDetection,
	schemas.AnalysisRefactoring,
}

// SystemPrompt returns the system instruction matching the mode.
func SystemPrompt(mode Mode) string {
	if _, ok := mode.(Critical); ok {
		return SystemPromptCritical
	}
	return SystemPromptGeneral
}

// Build assembles the user prompt for the given mode. It is a pure function:
// identical inputs always produce identical text.
func Build(in Input, mode Mode) string {
	switch m := mode.(type) {
	case General:
		return buildGeneral(in, m.Knowledge)
	case Critical:
		return buildCritical(in)
	default:
		// Unreachable with the exported variants; treat as general without
		// knowledge rather than failing a pure string builder.
		return buildGeneral(in, "")
	}
}

// selectedAnalyses renders one description line per recognized requested
// type, preserving the fixed ordering regardless of request order.
func selectedAnalyses(types []schemas.AnalysisType) string {
	requested := make(map[schemas.AnalysisType]bool, len(types))
	for _, t := range types {
		requested[t] = true
	}

	var lines []string
	for _, t := range analysisOrder {
		if requested[t] {
			lines = append(lines, "- "+analysisDescriptions[t])
		}
	}
	return strings.Join(lines, "\n")
}

func buildGeneral(in Input, knowledge string) string {
	var b strings.Builder

	b.WriteString("Analyze the following code changes:\n\n")
	fmt.Fprintf(&b, "**File:** %s\n", in.Filename)
	fmt.Fprintf(&b, "**Commit message:** %s\n\n", in.CommitMessage)
	b.WriteString("**Code changes:**\n```diff\n")
	b.WriteString(in.Diff)
	b.WriteString("\n```\n")
	b.WriteString("**Requested analysis:**\n")
	b.WriteString(selectedAnalyses(in.AnalysisTypes))
	b.WriteString("\n")

	if knowledge != "" {
		b.WriteString(knowledge)
		b.WriteString("\n**Weigh the API guidelines above when reviewing how those APIs are used.**\n")
	}

	b.WriteString(`
**Response format:**
Respond in markdown with exactly these sections:

## Code Analysis

### Summary
- Brief description of the change

### Detailed Analysis
(Cover each requested analysis item)

### Issues Found
1. Issue 1
2. Issue 2

### Suggestions
1. Suggestion 1
2. Suggestion 2

### Scores (out of 10)
- Overall quality: X/10
- Security: X/10
- Performance: X/10

Be specific and professional.`)

	return b.String()
}

func buildCritical(in Input) string {
	var b strings.Builder

	b.WriteString("Analyze the following commit changes for **critical failure risks**:\n\n")
	fmt.Fprintf(&b, "**File:** %s\n", in.Filename)
	fmt.Fprintf(&b, "**Commit message:** %s\n\n", in.CommitMessage)
	b.WriteString("**Code changes:**\n```diff\n")
	b.WriteString(in.Diff)
	b.WriteString("\n```\n")

	if analyses := selectedAnalyses(in.AnalysisTypes); analyses != "" {
		b.WriteString("\n**Requested analysis:**\n")
		b.WriteString(analyses)
		b.WriteString("\n")
	}

	b.WriteString(`
**Focus areas:**
1. **Build failure**: compile errors, dependency problems, configuration mistakes
2. **Runtime crash**: nil dereferences, out-of-bounds access, type errors
3. **Deployment risk**: environment configuration, database schema, API compatibility
4. **Security vulnerability**: SQL injection, XSS, authentication bypass, data exposure
5. **Performance degradation**: infinite loops, memory leaks, unbounded workloads

**Response format:**
## Critical Issue Analysis

### Risk Rating
- **Overall risk**: high | medium | low
- **Build success likelihood**: XX%
- **Deployment safety**: unsafe | caution | safe

### Critical Issues Found
1. **[issue type]** concrete problem
   - Probability: XX%
   - Impact: description
   - Fix: concrete change

### Confirmed Safe Elements
- Changes judged safe

### Immediate Actions
1. **Priority 1**: must fix before merge
2. **Priority 2**: review before deployment

### Verification Checklist
- [ ] Unit tests pass
- [ ] Integration tests executed
- [ ] Staging deployment verified
- [ ] Performance tests executed

**Call out anything likely to break the CI build or the deployment.**
**Ignore style nits and minor improvements; report only problems that can take the system down.**`)

	return b.String()
}
