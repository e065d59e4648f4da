package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/retrieval"
)

func sampleInput() Input {
	return Input{
		Diff:          "=== a.py ===\n@@ -1 +1 @@\n-x\n+y",
		Filename:      "a.py",
		CommitMessage: "fix: tighten token validation",
		AnalysisTypes: []schemas.AnalysisType{schemas.AnalysisCodeQuality, schemas.AnalysisSecurity},
	}
}

func TestSystemPrompt_PerMode(t *testing.T) {
	assert.Equal(t, SystemPromptGeneral, SystemPrompt(General{}))
	assert.Equal(t, SystemPromptCritical, SystemPrompt(Critical{}))
}

func TestBuildGeneral_EmbedsAllInputs(t *testing.T) {
	got := Build(sampleInput(), General{})

	assert.Contains(t, got, "**File:** a.py")
	assert.Contains(t, got, "**Commit message:** fix: tighten token validation")
	assert.Contains(t, got, "```diff\n=== a.py ===\n@@ -1 +1 @@\n-x\n+y\n```")
	assert.Contains(t, got, "- Code quality:")
	assert.Contains(t, got, "- Security:")
	assert.NotContains(t, got, "- Performance:")
	assert.Contains(t, got, "## Code Analysis")
	assert.Contains(t, got, "### Scores (out of 10)")
}

func TestBuildGeneral_KnowledgeSectionOnlyWhenPresent(t *testing.T) {
	in := sampleInput()

	bare := Build(in, General{})
	assert.NotContains(t, bare, retrieval.KnowledgeHeader)
	assert.NotContains(t, bare, "API guidelines above")

	knowledge := "\n\n" + retrieval.KnowledgeHeader + "\n\n### payment-guide.md\nUse idempotency keys.\n"
	enriched := Build(in, General{Knowledge: knowledge})
	assert.Contains(t, enriched, retrieval.KnowledgeHeader)
	assert.Contains(t, enriched, "Use idempotency keys.")
	assert.Contains(t, enriched, "Weigh the API guidelines above")
}

func TestBuildGeneral_UnrecognizedTypesIgnored(t *testing.T) {
	in := sampleInput()
	in.AnalysisTypes = []schemas.AnalysisType{"styleguide", schemas.AnalysisBugDetection}

	got := Build(in, General{})
	assert.Contains(t, got, "- Bug detection:")
	assert.NotContains(t, got, "styleguide")
}

func TestBuildGeneral_FixedAnalysisOrder(t *testing.T) {
	in := sampleInput()
	in.AnalysisTypes = []schemas.AnalysisType{schemas.AnalysisSecurity, schemas.AnalysisCodeQuality}

	got := Build(in, General{})
	assert.Less(t, strings.Index(got, "- Code quality:"), strings.Index(got, "- Security:"),
		"description lines follow a fixed order, not request order")
}

func TestBuildCritical_StructureAndExclusions(t *testing.T) {
	got := Build(sampleInput(), Critical{})

	assert.Contains(t, got, "critical failure risks")
	assert.Contains(t, got, "## Critical Issue Analysis")
	assert.Contains(t, got, "### Risk Rating")
	assert.Contains(t, got, "### Verification Checklist")
	assert.NotContains(t, got, retrieval.KnowledgeHeader,
		"triage prompts never carry retrieved knowledge")
}

func TestBuild_IsDeterministic(t *testing.T) {
	in := sampleInput()
	assert.Equal(t, Build(in, General{Knowledge: "k"}), Build(in, General{Knowledge: "k"}))
	assert.Equal(t, Build(in, Critical{}), Build(in, Critical{}))
}
