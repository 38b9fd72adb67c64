package specgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMissingTitle(t *testing.T) {
	f := feat("f1")
	f.Title = "  "

	result := Validator{}.Validate([]Feature{f})

	assert.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "title", result.Errors[0].Field)
	assert.Equal(t, "f1", result.Errors[0].SpecID)
}

func TestValidateConditionDescription(t *testing.T) {
	f := feat("f1")
	f.Conditions = []Condition{{ID: "f1-c1", Status: StatusDraft}}

	result := Validator{}.Validate([]Feature{f})

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "description", result.Errors[0].Field)
	assert.Equal(t, "f1-c1", result.Errors[0].SpecID)
}

func TestValidateDuplicateIDs(t *testing.T) {
	result := Validator{}.Validate([]Feature{feat("f1"), feat("f1")})

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "id", result.Errors[0].Field)
}

func TestValidateUnknownStatus(t *testing.T) {
	f := feat("f1")
	f.Status = Status("bogus")

	result := Validator{}.Validate([]Feature{f})

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "status", result.Errors[0].Field)
	assert.Contains(t, result.Errors[0].Message, "bogus")
}

func TestValidateUnresolvedDependencyIsWarning(t *testing.T) {
	result := Validator{}.Validate([]Feature{feat("f1", "ghost")})

	assert.True(t, result.IsValid())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "f1", result.Warnings[0].SpecID)
	assert.Contains(t, result.Warnings[0].Message, "ghost")
}

func TestValidateStrictMinConditions(t *testing.T) {
	lenient := Validator{}.Validate([]Feature{feat("f1")})
	assert.True(t, lenient.IsValid())

	strict := Validator{Strict: true}.Validate([]Feature{feat("f1")})
	require.Len(t, strict.Errors, 1)
	assert.Equal(t, "conditions", strict.Errors[0].Field)

	raised := Validator{Strict: true, MinConditions: 3}
	f := feat("f1")
	f.Conditions = []Condition{
		{ID: "c1", Description: "a", Status: StatusDraft},
		{ID: "c2", Description: "b", Status: StatusDraft},
	}
	result := raised.Validate([]Feature{f})
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "at least 3")
}

func TestValidateOne(t *testing.T) {
	f := feat("f1", "ghost")

	result := Validator{}.ValidateOne(&f)

	// Single-record validation cannot resolve dependencies, so no warning.
	assert.True(t, result.IsValid())
	assert.Empty(t, result.Warnings)
}

func TestGraphFindingsCycleSeverity(t *testing.T) {
	g := BuildGraph([]Feature{feat("a", "b"), feat("b", "a")})

	lenient := GraphFindings(g, false)
	assert.True(t, lenient.IsValid())
	assert.Len(t, lenient.Warnings, 2)

	strict := GraphFindings(g, true)
	assert.False(t, strict.IsValid())
	require.Len(t, strict.Errors, 2)
	assert.Equal(t, "dependencies", strict.Errors[0].Field)
}

func TestGraphFindingsOrphanWarning(t *testing.T) {
	f := feat("child")
	f.Parent = "nope"
	g := BuildGraph([]Feature{f})

	result := GraphFindings(g, true)

	assert.True(t, result.IsValid())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "child", result.Warnings[0].SpecID)
}

func TestValidationResultMerge(t *testing.T) {
	features := []Feature{feat("a", "b"), feat("b", "a")}
	g := BuildGraph(features)

	report := Validator{}.Validate(features)
	report.Merge(GraphFindings(g, true))

	assert.False(t, report.IsValid())
	assert.Len(t, report.Errors, 2)
}
