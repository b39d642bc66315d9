package lms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotBookForModule(t *testing.T) {
	snapshot := &Snapshot{
		Books: []Book{
			{ID: 1, CourseModule: 10, Name: "Guía de aprendizaje"},
			{ID: 2, CourseModule: 11, Name: "Anexos"},
		},
	}

	book := snapshot.BookForModule(&Module{ID: 11})
	require.NotNil(t, book)
	assert.Equal(t, 2, book.ID)

	assert.Nil(t, snapshot.BookForModule(&Module{ID: 99}))
	assert.Nil(t, snapshot.BookForModule(nil))
}

func TestModuleHasCompletionRule(t *testing.T) {
	module := &Module{CompletionData: &CompletionData{
		Details: []RuleDetail{{RuleName: RuleCompletionView}},
	}}
	assert.True(t, module.HasCompletionRule(RuleCompletionView))
	assert.False(t, module.HasCompletionRule(RuleCompletionSubmit))
	assert.False(t, (&Module{}).HasCompletionRule(RuleCompletionView))
}
