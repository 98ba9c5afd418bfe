package merge

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/forge/internal/domain"
)

var errMissing = errors.New("missing")

func testLookup(id string) (domain.Role, error) {
	roles := map[string]domain.Role{
		"architect": {ID: "architect", DisplayName: "Architect", Priority: 10},
		"designer":  {ID: "designer", DisplayName: "Designer", Priority: 20},
		"developer": {ID: "developer", DisplayName: "Developer", Priority: 30},
		"twin":      {ID: "twin", DisplayName: "Twin", Priority: 20},
	}
	r, ok := roles[id]
	if !ok {
		return domain.Role{}, errMissing
	}
	return r, nil
}

func TestMerge_OrdersByPriority(t *testing.T) {
	results := []domain.RoleResult{
		{RoleID: "developer", Output: "code", ElapsedMs: 30, Succeeded: true},
		{RoleID: "architect", Output: "  layout  ", ElapsedMs: 10, Succeeded: true},
		{RoleID: "designer", Output: "colors", ElapsedMs: 20, Succeeded: true},
	}

	doc := Merge(results, testLookup)

	want := "## Architect (10 ms)\n\nlayout\n\n## Designer (20 ms)\n\ncolors\n\n## Developer (30 ms)\n\ncode"
	assert.Equal(t, want, doc.Content)
}

func TestMerge_TiesKeepInputOrder(t *testing.T) {
	results := []domain.RoleResult{
		{RoleID: "twin", Output: "first", Succeeded: true},
		{RoleID: "designer", Output: "second", Succeeded: true},
	}

	doc := Merge(results, testLookup)

	assert.Less(t, strings.Index(doc.Content, "first"), strings.Index(doc.Content, "second"))
}

func TestMerge_DropsFailedRoles(t *testing.T) {
	results := []domain.RoleResult{
		{RoleID: "architect", Succeeded: false, Error: "timeout"},
		{RoleID: "designer", Output: "colors", ElapsedMs: 5, Succeeded: true},
	}

	doc := Merge(results, testLookup)

	assert.Equal(t, "## Designer (5 ms)\n\ncolors", doc.Content)
	assert.NotContains(t, doc.Content, "timeout")
}

func TestMerge_ZeroSuccessesYieldsPlaceholder(t *testing.T) {
	t.Run("with failures", func(t *testing.T) {
		doc := Merge([]domain.RoleResult{
			{RoleID: "architect", Error: "boom"},
			{RoleID: "designer"},
		}, testLookup)

		require.NotNil(t, doc)
		assert.True(t, strings.HasPrefix(doc.Content, PlaceholderTitle))
		assert.Contains(t, doc.Content, "- architect: boom")
		assert.Contains(t, doc.Content, "- designer: unknown error")
	})

	t.Run("with no results at all", func(t *testing.T) {
		doc := Merge(nil, testLookup)
		assert.NotEmpty(t, doc.Content)
	})
}

func TestMerge_UnknownRoleSortsLast(t *testing.T) {
	results := []domain.RoleResult{
		{RoleID: "ghost", Output: "boo", Succeeded: true},
		{RoleID: "developer", Output: "code", Succeeded: true},
	}

	doc := Merge(results, testLookup)

	assert.Less(t, strings.Index(doc.Content, "Developer"), strings.Index(doc.Content, "## ghost"))

	doc = Merge(results, nil)
	assert.Contains(t, doc.Content, "## ghost (0 ms)")
}
