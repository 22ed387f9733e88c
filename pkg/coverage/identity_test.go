package coverage

import (
	"encoding/json"
	"testing"

	"github.com/multimediallc/hunkowners/pkg/attribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityEquals(t *testing.T) {
	tt := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{name: "same", a: "dev@example.com", b: "dev@example.com", expected: true},
		{name: "case differs", a: "Dev@Example.com", b: "dev@example.com", expected: true},
		{name: "at prefix ignored", a: "@Octocat", b: "octocat", expected: true},
		{name: "surrounding space ignored", a: " dev ", b: "dev", expected: true},
		{name: "different", a: "dev", b: "ops", expected: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NewIdentity(tc.a).Equals(NewIdentity(tc.b)))
			assert.Equal(t, tc.expected, NewIdentity(tc.a).EqualsString(tc.b))
		})
	}
}

func TestIdentityKeepsOriginal(t *testing.T) {
	id := NewIdentity("@Octocat")
	assert.Equal(t, "@Octocat", id.Original())
	assert.Equal(t, "@Octocat", id.String())
	assert.Equal(t, "octocat", id.Normalized())

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"@Octocat"`, string(data))
}

func TestAliasMap(t *testing.T) {
	m := newAliasMap(map[string]string{
		"Dev@Example.com":   "@dev",
		"empty@example.com": "",
	})

	assert.Equal(t, "@dev", m.resolve("dev@example.com").Original())
	assert.Equal(t, "empty@example.com", m.resolve("empty@example.com").Original())
	assert.Equal(t, "Other@example.com", m.resolve("Other@example.com").Original())
}

func TestPercentagesIgnoreCase(t *testing.T) {
	items := []attribution.BlameItem{
		item("Dev@Example.com", 1, 3),
		item("dev@example.com", 4, 4),
		item("ops@example.com", 5, 8),
	}

	shares := Percentages(items, nil)
	assert.Equal(t, map[string]float64{"Dev@Example.com": 50, "ops@example.com": 50}, shares)
}

func TestSuggestReviewersIgnoresAuthorCase(t *testing.T) {
	shares := map[string]float64{"@Octocat": 60, "@dev": 40}
	assert.Equal(t, []string{"@dev"}, SuggestReviewers(shares, "octocat", 3))
}
