package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSourceList(t *testing.T) {
	list := DefaultSourceList()

	assert.Len(t, list.Preferred, 26)
	assert.Contains(t, list.Preferred, "reuters")
	assert.Contains(t, list.TitleSuffixes, " - BBC News")
	assert.Contains(t, list.TitleSuffixes, " | ESPN")
}

func TestLoadSourceList_OverridesPreferred(t *testing.T) {
	yamlContent := `
preferred:
  - reuters
  - associated-press
`
	list, err := LoadSourceList(strings.NewReader(yamlContent))
	require.NoError(t, err)

	assert.Equal(t, []string{"reuters", "associated-press"}, list.Preferred)
	assert.Equal(t, DefaultSourceList().TitleSuffixes, list.TitleSuffixes,
		"unset sections keep the defaults")
}

func TestLoadSourceList_Malformed(t *testing.T) {
	_, err := LoadSourceList(strings.NewReader("preferred: {not: [valid"))
	require.Error(t, err)
}
