package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator_T(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "Closed", tr.T("en", "slots.closed"))
	assert.Equal(t, "Zárva", tr.T("hu", "slots.closed"))
	assert.Equal(t, "Closed", tr.T("de", "slots.closed"))
	assert.Equal(t, "missing.id", tr.T("en", "missing.id"))
}

func TestTranslator_Tf(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	msg := tr.Tf("en", "mail.callback.body", map[string]any{"Name": "Anna", "Phone": "+36301234567"})
	assert.Equal(t, "Anna asked to be called back on +36301234567.", msg)
}

func TestTranslator_Match(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "hu", tr.Match("hu-HU,hu;q=0.9,en;q=0.8"))
	assert.Equal(t, "hu", tr.Match("", "hu"))
	assert.Equal(t, "en", tr.Match("en-US"))
	assert.Equal(t, "en", tr.Match())
}

func TestTranslator_MatchSkipsMalformedPreferences(t *testing.T) {
	tr, err := New("hu")
	require.NoError(t, err)

	assert.Equal(t, "hu", tr.Match("!!not a tag"))
	assert.Equal(t, "en", tr.Match("en;q=bogus", "en-GB"))
	assert.Equal(t, "hu", tr.Fallback())
}
