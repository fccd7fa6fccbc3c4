package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ResolvesLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
		inhale string
	}{
		{"", "en", "Inhale"},
		{"en-US", "en", "Inhale"},
		{"pt-BR", "pt-BR", "Inspirar"},
		{"pt", "pt-BR", "Inspirar"},
		{"not a locale", "en", "Inhale"},
		{"ja", "en", "Inhale"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			translator, err := New(tt.locale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, translator.Locale())
			assert.Equal(t, tt.inhale, translator.Labels().Inhale)
		})
	}
}

func TestLabels_Portuguese(t *testing.T) {
	labels := MustNew("pt-BR").Labels()

	assert.Equal(t, "Inspirar", labels.Inhale)
	assert.Equal(t, "Segurar", labels.Hold)
	assert.Equal(t, "Expirar", labels.Exhale)
	assert.Equal(t, "Clique para começar", labels.Ready)
}

func TestT_TemplatesAndUnknownIDs(t *testing.T) {
	translator := MustNew("en")

	assert.Equal(t, "Cycle 2 of 13", translator.CycleCounter(2, 13))
	assert.Equal(t, "Session complete! You finished 5 cycles.", translator.Completed(5))
	assert.Equal(t, "no_such_message", translator.T("no_such_message"))
}

func TestSupported(t *testing.T) {
	assert.ElementsMatch(t, []string{"en", "pt-BR"}, Supported())
}
