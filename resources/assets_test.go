package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIcon_Embedded(t *testing.T) {
	for _, name := range []string{AppIconName, TrayActiveIconName, TrayIdleIconName} {
		t.Run(name, func(t *testing.T) {
			resource, err := Icon(name)
			require.NoError(t, err)
			assert.Equal(t, "icons/"+name, resource.Name())
			assert.Contains(t, string(resource.Content()), "<svg")
		})
	}
}

func TestIcon_Cached(t *testing.T) {
	first := MustIcon(AppIconName)
	second := MustIcon(AppIconName)
	assert.Same(t, first, second)
}

func TestIcon_Missing(t *testing.T) {
	_, err := Icon("nope.svg")
	assert.Error(t, err)
	assert.Panics(t, func() { MustIcon("nope.svg") })
}

func TestTrayIcons(t *testing.T) {
	active, idle := TrayIcons()
	assert.NotEqual(t, active.Name(), idle.Name())
}
