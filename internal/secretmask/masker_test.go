package secretmask

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskTextReplacesKnownSecrets(t *testing.T) {
	t.Parallel()

	m := New([]string{"xyz123"})
	require.Equal(t, "token is ****", m.MaskText("token is xyz123"))
}

func TestMaskTextIgnoresEmptySecretValues(t *testing.T) {
	t.Parallel()

	m := New([]string{"", "abc"})
	require.Equal(t, "**** remains", m.MaskText("abc remains"))
}

func TestMaskValueRedactsNestedStructures(t *testing.T) {
	t.Parallel()

	m := New([]string{"xyz123"})
	value := map[string]interface{}{
		"token": "secret:xyz123",
		"nested": map[string]interface{}{
			"also": "xyz123",
		},
	}

	masked := m.MaskValue(value).(map[string]interface{})
	require.Equal(t, "secret:****", masked["token"])
	require.Equal(t, "****", masked["nested"].(map[string]interface{})["also"])
}

func TestMaskValueLeavesUnrelatedDataUntouched(t *testing.T) {
	t.Parallel()

	m := New([]string{"xyz123"})
	value := map[string]interface{}{"count": float64(5), "name": "build"}

	masked := m.MaskValue(value)
	require.Equal(t, value, masked)
}

func TestHasSecretsReportsWhetherAnySecretWasConfigured(t *testing.T) {
	t.Parallel()

	require.False(t, New(nil).HasSecrets())
	require.False(t, New([]string{""}).HasSecrets())
	require.True(t, New([]string{"a"}).HasSecrets())
}
