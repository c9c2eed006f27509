package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.Equal(t, []string{"k", "up"}, km.Up.Keys())
	require.Equal(t, []string{"j", "down"}, km.Down.Keys())
	require.Equal(t, []string{"g", "home"}, km.Top.Keys())
	require.Equal(t, []string{"G", "end"}, km.Bottom.Keys())
	require.Equal(t, []string{":"}, km.Jump.Keys())
	require.Equal(t, []string{"q", "ctrl+c"}, km.Quit.Keys())
}

func TestHelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	short := km.ShortHelp()
	require.Len(t, short, 2)

	full := km.FullHelp()
	require.Len(t, full, 4)
	for _, group := range full {
		require.NotEmpty(t, group)
	}
}
