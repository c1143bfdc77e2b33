package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNormalize verifies entries are cleaned into slash-separated form.
func TestNormalize(t *testing.T) {
	t.Parallel()

	m := New("./META-INF/", "icons//high", "description.xml")
	m.Normalize()

	require.Equal(t, []string{"META-INF", "icons/high", "description.xml"}, m.Entries)
}

// TestValidate checks rejection of empty, absolute and escaping entries.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Default().Validate())

	m := New("")
	m.Normalize()
	require.ErrorIs(t, m.Validate(), ErrEmptyEntry)

	m = New("/etc/passwd")
	require.ErrorIs(t, m.Validate(), ErrAbsoluteEntry)

	m = New("../secrets")
	m.Normalize()
	require.ErrorIs(t, m.Validate(), ErrEscapingEntry)

	// Interior dot-dot segments collapse on Normalize and become harmless.
	m = New("icons/../main.py")
	m.Normalize()
	require.NoError(t, m.Validate())
	require.Equal(t, []string{"main.py"}, m.Entries)
}

// TestClone verifies that Clone returns an independent copy and handles nil safely.
func TestClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Manifest)(nil).Clone())

	a := Default()
	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)

	b.Entries[0] = "changed"
	require.NotEqual(t, a.Entries[0], b.Entries[0])
}
