package prefs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_SortedAndTyped(t *testing.T) {
	data, err := encode(map[string]entry{
		"b_flag": {kind: kindBoolean, value: "false"},
		"a_text": {kind: kindString, value: "x<y"},
	})
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Less(t, strings.Index(out, "a_text"), strings.Index(out, "b_flag"))
	assert.Contains(t, out, `<string name="a_text">x&lt;y</string>`)
	assert.Contains(t, out, `<boolean name="b_flag" value="false">`)

	back, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, "x<y", back["a_text"].value)
	assert.Equal(t, kindBoolean, back["b_flag"].kind)
}

func TestDecode_Empty(t *testing.T) {
	m, err := decode([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestCodec_SetAndUnknownRoundTrip(t *testing.T) {
	in := []byte(`<map>
    <set name="tiles"><string>wifi</string><string>a&amp;b</string></set>
    <set name="empty"></set>
    <custom name="later" value="7" extra="y"><nested k="v" /></custom>
</map>`)

	first, err := decode(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"wifi", "a&b"}, first["tiles"].items)
	assert.Empty(t, first["empty"].items)
	assert.Equal(t, "custom", first["later"].kind)

	data, err := encode(first)
	require.NoError(t, err)

	second, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, first["tiles"].items, second["tiles"].items)
	assert.Equal(t, kindSet, second["empty"].kind)
	assert.Equal(t, "7", second["later"].value)
	assert.Equal(t, string(first["later"].raw), string(second["later"].raw))
	assert.Contains(t, string(data), `extra="y"`)
}
