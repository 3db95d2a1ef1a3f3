package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  Field[string] `json:"name"`
	Quota Field[int64]  `json:"quota"`
}

func TestFieldAbsent(t *testing.T) {
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &p))

	assert.False(t, p.Name.Present())
	assert.False(t, p.Name.IsNull())
	_, ok := p.Name.Value()
	assert.False(t, ok)
}

func TestFieldNull(t *testing.T) {
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &p))

	assert.True(t, p.Name.Present())
	assert.True(t, p.Name.IsNull())
	assert.Nil(t, p.Name.Ptr())
	assert.False(t, p.Quota.Present())
}

func TestFieldValue(t *testing.T) {
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"name":"gold","quota":1024}`), &p))

	name, ok := p.Name.Value()
	assert.True(t, ok)
	assert.Equal(t, "gold", name)

	quota, ok := p.Quota.Value()
	assert.True(t, ok)
	assert.Equal(t, int64(1024), quota)

	require.NotNil(t, p.Name.Ptr())
	assert.Equal(t, "gold", *p.Name.Ptr())
}

func TestFieldConstructors(t *testing.T) {
	set := Of(7)
	v, ok := set.Value()
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	null := Null[int]()
	assert.True(t, null.Present())
	assert.True(t, null.IsNull())
}

func TestFieldMarshal(t *testing.T) {
	data, err := json.Marshal(payload{Name: Of("gold")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"gold","quota":null}`, string(data))
}
