package router

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	type params struct {
		ID      int      `param:"id"`
		Page    uint     `param:"page"`
		Ratio   float64  `param:"ratio"`
		Draft   bool     `param:"draft"`
		Tab     string   `param:"tab"`
		Path    []string `param:"path"`
		Missing string   `param:"missing"`
		Ignored string
	}

	m := &Match{
		Params: map[string]string{"id": "42", "path": "a/b/c"},
		Query: url.Values{
			"id":    {"9"},
			"page":  {"3"},
			"ratio": {"0.5"},
			"draft": {"true"},
			"tab":   {"comments", "ignored"},
		},
	}

	var p params
	require.NoError(t, m.Bind(&p))
	assert.Equal(t, params{
		ID:    42,
		Page:  3,
		Ratio: 0.5,
		Draft: true,
		Tab:   "comments",
		Path:  []string{"a", "b", "c"},
	}, p)
}

func TestBindEmptyCatchAll(t *testing.T) {
	var p struct {
		Path []string `param:"path"`
	}
	m := &Match{Params: map[string]string{"path": ""}}
	require.NoError(t, m.Bind(&p))
	assert.Nil(t, p.Path)
}

func TestBindErrors(t *testing.T) {
	m := &Match{Params: map[string]string{"id": "abc", "n": "300"}}

	var notPtr struct{}
	assert.Error(t, m.Bind(notPtr))

	s := "x"
	assert.Error(t, m.Bind(&s))

	var bad struct {
		ID int `param:"id"`
	}
	err := m.Bind(&bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"id"`)

	var overflow struct {
		N int8 `param:"n"`
	}
	assert.Error(t, m.Bind(&overflow))

	var unsupported struct {
		N []int `param:"n"`
	}
	assert.Error(t, m.Bind(&unsupported))

	assert.NoError(t, m.Bind(nil))
}
