package translator

import (
	"context"
	"testing"

	"github.com/richinsley/glslview/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageName(t *testing.T) {
	assert.Equal(t, "vertex", stageName(shader.Vertex))
	assert.Equal(t, "fragment", stageName(shader.Fragment))
}

func TestTranslateFragment(t *testing.T) {
	if testing.Short() {
		t.Skip("starting the translator runtime is slow")
	}
	tr, err := New(context.Background())
	require.NoError(t, err)

	src := `#version 300 es
precision highp float;
uniform vec2 resolution;
out vec4 fragColor;
void main() { fragColor = vec4(gl_FragCoord.xy / resolution, 0.0, 1.0); }
`
	code, names, err := tr.Preprocess(shader.Fragment, src)
	require.NoError(t, err)
	assert.Contains(t, code, "#version 410")

	mapped := "resolution"
	if m, ok := names["resolution"]; ok {
		mapped = m
	}
	assert.Contains(t, code, mapped)
}
