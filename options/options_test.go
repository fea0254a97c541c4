package options

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *ViewerOptions {
	t.Helper()
	fs := flag.NewFlagSet("glslview", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o := Register(fs)
	require.NoError(t, fs.Parse(args))
	o.Capture(fs)
	return o
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestResolveDefaults(t *testing.T) {
	c, err := parse(t).Resolve()
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, 640, c.Width)
	assert.Equal(t, 480, c.Height)
	assert.Equal(t, "shaders", c.ShaderRoot)
	assert.Equal(t, "render.vert", c.Vertex)
	assert.Equal(t, "render.frag", c.Fragment)
}

func TestResolveConfigFile(t *testing.T) {
	path := writeConfig(t, `
width: 1024
title: plasma
shader_root: /srv/shaders
record:
  output: out.mp4
  fps: 30
`)
	c, err := parse(t, "-config", path).Resolve()
	require.NoError(t, err)
	assert.Equal(t, 1024, c.Width)
	assert.Equal(t, 480, c.Height, "missing keys keep defaults")
	assert.Equal(t, "plasma", c.Title)
	assert.Equal(t, "/srv/shaders", c.ShaderRoot)
	assert.Equal(t, "render.frag", c.Fragment)
	assert.Equal(t, RecordConfig{Output: "out.mp4", FPS: 30}, c.Record)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := writeConfig(t, "width: 1024\nheight: 768\nfragment: a.frag\n")
	c, err := parse(t, "-config", path, "-height", "200", "-frag", "b.frag", "-translate").Resolve()
	require.NoError(t, err)
	assert.Equal(t, 1024, c.Width, "unset flag does not clobber file value")
	assert.Equal(t, 200, c.Height)
	assert.Equal(t, "b.frag", c.Fragment)
	assert.True(t, c.Translate)
}

func TestResolveRejectsBadValues(t *testing.T) {
	_, err := parse(t, "-width", "0").Resolve()
	assert.Error(t, err)

	_, err = parse(t, "-frames", "-1").Resolve()
	assert.Error(t, err)

	_, err = parse(t, "-record", "x.mp4", "-fps", "0").Resolve()
	assert.Error(t, err)
}

func TestLoadFileErrors(t *testing.T) {
	c := Default()
	assert.Error(t, c.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	c = Default()
	assert.Error(t, c.LoadFile(writeConfig(t, "width: [1, 2]\n")))
}
