package shader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/richinsley/glslview/graphics"
	"github.com/richinsley/glslview/graphics/graphicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brokenFragment = `#version 410 core
out vec4 fragColor;
void main() { fragColor = vec4(1.0) }
`

func writeSources(t *testing.T, vert, frag string) Source {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultVertexFile), []byte(vert), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultFragmentFile), []byte(frag), 0o644))
	return Source{Root: root, Vertex: DefaultVertexFile, Fragment: DefaultFragmentFile}
}

// failOnMissingSemicolon mimics a compiler that rejects brokenFragment.
func failOnMissingSemicolon(source string) (string, bool) {
	if strings.Contains(source, "vec4(1.0) }") {
		return "0:3(37): error: syntax error, unexpected '}'", true
	}
	return "", false
}

func TestBuildLinksProgram(t *testing.T) {
	gl := graphicstest.NewGL()
	src := writeSources(t, DefaultVertex, DefaultFragment)

	p, err := Build(gl, src)
	require.NoError(t, err)
	require.NotZero(t, p.Handle())

	prog := gl.Programs[p.Handle()]
	require.NotNil(t, prog)
	assert.True(t, prog.Linked)
	assert.Len(t, prog.Attached, 2)
	assert.Equal(t, DefaultVertex, gl.Shaders[prog.Attached[0]].Source)
	assert.Equal(t, uint32(graphics.VertexShader), gl.Shaders[prog.Attached[0]].Type)
	assert.Equal(t, uint32(graphics.FragmentShader), gl.Shaders[prog.Attached[1]].Type)
	assert.Equal(t, uint32(0), gl.Current, "linking leaves no program active")

	p.Bind()
	assert.Equal(t, p.Handle(), gl.Current)
	p.Release()
	assert.Equal(t, uint32(0), gl.Current)
}

func TestBuildFragmentCompileError(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.FailCompile = failOnMissingSemicolon
	src := writeSources(t, DefaultVertex, brokenFragment)

	p, err := Build(gl, src)
	require.Error(t, err)
	assert.Nil(t, p)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, Fragment, ce.Stage)
	assert.Equal(t, filepath.Join(src.Root, DefaultFragmentFile), ce.Path)
	assert.Contains(t, ce.Log, "syntax error")
	assert.Equal(t, brokenFragment, ce.Source)

	assert.Empty(t, gl.Programs, "no program object is created")
	assert.Zero(t, gl.LiveShaders(), "both stages are released")

	diag := Diagnostic(err)
	assert.Contains(t, diag, "Failed to compile a shader!")
	assert.Contains(t, diag, "[ ERROR ]")
	assert.Contains(t, diag, "syntax error")
	assert.Contains(t, diag, "fragColor = vec4(1.0) }")
}

func TestBuildVertexCompileErrorStopsBeforeFragment(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.FailCompile = func(source string) (string, bool) {
		return "vertex broken", strings.Contains(source, "gl_VertexID")
	}
	src := writeSources(t, DefaultVertex, DefaultFragment)

	_, err := Build(gl, src)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, Vertex, ce.Stage)
	assert.Len(t, gl.Shaders, 1, "fragment stage is never compiled")
	assert.Zero(t, gl.LiveShaders())
}

func TestBuildCompileErrorWithoutLog(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.FailCompile = func(string) (string, bool) { return "", true }
	src := writeSources(t, DefaultVertex, DefaultFragment)

	_, err := Build(gl, src)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Empty(t, ce.Log)
	assert.Contains(t, err.Error(), "no compiler log")
}

func TestBuildMissingFileIsCompileError(t *testing.T) {
	gl := graphicstest.NewGL()
	src := Source{Root: t.TempDir(), Vertex: "missing.vert", Fragment: "missing.frag"}

	_, err := Build(gl, src)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, Vertex, ce.Stage)
	assert.NotEmpty(t, ce.Log)
	assert.Empty(t, ce.Source)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Empty(t, gl.Shaders, "no GL objects for an unreadable file")
	assert.NotEmpty(t, Diagnostic(err))
}

func TestBuildLinkError(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.FailLink = true
	gl.LinkLog = "error: fragment input frag_uv not written by vertex shader"
	src := writeSources(t, DefaultVertex, DefaultFragment)

	p, err := Build(gl, src)
	assert.Nil(t, p)
	var le *LinkError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, gl.LinkLog, le.Log)

	assert.Zero(t, gl.LivePrograms())
	assert.Zero(t, gl.LiveShaders())
	for id := range gl.Programs {
		assert.Empty(t, gl.Programs[id].Attached, "stages detached before delete")
	}

	diag := Diagnostic(err)
	assert.Contains(t, diag, "Failed to link shaders!")
	assert.Contains(t, diag, "frag_uv")
}

func TestSetUniforms(t *testing.T) {
	gl := graphicstest.NewGL()
	frag := `#version 410 core
uniform vec2 resolution;
uniform float scale;
uniform int steps;
out vec4 fragColor;
void main() { fragColor = vec4(0.0); }
`
	p, err := Build(gl, writeSources(t, DefaultVertex, frag))
	require.NoError(t, err)
	p.Bind()

	p.SetVec2("resolution", 640, 480)
	p.SetFloat("scale", 1.5)
	p.SetInt("steps", 7)

	v, ok := gl.Uniform(p.Handle(), "resolution")
	require.True(t, ok)
	assert.Equal(t, []float32{640, 480}, v)
	v, _ = gl.Uniform(p.Handle(), "scale")
	assert.Equal(t, []float32{1.5}, v)
	v, _ = gl.Uniform(p.Handle(), "steps")
	assert.Equal(t, []float32{7}, v)
}

func TestSetUnknownUniformIsIgnored(t *testing.T) {
	gl := graphicstest.NewGL()
	p, err := Build(gl, writeSources(t, DefaultVertex, DefaultFragment))
	require.NoError(t, err)
	p.Bind()
	p.SetVec2("resolution", 1, 2)

	assert.NotPanics(t, func() {
		p.SetVec2("nope", 9, 9)
		p.SetFloat("nope", 9)
		p.SetInt("nope", 9)
	})

	v, _ := gl.Uniform(p.Handle(), "resolution")
	assert.Equal(t, []float32{1, 2}, v)
	assert.Len(t, gl.Programs[p.Handle()].Values, 1)
}

func TestDestroyReleasesEachHandleOnce(t *testing.T) {
	gl := graphicstest.NewGL()
	p, err := Build(gl, writeSources(t, DefaultVertex, DefaultFragment))
	require.NoError(t, err)

	handle := p.Handle()
	stages := append([]uint32(nil), gl.Programs[handle].Attached...)

	p.Destroy()
	p.Destroy()

	assert.Equal(t, 1, gl.DeletedPrograms[handle])
	for _, id := range stages {
		assert.Equal(t, 1, gl.DeletedShaders[id])
	}
	assert.Empty(t, gl.Programs[handle].Attached)
	assert.Zero(t, p.Handle())

	assert.NotPanics(t, func() { p.SetVec2("resolution", 1, 1) })
}

func TestDestroyZeroValue(t *testing.T) {
	var p *Program
	assert.NotPanics(t, p.Destroy)
	assert.NotPanics(t, (&Program{}).Destroy)
}

type renamer struct {
	stages []Stage
}

func (r *renamer) Preprocess(stage Stage, source string) (string, map[string]string, error) {
	r.stages = append(r.stages, stage)
	if stage == Fragment {
		return strings.ReplaceAll(source, "resolution", "_uresolution"), map[string]string{"resolution": "_uresolution"}, nil
	}
	return source, nil, nil
}

func TestPreprocessorRenamesUniforms(t *testing.T) {
	gl := graphicstest.NewGL()
	r := &renamer{}
	p, err := Build(gl, writeSources(t, DefaultVertex, DefaultFragment), WithPreprocessor(r))
	require.NoError(t, err)
	assert.Equal(t, []Stage{Vertex, Fragment}, r.stages)

	p.Bind()
	p.SetVec2("resolution", 3, 4)
	v, ok := gl.Uniform(p.Handle(), "_uresolution")
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4}, v)
}

type failingPreprocessor struct{}

func (failingPreprocessor) Preprocess(Stage, string) (string, map[string]string, error) {
	return "", nil, errors.New("translation failed")
}

func TestPreprocessorErrorIsCompileError(t *testing.T) {
	gl := graphicstest.NewGL()
	_, err := Build(gl, writeSources(t, DefaultVertex, DefaultFragment), WithPreprocessor(failingPreprocessor{}))
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "translation failed", ce.Log)
	assert.Equal(t, DefaultVertex, ce.Source)
	assert.Empty(t, gl.Shaders)
}

func TestWithUniformNames(t *testing.T) {
	gl := graphicstest.NewGL()
	frag := "uniform vec2 iMouse;\n"
	p, err := Build(gl, writeSources(t, DefaultVertex, frag), WithUniformNames(map[string]string{"mouse": "iMouse"}))
	require.NoError(t, err)
	p.Bind()
	p.SetVec2("mouse", 5, 6)
	v, ok := gl.Uniform(p.Handle(), "iMouse")
	require.True(t, ok)
	assert.Equal(t, []float32{5, 6}, v)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "vertex", Vertex.String())
	assert.Equal(t, "fragment", Fragment.String())
	assert.Equal(t, "unknown", Stage(0).String())
}
