// Package shader compiles and links vertex/fragment file pairs into GL
// programs and sets their uniforms.
package shader

import (
	"os"

	"github.com/richinsley/glslview/graphics"
)

// Stage is a shader stage kind, valued as its GL enum.
type Stage uint32

const (
	Vertex   Stage = graphics.VertexShader
	Fragment Stage = graphics.FragmentShader
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	}
	return "unknown"
}

// Preprocessor rewrites a stage's source before it is compiled. The returned
// map, if any, renames uniforms: original name to the name in the rewritten
// source.
type Preprocessor interface {
	Preprocess(stage Stage, source string) (code string, uniforms map[string]string, err error)
}

// Option configures Build.
type Option func(*Program)

// WithPreprocessor runs p over both stages before compilation.
func WithPreprocessor(p Preprocessor) Option {
	return func(prog *Program) {
		prog.pre = p
	}
}

// WithUniformNames makes the Set methods look names up through names.
func WithUniformNames(names map[string]string) Option {
	return func(prog *Program) {
		for k, v := range names {
			prog.names[k] = v
		}
	}
}

// Program is a linked vertex/fragment pair. A Program returned by Build is
// always fully linked; Destroy releases it.
type Program struct {
	gl      graphics.GL
	vert    uint32
	frag    uint32
	program uint32
	pre     Preprocessor
	names   map[string]string
}

// Build reads, compiles and links the files named by src. Any failure
// releases what was created and returns a *CompileError or *LinkError.
func Build(gl graphics.GL, src Source, opts ...Option) (*Program, error) {
	p := &Program{
		gl:    gl,
		names: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}

	vertPath, fragPath := src.Resolve()

	var err error
	if p.vert, err = p.compileStage(vertPath, Vertex); err != nil {
		return nil, err
	}
	if p.frag, err = p.compileStage(fragPath, Fragment); err != nil {
		p.Destroy()
		return nil, err
	}
	if err = p.link(vertPath, fragPath); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

// compileStage reads path in full and compiles it as stage. An unreadable
// file is reported the same way as a compiler rejection.
func (p *Program) compileStage(path string, stage Stage) (uint32, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return 0, &CompileError{Stage: stage, Path: path, Log: err.Error(), Err: err}
	}
	source := string(code)

	if p.pre != nil {
		translated, uniforms, err := p.pre.Preprocess(stage, source)
		if err != nil {
			return 0, &CompileError{Stage: stage, Path: path, Log: err.Error(), Source: source, Err: err}
		}
		source = translated
		for k, v := range uniforms {
			p.names[k] = v
		}
	}

	id := p.gl.CreateShader(uint32(stage))
	p.gl.ShaderSource(id, source)
	p.gl.CompileShader(id)

	if p.gl.GetShaderiv(id, graphics.CompileStatus) == graphics.False {
		var log string
		if n := p.gl.GetShaderiv(id, graphics.InfoLogLength); n > 0 {
			log = p.gl.GetShaderInfoLog(id, n)
		}
		p.gl.DeleteShader(id)
		return 0, &CompileError{Stage: stage, Path: path, Log: log, Source: source}
	}
	return id, nil
}

func (p *Program) link(vertPath, fragPath string) error {
	prog := p.gl.CreateProgram()
	p.gl.AttachShader(prog, p.vert)
	p.gl.AttachShader(prog, p.frag)
	p.gl.LinkProgram(prog)

	if p.gl.GetProgramiv(prog, graphics.LinkStatus) == graphics.False {
		var log string
		if n := p.gl.GetProgramiv(prog, graphics.InfoLogLength); n > 0 {
			log = p.gl.GetProgramInfoLog(prog, n)
		}
		p.gl.DetachShader(prog, p.vert)
		p.gl.DetachShader(prog, p.frag)
		p.gl.DeleteProgram(prog)
		return &LinkError{Vertex: vertPath, Fragment: fragPath, Log: log}
	}

	p.program = prog
	p.gl.UseProgram(0)
	return nil
}

// Handle returns the GL program name, 0 once destroyed.
func (p *Program) Handle() uint32 {
	return p.program
}

// location looks name up on every call. Unknown names yield -1, which GL
// ignores on write.
func (p *Program) location(name string) int32 {
	if mapped, ok := p.names[name]; ok {
		name = mapped
	}
	return p.gl.GetUniformLocation(p.program, name)
}

func (p *Program) SetFloat(name string, v float32) {
	if p.program == 0 {
		return
	}
	p.gl.Uniform1f(p.location(name), v)
}

func (p *Program) SetInt(name string, v int32) {
	if p.program == 0 {
		return
	}
	p.gl.Uniform1i(p.location(name), v)
}

func (p *Program) SetVec2(name string, x, y float32) {
	if p.program == 0 {
		return
	}
	p.gl.Uniform2f(p.location(name), x, y)
}

// Bind makes p the active program.
func (p *Program) Bind() {
	p.gl.UseProgram(p.program)
}

// Release leaves no program active.
func (p *Program) Release() {
	p.gl.UseProgram(0)
}

// Destroy detaches and deletes both stages and deletes the program. Each
// handle is released once; later calls do nothing.
func (p *Program) Destroy() {
	if p == nil || p.gl == nil {
		return
	}
	if p.program != 0 {
		p.gl.DetachShader(p.program, p.vert)
		p.gl.DetachShader(p.program, p.frag)
	}
	if p.vert != 0 {
		p.gl.DeleteShader(p.vert)
		p.vert = 0
	}
	if p.frag != 0 {
		p.gl.DeleteShader(p.frag)
		p.frag = 0
	}
	if p.program != 0 {
		p.gl.DeleteProgram(p.program)
		p.program = 0
	}
}
