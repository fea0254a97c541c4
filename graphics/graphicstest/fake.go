// Package graphicstest provides in-memory implementations of the graphics
// interfaces for tests.
package graphicstest

import (
	"regexp"

	"github.com/richinsley/glslview/graphics"
)

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)\s*;`)

// Shader is a fake shader object.
type Shader struct {
	Type     uint32
	Source   string
	Compiled bool
	Log      string
}

// Program is a fake program object.
type Program struct {
	Attached  []uint32
	Linked    bool
	Log       string
	Locations map[string]int32
	Values    map[int32][]float32
}

// Draw records one DrawArrays call.
type Draw struct {
	Mode    uint32
	First   int32
	Count   int32
	Program uint32
	VAO     uint32
}

// GL is a fake graphics.GL. Compilation succeeds unless FailCompile says
// otherwise; linking succeeds unless FailLink is set.
type GL struct {
	FailCompile func(source string) (log string, fail bool)
	FailLink    bool
	LinkLog     string
	Strings     map[uint32]string

	Shaders         map[uint32]*Shader
	Programs        map[uint32]*Program
	DeletedShaders  map[uint32]int
	DeletedPrograms map[uint32]int
	Current         uint32
	UseCalls        []uint32

	VAOs       []uint32
	BoundVAO   uint32
	Enabled    map[uint32]bool
	ClearValue [4]float32
	Clears     []uint32
	Viewports  [][4]int32
	Draws      []Draw
	Reads      int

	next uint32
}

var _ graphics.GL = (*GL)(nil)

// NewGL returns an empty fake GL.
func NewGL() *GL {
	return &GL{
		Strings: map[uint32]string{
			graphics.Vendor:                 "fake",
			graphics.Renderer:               "fake renderer",
			graphics.Version:                "4.1 fake",
			graphics.ShadingLanguageVersion: "4.10",
		},
		Shaders:         make(map[uint32]*Shader),
		Programs:        make(map[uint32]*Program),
		DeletedShaders:  make(map[uint32]int),
		DeletedPrograms: make(map[uint32]int),
		Enabled:         make(map[uint32]bool),
	}
}

func (g *GL) handle() uint32 {
	g.next++
	return g.next
}

// LiveShaders returns the number of shader objects not yet deleted.
func (g *GL) LiveShaders() int {
	n := 0
	for id := range g.Shaders {
		if g.DeletedShaders[id] == 0 {
			n++
		}
	}
	return n
}

// LivePrograms returns the number of program objects not yet deleted.
func (g *GL) LivePrograms() int {
	n := 0
	for id := range g.Programs {
		if g.DeletedPrograms[id] == 0 {
			n++
		}
	}
	return n
}

// Uniform returns the last value written to name in program.
func (g *GL) Uniform(program uint32, name string) ([]float32, bool) {
	p, ok := g.Programs[program]
	if !ok {
		return nil, false
	}
	loc, ok := p.Locations[name]
	if !ok {
		return nil, false
	}
	v, ok := p.Values[loc]
	return v, ok
}

func (g *GL) CreateShader(xtype uint32) uint32 {
	id := g.handle()
	g.Shaders[id] = &Shader{Type: xtype}
	return id
}

func (g *GL) ShaderSource(shader uint32, source string) {
	if s, ok := g.Shaders[shader]; ok {
		s.Source = source
	}
}

func (g *GL) CompileShader(shader uint32) {
	s, ok := g.Shaders[shader]
	if !ok {
		return
	}
	s.Compiled = true
	s.Log = ""
	if g.FailCompile != nil {
		if log, fail := g.FailCompile(s.Source); fail {
			s.Compiled = false
			s.Log = log
		}
	}
}

func (g *GL) GetShaderiv(shader uint32, pname uint32) int32 {
	s, ok := g.Shaders[shader]
	if !ok {
		return 0
	}
	switch pname {
	case graphics.CompileStatus:
		if s.Compiled {
			return graphics.True
		}
		return graphics.False
	case graphics.InfoLogLength:
		if s.Log == "" {
			return 0
		}
		return int32(len(s.Log) + 1)
	}
	return 0
}

func (g *GL) GetShaderInfoLog(shader uint32, length int32) string {
	s, ok := g.Shaders[shader]
	if !ok || length <= 1 {
		return ""
	}
	if int(length-1) < len(s.Log) {
		return s.Log[:length-1]
	}
	return s.Log
}

func (g *GL) DeleteShader(shader uint32) {
	if shader == 0 {
		return
	}
	g.DeletedShaders[shader]++
}

func (g *GL) CreateProgram() uint32 {
	id := g.handle()
	g.Programs[id] = &Program{
		Locations: make(map[string]int32),
		Values:    make(map[int32][]float32),
	}
	return id
}

func (g *GL) AttachShader(program, shader uint32) {
	if p, ok := g.Programs[program]; ok {
		p.Attached = append(p.Attached, shader)
	}
}

func (g *GL) DetachShader(program, shader uint32) {
	p, ok := g.Programs[program]
	if !ok {
		return
	}
	for i, s := range p.Attached {
		if s == shader {
			p.Attached = append(p.Attached[:i], p.Attached[i+1:]...)
			return
		}
	}
}

func (g *GL) LinkProgram(program uint32) {
	p, ok := g.Programs[program]
	if !ok {
		return
	}
	if g.FailLink {
		p.Linked = false
		p.Log = g.LinkLog
		return
	}
	p.Linked = true
	var loc int32
	for _, id := range p.Attached {
		s := g.Shaders[id]
		if s == nil {
			continue
		}
		for _, m := range uniformDecl.FindAllStringSubmatch(s.Source, -1) {
			if _, seen := p.Locations[m[1]]; !seen {
				p.Locations[m[1]] = loc
				loc++
			}
		}
	}
}

func (g *GL) GetProgramiv(program uint32, pname uint32) int32 {
	p, ok := g.Programs[program]
	if !ok {
		return 0
	}
	switch pname {
	case graphics.LinkStatus:
		if p.Linked {
			return graphics.True
		}
		return graphics.False
	case graphics.InfoLogLength:
		if p.Log == "" {
			return 0
		}
		return int32(len(p.Log) + 1)
	}
	return 0
}

func (g *GL) GetProgramInfoLog(program uint32, length int32) string {
	p, ok := g.Programs[program]
	if !ok || length <= 1 {
		return ""
	}
	if int(length-1) < len(p.Log) {
		return p.Log[:length-1]
	}
	return p.Log
}

func (g *GL) DeleteProgram(program uint32) {
	if program == 0 {
		return
	}
	g.DeletedPrograms[program]++
}

func (g *GL) UseProgram(program uint32) {
	g.Current = program
	g.UseCalls = append(g.UseCalls, program)
}

func (g *GL) GetUniformLocation(program uint32, name string) int32 {
	p, ok := g.Programs[program]
	if !ok || !p.Linked {
		return -1
	}
	if loc, ok := p.Locations[name]; ok {
		return loc
	}
	return -1
}

func (g *GL) setUniform(location int32, v ...float32) {
	if location < 0 {
		return
	}
	p, ok := g.Programs[g.Current]
	if !ok {
		return
	}
	p.Values[location] = v
}

func (g *GL) Uniform1f(location int32, v float32) { g.setUniform(location, v) }

func (g *GL) Uniform1i(location int32, v int32) { g.setUniform(location, float32(v)) }

func (g *GL) Uniform2f(location int32, x, y float32) { g.setUniform(location, x, y) }

func (g *GL) GenVertexArray() uint32 {
	id := g.handle()
	g.VAOs = append(g.VAOs, id)
	return id
}

func (g *GL) BindVertexArray(vao uint32) { g.BoundVAO = vao }

func (g *GL) Enable(capability uint32) { g.Enabled[capability] = true }

func (g *GL) ClearColor(red, green, blue, alpha float32) {
	g.ClearValue = [4]float32{red, green, blue, alpha}
}

func (g *GL) Clear(mask uint32) { g.Clears = append(g.Clears, mask) }

func (g *GL) Viewport(x, y, width, height int32) {
	g.Viewports = append(g.Viewports, [4]int32{x, y, width, height})
}

func (g *GL) DrawArrays(mode uint32, first, count int32) {
	g.Draws = append(g.Draws, Draw{Mode: mode, First: first, Count: count, Program: g.Current, VAO: g.BoundVAO})
}

func (g *GL) GetString(name uint32) string { return g.Strings[name] }

func (g *GL) ReadPixels(x, y, width, height int32) []byte {
	g.Reads++
	return make([]byte, int(width)*int(height)*4)
}
