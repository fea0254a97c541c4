// Package glcore implements graphics.GL on top of the go-gl 4.1 core bindings.
package glcore

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/glslview/graphics"
)

// GL forwards graphics.GL calls to the current OpenGL context.
type GL struct{}

var _ graphics.GL = GL{}

// Init loads the OpenGL function pointers. A context must be current.
func Init() (GL, error) {
	if err := gl.Init(); err != nil {
		return GL{}, err
	}
	return GL{}, nil
}

func (GL) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (GL) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (GL) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (GL) GetShaderiv(shader uint32, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (GL) GetShaderInfoLog(shader uint32, length int32) string {
	if length <= 0 {
		return ""
	}
	log := make([]byte, length+1)
	gl.GetShaderInfoLog(shader, length, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (GL) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (GL) CreateProgram() uint32 { return gl.CreateProgram() }

func (GL) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (GL) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }

func (GL) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (GL) GetProgramiv(program uint32, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (GL) GetProgramInfoLog(program uint32, length int32) string {
	if length <= 0 {
		return ""
	}
	log := make([]byte, length+1)
	gl.GetProgramInfoLog(program, length, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (GL) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (GL) UseProgram(program uint32) { gl.UseProgram(program) }

func (GL) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (GL) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (GL) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (GL) Uniform2f(location int32, x, y float32) { gl.Uniform2f(location, x, y) }

func (GL) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (GL) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (GL) Enable(capability uint32) { gl.Enable(capability) }

func (GL) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (GL) Clear(mask uint32) { gl.Clear(mask) }

func (GL) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (GL) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (GL) GetString(name uint32) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

func (GL) ReadPixels(x, y, width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
