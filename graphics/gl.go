package graphics

// GL enum values used by the viewer. They match the OpenGL 4.1 core headers.
const (
	False = 0
	True  = 1

	FragmentShader = 0x8B30
	VertexShader   = 0x8B31
	CompileStatus  = 0x8B81
	LinkStatus     = 0x8B82
	InfoLogLength  = 0x8B84

	DepthTest      = 0x0B71
	DepthBufferBit = 0x00000100
	ColorBufferBit = 0x00004000
	Triangles      = 0x0004

	Vendor                 = 0x1F00
	Renderer               = 0x1F01
	Version                = 0x1F02
	ShadingLanguageVersion = 0x8B8C
)

// GL is the subset of OpenGL the viewer issues. Every method must be called
// on the thread that owns the current context.
type GL interface {
	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32) int32
	GetShaderInfoLog(shader uint32, length int32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32) int32
	GetProgramInfoLog(program uint32, length int32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// GetUniformLocation returns -1 for names the program does not declare.
	GetUniformLocation(program uint32, name string) int32
	Uniform1f(location int32, v float32)
	Uniform1i(location int32, v int32)
	Uniform2f(location int32, x, y float32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)

	Enable(capability uint32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Viewport(x, y, width, height int32)
	DrawArrays(mode uint32, first, count int32)

	GetString(name uint32) string
	// ReadPixels returns the RGBA8 contents of the given rectangle of the
	// back buffer, bottom row first.
	ReadPixels(x, y, width, height int32) []byte
}
