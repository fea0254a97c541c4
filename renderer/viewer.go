package renderer

import (
	"context"
	"fmt"
	"log"

	"github.com/richinsley/glslview/graphics"
	"github.com/richinsley/glslview/shader"
)

// State is the viewer lifecycle stage.
type State int

const (
	Uninitialized State = iota
	Initialized
	Running
	Closing
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Closing:
		return "closing"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Viewport is the drawable size in framebuffer pixels.
type Viewport struct {
	Width  int
	Height int
}

// Pointer is the last cursor position reported by the window.
type Pointer struct {
	X float64
	Y float64
}

// FrameSink receives every drawn frame, as RGBA rows bottom-up, before it is
// presented.
type FrameSink interface {
	WriteFrame(width, height int, pixels []byte) error
}

// Config describes the window and the shader pair the viewer draws.
type Config struct {
	Title  string
	Width  int
	Height int
	X      int
	Y      int

	Source        shader.Source
	ShaderOptions []shader.Option

	// Sink, if set, receives a copy of every frame.
	Sink FrameSink
	// MaxFrames stops the loop after that many frames. Zero means no limit.
	MaxFrames int
}

// DefaultConfig is a 640x480 window at (100, 100) drawing shaders/render.vert
// and shaders/render.frag.
func DefaultConfig() Config {
	return Config{
		Title:  "interactive GLSL",
		Width:  640,
		Height: 480,
		X:      100,
		Y:      100,
		Source: shader.DefaultSource(),
	}
}

// Viewer owns the window, its GL context and the per-frame render cycle.
// All methods must be called from the thread that called Initialize.
type Viewer struct {
	backend graphics.Backend
	window  graphics.Window
	gl      graphics.GL
	cfg     Config

	viewport Viewport
	pointer  Pointer
	vao      uint32

	state     State
	backendUp bool
	ctx       context.Context
	start     float64
	frame     int
}

var _ graphics.EventHandler = (*Viewer)(nil)

// New returns an uninitialized viewer.
func New(backend graphics.Backend, cfg Config) *Viewer {
	return &Viewer{
		backend: backend,
		cfg:     cfg,
		ctx:     context.Background(),
	}
}

func (v *Viewer) State() State { return v.state }
func (v *Viewer) Viewport() Viewport { return v.viewport }
func (v *Viewer) Pointer() Pointer { return v.pointer }
func (v *Viewer) Frame() int { return v.frame }
func (v *Viewer) Window() graphics.Window { return v.window }

// Initialize brings up the backend, the window and its context, loads GL and
// sets the baseline GL state. On error, Destroy releases whatever was created.
func (v *Viewer) Initialize() error {
	if v.state != Uninitialized {
		return fmt.Errorf("viewer is already %s", v.state)
	}

	if err := v.backend.Init(); err != nil {
		return fmt.Errorf("can't initialize windowing backend: %w", err)
	}
	v.backendUp = true

	win, err := v.backend.CreateWindow(graphics.WindowConfig{
		Title:  v.cfg.Title,
		Width:  v.cfg.Width,
		Height: v.cfg.Height,
		X:      v.cfg.X,
		Y:      v.cfg.Y,
	})
	if err != nil {
		return fmt.Errorf("can't create window: %w", err)
	}
	v.window = win

	gl, err := v.backend.LoadGL()
	if err != nil {
		return fmt.Errorf("failed to load OpenGL functions: %w", err)
	}
	v.gl = gl

	log.Printf("Vendor: %s", gl.GetString(graphics.Vendor))
	log.Printf("Renderer: %s", gl.GetString(graphics.Renderer))
	log.Printf("OpenGL: %s", gl.GetString(graphics.Version))
	log.Printf("GLSL: %s", gl.GetString(graphics.ShadingLanguageVersion))

	w, h := win.GetFramebufferSize()
	v.viewport = Viewport{Width: w, Height: h}

	// The vertex shader generates its own positions; the VAO only has to be
	// bound for core-profile draws to be valid.
	v.vao = gl.GenVertexArray()
	gl.BindVertexArray(v.vao)

	gl.Enable(graphics.DepthTest)
	gl.ClearColor(0, 0, 0, 0)

	v.start = v.backend.Time()
	v.state = Initialized
	return nil
}

// ShouldContinue reports whether another frame should be drawn. It has no
// side effects.
func (v *Viewer) ShouldContinue() bool {
	if v.state != Initialized && v.state != Running {
		return false
	}
	if v.window == nil || v.window.ShouldClose() {
		return false
	}
	if v.ctx != nil && v.ctx.Err() != nil {
		return false
	}
	if v.cfg.MaxFrames > 0 && v.frame >= v.cfg.MaxFrames {
		return false
	}
	return true
}

// SyncViewport applies the current framebuffer size as the GL viewport.
func (v *Viewer) SyncViewport() {
	if v.window == nil || v.gl == nil {
		return
	}
	w, h := v.window.GetFramebufferSize()
	v.gl.Viewport(0, 0, int32(w), int32(h))
}

// RenderStep builds the shader program, draws one full-screen frame with the
// current viewport and pointer, presents it and processes pending events.
// A build error is returned before anything is drawn.
func (v *Viewer) RenderStep() error {
	if v.state != Initialized && v.state != Running {
		return fmt.Errorf("cannot render while %s", v.state)
	}
	v.state = Running

	prog, err := shader.Build(v.gl, v.cfg.Source, v.cfg.ShaderOptions...)
	if err != nil {
		return err
	}
	defer prog.Destroy()

	v.gl.Clear(graphics.ColorBufferBit | graphics.DepthBufferBit)
	prog.Bind()
	prog.SetVec2("resolution", float32(v.viewport.Width), float32(v.viewport.Height))
	prog.SetVec2("mouse", float32(v.pointer.X), float32(v.pointer.Y))
	prog.SetFloat("time", float32(v.backend.Time()-v.start))
	prog.SetInt("frame", int32(v.frame))
	v.gl.BindVertexArray(v.vao)
	v.gl.DrawArrays(graphics.Triangles, 0, 6)
	prog.Release()

	v.capture()
	v.frame++

	v.window.SwapBuffers()
	v.window.PollEvents(v)
	return nil
}

func (v *Viewer) capture() {
	if v.cfg.Sink == nil {
		return
	}
	w, h := v.window.GetFramebufferSize()
	pixels := v.gl.ReadPixels(0, 0, int32(w), int32(h))
	if err := v.cfg.Sink.WriteFrame(w, h, pixels); err != nil {
		log.Printf("Recording stopped: %v", err)
		v.cfg.Sink = nil
	}
}

// Run initializes the viewer if needed, renders until the window is closed,
// ctx is cancelled or MaxFrames is reached, then destroys the viewer.
func (v *Viewer) Run(ctx context.Context) error {
	v.ctx = ctx
	defer v.Destroy()

	if v.state == Uninitialized {
		if err := v.Initialize(); err != nil {
			return err
		}
	}

	log.Println("Starting interactive render loop...")
	for v.ShouldContinue() {
		v.SyncViewport()
		if err := v.RenderStep(); err != nil {
			return err
		}
	}
	log.Printf("Render loop finished after %d frames", v.frame)
	return nil
}

// OnResize resizes the window to width x height and adopts the resulting
// framebuffer size, which differs from the window size under display scaling.
func (v *Viewer) OnResize(width, height int) {
	if v.window == nil {
		return
	}
	v.window.SetSize(width, height)
	fw, fh := v.window.GetFramebufferSize()
	v.viewport = Viewport{Width: fw, Height: fh}
	v.gl.Viewport(0, 0, int32(fw), int32(fh))
}

// OnPointerMove records the cursor position as given.
func (v *Viewer) OnPointerMove(x, y float64) {
	v.pointer = Pointer{X: x, Y: y}
}

// Destroy destroys the window and shuts the backend down. It issues no GL
// calls; the VAO is released with the context. Safe to call more than once.
func (v *Viewer) Destroy() {
	if v.state == Terminated {
		return
	}
	v.state = Closing
	if v.window != nil {
		v.window.Destroy()
		v.window = nil
	}
	if v.backendUp {
		v.backend.Terminate()
		v.backendUp = false
	}
	v.gl = nil
	v.state = Terminated
}
