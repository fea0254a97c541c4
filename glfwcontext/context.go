package glfwcontext

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/glslview/glcore"
	"github.com/richinsley/glslview/graphics"
)

var glInitOnce sync.Once

// contextVersion returns the OpenGL context version requested on goos.
func contextVersion(goos string) (major, minor int) {
	switch goos {
	case "windows":
		return 4, 6
	default:
		// macOS tops out at 4.1 core; the go-gl bindings target 4.1 as well.
		return 4, 1
	}
}

type eventKind int

const (
	eventResize eventKind = iota
	eventPointerMove
)

type event struct {
	kind eventKind
	w, h int
	x, y float64
}

// Context wraps a GLFW window. GLFW callbacks only record events; they are
// handed to an EventHandler by PollEvents.
type Context struct {
	window  *glfw.Window
	pending []event
}

var _ graphics.Window = (*Context)(nil)

// Backend implements graphics.Backend with GLFW.
type Backend struct{}

var _ graphics.Backend = Backend{}

// Init initializes GLFW. Must be called from the main thread.
func (Backend) Init() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// Terminate shuts GLFW down. Must be called from the main thread after every
// window has been destroyed.
func (Backend) Terminate() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}

func (Backend) Time() float64 {
	return glfw.GetTime()
}

// CreateWindow creates the window, positions it, makes its context current
// and enables vertical sync.
func (Backend) CreateWindow(cfg graphics.WindowConfig) (graphics.Window, error) {
	return New(cfg)
}

// LoadGL loads the OpenGL function pointers for the current context.
func (Backend) LoadGL() (graphics.GL, error) {
	var (
		g       glcore.GL
		initErr error
	)
	glInitOnce.Do(func() {
		g, initErr = glcore.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return g, nil
}

// New creates a GLFW window from cfg and returns a Context for it.
func New(cfg graphics.WindowConfig) (*Context, error) {
	major, minor := contextVersion(runtime.GOOS)
	glfw.WindowHint(glfw.ContextVersionMajor, major)
	glfw.WindowHint(glfw.ContextVersionMinor, minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{window: win}

	win.MakeContextCurrent()
	glfw.SwapInterval(1)
	win.SetPos(cfg.X, cfg.Y)

	win.SetSizeCallback(c.sizeCallback)
	win.SetCursorPosCallback(c.cursorPosCallback)
	win.SetKeyCallback(c.keyCallback)

	return c, nil
}

func (c *Context) sizeCallback(w *glfw.Window, width, height int) {
	c.pending = append(c.pending, event{kind: eventResize, w: width, h: height})
}

func (c *Context) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	c.pending = append(c.pending, event{kind: eventPointerMove, x: xpos, y: ypos})
}

func (c *Context) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

// dispatch drains the recorded events into h in arrival order.
func (c *Context) dispatch(h graphics.EventHandler) {
	events := c.pending
	c.pending = nil
	if h == nil {
		return
	}
	for _, ev := range events {
		switch ev.kind {
		case eventResize:
			h.OnResize(ev.w, ev.h)
		case eventPointerMove:
			h.OnPointerMove(ev.x, ev.y)
		}
	}
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) SetSize(width, height int) {
	c.window.SetSize(width, height)
}

func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

func (c *Context) PollEvents(h graphics.EventHandler) {
	glfw.PollEvents()
	c.dispatch(h)
}

// Destroy destroys the window. Safe to call more than once.
func (c *Context) Destroy() {
	if c.window == nil {
		return
	}
	c.window.Destroy()
	c.window = nil
	c.pending = nil
}
