package graphics

// WindowConfig describes the OS window requested from a Backend.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	X      int
	Y      int
}

// EventHandler receives input events dispatched by Window.PollEvents.
type EventHandler interface {
	OnResize(width, height int)
	OnPointerMove(x, y float64)
}

// Window defines the interface for an OS window owning an OpenGL context.
type Window interface {
	MakeCurrent()
	ShouldClose() bool
	GetFramebufferSize() (int, int)
	SetSize(width, height int)
	SwapBuffers()
	// PollEvents pumps the OS event queue and delivers every pending event
	// to h before returning.
	PollEvents(h EventHandler)
	Destroy()
}

// Backend is the windowing subsystem that creates windows and loads GL.
type Backend interface {
	Init() error
	// CreateWindow creates a window and makes its context current with
	// vertical sync enabled.
	CreateWindow(cfg WindowConfig) (Window, error)
	// LoadGL resolves the GL function pointers for the current context.
	LoadGL() (GL, error)
	Time() float64
	Terminate()
}
