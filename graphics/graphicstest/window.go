package graphicstest

import (
	"github.com/richinsley/glslview/graphics"
)

// Window is a fake graphics.Window. The framebuffer is the window size
// multiplied by Scale.
type Window struct {
	Width, Height int
	Scale         int
	Close         bool
	// CloseAfterPolls requests close once PollEvents has run that many times.
	CloseAfterPolls int

	Current   bool
	SetSizes  [][2]int
	Swaps     int
	Polls     int
	Destroyed int

	queued []func(graphics.EventHandler)
}

var _ graphics.Window = (*Window)(nil)

// NewWindow returns a fake window with a 1:1 framebuffer.
func NewWindow(width, height int) *Window {
	return &Window{Width: width, Height: height, Scale: 1}
}

// QueueResize delivers a resize event on the next PollEvents.
func (w *Window) QueueResize(width, height int) {
	w.queued = append(w.queued, func(h graphics.EventHandler) { h.OnResize(width, height) })
}

// QueuePointerMove delivers a pointer event on the next PollEvents.
func (w *Window) QueuePointerMove(x, y float64) {
	w.queued = append(w.queued, func(h graphics.EventHandler) { h.OnPointerMove(x, y) })
}

func (w *Window) MakeCurrent() { w.Current = true }

func (w *Window) ShouldClose() bool { return w.Close }

func (w *Window) GetFramebufferSize() (int, int) {
	scale := w.Scale
	if scale == 0 {
		scale = 1
	}
	return w.Width * scale, w.Height * scale
}

func (w *Window) SetSize(width, height int) {
	w.Width, w.Height = width, height
	w.SetSizes = append(w.SetSizes, [2]int{width, height})
}

func (w *Window) SwapBuffers() { w.Swaps++ }

func (w *Window) PollEvents(h graphics.EventHandler) {
	w.Polls++
	events := w.queued
	w.queued = nil
	for _, ev := range events {
		if h != nil {
			ev(h)
		}
	}
	if w.CloseAfterPolls > 0 && w.Polls >= w.CloseAfterPolls {
		w.Close = true
	}
}

func (w *Window) Destroy() { w.Destroyed++ }

// Backend is a fake graphics.Backend handing out Window and GL.
type Backend struct {
	Window *Window
	GL     *GL

	InitErr   error
	WindowErr error
	LoadErr   error

	Config     graphics.WindowConfig
	Clock      float64
	Inits      int
	Terminates int
}

var _ graphics.Backend = (*Backend)(nil)

// NewBackend returns a backend whose window matches the requested size.
func NewBackend() *Backend {
	return &Backend{GL: NewGL()}
}

func (b *Backend) Init() error {
	b.Inits++
	return b.InitErr
}

func (b *Backend) CreateWindow(cfg graphics.WindowConfig) (graphics.Window, error) {
	b.Config = cfg
	if b.WindowErr != nil {
		return nil, b.WindowErr
	}
	if b.Window == nil {
		b.Window = NewWindow(cfg.Width, cfg.Height)
	}
	b.Window.MakeCurrent()
	return b.Window, nil
}

func (b *Backend) LoadGL() (graphics.GL, error) {
	if b.LoadErr != nil {
		return nil, b.LoadErr
	}
	if b.GL == nil {
		b.GL = NewGL()
	}
	return b.GL, nil
}

func (b *Backend) Time() float64 { return b.Clock }

func (b *Backend) Terminate() { b.Terminates++ }
