// Package recorder pipes rendered frames into an ffmpeg process.
package recorder

import (
	"fmt"
	"io"
	"log"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Config selects the output file and encoder settings.
type Config struct {
	Output     string
	FPS        int
	FFmpegPath string
}

// Recorder encodes RGBA frames of a fixed size into Config.Output. The size
// is taken from the first frame; frames of any other size are dropped.
type Recorder struct {
	cfg     Config
	width   int
	height  int
	pw      *io.PipeWriter
	errc    chan error
	frames  int
	dropped int
}

// New returns a Recorder. ffmpeg is not started until the first frame.
func New(cfg Config) *Recorder {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	return &Recorder{cfg: cfg}
}

func (r *Recorder) stream(in io.Reader, width, height int) *ffmpeg.Stream {
	inputArgs := ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", width, height),
		"r":       r.cfg.FPS,
	}
	// glReadPixels returns rows bottom-up.
	outputArgs := ffmpeg.KwArgs{
		"vf":      "vflip",
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
	}
	s := ffmpeg.Input("pipe:", inputArgs).
		Output(r.cfg.Output, outputArgs).
		OverWriteOutput().WithInput(in).ErrorToStdOut()
	if r.cfg.FFmpegPath != "" {
		s = s.SetFfmpegPath(r.cfg.FFmpegPath)
	}
	return s
}

func (r *Recorder) start(width, height int) {
	pr, pw := io.Pipe()
	r.width, r.height = width, height
	r.pw = pw
	r.errc = make(chan error, 1)
	cmd := r.stream(pr, width, height)
	go func() {
		err := cmd.Run()
		// Unblock the writer if ffmpeg exits early.
		pr.CloseWithError(fmt.Errorf("ffmpeg exited: %v", err))
		r.errc <- err
	}()
	log.Printf("Recording %dx%d @ %d fps to %s", width, height, r.cfg.FPS, r.cfg.Output)
}

// WriteFrame queues one frame of width*height RGBA pixels.
func (r *Recorder) WriteFrame(width, height int, pixels []byte) error {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return fmt.Errorf("frame of %d bytes does not match %dx%d RGBA", len(pixels), width, height)
	}
	if r.pw == nil {
		r.start(width, height)
	}
	if width != r.width || height != r.height {
		if r.dropped == 0 {
			log.Printf("Warning: dropping %dx%d frames while recording at %dx%d", width, height, r.width, r.height)
		}
		r.dropped++
		return nil
	}
	if _, err := r.pw.Write(pixels); err != nil {
		return fmt.Errorf("failed to write frame %d to ffmpeg: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Close ends the stream and waits for ffmpeg to finish writing the file.
func (r *Recorder) Close() error {
	if r.pw == nil {
		return nil
	}
	r.pw.Close()
	err := <-r.errc
	r.pw = nil
	log.Printf("Recorded %d frames to %s (%d dropped)", r.frames, r.cfg.Output, r.dropped)
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}
