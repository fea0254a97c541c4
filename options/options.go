package options

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ViewerOptions holds the command-line flags. A nil or unset field leaves the
// config value alone.
type ViewerOptions struct {
	ConfigFile *string
	Help       *bool
	Init       *bool
	Width      *int
	Height     *int
	Title      *string
	ShaderRoot *string
	Vertex     *string
	Fragment   *string
	Translate  *bool
	Frames     *int
	Record     *string // output video file; empty disables recording
	FPS        *int
	FFMPEGPath *string

	set map[string]bool
}

// RecordConfig controls frame capture to a video file.
type RecordConfig struct {
	Output     string `yaml:"output"`
	FPS        int    `yaml:"fps"`
	FFMPEGPath string `yaml:"ffmpeg"`
}

// Config is the resolved viewer configuration.
type Config struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Title      string       `yaml:"title"`
	ShaderRoot string       `yaml:"shader_root"`
	Vertex     string       `yaml:"vertex"`
	Fragment   string       `yaml:"fragment"`
	Translate  bool         `yaml:"translate"`
	Frames     int          `yaml:"frames"`
	Record     RecordConfig `yaml:"record"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:      640,
		Height:     480,
		Title:      "interactive GLSL",
		ShaderRoot: "shaders",
		Vertex:     "render.vert",
		Fragment:   "render.frag",
		Record:     RecordConfig{FPS: 60},
	}
}

// LoadFile overlays the YAML file at path onto c. Keys missing from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c.Validate()
}

// Validate checks that c describes a usable window and shader pair.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.Vertex == "" || c.Fragment == "" {
		return fmt.Errorf("vertex and fragment shader file names are required")
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", c.Frames)
	}
	if c.Record.Output != "" && c.Record.FPS <= 0 {
		return fmt.Errorf("record fps must be positive, got %d", c.Record.FPS)
	}
	return nil
}

// Register defines the viewer flags on fs.
func Register(fs *flag.FlagSet) *ViewerOptions {
	d := Default()
	return &ViewerOptions{
		ConfigFile: fs.String("config", "", "YAML config file; flags override its values"),
		Help:       fs.Bool("help", false, "Show help message"),
		Init:       fs.Bool("init", false, "Write default shaders into the shader root and exit"),
		Width:      fs.Int("width", d.Width, "Window width"),
		Height:     fs.Int("height", d.Height, "Window height"),
		Title:      fs.String("title", d.Title, "Window title"),
		ShaderRoot: fs.String("shaders", d.ShaderRoot, "Shader root directory"),
		Vertex:     fs.String("vert", d.Vertex, "Vertex shader file, relative to the shader root"),
		Fragment:   fs.String("frag", d.Fragment, "Fragment shader file, relative to the shader root"),
		Translate:  fs.Bool("translate", false, "Translate WebGL2 (GLSL ES 3.00) shaders to GLSL 4.10 before compiling"),
		Frames:     fs.Int("frames", 0, "Stop after this many frames (0 = until the window closes)"),
		Record:     fs.String("record", "", "Record frames to this video file"),
		FPS:        fs.Int("fps", d.Record.FPS, "Frame rate of the recorded video"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
	}
}

// Capture remembers which flags were given explicitly. Call after fs.Parse.
func (o *ViewerOptions) Capture(fs *flag.FlagSet) {
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		o.set[f.Name] = true
	})
}

// Resolve builds the effective Config: defaults, then the config file, then
// every flag given on the command line.
func (o *ViewerOptions) Resolve() (Config, error) {
	c := Default()
	if o.ConfigFile != nil && *o.ConfigFile != "" {
		if err := c.LoadFile(*o.ConfigFile); err != nil {
			return c, err
		}
	}
	if o.set["width"] {
		c.Width = *o.Width
	}
	if o.set["height"] {
		c.Height = *o.Height
	}
	if o.set["title"] {
		c.Title = *o.Title
	}
	if o.set["shaders"] {
		c.ShaderRoot = *o.ShaderRoot
	}
	if o.set["vert"] {
		c.Vertex = *o.Vertex
	}
	if o.set["frag"] {
		c.Fragment = *o.Fragment
	}
	if o.set["translate"] {
		c.Translate = *o.Translate
	}
	if o.set["frames"] {
		c.Frames = *o.Frames
	}
	if o.set["record"] {
		c.Record.Output = *o.Record
	}
	if o.set["fps"] {
		c.Record.FPS = *o.FPS
	}
	if o.set["ffmpeg"] {
		c.Record.FFMPEGPath = *o.FFMPEGPath
	}
	return c, c.Validate()
}
