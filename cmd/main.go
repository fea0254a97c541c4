package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/richinsley/glslview/glfwcontext"
	"github.com/richinsley/glslview/options"
	"github.com/richinsley/glslview/recorder"
	"github.com/richinsley/glslview/renderer"
	"github.com/richinsley/glslview/shader"
	"github.com/richinsley/glslview/translator"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

// viewerConfig maps the resolved options onto the renderer config.
func viewerConfig(cfg options.Config) renderer.Config {
	vc := renderer.DefaultConfig()
	vc.Title = cfg.Title
	vc.Width = cfg.Width
	vc.Height = cfg.Height
	vc.Source = shader.Source{Root: cfg.ShaderRoot, Vertex: cfg.Vertex, Fragment: cfg.Fragment}
	vc.MaxFrames = cfg.Frames
	return vc
}

// report prints err. Shader failures print the compiler or linker log and
// the offending source; everything else is a single log line.
func report(err error) {
	var ce *shader.CompileError
	var le *shader.LinkError
	if errors.As(err, &ce) || errors.As(err, &le) {
		fmt.Fprint(os.Stderr, shader.Diagnostic(err))
		return
	}
	log.Printf("Error: %v", err)
}

func run(args []string) int {
	fs := flag.NewFlagSet("glslview", flag.ExitOnError)
	opts := options.Register(fs)
	fs.Parse(args)
	opts.Capture(fs)

	if *opts.Help {
		fmt.Println("Interactive GLSL viewer")
		fs.PrintDefaults()
		return 0
	}

	cfg, err := opts.Resolve()
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 1
	}

	if *opts.Init {
		written, err := shader.WriteDefaults(cfg.ShaderRoot)
		if err != nil {
			log.Printf("Error writing default shaders: %v", err)
			return 1
		}
		for _, path := range written {
			log.Printf("Wrote %s", path)
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vc := viewerConfig(cfg)

	if cfg.Translate {
		tr, err := translator.New(ctx)
		if err != nil {
			log.Printf("Error: %v", err)
			return 1
		}
		vc.ShaderOptions = append(vc.ShaderOptions, shader.WithPreprocessor(tr))
	}

	var rec *recorder.Recorder
	if cfg.Record.Output != "" {
		rec = recorder.New(recorder.Config{
			Output:     cfg.Record.Output,
			FPS:        cfg.Record.FPS,
			FFmpegPath: cfg.Record.FFMPEGPath,
		})
		vc.Sink = rec
	}

	v := renderer.New(glfwcontext.Backend{}, vc)
	err = v.Run(ctx)

	if rec != nil {
		if cerr := rec.Close(); cerr != nil {
			log.Printf("Recording failed: %v", cerr)
		}
	}

	if err != nil {
		report(err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:]))
}
