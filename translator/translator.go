// Package translator converts WebGL2 (GLSL ES 3.00) shader sources into
// desktop GLSL 4.10 so they can be compiled by the core-profile context.
package translator

import (
	"context"
	"fmt"
	"log"

	"github.com/richinsley/glslview/shader"
	gst "github.com/richinsley/goshadertranslator"
)

// Translator implements shader.Preprocessor with goshadertranslator.
type Translator struct {
	st *gst.ShaderTranslator
}

var _ shader.Preprocessor = (*Translator)(nil)

// New starts the translator runtime. It is slow to start, so create one and
// reuse it for every build.
func New(ctx context.Context) (*Translator, error) {
	st, err := gst.NewShaderTranslator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start shader translator: %w", err)
	}
	log.Printf("Shader translator ready")
	return &Translator{st: st}, nil
}

func stageName(stage shader.Stage) string {
	if stage == shader.Vertex {
		return "vertex"
	}
	return "fragment"
}

// Preprocess translates source and returns the renamed uniforms.
func (t *Translator) Preprocess(stage shader.Stage, source string) (string, map[string]string, error) {
	out, err := t.st.TranslateShader(source, stageName(stage), gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return "", nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		if v.MappedName != "" && v.MappedName != name {
			names[name] = v.MappedName
		}
	}
	return out.Code, names, nil
}
