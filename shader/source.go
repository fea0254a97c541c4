package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	DefaultRoot         = "shaders"
	DefaultVertexFile   = "render.vert"
	DefaultFragmentFile = "render.frag"
)

// Source names a vertex/fragment file pair relative to a shader root.
type Source struct {
	Root     string
	Vertex   string
	Fragment string
}

// DefaultSource is render.vert/render.frag under the "shaders" directory.
func DefaultSource() Source {
	return Source{Root: DefaultRoot, Vertex: DefaultVertexFile, Fragment: DefaultFragmentFile}
}

// Resolve returns the vertex and fragment paths joined onto Root.
func (s Source) Resolve() (vert, frag string) {
	return filepath.Join(s.Root, s.Vertex), filepath.Join(s.Root, s.Fragment)
}

// ────────────────────────────────── Defaults ──────────────────────────────────

// DefaultVertex emits two triangles covering clip space from gl_VertexID
// alone, so no vertex buffer is needed.
const DefaultVertex = `#version 410 core
const vec2 corners[6] = vec2[6](
    vec2(-1.0, -1.0), vec2( 1.0, -1.0), vec2( 1.0,  1.0),
    vec2(-1.0, -1.0), vec2( 1.0,  1.0), vec2(-1.0,  1.0)
);
out vec2 frag_uv;
void main() {
    vec2 p = corners[gl_VertexID];
    frag_uv = p * 0.5 + 0.5;
    gl_Position = vec4(p, 0.0, 1.0);
}
`

// DefaultFragment colours the screen by position and time and draws a soft
// spot under the cursor. mouse arrives in window coordinates, origin top-left.
const DefaultFragment = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;

uniform vec2  resolution;
uniform vec2  mouse;
uniform float time;

void main() {
    vec2 p = gl_FragCoord.xy / resolution;
    vec2 m = vec2(mouse.x, resolution.y - mouse.y) / resolution;
    vec3 col = 0.5 + 0.5 * cos(time + p.xyx + vec3(0.0, 2.0, 4.0));
    float d = length((p - m) * vec2(resolution.x / resolution.y, 1.0));
    col = mix(vec3(1.0), col, smoothstep(0.02, 0.08, d));
    fragColor = vec4(col, 1.0);
}
`

// WriteDefaults writes DefaultVertex and DefaultFragment into root as
// render.vert and render.frag. Existing files are left alone. It returns the
// paths it wrote.
func WriteDefaults(root string) ([]string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create shader root %s: %w", root, err)
	}
	files := []struct {
		name, code string
	}{
		{DefaultVertexFile, DefaultVertex},
		{DefaultFragmentFile, DefaultFragment},
	}
	var written []string
	for _, f := range files {
		path := filepath.Join(root, f.name)
		fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return written, fmt.Errorf("failed to create %s: %w", path, err)
		}
		_, err = fh.WriteString(f.code)
		if cerr := fh.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
