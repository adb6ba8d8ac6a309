package glpipe_test

import (
	"errors"
	"image/color"
	"slices"
	"testing"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/backend/soft"
)

const (
	pixelVS = `#version 300 es
in vec2 a_position;
uniform vec2 u_resolution;
void main() {
  vec2 clipSpace = a_position / u_resolution * 2.0 - 1.0;
  gl_Position = vec4(clipSpace * vec2(1, -1), 0, 1);
}
`
	colorFS = `#version 300 es
precision highp float;
uniform vec4 u_color;
out vec4 outColor;
void main() {
  outColor = u_color;
}
`
	brokenFS = `#version 300 es
out vec4 outColor;
void main() {
  outColor = vec4(1);
}
`
)

func newDevice(w, h int) *soft.Device {
	return soft.New(soft.NewCanvas(w, h))
}

func TestCompileShader(t *testing.T) {
	dev := newDevice(4, 4)
	cs, err := glpipe.CompileShader(dev, glpipe.VertexSource(pixelVS))
	if err != nil {
		t.Fatalf("CompileShader() error = %v", err)
	}
	if !cs.Valid() || cs.Stage != glpipe.StageVertex {
		t.Errorf("CompileShader() = %+v, want a valid vertex shader", cs)
	}
	if dev.LiveShaders() != 1 {
		t.Errorf("LiveShaders() = %d, want 1", dev.LiveShaders())
	}
}

func TestCompileShaderFailure(t *testing.T) {
	dev := newDevice(4, 4)
	cs, err := glpipe.CompileShader(dev, glpipe.FragmentSource(brokenFS))
	var cerr *glpipe.CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("CompileShader() error = %v, want *CompileError", err)
	}
	if cerr.Stage != glpipe.StageFragment || cerr.Log == "" {
		t.Errorf("CompileError = %+v, want fragment stage and a log", cerr)
	}
	if cs.Valid() {
		t.Error("failed compile returned a valid shader")
	}
	if dev.LiveShaders() != 0 {
		t.Errorf("LiveShaders() = %d, want 0 after failure", dev.LiveShaders())
	}
}

func TestCompileShaderUnknownStage(t *testing.T) {
	dev := newDevice(4, 4)
	_, err := glpipe.CompileShader(dev, glpipe.ShaderSource{Text: pixelVS})
	var cerr *glpipe.CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("CompileShader() error = %v, want *CompileError", err)
	}
	if dev.LiveShaders() != 0 {
		t.Error("shader object created for an unknown stage")
	}
}

func compile(t *testing.T, dev glpipe.Device, vs, fs string) (glpipe.CompiledShader, glpipe.CompiledShader) {
	t.Helper()
	v, err := glpipe.CompileShader(dev, glpipe.VertexSource(vs))
	if err != nil {
		t.Fatal(err)
	}
	f, err := glpipe.CompileShader(dev, glpipe.FragmentSource(fs))
	if err != nil {
		t.Fatal(err)
	}
	return v, f
}

func TestLinkProgramReleasesShaders(t *testing.T) {
	tests := []struct {
		name    string
		opts    []glpipe.Option
		shaders int
	}{
		{"default", nil, 0},
		{"kept", []glpipe.Option{glpipe.WithShaderRelease(false)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newDevice(4, 4)
			vs, fs := compile(t, dev, pixelVS, colorFS)
			lp, err := glpipe.LinkProgram(dev, vs, fs, tt.opts...)
			if err != nil {
				t.Fatalf("LinkProgram() error = %v", err)
			}
			if !lp.Handle().Valid() {
				t.Error("LinkProgram() returned an invalid program")
			}
			if dev.LiveShaders() != tt.shaders {
				t.Errorf("LiveShaders() = %d, want %d", dev.LiveShaders(), tt.shaders)
			}
			if dev.LivePrograms() != 1 {
				t.Errorf("LivePrograms() = %d, want 1", dev.LivePrograms())
			}
		})
	}
}

func TestLinkProgramInvalidShaders(t *testing.T) {
	dev := newDevice(4, 4)
	vs, fs := compile(t, dev, pixelVS, colorFS)
	tests := []struct {
		name   string
		vs, fs glpipe.CompiledShader
	}{
		{"absent vertex", glpipe.CompiledShader{}, fs},
		{"absent fragment", vs, glpipe.CompiledShader{}},
		{"swapped", fs, vs},
		{"two vertex", vs, vs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := glpipe.LinkProgram(dev, tt.vs, tt.fs)
			if !errors.Is(err, glpipe.ErrInvalidShader) {
				t.Errorf("LinkProgram() error = %v, want ErrInvalidShader", err)
			}
		})
	}
	if dev.LivePrograms() != 0 {
		t.Errorf("LivePrograms() = %d, want 0", dev.LivePrograms())
	}
}

func TestLinkProgramFailure(t *testing.T) {
	dev := newDevice(4, 4)
	fsWithInput := "#version 300 es\nprecision highp float;\nin vec4 v_color;\nout vec4 o;\nvoid main() { o = v_color; }\n"
	vs, fs := compile(t, dev, pixelVS, fsWithInput)
	_, err := glpipe.LinkProgram(dev, vs, fs)
	var lerr *glpipe.LinkError
	if !errors.As(err, &lerr) {
		t.Fatalf("LinkProgram() error = %v, want *LinkError", err)
	}
	if lerr.Log == "" {
		t.Error("LinkError.Log is empty")
	}
	if dev.LivePrograms() != 0 {
		t.Errorf("LivePrograms() = %d, want 0", dev.LivePrograms())
	}
}

func TestProgramLookupsAreCached(t *testing.T) {
	dev := newDevice(4, 4)
	vs, fs := compile(t, dev, pixelVS, colorFS)
	lp, err := glpipe.LinkProgram(dev, vs, fs)
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if slot, err := lp.Attribute("a_position"); err != nil || slot != 0 {
			t.Fatalf("Attribute(a_position) = %d, %v", slot, err)
		}
		if !lp.Uniform("u_color").Active() {
			t.Fatal("u_color not active")
		}
		if lp.Uniform("u_missing").Active() {
			t.Fatal("u_missing reported active")
		}
	}
	if got := dev.UniformLookups(); got != 2 {
		t.Errorf("UniformLookups() = %d, want 2", got)
	}
	if _, err := lp.Attribute("a_missing"); !errors.Is(err, glpipe.ErrUnknownAttribute) {
		t.Errorf("Attribute(a_missing) error = %v, want ErrUnknownAttribute", err)
	}
}

func TestInactiveUniformIsNoop(t *testing.T) {
	dev := newDevice(4, 4)
	vs, fs := compile(t, dev, pixelVS, colorFS)
	lp, err := glpipe.LinkProgram(dev, vs, fs)
	if err != nil {
		t.Fatal(err)
	}
	lp.Use()
	u := lp.Uniform("u_missing")
	u.Set1f(1)
	u.Set2f(1, 2)
	u.SetColor(glpipe.RGB(1, 1, 1))
	if code := dev.Err(); code != soft.NoError {
		t.Errorf("Err() = %v after setting an inactive uniform", code)
	}
	var nilUniform *glpipe.Uniform
	if nilUniform.Active() {
		t.Error("nil Uniform reported active")
	}
}

func TestRectangleTriangles(t *testing.T) {
	got := glpipe.RectangleTriangles(10, 20, 70, 10)
	want := []float32{
		10, 20, 80, 20, 10, 30,
		10, 30, 80, 20, 80, 30,
	}
	if !slices.Equal(got, want) {
		t.Errorf("RectangleTriangles() = %v, want %v", got, want)
	}
	if n := glpipe.VertexCount(got, 2); n != 6 {
		t.Errorf("VertexCount() = %d, want 6", n)
	}
	if n := glpipe.VertexCount(got, 0); n != 0 {
		t.Errorf("VertexCount(components=0) = %d, want 0", n)
	}
}

func TestBindAttributeIdempotent(t *testing.T) {
	dev := newDevice(4, 4)
	layout := glpipe.PackedLayout(0, 2)
	buf := glpipe.NewVertexBuffer(dev)
	buf.Bind()

	if err := glpipe.BindAttribute(dev, layout); err != nil {
		t.Fatal(err)
	}
	first := dev.Attrib(0)
	if err := glpipe.BindAttribute(dev, layout); err != nil {
		t.Fatal(err)
	}
	if second := dev.Attrib(0); second != first {
		t.Errorf("rebinding changed attribute state: %+v -> %+v", first, second)
	}
	if !first.Enabled || first.Size != 2 || first.Type != glpipe.Float32 || first.Buffer != buf.Handle() {
		t.Errorf("Attrib(0) = %+v", first)
	}
	if err := glpipe.BindAttribute(dev, glpipe.PackedLayout(0, 7)); err == nil {
		t.Error("BindAttribute accepted 7 components")
	}
}

func TestPipelineOrdering(t *testing.T) {
	dev := newDevice(4, 4)
	p := glpipe.NewPipeline(dev, dev.Canvas())

	var serr *glpipe.StateError
	if err := p.Link(); !errors.As(err, &serr) {
		t.Fatalf("Link() before Compile error = %v, want *StateError", err)
	}
	if serr.Have != glpipe.StateUnconfigured || serr.Want != glpipe.StateShadersCompiled {
		t.Errorf("StateError = %+v", serr)
	}
	if err := p.BindGeometry(nil); !errors.As(err, &serr) {
		t.Errorf("BindGeometry() before Link error = %v, want *StateError", err)
	}
	if err := p.Render(nil); !errors.As(err, &serr) {
		t.Errorf("Render() before setup error = %v, want *StateError", err)
	}
	if _, err := p.Uniform("u_color"); !errors.As(err, &serr) {
		t.Errorf("Uniform() before Link error = %v, want *StateError", err)
	}

	steps := []struct {
		name string
		do   func() error
		want glpipe.State
	}{
		{"Compile", func() error {
			return p.Compile(glpipe.VertexSource(pixelVS), glpipe.FragmentSource(colorFS))
		}, glpipe.StateShadersCompiled},
		{"Link", p.Link, glpipe.StateProgramLinked},
		{"BindGeometry", func() error { return p.BindGeometry(glpipe.RectangleTriangles(0, 0, 2, 2)) }, glpipe.StateGeometryBound},
		{"BindAttribute", func() error { return p.BindAttribute("a_position", glpipe.PackedLayout(0, 2)) }, glpipe.StateReady},
	}
	for _, s := range steps {
		if err := s.do(); err != nil {
			t.Fatalf("%s() error = %v", s.name, err)
		}
		if p.State() != s.want {
			t.Fatalf("after %s State() = %v, want %v", s.name, p.State(), s.want)
		}
	}
	if err := p.Compile(glpipe.VertexSource(pixelVS), glpipe.FragmentSource(colorFS)); !errors.As(err, &serr) {
		t.Errorf("second Compile() error = %v, want *StateError", err)
	}
	if err := p.BindAttribute("a_missing", glpipe.PackedLayout(0, 2)); !errors.Is(err, glpipe.ErrUnknownAttribute) {
		t.Errorf("BindAttribute(a_missing) error = %v, want ErrUnknownAttribute", err)
	}
	if p.State() != glpipe.StateReady {
		t.Errorf("State() = %v after failed BindAttribute, want ready", p.State())
	}
}

func TestPipelineCompileFragmentFailure(t *testing.T) {
	dev := newDevice(4, 4)
	p := glpipe.NewPipeline(dev, dev.Canvas())
	err := p.Compile(glpipe.VertexSource(pixelVS), glpipe.FragmentSource(brokenFS))
	var cerr *glpipe.CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("Compile() error = %v, want *CompileError", err)
	}
	if dev.LiveShaders() != 0 {
		t.Errorf("LiveShaders() = %d after fragment failure, want 0", dev.LiveShaders())
	}
	if p.State() != glpipe.StateUnconfigured {
		t.Errorf("State() = %v, want unconfigured", p.State())
	}
}

func TestPipelineCompileRejectsSwappedStages(t *testing.T) {
	dev := newDevice(4, 4)
	p := glpipe.NewPipeline(dev, dev.Canvas())
	err := p.Compile(glpipe.FragmentSource(colorFS), glpipe.VertexSource(pixelVS))
	if !errors.Is(err, glpipe.ErrInvalidShader) {
		t.Errorf("Compile() error = %v, want ErrInvalidShader", err)
	}
	if dev.LiveShaders() != 0 || p.State() != glpipe.StateUnconfigured {
		t.Errorf("LiveShaders() = %d, State() = %v", dev.LiveShaders(), p.State())
	}
}

func readyPipeline(t *testing.T, dev *soft.Device, geometry []float32, opts ...glpipe.Option) *glpipe.Pipeline {
	t.Helper()
	p := glpipe.NewPipeline(dev, dev.Canvas(), opts...)
	if err := p.Compile(glpipe.VertexSource(pixelVS), glpipe.FragmentSource(colorFS)); err != nil {
		t.Fatal(err)
	}
	if err := p.Link(); err != nil {
		t.Fatal(err)
	}
	if err := p.BindGeometry(geometry); err != nil {
		t.Fatal(err)
	}
	if err := p.BindAttribute("a_position", glpipe.PackedLayout(0, 2)); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPipelineRender(t *testing.T) {
	dev := newDevice(1, 1)
	red := color.NRGBA{R: 255, A: 255}
	p := readyPipeline(t, dev, glpipe.RectangleTriangles(2, 3, 4, 5),
		glpipe.WithCanvasSize(20, 10),
		glpipe.WithClearColor(glpipe.RGB(0, 0, 1)),
	)

	err := p.Render(func(f *glpipe.Frame) error {
		if f.Viewport != (glpipe.Viewport{Width: 20, Height: 10}) {
			t.Errorf("Frame.Viewport = %+v", f.Viewport)
		}
		if p.State() != glpipe.StateDrawing {
			t.Errorf("State() inside Render = %v, want drawing", p.State())
		}
		f.Uniform("u_color").SetColor(glpipe.RGB(1, 0, 0))
		return f.DrawTriangles(0, 6)
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if p.State() != glpipe.StateReady {
		t.Errorf("State() after Render = %v, want ready", p.State())
	}
	fb := dev.Framebuffer()
	if fb.Width() != 20 || fb.Height() != 10 {
		t.Fatalf("canvas = %dx%d, want 20x10", fb.Width(), fb.Height())
	}
	if got := fb.Count(red); got != 20 {
		t.Errorf("red pixels = %d, want 20", got)
	}
	if got := fb.Count(color.NRGBA{B: 255, A: 255}); got != 200-20 {
		t.Errorf("clear pixels = %d, want %d", got, 200-20)
	}
	if fb.Pixel(2, 3) != red || fb.Pixel(5, 7) != red {
		t.Error("rectangle corners not drawn")
	}
	if code := dev.Err(); code != soft.NoError {
		t.Errorf("Err() = %v", code)
	}
}

func TestFrameUploadAndDraw(t *testing.T) {
	dev := newDevice(8, 8)
	p := readyPipeline(t, dev, nil)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	err := p.Render(func(f *glpipe.Frame) error {
		f.Uniform("u_color").SetColor(glpipe.RGB(1, 1, 1))
		f.Upload(glpipe.RectangleTriangles(0, 0, 2, 2))
		if err := f.DrawTriangles(0, 6); err != nil {
			return err
		}
		f.Upload(glpipe.RectangleTriangles(4, 4, 3, 1))
		if err := f.DrawTriangles(0, 6); err != nil {
			return err
		}
		if f.Draws() != 2 {
			t.Errorf("Draws() = %d, want 2", f.Draws())
		}
		return f.DrawTriangles(-1, 3)
	})
	if err == nil {
		t.Fatal("Render() accepted a negative draw range")
	}
	if got := dev.Framebuffer().Count(white); got != 4+3 {
		t.Errorf("white pixels = %d, want 7", got)
	}
	if p.Buffer().Len() != 12 {
		t.Errorf("Buffer().Len() = %d, want 12", p.Buffer().Len())
	}
	if p.State() != glpipe.StateReady {
		t.Errorf("State() = %v after a failed frame, want ready", p.State())
	}
}

func TestPipelineResolvesUniformsOnce(t *testing.T) {
	dev := newDevice(8, 8)
	p := readyPipeline(t, dev, glpipe.RectangleTriangles(0, 0, 1, 1))
	for range 5 {
		err := p.Render(func(f *glpipe.Frame) error {
			f.Uniform("u_color").SetColor(glpipe.RGB(0, 1, 0))
			f.Uniform("u_unused").Set1f(3)
			return f.DrawTriangles(0, 6)
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	if got := dev.UniformLookups(); got != 3 {
		t.Errorf("UniformLookups() = %d over 5 frames, want 3", got)
	}
}

func TestResize(t *testing.T) {
	c := soft.NewCanvas(10, 10)
	tests := []struct {
		w, h    int
		changed bool
	}{
		{10, 10, false},
		{20, 10, true},
		{20, 10, false},
		{0, 5, false},
		{5, -1, false},
	}
	for _, tt := range tests {
		if got := glpipe.Resize(c, tt.w, tt.h); got != tt.changed {
			t.Errorf("Resize(%d, %d) = %t, want %t", tt.w, tt.h, got, tt.changed)
		}
	}
	if vp := glpipe.CanvasViewport(c); vp != (glpipe.Viewport{Width: 20, Height: 10}) {
		t.Errorf("CanvasViewport() = %+v, want 20x10", vp)
	}
	if c.Resizes() != 1 {
		t.Errorf("Resizes() = %d, want 1", c.Resizes())
	}
}
