package glpipe

// Option configures LinkProgram and NewPipeline.
//
// Example:
//
//	p := glpipe.NewPipeline(dev, canvas,
//	    glpipe.WithCanvasSize(400, 300),
//	    glpipe.WithClearColor(glpipe.Transparent),
//	)
type Option func(*options)

type options struct {
	clearColor        RGBA
	width, height     int
	resolutionUniform string
	releaseShaders    bool
}

// DefaultResolutionUniform is the uniform that receives the canvas size
// on every frame.
const DefaultResolutionUniform = "u_resolution"

func defaultOptions() options {
	return options{
		clearColor:        Transparent,
		resolutionUniform: DefaultResolutionUniform,
		releaseShaders:    true,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClearColor sets the color the canvas is cleared to before drawing.
func WithClearColor(c RGBA) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithCanvasSize resizes the canvas to width×height pixels at the start
// of every frame. Without it the canvas keeps its current size.
func WithCanvasSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithResolutionUniform renames the uniform receiving the canvas size.
// An empty name disables the push.
func WithResolutionUniform(name string) Option {
	return func(o *options) {
		o.resolutionUniform = name
	}
}

// WithShaderRelease controls whether shader objects are deleted after a
// successful link. The default is true.
func WithShaderRelease(release bool) Option {
	return func(o *options) {
		o.releaseShaders = release
	}
}
