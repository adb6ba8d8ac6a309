package glpipe

// VertexBuffer is a driver-resident array of float32 vertex data.
type VertexBuffer struct {
	dev    Device
	handle Buffer
	size   int
}

// NewVertexBuffer allocates an empty buffer object.
func NewVertexBuffer(dev Device) *VertexBuffer {
	return &VertexBuffer{dev: dev, handle: dev.CreateBuffer()}
}

// Handle returns the driver buffer object.
func (b *VertexBuffer) Handle() Buffer {
	return b.handle
}

// Bind binds the buffer to the array-data target. Attribute layouts
// declared afterwards read from this buffer.
func (b *VertexBuffer) Bind() {
	b.dev.BindBuffer(ArrayBuffer, b.handle)
}

// Upload replaces the whole buffer contents with vertices, laid out for
// static access. The buffer is bound first, so it is also the array-data
// binding afterwards.
func (b *VertexBuffer) Upload(vertices []float32) {
	b.Bind()
	b.dev.BufferData(ArrayBuffer, vertices, StaticDraw)
	b.size = len(vertices)
	Logger().Debug("vertex buffer uploaded", "floats", len(vertices))
}

// Len returns the number of floats last uploaded.
func (b *VertexBuffer) Len() int {
	return b.size
}
