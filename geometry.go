package glpipe

// RectangleTriangles expands the rectangle (x, y, width, height) into six
// 2D points forming two triangles:
//
//	(x, y), (x+w, y), (x, y+h),
//	(x, y+h), (x+w, y), (x+w, y+h)
func RectangleTriangles(x, y, width, height float32) []float32 {
	return AppendRectangle(make([]float32, 0, 12), x, y, width, height)
}

// AppendRectangle appends the six points of RectangleTriangles to dst.
func AppendRectangle(dst []float32, x, y, width, height float32) []float32 {
	x1, x2 := x, x+width
	y1, y2 := y, y+height
	return append(dst,
		x1, y1,
		x2, y1,
		x1, y2,
		x1, y2,
		x2, y1,
		x2, y2,
	)
}

// VertexCount returns how many vertices of the given component count a flat
// float slice holds.
func VertexCount(vertices []float32, components int) int {
	if components <= 0 {
		return 0
	}
	return len(vertices) / components
}
