package glpipe

import "golang.org/x/image/math/f32"

// Uniform is a uniform name resolved against one LinkedProgram.
//
// Setters write into the currently bound program, so the owning program
// must be in use. When the program does not declare the uniform every
// setter is a no-op.
type Uniform struct {
	Name string

	dev Device
	loc UniformLocation
}

// Active reports whether the uniform resolved to a location.
func (u *Uniform) Active() bool {
	return u != nil && u.loc.Valid()
}

// Location returns the resolved driver location (possibly invalid).
func (u *Uniform) Location() UniformLocation {
	return u.loc
}

// Set1f pushes a float.
func (u *Uniform) Set1f(x float32) {
	if !u.Active() {
		return
	}
	u.dev.Uniform1f(u.loc, x)
}

// Set2f pushes a vec2.
func (u *Uniform) Set2f(x, y float32) {
	if !u.Active() {
		return
	}
	u.dev.Uniform2f(u.loc, x, y)
}

// Set4f pushes a vec4.
func (u *Uniform) Set4f(x, y, z, w float32) {
	if !u.Active() {
		return
	}
	u.dev.Uniform4f(u.loc, x, y, z, w)
}

// SetVec2 pushes v as a vec2.
func (u *Uniform) SetVec2(v f32.Vec2) {
	u.Set2f(v[0], v[1])
}

// SetVec4 pushes v as a vec4.
func (u *Uniform) SetVec4(v f32.Vec4) {
	u.Set4f(v[0], v[1], v[2], v[3])
}

// SetColor pushes c as a vec4 in RGBA order.
func (u *Uniform) SetColor(c RGBA) {
	u.Set4f(c.R, c.G, c.B, c.A)
}
