//go:build js && wasm

package webgl

import (
	"fmt"
	"syscall/js"
)

// Canvas wraps an HTMLCanvasElement.
type Canvas struct {
	el js.Value
}

// NewCanvas wraps el, which must be a <canvas> element.
func NewCanvas(el js.Value) *Canvas {
	return &Canvas{el: el}
}

// FindCanvas returns the canvas element with the given id.
func FindCanvas(id string) (*Canvas, error) {
	el := js.Global().Get("document").Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, fmt.Errorf("webgl: no element with id %q", id)
	}
	return NewCanvas(el), nil
}

// CreateCanvas appends a new width×height canvas to the document body.
func CreateCanvas(width, height int) *Canvas {
	doc := js.Global().Get("document")
	el := doc.Call("createElement", "canvas")
	doc.Get("body").Call("appendChild", el)
	c := NewCanvas(el)
	c.SetSize(width, height)
	return c
}

// Element returns the wrapped element.
func (c *Canvas) Element() js.Value {
	return c.el
}

// Size returns the drawing-buffer size.
func (c *Canvas) Size() (width, height int) {
	return c.el.Get("width").Int(), c.el.Get("height").Int()
}

// SetSize sets the CSS display size and the drawing-buffer size to the
// same pixel dimensions.
func (c *Canvas) SetSize(width, height int) {
	style := c.el.Get("style")
	style.Set("width", fmt.Sprintf("%dpx", width))
	style.Set("height", fmt.Sprintf("%dpx", height))
	c.el.Set("width", width)
	c.el.Set("height", height)
}
