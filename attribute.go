package glpipe

import (
	"errors"
	"fmt"
)

// AttributeLayout describes how a vertex input slot reads floats out of
// the buffer bound to the array-data target.
//
// A layout that does not match the buffer contents renders garbage; it is
// not detected as an error.
type AttributeLayout struct {
	Slot       int
	Components int
	Type       ElementType
	Normalize  bool
	// Stride is the byte distance between vertices; 0 means tightly packed.
	Stride int
	// Offset is the byte offset of the first component.
	Offset int
}

// PackedLayout returns a tightly packed float32 layout of the given
// component count starting at the beginning of the buffer.
func PackedLayout(slot, components int) AttributeLayout {
	return AttributeLayout{
		Slot:       slot,
		Components: components,
		Type:       Float32,
	}
}

// Validate checks the layout against the limits WebGL2 enforces.
func (l AttributeLayout) Validate() error {
	var errs []error
	if l.Slot < 0 {
		errs = append(errs, fmt.Errorf("slot %d is negative", l.Slot))
	}
	if l.Components < 1 || l.Components > 4 {
		errs = append(errs, fmt.Errorf("components %d outside [1, 4]", l.Components))
	}
	if l.Type != Float32 {
		errs = append(errs, fmt.Errorf("element type %#x is not FLOAT", uint32(l.Type)))
	}
	if l.Stride < 0 || l.Stride > 255 {
		errs = append(errs, fmt.Errorf("stride %d outside [0, 255]", l.Stride))
	}
	if l.Offset < 0 {
		errs = append(errs, fmt.Errorf("offset %d is negative", l.Offset))
	}
	if sz := l.Type.Size(); sz > 0 && (l.Stride%sz != 0 || l.Offset%sz != 0) {
		errs = append(errs, fmt.Errorf("stride %d / offset %d not aligned to %d bytes", l.Stride, l.Offset, sz))
	}
	if len(errs) > 0 {
		return fmt.Errorf("glpipe: invalid attribute layout: %w", errors.Join(errs...))
	}
	return nil
}

// BindAttribute enables the layout's slot and declares its read pattern
// against the buffer currently bound to the array-data target. The state
// is recorded in the currently bound vertex array. Binding the same layout
// again leaves the state unchanged.
func BindAttribute(dev Device, l AttributeLayout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	dev.EnableVertexAttribArray(l.Slot)
	dev.VertexAttribPointer(l.Slot, l.Components, l.Type, l.Normalize, l.Stride, l.Offset)
	return nil
}
