package scan

import "math"

// FDot8 is a 24.8 fixed-point window coordinate. Vertices snap to 1/256
// of a pixel so that edge functions are evaluated exactly.
type FDot8 int64

const (
	// FDot8Shift is the number of fractional bits in FDot8.
	FDot8Shift = 8
	// FDot8One represents 1.0 in FDot8 format (256).
	FDot8One FDot8 = 1 << FDot8Shift
	// FDot8Half represents 0.5, the offset of a pixel center.
	FDot8Half = FDot8One / 2
)

// FloatToFDot8 rounds f to the nearest FDot8.
func FloatToFDot8(f float64) FDot8 {
	return FDot8(math.Round(f * float64(FDot8One)))
}

// FDot8ToFloat converts FDot8 to float64.
func FDot8ToFloat(f FDot8) float64 {
	return float64(f) / float64(FDot8One)
}

// FDot8Floor returns the floor of f as an integer.
func FDot8Floor(f FDot8) int {
	return int(f >> FDot8Shift)
}

// FDot8Ceil returns the ceiling of f as an integer.
func FDot8Ceil(f FDot8) int {
	return int((f + FDot8One - 1) >> FDot8Shift)
}

// PixelCenter returns the center of pixel i.
func PixelCenter(i int) FDot8 {
	return FDot8(i)<<FDot8Shift + FDot8Half
}
