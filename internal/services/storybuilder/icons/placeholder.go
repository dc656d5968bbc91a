package icons

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

const placeholderSize = 120

var (
	placeholderBackground = color.RGBA{R: 0xE3, G: 0xF2, B: 0xFD, A: 0xFF}
	placeholderInk        = color.RGBA{R: 0x21, G: 0x96, B: 0xF3, A: 0xFF}
)

var placeholderPNG = sync.OnceValue(func() []byte {
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	const border = 3
	for y := 0; y < placeholderSize; y++ {
		for x := 0; x < placeholderSize; x++ {
			c := placeholderBackground
			if x < border || y < border || x >= placeholderSize-border || y >= placeholderSize-border {
				c = placeholderInk
			}
			img.SetRGBA(x, y, c)
		}
	}
	for _, cx := range []int{40, 60, 80} {
		fillCircle(img, cx, 60, 8, placeholderInk)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic("encode placeholder icon: " + err.Error())
	}
	return buf.Bytes()
})

// Placeholder returns the PNG stored in pending slots and served at
// /static/loading-icon.png. Callers must not modify the slice.
func Placeholder() []byte {
	return placeholderPNG()
}

// IsPlaceholder reports whether payload is byte-for-byte the placeholder.
func IsPlaceholder(payload []byte) bool {
	return len(payload) > 0 && bytes.Equal(payload, Placeholder())
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}
