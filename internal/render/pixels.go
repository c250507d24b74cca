// Package render converts spin cells into pixels.
package render

import "image/color"

// Default spin colours.
var (
	UpColor   = color.RGBA{R: 236, G: 232, B: 220, A: 255}
	DownColor = color.RGBA{R: 28, G: 44, B: 82, A: 255}
)

// fillSpinRGBA converts spin cells (1 up, 0 down) into RGBA pixels in buf.
// buf must hold 4 bytes per cell.
func fillSpinRGBA(buf []byte, cells []uint8, up, down color.Color) {
	rUp, gUp, bUp, aUp := up.RGBA()
	rDn, gDn, bDn, aDn := down.RGBA()
	for i, c := range cells {
		base := i * 4
		if c != 0 {
			buf[base+0] = uint8(rUp >> 8)
			buf[base+1] = uint8(gUp >> 8)
			buf[base+2] = uint8(bUp >> 8)
			buf[base+3] = uint8(aUp >> 8)
			continue
		}
		buf[base+0] = uint8(rDn >> 8)
		buf[base+1] = uint8(gDn >> 8)
		buf[base+2] = uint8(bDn >> 8)
		buf[base+3] = uint8(aDn >> 8)
	}
}
