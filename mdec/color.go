/*
NAME
  color.go

DESCRIPTION
  color.go converts the decoder's planar YCbCr 4:2:0 output to 32bpp RGB,
  with selectable chroma upsampling and color matrix, per spec.md §4.3.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mdec

// ColorMatrix selects the YCbCr -> RGB coefficient set.
type ColorMatrix int

const (
	// Rec601 uses the ITU-R BT.601 studio-range coefficients.
	Rec601 ColorMatrix = iota
	// FullRangeJFIF uses the full-range JFIF coefficients (as embedded in
	// baseline JPEG/JFIF files).
	FullRangeJFIF
)

// ChromaUpsampling selects how 4:2:0 chroma is interpolated back to 4:4:4
// before color conversion. Only QualityHigh honors anything but
// NearestNeighbor; QualityLow and QualityPsxExact always use
// NearestNeighbor.
type ChromaUpsampling int

const (
	NearestNeighbor ChromaUpsampling = iota
	Bilinear
	Bicubic
)

func clampByte(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ycbcrToRGB converts one Y/Cb/Cr triple (Y in 0..255, Cb/Cr in -128..127)
// to RGB using the given matrix.
func ycbcrToRGB(y, cb, cr int32, m ColorMatrix) (r, g, b uint8) {
	switch m {
	case FullRangeJFIF:
		r = clampByte(y + (91881*cr)/65536)
		g = clampByte(y - (22554*cb+46802*cr)/65536)
		b = clampByte(y + (116130*cb)/65536)
	default: // Rec601
		r = clampByte(y + (104597*cr)/65536)
		g = clampByte(y - (25675*cb+53279*cr)/65536)
		b = clampByte(y + (132201*cb)/65536)
	}
	return
}

// upsampleChroma returns the Cb/Cr value for full-resolution pixel (x, y)
// given 4:2:0 planes of size (w/2)x(h/2), per the configured upsampling
// method.
func upsampleChroma(plane []byte, pw, ph, x, y int, method ChromaUpsampling) int32 {
	cx, cy := x/2, y/2
	switch method {
	case Bilinear:
		fx, fy := x%2, y%2
		x0, y0 := cx, cy
		x1, y1 := cx, cy
		if fx == 1 && cx+1 < pw {
			x1 = cx + 1
		}
		if fy == 1 && cy+1 < ph {
			y1 = cy + 1
		}
		p00 := int32(plane[y0*pw+x0]) - 128
		p10 := int32(plane[y0*pw+x1]) - 128
		p01 := int32(plane[y1*pw+x0]) - 128
		p11 := int32(plane[y1*pw+x1]) - 128
		return (p00 + p10 + p01 + p11) / 4
	case Bicubic:
		return bicubicChroma(plane, pw, ph, cx, cy, x%2, y%2)
	default: // NearestNeighbor
		return int32(plane[cy*pw+cx]) - 128
	}
}

// bicubicChroma performs a 4x4 Catmull-Rom convolution around (cx, cy),
// offset by the half-pixel fraction implied by the full-res sub-position.
func bicubicChroma(plane []byte, pw, ph, cx, cy, fx, fy int) int32 {
	samp := func(xi, yi int) float64 {
		if xi < 0 {
			xi = 0
		}
		if xi >= pw {
			xi = pw - 1
		}
		if yi < 0 {
			yi = 0
		}
		if yi >= ph {
			yi = ph - 1
		}
		return float64(plane[yi*pw+xi]) - 128
	}
	cubic := func(p0, p1, p2, p3, t float64) float64 {
		a0 := -0.5*p0 + 1.5*p1 - 1.5*p2 + 0.5*p3
		a1 := p0 - 2.5*p1 + 2*p2 - 0.5*p3
		a2 := -0.5*p0 + 0.5*p2
		a3 := p1
		return ((a0*t+a1)*t+a2)*t + a3
	}
	tx := float64(fx) / 2
	ty := float64(fy) / 2
	var rows [4]float64
	for j := -1; j <= 2; j++ {
		rows[j+1] = cubic(samp(cx-1, cy+j), samp(cx, cy+j), samp(cx+1, cy+j), samp(cx+2, cy+j), tx)
	}
	v := cubic(rows[0], rows[1], rows[2], rows[3], ty)
	return int32(v + 0.5)
}
