package images

import (
	"image/color"
	"testing"
)

var rectSVG = []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50" fill="#000000"/></svg>`)

func TestRasterizeSVG(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"intrinsic", 0, 0, 100, 50},
		{"scale_by_width", 200, 0, 200, 100},
		{"scale_by_height", 0, 200, 400, 200},
		{"fit_box", 150, 150, 150, 75},
		{"clamped", 100000, 0, 4096, 2048},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := RasterizeSVG(rectSVG, tt.w, tt.h, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.Bounds().Dx() != tt.wantW || img.Bounds().Dy() != tt.wantH {
				t.Fatalf("unexpected bounds: %v", img.Bounds())
			}
		})
	}
}

func TestRasterizeSVGBackground(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect x="0" y="0" width="5" height="5" fill="#000000"/></svg>`)
	img, err := RasterizeSVG(svg, 0, 0, color.White)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := img.At(9, 9).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("background pixel = %v %v %v %v, want white", r, g, b, a)
	}
}

func TestRasterizeSVGBroken(t *testing.T) {
	if _, err := RasterizeSVG([]byte("<svg"), 10, 10, nil); err == nil {
		t.Error("expected error")
	}
}

func TestIsSVG(t *testing.T) {
	if !IsSVG(rectSVG) {
		t.Error("IsSVG() = false for svg")
	}
	if IsSVG([]byte{0xff, 0xd8, 0xff}) {
		t.Error("IsSVG() = true for jpeg")
	}
}
