// Package images prepares raster images for generated sites.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/Whale619/novel-site/common"
)

// Decode reads raster or SVG image. SVG is rendered at w x h (fit).
func Decode(data []byte, w, h int) (image.Image, string, error) {
	if IsSVG(data) {
		img, err := RasterizeSVG(data, w, h, color.White)
		if err != nil {
			return nil, "", fmt.Errorf("unable to rasterize svg: %w", err)
		}
		return img, "svg", nil
	}
	img, kind, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode image: %w", err)
	}
	return img, kind, nil
}

// Resize scales image according to mode. keepAR makes image exactly h pixels
// high, stretch makes it exactly w x h.
func Resize(img image.Image, mode common.ImageResizeMode, w, h int) image.Image {
	b := img.Bounds()
	switch mode {
	case common.ImageResizeModeKeepAR:
		if b.Dy() == h {
			return img
		}
		return imaging.Resize(img, 0, h, imaging.Lanczos)
	case common.ImageResizeModeStretch:
		if b.Dx() == w && b.Dy() == h {
			return img
		}
		return imaging.Resize(img, w, h, imaging.Lanczos)
	}
	return img
}

// EncodeJPEG flattens transparency over white and encodes result.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Point{}, 1.0)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, flat, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func EncodePNG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
