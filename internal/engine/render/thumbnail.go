package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

const (
	// Thumbnails are encoded a little larger, then downscaled for crispness.
	ThumbnailEncodeWidth = 192
	ThumbnailSize        = 128
)

// EncodeThumbnail renders content at ThumbnailEncodeWidth and downsamples it
// to an exact ThumbnailSize square PNG.
func EncodeThumbnail(content string, o Options) ([]byte, error) {
	o.Width = ThumbnailEncodeWidth
	src, err := EncodeImage(content, o)
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, ThumbnailSize, ThumbnailSize))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	return encodePNG(dst)
}
