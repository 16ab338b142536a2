package barcode

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"golang.org/x/image/draw"
)

// Encode renders text as a size x size QR code.
func Encode(text string, size int) (*image.Gray, error) {
	bm, err := qrcode.NewQRCodeWriter().Encode(text, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	if err != nil {
		return nil, fmt.Errorf("barcode: encode: %w", err)
	}
	img := image.NewGray(bm.Bounds())
	draw.Draw(img, img.Bounds(), bm, bm.Bounds().Min, draw.Src)
	return img, nil
}
