package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// WritePNG encodes img and writes it to path, creating or truncating the
// file.
func WritePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: creating %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("render: encoding %s: %w", path, err)
	}
	return nil
}
