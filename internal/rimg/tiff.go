// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package rimg loads and saves a single-channel image as a 2-D
// *ndarray.Array, the CLI demo's bridge between a real file format and the
// abstract dense float64 arrays internal/sliding operates on. Grounded on
// the teacher's internal/fits/tiff16.go (ReadTIFF/WriteMonoTIFF16: bufio
// wrapping, golang.org/x/image/tiff decode/encode, min/max/gamma scaling
// on write), narrowed from the teacher's RGB-or-mono/16-bit-FITS-metadata
// version to a mono-only float64 array with no photometric metadata, since
// SPEC_FULL.md's data model is "dense float64 arrays", not FITS frames.
package rimg

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"golang.org/x/image/tiff"

	"github.com/avoyeux/rsliding/internal/ndarray"
)

// LoadGray16 reads a grayscale 16-bit TIFF into a rank-2 *ndarray.Array
// shaped [height, width], with pixel values normalised to [0,1].
func LoadGray16(fileName string) (*ndarray.Array, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := tiff.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	data := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = grayValue(img.At(bounds.Min.X+x, bounds.Min.Y+y)) / 65535.0
		}
	}
	return ndarray.Wrap([]int{height, width}, data), nil
}

// grayValue extracts a 16-bit luma value from any color.Color, converting
// RGB to grayscale with the same Rec. 709 weights the teacher's ReadTIFF
// uses when it computes running image statistics on load.
func grayValue(c color.Color) float64 {
	switch v := c.(type) {
	case color.Gray16:
		return float64(v.Y)
	case color.Gray:
		return float64(v.Y) * 257
	default:
		r, g, b, _ := c.RGBA()
		return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	}
}

// SaveGray16 writes a rank-2 array (values assumed in [0,1], NaN mapped to
// 0) as an uncompressed grayscale 16-bit TIFF, the array-oriented analogue
// of the teacher's WriteMonoTIFF16.
func SaveGray16(fileName string, data *ndarray.Array) error {
	if data.Rank() != 2 {
		return fmt.Errorf("rimg: SaveGray16 requires a rank-2 array, got rank %d", data.Rank())
	}
	height, width := data.Shape[0], data.Shape[1]

	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := data.Data[y*width+x]
			if math.IsNaN(v) || v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(v * 65535)})
		}
	}

	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()
	return tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Uncompressed, Predictor: false})
}
