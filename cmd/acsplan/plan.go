// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ajroetker/go-jxlenc/hwy/contrib/workerpool"
	"github.com/ajroetker/go-jxlenc/jxl/acplan"
	"github.com/ajroetker/go-jxlenc/jxl/cmap"
	"github.com/ajroetker/go-jxlenc/jxl/quant"
	"github.com/ajroetker/go-jxlenc/jxl/xyb"
)

// planFile plans one image and writes the requested side outputs. It
// returns a one-line summary.
func planFile(path string, opts *options, pool *workerpool.Pool, logger *slog.Logger) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decoding: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return "", fmt.Errorf("empty %s image", format)
	}

	planes := xyb.FromImage(img, pool)
	field := quant.InitialField(planes, opts.distance, pool)
	colors := cmap.New(field.Width(), field.Height())
	colors.Fit(planes)

	name := outputName(path)
	res := acplan.PlanTransformStrategy(acplan.Inputs{
		Planes:     planes,
		QuantField: field,
		ColorMap:   colors,
	}, acplan.Params{
		Distance: opts.distance,
		Speed:    opts.speed,
		Logger:   logger.With("image", name),
	}, pool)

	if opts.vizDir != "" {
		legend := acplan.RenderScaled(res.Strategy, bounds.Dx(), bounds.Dy(), opts.vizScale)
		if err := writeFile(filepath.Join(opts.vizDir, name+".acs.png"), func(f *os.File) error {
			return png.Encode(f, legend)
		}); err != nil {
			return "", err
		}
	}
	if opts.gridDir != "" {
		if err := writeFile(filepath.Join(opts.gridDir, name+".acsg"), func(f *os.File) error {
			return acplan.WriteGrid(f, res.Strategy)
		}); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%dx%d %s, %d blocks: %v",
		bounds.Dx(), bounds.Dy(), format, res.Histogram.TotalBlocks(), res.Histogram), nil
}

// outputName is the base name of the files written for the image at path.
func outputName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
