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

// Command acsplan chooses the AC transform of every block of one or more
// images and reports how often each transform was used.
//
// Usage:
//
//	acsplan [flags] image...
//
// Images are read as sRGB in any of PNG, JPEG, GIF, BMP, TIFF or WebP. With
// --viz-dir a PNG legend of the chosen transforms is written per image, with
// --grid-dir the strategy grid itself.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-jxlenc/hwy"
	"github.com/ajroetker/go-jxlenc/hwy/contrib/workerpool"
	"github.com/ajroetker/go-jxlenc/jxl/acplan"
)

type options struct {
	distance float32
	speed    acplan.SpeedTier
	workers  int
	files    int
	vizDir   string
	vizScale int
	gridDir  string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := options{speed: acplan.Squirrel}
	cmd := &cobra.Command{
		Use:           "acsplan [flags] image...",
		Short:         "Plan the AC transforms of images",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts, args)
		},
	}
	f := cmd.Flags()
	f.Float32VarP(&opts.distance, "distance", "d", 1.0, "butteraugli distance target")
	f.VarP(&opts.speed, "speed", "s", "speed tier, tortoise (1) to falcon (7)")
	f.IntVarP(&opts.workers, "workers", "j", runtime.GOMAXPROCS(0), "worker goroutines per image pass")
	f.IntVar(&opts.files, "files", 2, "images planned at the same time")
	f.StringVar(&opts.vizDir, "viz-dir", "", "write a transform legend PNG per image here")
	f.IntVar(&opts.vizScale, "viz-scale", 1, "legend enlargement factor")
	f.StringVar(&opts.gridDir, "grid-dir", "", "write the strategy grid per image here")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log each plan")
	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	if !(opts.distance > 0) {
		return fmt.Errorf("--distance must be positive, got %v", opts.distance)
	}
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if opts.vizDir != "" || opts.gridDir != "" {
		// Outputs are named after the input, so two inputs must not share one.
		seen := make(map[string]string, len(args))
		for _, path := range args {
			name := outputName(path)
			if prev, ok := seen[name]; ok {
				return fmt.Errorf("%s and %s would both write outputs named %q", prev, path, name)
			}
			seen[name] = path
		}
	}
	for _, dir := range []string{opts.vizDir, opts.gridDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	pool := workerpool.New(opts.workers)
	defer pool.Close()
	logger.Debug("starting", "simd", hwy.CurrentName(), "width", hwy.CurrentWidth(),
		"workers", pool.NumWorkers(), "tier", opts.speed)

	summaries := make([]string, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(opts.files, 1))
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := planFile(path, opts, pool, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			summaries[i] = s
			return nil
		})
	}
	err := g.Wait()
	for i, s := range summaries {
		if s != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[i], s)
		}
	}
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
