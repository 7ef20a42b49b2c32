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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pbnjay/memory"
	"github.com/valyala/fastrand"

	"github.com/avoyeux/rsliding/internal/kernel"
	"github.com/avoyeux/rsliding/internal/ndarray"
	"github.com/avoyeux/rsliding/internal/rimg"
	"github.com/avoyeux/rsliding/internal/rlog"
	"github.com/avoyeux/rsliding/internal/restapi"
	"github.com/avoyeux/rsliding/internal/sliding"
)

const version = "0.1.0"

var totalMiBs = memory.TotalMemory() / 1024 / 1024

var job    = flag.String("job", "", "JSON job specification to run, for the `run` command")
var log    = flag.String("log", "", "mirror log output to `file`, in addition to stdout")

var addr   = flag.String("addr", "", "address to serve HTTP API on, blank = 0.0.0.0:8080")
var chroot = flag.String("chroot", "", "directory to chroot and chdir to when serving HTTP. must be run as root")
var setuid = flag.Int64("setuid", -1, "user id number to setuid to when serving HTTP. must be run as root")

var shape   = flag.String("shape", "512,512", "comma-separated array shape for the `bench` command")
var kSize   = flag.Int64("kernel", 5, "odd kernel size (cubic, all-ones) for `bench`/`image`")
var benchOp = flag.String("op", "mean", "operation to exercise: mean|median|stddev|convolution")
var threads = flag.Int64("threads", 0, "worker count, 0 = runtime.NumCPU()")
var nanFrac = flag.Float64("nanfrac", 0.0, "fraction of synthetic `bench` samples to seed as NaN")
var benchCapMiB = flag.Int64("benchCapMiB", int64((totalMiBs*7)/10), "cap synthetic bench array size to this many MiB, default=0.7x physical memory")

var imgIn  = flag.String("in", "", "input TIFF file for the `image` command")
var imgOut = flag.String("out", "out.tiff", "output TIFF file for the `image` command")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stdout, `rslide copyright (c) 2020
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (run|bench|serve|image|version)

Commands:
  run     Run a JSON job from the file specified by -job
  bench   Benchmark a sliding operation over a synthetic array
  serve   Start the HTTP API
  image   Load a grayscale TIFF, apply a sliding operation, save the result
  version Show version information

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *log != "" {
		if err := rlog.AlsoToFile(*log); err != nil {
			fmt.Fprintf(os.Stderr, "Unable to open log file %s: %s\n", *log, err.Error())
			os.Exit(1)
		}
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	var err error
	start := time.Now()
	switch args[0] {
	case "run":
		err = runCommand()
	case "bench":
		err = benchCommand()
	case "serve":
		err = serveCommand()
	case "image":
		err = imageCommand()
	case "version":
		rlog.Printf("rslide %s\n", version)
	case "help", "?":
		flag.Usage()
	default:
		rlog.Printf("Unknown command %q\n\n", args[0])
		flag.Usage()
		return
	}

	if err != nil {
		rlog.Printf("Error: %s\n", err.Error())
		rlog.Sync()
		os.Exit(1)
	}
	rlog.Printf("Done after %s\n", time.Since(start).Round(time.Millisecond))
	rlog.Sync()
}

func runCommand() error {
	if *job == "" {
		return fmt.Errorf("run: -job is required")
	}
	content, err := os.ReadFile(*job)
	if err != nil {
		return fmt.Errorf("run: opening %s: %w", *job, err)
	}
	var req restapi.JobRequest
	if err := json.Unmarshal(content, &req); err != nil {
		return fmt.Errorf("run: parsing %s: %w", *job, err)
	}
	resp, err := restapi.RunJob(req)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	rlog.Printf("%s\n", string(out))
	return nil
}

func serveCommand() error {
	if err := restapi.MakeSandbox(*chroot, int(*setuid)); err != nil {
		return err
	}
	return restapi.Serve(*addr)
}

func imageCommand() error {
	if *imgIn == "" {
		return fmt.Errorf("image: -in is required")
	}
	data, err := rimg.LoadGray16(*imgIn)
	if err != nil {
		return err
	}
	k, err := kernel.FromSize(int(*kSize), data.Rank())
	if err != nil {
		return err
	}
	out, err := applyOp(*benchOp, data, k)
	if err != nil {
		return err
	}
	rlog.Printf("Loaded %s (%v), applying %s with kernel size %d\n", *imgIn, data.Shape, *benchOp, *kSize)
	return rimg.SaveGray16(*imgOut, out)
}

func benchCommand() error {
	dims, err := parseShape(*shape)
	if err != nil {
		return err
	}
	n := ndarray.NumElements(dims)
	capElems := int(*benchCapMiB) * 1024 * 1024 / 8 // float64 = 8 bytes
	if capElems <= 0 {
		capElems = int(256) * 1024 * 1024 / 8 // 256 MiB fallback, matches the teacher's "degrade to a fixed constant" posture when TotalMemory() reports 0
	}
	if n > capElems {
		return fmt.Errorf("bench: shape %v (%d elements) exceeds cap of %d elements (%d MiB); lower -shape or raise -benchCapMiB", dims, n, capElems, *benchCapMiB)
	}

	data := ndarray.New(dims)
	rng := fastrand.RNG{}
	for i := range data.Data {
		if *nanFrac > 0 && rng.Float32() < float32(*nanFrac) {
			data.Data[i] = math.NaN()
			continue
		}
		data.Data[i] = float64(rng.Uint32n(1 << 20)) / (1 << 20)
	}

	k, err := kernel.FromSize(int(*kSize), data.Rank())
	if err != nil {
		return err
	}

	start := time.Now()
	if _, err := applyOp(*benchOp, data, k); err != nil {
		return err
	}
	elapsed := time.Since(start)
	rlog.Printf("bench: op=%s shape=%v kernel=%d threads=%d elapsed=%s (%.1f Mcells/s)\n",
		*benchOp, dims, *kSize, *threads, elapsed, float64(n)/1e6/elapsed.Seconds())
	return nil
}

func applyOp(op string, data *ndarray.Array, k kernel.Spec) (*ndarray.Array, error) {
	var th *int
	if *threads > 0 {
		t := int(*threads)
		th = &t
	}
	switch op {
	case "mean":
		return sliding.SlidingMean(data, k, sliding.BorderReplicate, 0, false, th)
	case "median":
		return sliding.SlidingMedian(data, k, sliding.BorderReplicate, 0, th)
	case "convolution":
		return sliding.Convolution(data, k, sliding.BorderReplicate, 0, false, th)
	case "stddev":
		out, _, err := sliding.SlidingStdDev(data, k, sliding.BorderReplicate, 0, false, th)
		return out, err
	default:
		return nil, fmt.Errorf("unknown op %q: want one of mean|median|convolution|stddev", op)
	}
}

func parseShape(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	dims := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("bench: invalid -shape %q: %s must be a positive integer", s, p)
		}
		dims[i] = v
	}
	return dims, nil
}
