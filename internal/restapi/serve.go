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

// Package restapi exposes the six sliding-window operations as a single
// JSON POST endpoint, gin routing and error-shaping grounded on the
// teacher's internal/rest/serve.go (route grouping under /api/v1,
// gin.Default(), JSON bind-and-422-on-error), re-targeted from "bind an
// image-processing operator sequence" to "bind one sliding-window job".
package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avoyeux/rsliding/internal/rlog"
	"github.com/avoyeux/rsliding/internal/sliding"
)

// Serve starts the HTTP API on the given address ("" for gin's default
// 0.0.0.0:8080), blocking until the listener fails.
func Serve(addr string) error {
	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.POST("/job", postJob)
		}
	}
	rlog.Printf("rslide serve: listening on %s\n", addrOrDefault(addr))
	if addr == "" {
		return r.Run()
	}
	return r.Run(addr)
}

func addrOrDefault(addr string) string {
	if addr == "" {
		return "0.0.0.0:8080"
	}
	return addr
}

func getPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func postJob(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	resp, err := RunJob(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RunJob interprets req.Op and dispatches into internal/sliding, keeping
// all numeric work outside the HTTP-handling concern postJob owns. Also
// called directly by cmd/rslide's "run" subcommand, so a JSON job file can
// be replayed without going through HTTP.
func RunJob(req JobRequest) (*JobResponse, error) {
	data, err := req.Data.toArray()
	if err != nil {
		return nil, err
	}
	k, err := req.Kernel.toSpec()
	if err != nil {
		return nil, err
	}
	border, err := borderModeJSON(req.Border)
	if err != nil {
		return nil, err
	}

	switch req.Op {
	case "padding":
		out, err := sliding.Padding(data, k, border, req.PadValue)
		if err != nil {
			return nil, err
		}
		return &JobResponse{Result: fromArray(out)}, nil

	case "convolution":
		out, err := sliding.Convolution(data, k, border, req.PadValue, req.Neumaier, req.Threads)
		if err != nil {
			return nil, err
		}
		return &JobResponse{Result: fromArray(out)}, nil

	case "mean":
		out, err := sliding.SlidingMean(data, k, border, req.PadValue, req.Neumaier, req.Threads)
		if err != nil {
			return nil, err
		}
		return &JobResponse{Result: fromArray(out)}, nil

	case "median":
		out, err := sliding.SlidingMedian(data, k, border, req.PadValue, req.Threads)
		if err != nil {
			return nil, err
		}
		return &JobResponse{Result: fromArray(out)}, nil

	case "stddev":
		stddev, mean, err := sliding.SlidingStdDev(data, k, border, req.PadValue, req.Neumaier, req.Threads)
		if err != nil {
			return nil, err
		}
		meanJSON := fromArray(mean)
		return &JobResponse{Result: fromArray(stddev), Mean: &meanJSON}, nil

	case "sigma_clip":
		center := sliding.CenterMean
		if req.Center == "median" {
			center = sliding.CenterMedian
		}
		opts := sliding.SigmaClipOptions{
			Center:     center,
			SigmaLower: req.SigmaLower,
			SigmaUpper: req.SigmaUpper,
			MaxIters:   req.MaxIters,
		}
		out, mask, err := sliding.SlidingSigmaClip(data, k, opts, border, req.PadValue, req.Threads)
		if err != nil {
			return nil, err
		}
		return &JobResponse{Result: fromArray(out), Mask: mask}, nil

	default:
		return nil, &unknownOpError{op: req.Op}
	}
}

type unknownOpError struct{ op string }

func (e *unknownOpError) Error() string { return "restapi: unknown op " + e.op }
