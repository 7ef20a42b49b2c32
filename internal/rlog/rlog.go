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

// Package rlog is a singleton log writer for cmd/rslide and
// internal/restapi. It writes to stdout and, optionally, mirrors to a
// file. The core engine (internal/sliding and everything it wraps) never
// imports this package - a numerics library has no business owning a
// process-wide log target.
package rlog

import (
	"bufio"
	"fmt"
	"os"
)

var fileWriter *bufio.Writer
var fileHandle *os.File

// AlsoToFile enables mirroring every subsequent Print/Printf/Fatal call to
// fileName, truncating it first. Calling it again switches the mirror to a
// new file, flushing and closing the previous one.
func AlsoToFile(fileName string) (err error) {
	if fileWriter != nil {
		if err = fileWriter.Flush(); err != nil {
			return err
		}
		if err = fileHandle.Close(); err != nil {
			return err
		}
	}
	fileHandle, err = os.OpenFile(fileName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	fileWriter = bufio.NewWriter(fileHandle)
	return nil
}

// Print writes to stdout and the mirror file, if any.
func Print(args ...interface{}) (n int, err error) {
	n, err = fmt.Print(args...)
	if err != nil || fileWriter == nil {
		return n, err
	}
	return fmt.Fprint(fileWriter, args...)
}

// Println writes to stdout and the mirror file, if any.
func Println(args ...interface{}) (n int, err error) {
	n, err = fmt.Println(args...)
	if err != nil || fileWriter == nil {
		return n, err
	}
	return fmt.Fprintln(fileWriter, args...)
}

// Printf writes to stdout and the mirror file, if any.
func Printf(format string, args ...interface{}) (n int, err error) {
	n, err = fmt.Printf(format, args...)
	if err != nil || fileWriter == nil {
		return n, err
	}
	return fmt.Fprintf(fileWriter, format, args...)
}

// Fatalf writes to stdout and the mirror file, flushes and exits with
// status 1.
func Fatalf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
	if fileWriter != nil {
		fmt.Fprintf(fileWriter, format, args...)
		fileWriter.Flush()
		fileHandle.Close()
	}
	os.Exit(1)
}

// Sync flushes the mirror file to disk, if one is open.
func Sync() {
	if fileWriter == nil {
		return
	}
	fileWriter.Flush()
	fileHandle.Sync()
}
