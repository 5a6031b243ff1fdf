// Copyright (c) 2021 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

// Package imfinder implements the imfinder command line tool that recovers
// instant messaging artifacts from memory captures.
//     run        Recover instant messaging artifacts from a memory capture
//     platforms  List the supported messaging platforms
//
// Usage
//
// Recover Telegram Desktop artifacts and print them as JSON
//     imfinder run capture/
// Write the artifacts into a sqlite report
//     imfinder run --format sqlite --output report.db capture/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forensicanalysis/imfinder/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "imfinder",
		Short: "Recover instant messaging artifacts from memory captures",
	}
	rootCmd.AddCommand(cmd.Run(), cmd.Platforms())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
