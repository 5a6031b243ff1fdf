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

package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forensicanalysis/imfinder"
	"github.com/forensicanalysis/imfinder/report"
	"github.com/forensicanalysis/imfinder/telegram"
)

func registry() *imfinder.Registry {
	r := imfinder.NewRegistry()
	if err := r.Register(telegram.Platform()); err != nil {
		panic(err)
	}
	return r
}

// Run is the imfinder run commandline subcommand
func Run() *cobra.Command {
	var platform, format, output string
	var validate, verbose bool
	runCommand := &cobra.Command{
		Use:   "run <capture-dir>",
		Short: "Recover instant messaging artifacts from a memory capture",
		Args:  requireOneCapture,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zap.NewNop()
			if verbose {
				var err error
				log, err = zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer log.Sync() // nolint: errcheck
			}

			pipeline := imfinder.NewPipeline(registry(), log)
			result, err := pipeline.Run(cmd.Context(), platform, cmd.Flags().Args()[0])
			if err != nil {
				return err
			}

			var validator *report.Validator
			if validate {
				validator, err = report.NewValidator()
				if err != nil {
					return err
				}
			}

			switch format {
			case "json":
				out := cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					out = f
				}
				if err := report.NewJSONWriter(out, validator).Write(result.Artifacts); err != nil {
					return err
				}
			case "sqlite":
				if output == "" {
					return errors.New("sqlite format requires --output")
				}
				writer, err := report.NewSQLiteWriter(output, validator)
				if err != nil {
					return err
				}
				if err := writer.Write(result.Artifacts); err != nil {
					writer.Close() // nolint: errcheck
					return err
				}
				if err := writer.Close(); err != nil {
					return err
				}
			case "none":
			default:
				return errors.Errorf("unknown format %s", format)
			}

			cmd.PrintErrf(
				"%s: %d hits, %d records, %d artifacts\n",
				result.State, result.Stats.Hits, result.Stats.Decoded, len(result.Artifacts),
			)
			return nil
		},
	}
	runCommand.Flags().StringVar(&platform, "platform", telegram.Name, "messaging platform to recover")
	runCommand.Flags().StringVar(&format, "format", "json", "report format (json, sqlite, none)")
	runCommand.Flags().StringVar(&output, "output", "", "report destination, stdout if unset")
	runCommand.Flags().BoolVar(&validate, "validate", false, "validate report records")
	runCommand.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	return runCommand
}

// Platforms is the imfinder platforms commandline subcommand
func Platforms() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the supported messaging platforms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range registry().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func requireOneCapture(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("requires exactly one capture directory")
	}
	for _, arg := range args {
		if _, err := os.Stat(arg); os.IsNotExist(err) {
			return errors.Wrap(os.ErrNotExist, arg)
		}
	}
	return nil
}
