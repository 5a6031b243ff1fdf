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

// Package imfinder recovers instant messaging artifacts (accounts, contacts,
// conversations, messages) from raw memory captures of a running process. It
// is meant for investigations where the on-disk storage of an application is
// encrypted, deleted or otherwise unavailable, but a memory dump could be
// acquired.
//
// The reconstruction pipeline
//
// A run turns an unstructured byte stream into typed artifact objects in four
// stages, each interchangeable per target application behind a shared
// contract:
//     Scanning      an Extractor locates byte signatures in the capture and
//                   produces Hits
//     Decoding      an Analyzer interprets the bytes around each Hit into a
//                   DecodedRecord, tolerating partial corruption
//     Organizing    an Organizer links and deduplicates the records of one
//                   run into OrganizedData
//     Constructing  a Factory builds the final Artifact objects
//
// One Extractor, Analyzer, Organizer and Factory are bound atomically to a
// platform identifier in a Registry. Record level problems reduce the yield
// of a run and are counted in the run statistics, they never abort the run.
// Only capture level failures are fatal.
//
// Usage
//
// Register a platform and run the pipeline:
//
//     registry := imfinder.NewRegistry()
//     _ = registry.Register(telegram.Platform())
//
//     pipeline := imfinder.NewPipeline(registry, logger)
//     result, err := pipeline.Run(ctx, "telegram-desktop", "dump/")
//
// The resulting artifacts expose a format neutral report representation that
// an external reporter can serialize.
package imfinder
