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

package imfinder

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/forensicanalysis/imfinder/capture"
)

// State is the stage a pipeline run is in. Record level failures reduce the
// yield but never change the state; only unrecoverable capture level errors
// transition to StateFailed.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateDecoding
	StateOrganizing
	StateConstructing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateDecoding:
		return "decoding"
	case StateOrganizing:
		return "organizing"
	case StateConstructing:
		return "constructing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// KindStats counts scan and decode outcomes for one record kind.
type KindStats struct {
	Hits    int `json:"hits"`
	Decoded int `json:"decoded"`
	Dropped int `json:"dropped"`
	Reduced int `json:"reduced"`
}

// RunStats is the machine readable quality summary of a run. It is returned
// even for degraded and cancelled runs.
type RunStats struct {
	Hits      int                   `json:"hits"`
	Decoded   int                   `json:"decoded"`
	Dropped   int                   `json:"dropped"`
	Reduced   int                   `json:"reduced"`
	Conflicts int                   `json:"conflicts"`
	Cancelled bool                  `json:"cancelled,omitempty"`
	Kinds     map[string]*KindStats `json:"kinds"`
}

func newRunStats() *RunStats {
	return &RunStats{Kinds: map[string]*KindStats{}}
}

func (s *RunStats) kind(kind string) *KindStats {
	ks, ok := s.Kinds[kind]
	if !ok {
		ks = &KindStats{}
		s.Kinds[kind] = ks
	}
	return ks
}

// Result is the outcome of one pipeline run.
type Result struct {
	Platform  string
	State     State
	Stats     *RunStats
	Artifacts []Artifact
}

// A Pipeline executes the four stage reconstruction over one capture. It is
// stateless between runs and safe for concurrent use.
type Pipeline struct {
	registry *Registry
	log      *zap.Logger
}

// NewPipeline creates a pipeline over an explicitly initialized registry.
// A nil logger disables logging.
func NewPipeline(registry *Registry, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{registry: registry, log: log}
}

// Run opens the capture at path and reconstructs the artifacts of the named
// platform. Unknown platforms and unreadable captures fail before scanning.
// A cancelled context yields the artifacts completed so far instead of an
// error.
func (p *Pipeline) Run(ctx context.Context, platform, path string) (*Result, error) {
	pf, err := p.registry.Lookup(platform)
	if err != nil {
		return &Result{Platform: platform, State: StateFailed, Stats: newRunStats()}, err
	}

	c, err := capture.Open(path)
	if err != nil {
		return &Result{Platform: platform, State: StateFailed, Stats: newRunStats()}, err
	}
	return p.run(ctx, pf, c)
}

// RunCapture reconstructs the artifacts of the named platform from an
// already opened capture.
func (p *Pipeline) RunCapture(ctx context.Context, platform string, c *capture.Capture) (*Result, error) {
	pf, err := p.registry.Lookup(platform)
	if err != nil {
		return &Result{Platform: platform, State: StateFailed, Stats: newRunStats()}, err
	}
	return p.run(ctx, pf, c)
}

func (p *Pipeline) run(ctx context.Context, pf *Platform, c *capture.Capture) (*Result, error) {
	log := p.log.With(zap.String("platform", pf.Name), zap.String("capture", c.Path()))
	stats := newRunStats()
	result := &Result{Platform: pf.Name, Stats: stats}

	// Scanning
	result.State = StateScanning
	var hits []Hit
	err := pf.Extractor.Extract(ctx, c, func(hit Hit) error {
		hits = append(hits, hit)
		stats.Hits++
		stats.kind(hit.Kind).Hits++
		return nil
	})
	if err != nil {
		if !cancelled(err) {
			result.State = StateFailed
			return result, err
		}
		stats.Cancelled = true
	}
	log.Info("scanning finished", zap.Int("hits", stats.Hits))

	// Decoding
	result.State = StateDecoding
	records := p.decode(ctx, pf.Analyzer, c, hits, stats)
	log.Info("decoding finished",
		zap.Int("decoded", stats.Decoded),
		zap.Int("dropped", stats.Dropped),
		zap.Int("reduced", stats.Reduced))

	// Organizing
	result.State = StateOrganizing
	organized, err := pf.Organizer.Organize(records)
	if err != nil {
		result.State = StateFailed
		return result, err
	}
	stats.Conflicts = len(organized.Conflicts)
	for _, conflict := range organized.Conflicts {
		log.Warn("organize conflict", zap.String("kind", conflict.Kind),
			zap.String("entity", conflict.Entity), zap.String("reason", conflict.Reason))
	}

	// Constructing
	result.State = StateConstructing
	creators := []func(*OrganizedData) ([]Artifact, error){
		pf.Factory.CreateAccounts,
		pf.Factory.CreateContacts,
		pf.Factory.CreateConversations,
		pf.Factory.CreateMessages,
	}
	for _, create := range creators {
		artifacts, err := create(organized)
		if err != nil {
			result.State = StateFailed
			return result, err
		}
		result.Artifacts = append(result.Artifacts, artifacts...)
	}

	result.State = StateDone
	log.Info("run finished", zap.Int("artifacts", len(result.Artifacts)),
		zap.Bool("cancelled", stats.Cancelled))
	return result, nil
}

// decode analyzes every hit window. Decode errors are absorbed into the
// statistics; cancellation stops the loop and keeps the records decoded so
// far.
func (p *Pipeline) decode(ctx context.Context, analyzer Analyzer, c *capture.Capture, hits []Hit, stats *RunStats) []*DecodedRecord {
	var records []*DecodedRecord
	for _, hit := range hits {
		if ctx.Err() != nil {
			stats.Cancelled = true
			break
		}

		window := c.Window(hit.Offset, analyzer.WindowSize())
		record, err := analyzer.Analyze(hit, window)
		if err != nil {
			stats.Dropped++
			stats.kind(hit.Kind).Dropped++
			p.log.Debug("record dropped", zap.String("kind", hit.Kind),
				zap.Uint64("offset", hit.Offset), zap.Error(err))
			continue
		}

		if seg, ok := c.SegmentAt(hit.Offset); ok {
			record.Provenance = Provenance{SegmentID: seg.ID, Offset: hit.Offset}
		}
		stats.Decoded++
		stats.kind(record.Kind).Decoded++
		if record.Confidence == ConfidenceReduced {
			stats.Reduced++
			stats.kind(record.Kind).Reduced++
		}
		records = append(records, record)
	}
	return records
}

func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
