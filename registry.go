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
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// A Registry holds the platforms available to a pipeline. It is constructed
// and populated explicitly at startup and passed into the pipeline entry
// point; there is no implicit global registry.
type Registry struct {
	sync.RWMutex
	platforms map[string]*Platform
}

// NewRegistry creates an empty platform registry.
func NewRegistry() *Registry {
	return &Registry{platforms: map[string]*Platform{}}
}

// Register adds a platform. The whole triad is bound in one step, a partial
// binding is rejected.
func (r *Registry) Register(p *Platform) error {
	if p == nil || p.Name == "" {
		return errors.New("platform requires a name")
	}
	if p.Extractor == nil || p.Analyzer == nil || p.Organizer == nil || p.Factory == nil {
		return errors.Errorf("platform %q requires an extractor, analyzer, organizer and factory", p.Name)
	}
	if p.Factory.Platform() != p.Name {
		return errors.Errorf("platform %q must not bind a factory for %q", p.Name, p.Factory.Platform())
	}

	r.Lock()
	defer r.Unlock()
	if _, ok := r.platforms[p.Name]; ok {
		return errors.Errorf("platform %q is already registered", p.Name)
	}
	r.platforms[p.Name] = p
	return nil
}

// Lookup returns the platform bound to the identifier. An unknown identifier
// is a configuration error and fails before any scanning starts.
func (r *Registry) Lookup(name string) (*Platform, error) {
	r.RLock()
	defer r.RUnlock()
	p, ok := r.platforms[name]
	if !ok {
		return nil, &UnsupportedPlatformError{Platform: name}
	}
	return p, nil
}

// Names returns all registered platform identifiers, sorted.
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()
	names := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
