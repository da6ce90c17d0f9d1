package glyph

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Result records the outcome of one classification for a given source.
type Result struct {
	Source    string    `json:"source"`
	Best      Match     `json:"best"`
	Matches   []Match   `json:"matches"`
	Timestamp time.Time `json:"timestamp"`
}

// Registry serializes access to libraries for the HTTP and MQTT layers.
// Rank iterates the live entry list without snapshotting, so mutations
// must never interleave with classifications; the Registry's lock is that
// serialization boundary. It also tracks the last classification per
// source and optionally persists the active library to a JSON file.
type Registry struct {
	mu        sync.RWMutex
	libraries map[string]*Library
	active    string
	results   map[string]*Result
	storePath string
}

// NewRegistry creates a registry holding a single fresh library named
// "default" at the given precision.
func NewRegistry(precision int) *Registry {
	r := &Registry{
		libraries: make(map[string]*Library),
		results:   make(map[string]*Result),
	}
	lib := NewLibrary("default", precision)
	r.libraries[lib.Name()] = lib
	r.active = lib.Name()
	return r
}

// NewRegistryWithStore creates a registry whose active library persists
// to the given JSON file path. If the file exists it is loaded; a missing
// file starts a fresh library at the given precision.
func NewRegistryWithStore(path string, precision int) *Registry {
	r := NewRegistry(precision)
	r.storePath = path
	if path == "" {
		return r
	}
	lib, err := LoadLibrary(path)
	if err != nil {
		log.Printf("Library cache not loaded (%v), starting fresh", err)
		return r
	}
	r.libraries = map[string]*Library{lib.Name(): lib}
	r.active = lib.Name()
	return r
}

// AddLibrary registers a library under its own name, replacing any
// library already stored under that name.
func (r *Registry) AddLibrary(l *Library) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.libraries[l.Name()] = l
}

// Library returns the library stored under a name.
func (r *Registry) Library(name string) (*Library, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.libraries[name]
	return l, ok
}

// LibraryNames returns the names of all registered libraries.
func (r *Registry) LibraryNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.libraries))
	for name := range r.libraries {
		names = append(names, name)
	}
	return names
}

// SetActive switches the library used for classification and learning.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.libraries[name]; !ok {
		return fmt.Errorf("no library named %q", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the active library.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Classify encodes a stroke at the active library's precision and ranks
// it against the library, recording the result under the given source.
func (r *Registry) Classify(source string, points []Point) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lib := r.libraries[r.active]
	if lib == nil {
		return nil, fmt.Errorf("no active library")
	}

	shape := Encode(points, lib.Precision())
	matches := lib.Rank(shape)
	res := &Result{
		Source:    source,
		Matches:   matches,
		Timestamp: time.Now(),
	}
	if len(matches) > 0 {
		res.Best = matches[0]
	}
	r.results[source] = res
	return res, nil
}

// Learn encodes a stroke at the active library's precision and stores it
// under the given name, then persists the library when a store path is
// configured. The reserved entry name and "clear" are refused; "clear" is
// claimed by the library clear route.
func (r *Registry) Learn(name string, points []Point) error {
	if name == "" {
		return fmt.Errorf("entry name must not be empty")
	}
	if name == EmptyEntryName || name == "clear" {
		return fmt.Errorf("%q is reserved", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lib := r.libraries[r.active]
	if lib == nil {
		return fmt.Errorf("no active library")
	}
	lib.Add(name, Encode(points, lib.Precision()))
	return r.saveLocked()
}

// Forget removes an entry from the active library and persists the
// change. The reserved entry cannot be removed.
func (r *Registry) Forget(name string) error {
	if name == EmptyEntryName {
		return fmt.Errorf("%q is reserved", EmptyEntryName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lib := r.libraries[r.active]
	if lib == nil {
		return fmt.Errorf("no active library")
	}
	if !lib.Remove(name) {
		return fmt.Errorf("no entry named %q", name)
	}
	return r.saveLocked()
}

// ClearActive drops all custom entries from the active library, keeping
// the reserved one, and persists the change.
func (r *Registry) ClearActive() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lib := r.libraries[r.active]
	if lib == nil {
		return fmt.Errorf("no active library")
	}
	lib.Clear()
	return r.saveLocked()
}

// SetWeights updates the active library's scoring weights and persists
// the change.
func (r *Registry) SetWeights(w Weights) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lib := r.libraries[r.active]
	if lib == nil {
		return fmt.Errorf("no active library")
	}
	lib.SetWeights(w.Grid, w.Circle, w.Horizontal, w.Vertical)
	return r.saveLocked()
}

// LastResult returns the most recent classification for a source.
func (r *Registry) LastResult(source string) (*Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.results[source]
	return res, ok
}

// Save persists the active library if a store path is configured.
func (r *Registry) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked()
}

func (r *Registry) saveLocked() error {
	if r.storePath == "" {
		return nil
	}
	lib := r.libraries[r.active]
	if lib == nil {
		return nil
	}
	if err := SaveLibrary(r.storePath, lib); err != nil {
		return fmt.Errorf("persisting library: %w", err)
	}
	return nil
}
