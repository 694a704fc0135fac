package document

import (
	"iter"
	"sync"
)

// Frozen is an immutable snapshot of an assembled document together with the
// configuration it is served with. All accessors return copies, so a Frozen
// may be shared freely across goroutines.
type Frozen struct {
	doc *Document
	cfg Config

	mu    sync.Mutex
	cache map[string]*frozenEntry
}

type frozenEntry struct {
	once sync.Once
	data []byte
	err  error
}

// Freeze snapshots d. Later changes to d are not visible through the handle.
func Freeze(d *Document, cfg Config) *Frozen {
	return &Frozen{
		doc:   d.Clone(),
		cfg:   cfg,
		cache: make(map[string]*frozenEntry),
	}
}

// Config returns the configuration the snapshot was frozen with.
func (f *Frozen) Config() Config {
	return f.cfg
}

// Document returns a mutable deep copy of the snapshot.
func (f *Frozen) Document() *Document {
	return f.doc.Clone()
}

// Info returns the document metadata.
func (f *Frozen) Info() Info {
	return copyInfo(f.doc.Info)
}

// Stats returns counts of the snapshot's contents.
func (f *Frozen) Stats() Stats {
	return f.doc.Stats()
}

// Operation returns a copy of the operation at (path, method).
func (f *Frozen) Operation(path string, method HTTPMethod) (*OperationEntry, bool) {
	op, ok := f.doc.Operations.Get(path, method)
	if !ok {
		return nil, false
	}
	return CopyOperation(op), true
}

// Operations iterates over copies of every operation in the configured path order.
func (f *Frozen) Operations() iter.Seq[*OperationEntry] {
	return func(yield func(*OperationEntry) bool) {
		for op := range f.doc.Operations.Iterate(f.cfg.PathOrder) {
			if !yield(CopyOperation(op)) {
				return
			}
		}
	}
}

// Schema returns a copy of the named schema.
func (f *Frozen) Schema(name string) (*Schema, bool) {
	s, ok := f.doc.Schemas.Resolve(name)
	if !ok {
		return nil, false
	}
	return CopySchema(s), true
}

// Cached returns the bytes produced by render for key, calling render at most
// once per key for the lifetime of the handle. render receives the internal
// snapshot and must not modify it.
func (f *Frozen) Cached(key string, render func(*Document, Config) ([]byte, error)) ([]byte, error) {
	f.mu.Lock()
	e, ok := f.cache[key]
	if !ok {
		e = &frozenEntry{}
		f.cache[key] = e
	}
	f.mu.Unlock()

	e.once.Do(func() {
		e.data, e.err = render(f.doc, f.cfg)
	})
	return e.data, e.err
}
