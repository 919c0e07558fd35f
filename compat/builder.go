// FILE: lixenwraith/recorder/compat/builder.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/recorder"
)

// defaultBaseName is used when the builder creates its own recorder
const defaultBaseName = "server"

// Builder provides a flexible way to create configured recorder adapters for gnet and fasthttp
// It can use an existing *recorder.Recorder instance or create a new one from a *recorder.Config
type Builder struct {
	rec      *recorder.Recorder
	cfg      *recorder.Config
	baseName string
	err      error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{baseName: defaultBaseName}
}

// WithRecorder specifies an existing recorder to use for the adapters
// If this is set WithConfig is ignored
func (b *Builder) WithRecorder(r *recorder.Recorder) *Builder {
	if r == nil {
		b.err = fmt.Errorf("recorder/compat: provided recorder cannot be nil")
		return b
	}
	b.rec = r
	return b
}

// WithConfig provides a configuration for a new recorder writing <baseName>.log
// This is used only if an existing recorder is NOT provided via WithRecorder
func (b *Builder) WithConfig(baseName string, cfg *recorder.Config) *Builder {
	b.baseName = baseName
	b.cfg = cfg
	return b
}

// getRecorder resolves the recorder to be used, creating one if necessary
func (b *Builder) getRecorder() (*recorder.Recorder, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.rec != nil {
		return b.rec, nil
	}

	cfg := b.cfg
	if cfg == nil {
		cfg = recorder.DefaultConfig()
	}

	r, err := recorder.New(b.baseName, cfg)
	if err != nil {
		return nil, err
	}

	// Cache the newly created recorder for subsequent builds with this builder
	b.rec = r
	return r, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	r, err := b.getRecorder()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(r, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	r, err := b.getRecorder()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(r, opts...), nil
}

// GetRecorder returns the underlying recorder, creating it if needed
func (b *Builder) GetRecorder() (*recorder.Recorder, error) {
	return b.getRecorder()
}

// --- Example Usage ---
//
//	rec, err := recorder.New("server", nil)
//	if err != nil { /* handle error */ }
//	defer rec.Close()
//
//	builder := compat.NewBuilder().WithRecorder(rec)
//
//	gnetLogger, _ := builder.BuildGnet()
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
