// Package embedding wraps fastembed-go to turn symbol text into vectors
// for semantic search (C5), lazily loading the ONNX model on first use
// and unloading it after an idle period so a server that never uses
// semantic search never pays the model's resident memory cost.
//
// No example repo in the retrieval pack actually calls fastembed-go's
// API (it appears only in a sibling project's go.mod manifest), so this
// wrapper follows the library's own published InitOptions/Embed
// contract rather than a pack usage site; see DESIGN.md.
package embedding

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/anush008/fastembed-go"

	julierrors "github.com/standardbeagle/julie/internal/errors"
)

// Options configures the embedder. Mirrors internal/config.Embedding so
// callers can pass the loaded config's struct directly.
type Options struct {
	ModelName      string
	Dimensions     int
	IdleTimeoutSec int
	BatchSize      int
	SkipEnvVar     string
}

// Embedder lazily owns one fastembed model instance, shared across every
// embedding request for a process.
type Embedder struct {
	opts Options

	mu       sync.Mutex
	model    *fastembed.FlagEmbedding
	lastUsed time.Time
	timer    *time.Timer
	disabled bool
}

// New constructs an Embedder. If opts.SkipEnvVar is set in the process
// environment, the returned Embedder is permanently disabled: Embed
// returns ErrDisabled rather than loading a model, per spec's
// JULIE_SKIP_EMBEDDINGS escape hatch for constrained environments.
func New(opts Options) *Embedder {
	disabled := opts.SkipEnvVar != "" && os.Getenv(opts.SkipEnvVar) != ""
	return &Embedder{opts: opts, disabled: disabled}
}

// ErrDisabled is returned by Embed when embeddings are turned off via
// the skip environment variable.
var ErrDisabled = julierrors.NewUsageError("embed", "model", "embeddings disabled via skip environment variable")

// Embed returns one vector per input text, loading the model on first
// call and resetting the idle-unload timer on every call.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.disabled {
		return nil, ErrDisabled
	}
	if len(texts) == 0 {
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.model == nil {
		if err := e.loadLocked(); err != nil {
			return nil, err
		}
	}

	batchSize := e.opts.BatchSize
	if batchSize <= 0 {
		batchSize = 256
	}

	vectors, err := e.model.Embed(texts, batchSize)
	if err != nil {
		return nil, julierrors.NewStorageError("embed", err)
	}

	e.lastUsed = time.Now()
	e.resetTimerLocked()

	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		out[i] = v
	}
	return out, nil
}

func (e *Embedder) loadLocked() error {
	model, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:     modelFromName(e.opts.ModelName),
		MaxLength: 512,
	})
	if err != nil {
		return julierrors.NewStorageError("embed_load_model", err)
	}
	e.model = model
	e.lastUsed = time.Now()
	return nil
}

func (e *Embedder) resetTimerLocked() {
	timeout := time.Duration(e.opts.IdleTimeoutSec) * time.Second
	if timeout <= 0 {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(timeout, e.unloadIfIdle)
}

func (e *Embedder) unloadIfIdle() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.model == nil {
		return
	}
	timeout := time.Duration(e.opts.IdleTimeoutSec) * time.Second
	if time.Since(e.lastUsed) < timeout {
		return
	}
	e.model = nil
}

// Close releases the model immediately, if loaded.
func (e *Embedder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.model = nil
}

// Dimensions returns the configured vector width, used by the vector
// store to size new HNSW graphs before the first embedding is computed.
func (e *Embedder) Dimensions() int {
	return e.opts.Dimensions
}

func modelFromName(name string) fastembed.EmbeddingModel {
	switch name {
	case "bge-small-en-v1.5", "BAAI/bge-small-en-v1.5":
		return fastembed.BGESmallEN
	case "bge-base-en-v1.5", "BAAI/bge-base-en-v1.5":
		return fastembed.BGEBaseEN
	case "":
		return fastembed.AllMiniLML6V2
	default:
		return fastembed.AllMiniLML6V2
	}
}
