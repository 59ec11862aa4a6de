// Package vectorstore persists a per-workspace HNSW approximate-nearest-
// neighbor graph (C6) over symbol embeddings, keyed by Symbol.ID, used by
// fast_search's semantic mode and trace_call_path's semantic neighbours.
//
// No pack repo calls coder/hnsw's actual API (the teacher-adjacent repos
// reference "HNSW" only as a concept behind their own SQLite extension);
// this wrapper follows coder/hnsw's own published Graph/Node contract —
// see DESIGN.md.
package vectorstore

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"

	julierrors "github.com/standardbeagle/julie/internal/errors"
)

const (
	graphFileName = "hnsw_index.hnsw.graph"
	metaFileName  = "hnsw_index.hnsw.data"
)

// Store is one workspace's persisted vector index, rooted at that
// workspace's vectors directory (C7's `.julie/vectors/<workspace-id>/`).
// Graph and metadata live in two sibling files there: the exported
// graph, and a gob-encoded Metadata guarding against loading vectors
// built by a different embedding model or vector width. The HNSW
// parameters it records are not compared on load.
type Store struct {
	mu        sync.RWMutex
	graph     *hnsw.Graph[string]
	graphPath string
	metaPath  string
	meta      Metadata
}

// Metadata records what the persisted graph was built with.
type Metadata struct {
	M              int
	EfConstruction int
	Dimensions     int
	ModelName      string
	Count          int
}

// Open loads dir/hnsw_index.hnsw.{graph,data} if present, or starts a
// fresh graph for the given model dimensions/name otherwise. dir must
// already be scoped to a single workspace.
func Open(dir string, dimensions int, modelName string) (*Store, error) {
	graphPath := filepath.Join(dir, graphFileName)
	metaPath := filepath.Join(dir, metaFileName)

	s := &Store{
		graphPath: graphPath,
		metaPath:  metaPath,
		meta:      Metadata{Dimensions: dimensions, ModelName: modelName},
	}

	metaFile, err := os.Open(metaPath)
	switch {
	case os.IsNotExist(err):
		s.graph = hnsw.NewGraph[string]()
		return s, nil
	case err != nil:
		return nil, julierrors.NewStorageError("vectorstore_read_meta", err)
	}
	defer metaFile.Close()

	var onDisk Metadata
	if err := gob.NewDecoder(metaFile).Decode(&onDisk); err != nil {
		return nil, julierrors.NewStorageError("vectorstore_parse_meta", err)
	}
	if onDisk.Dimensions != dimensions || onDisk.ModelName != modelName {
		// Embedding model changed since this graph was built; vectors are
		// not comparable across models. Start fresh rather than mixing
		// distance spaces.
		s.graph = hnsw.NewGraph[string]()
		s.meta.Count = 0
		return s, nil
	}

	f, err := os.Open(graphPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.graph = hnsw.NewGraph[string]()
			return s, nil
		}
		return nil, julierrors.NewStorageError("vectorstore_open_graph", err)
	}
	defer f.Close()

	graph, err := hnsw.Import[string](f)
	if err != nil {
		return nil, julierrors.NewStorageError("vectorstore_import_graph", err)
	}
	s.graph = graph
	s.meta = onDisk
	return s, nil
}

// Add inserts or replaces a symbol's vector.
func (s *Store) Add(symbolID string, vector []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.Add(hnsw.MakeNode(symbolID, vector))
	s.meta.Count = s.graph.Len()
}

// AddBatch inserts many vectors in one pass, the path the background
// embedding job (C8 step 8) uses after a batch embed call returns.
func (s *Store) AddBatch(symbolIDs []string, vectors [][]float32) error {
	if len(symbolIDs) != len(vectors) {
		return julierrors.NewUsageError("vectorstore_add_batch", "vectors", "symbolIDs and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	nodes := make([]hnsw.Node[string], len(symbolIDs))
	for i, id := range symbolIDs {
		nodes[i] = hnsw.MakeNode(id, vectors[i])
	}
	s.graph.Add(nodes...)
	s.meta.Count = s.graph.Len()
	return nil
}

// Delete removes a symbol's vector. The indexing pipeline's Clean uses
// it to drop a workspace's vectors; re-indexing a file does not.
func (s *Store) Delete(symbolID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.graph.Delete(symbolID)
	s.meta.Count = s.graph.Len()
	return ok
}

// Neighbor is one nearest-neighbor search result.
type Neighbor struct {
	SymbolID string
	Vector   []float32
}

// Search returns the k nearest neighbors of query by the graph's
// configured distance metric.
func (s *Store) Search(query []float32, k int) []Neighbor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nodes := s.graph.Search(query, k)
	out := make([]Neighbor, len(nodes))
	for i, n := range nodes {
		out[i] = Neighbor{SymbolID: n.Key, Vector: n.Value}
	}
	return out
}

// Len reports how many vectors are currently indexed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Len()
}

// Save persists the graph and its metadata to disk. Called after each
// indexing pass's embedding phase completes, and on clean shutdown.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.graphPath), 0o755); err != nil {
		return julierrors.NewStorageError("vectorstore_mkdir", err)
	}

	f, err := os.Create(s.graphPath)
	if err != nil {
		return julierrors.NewStorageError("vectorstore_create_graph_file", err)
	}
	defer f.Close()
	if err := s.graph.Export(f); err != nil {
		return julierrors.NewStorageError("vectorstore_export_graph", err)
	}

	metaFile, err := os.Create(s.metaPath)
	if err != nil {
		return julierrors.NewStorageError("vectorstore_create_meta_file", err)
	}
	defer metaFile.Close()
	if err := gob.NewEncoder(metaFile).Encode(s.meta); err != nil {
		return julierrors.NewStorageError("vectorstore_encode_meta", err)
	}
	return nil
}

// SetHNSWParams records the graph's M/EfConstruction in persisted
// metadata, informational only — coder/hnsw.Graph owns its own runtime
// tuning, and Open does not compare these values on reload.
func (s *Store) SetHNSWParams(m, efConstruction int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta.M = m
	s.meta.EfConstruction = efConstruction
}
