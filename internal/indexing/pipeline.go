package indexing

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/julie/internal/embedding"
	julierrors "github.com/standardbeagle/julie/internal/errors"
	"github.com/standardbeagle/julie/internal/extractor"
	"github.com/standardbeagle/julie/internal/searchindex"
	"github.com/standardbeagle/julie/internal/store"
	"github.com/standardbeagle/julie/internal/types"
	"github.com/standardbeagle/julie/internal/vectorstore"
)

// embeddingBudget is the hard ceiling on the background embedding job
// per spec §4.8 step 8: "hard 5-minute timeout guards against runaway
// work".
const embeddingBudget = 5 * time.Minute

// embedBatchSize bounds how many symbols are embedded per fastembed call.
const embedBatchSize = 64

// Pipeline indexes one workspace's files into its Store, search Index,
// and vector Store, keeping the three in step. It owns no lifetime of
// its own — callers (the workspace manager, the MCP tool handlers)
// construct one per workspace per request.
type Pipeline struct {
	WorkspaceID string
	Root        string
	Excludes    []string

	Store    *store.Store
	Index    *searchindex.Index
	Vectors  *vectorstore.Store
	Embedder *embedding.Embedder
}

// Stats summarizes one IndexWorkspace/Refresh run. Totals are always
// read fresh from the store after the run (spec §4.8 step 7: "never from
// memory counters, to stay correct under partial failures").
type Stats struct {
	FilesScanned       int
	FilesIndexed       int
	FilesSkipped       int
	FilesFailed        int
	TotalSymbols       int
	TotalFiles         int
	TotalRelationships int
	Errors             []error
}

type extractionResult struct {
	file    DiscoveredFile
	content []byte
	hash    string
	result  extractor.Result
	err     error
}

// IndexWorkspace runs the full discover -> hash-filter -> extract ->
// bulk-insert protocol from spec §4.8. When force is true every
// discovered file is re-extracted regardless of its stored content hash.
func (p *Pipeline) IndexWorkspace(ctx context.Context, force bool) (Stats, error) {
	files, err := Discover(p.Root, p.Excludes)
	if err != nil {
		return Stats{}, julierrors.NewStorageError("index_workspace_discover", err)
	}

	stats := Stats{FilesScanned: len(files)}
	candidates := make([]DiscoveredFile, 0, len(files))

	for _, f := range files {
		content, err := os.ReadFile(f.AbsPath)
		if err != nil {
			stats.FilesFailed++
			stats.Errors = append(stats.Errors, err)
			continue
		}
		hash := contentHashHex(content)

		if !force {
			stored, ok, err := p.Store.GetFileContentHash(ctx, p.WorkspaceID, f.RelPath)
			if err != nil {
				return stats, err
			}
			if ok && stored == hash {
				stats.FilesSkipped++
				continue
			}
		}
		candidates = append(candidates, f)
	}

	results := p.extractAll(ctx, candidates)

	for _, r := range results {
		if r.err != nil {
			stats.FilesFailed++
			stats.Errors = append(stats.Errors, r.err)
			continue
		}
		if err := p.persist(ctx, r); err != nil {
			// Per spec's failure policy: a batch failure aborts that
			// batch but earlier batches remain committed.
			stats.FilesFailed++
			stats.Errors = append(stats.Errors, err)
			continue
		}
		stats.FilesIndexed++
	}

	if err := p.fillTotals(ctx, &stats); err != nil {
		return stats, err
	}

	p.scheduleEmbeddings()

	return stats, nil
}

// fillTotals reads the store's current counts for totals, per spec
// §4.8 step 7's "never from memory counters" rule.
func (p *Pipeline) fillTotals(ctx context.Context, stats *Stats) error {
	symbols, err := p.Store.GetSymbolCountForWorkspace(ctx, p.WorkspaceID)
	if err != nil {
		return err
	}
	files, err := p.Store.GetFileCountForWorkspace(ctx, p.WorkspaceID)
	if err != nil {
		return err
	}
	rels, err := p.Store.GetRelationshipCountForWorkspace(ctx, p.WorkspaceID)
	if err != nil {
		return err
	}
	stats.TotalSymbols = symbols
	stats.TotalFiles = files
	stats.TotalRelationships = rels
	return nil
}

// extractAll runs extraction for every candidate with bounded
// concurrency. Files are bucketed by language first purely so the
// extractor's per-language parser pool sees sequential same-language
// reuse within a bucket before the scheduler interleaves buckets; safety
// under true concurrent access comes from the pool itself
// (internal/extractor), not from this bucketing.
func (p *Pipeline) extractAll(ctx context.Context, files []DiscoveredFile) []extractionResult {
	results := make([]extractionResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	buckets := bucketByLanguage(files)
	idx := 0
	indexByPath := make(map[string]int, len(files))
	for _, f := range files {
		indexByPath[f.AbsPath] = idx
		idx++
	}

	for _, bucket := range buckets {
		for _, f := range bucket {
			f := f
			i := indexByPath[f.AbsPath]
			g.Go(func() error {
				select {
				case <-gctx.Done():
					results[i] = extractionResult{file: f, err: gctx.Err()}
					return nil
				default:
				}

				content, err := os.ReadFile(f.AbsPath)
				if err != nil {
					results[i] = extractionResult{file: f, err: err}
					return nil
				}
				res, err := extractor.Extract(f.Language, p.WorkspaceID, f.RelPath, content)
				results[i] = extractionResult{file: f, content: content, hash: contentHashHex(content), result: res, err: err}
				return nil
			})
		}
	}
	_ = g.Wait() // per-file errors are carried in results, never aborts the batch

	return results
}

// persist bulk-inserts one file's extraction output into the relational
// store and the text index inside the same logical unit, per spec §4.8
// steps 5-6.
func (p *Pipeline) persist(ctx context.Context, r extractionResult) error {
	rec := types.FileRecord{
		Path:          r.file.RelPath,
		WorkspaceID:   p.WorkspaceID,
		Language:      r.file.Language,
		Size:          int64(len(r.content)),
		ContentHash:   xxhash.Sum64(r.content),
		LastIndexedAt: time.Now(),
		Content:       string(r.content),
	}
	if err := p.Store.UpsertFile(ctx, rec); err != nil {
		return err
	}
	if err := p.Store.ReplaceFileData(ctx, p.WorkspaceID, r.file.RelPath, r.result.Symbols, r.result.Relationships, r.result.Identifiers); err != nil {
		return err
	}
	if p.Index != nil {
		if err := p.Index.IndexSymbols(p.WorkspaceID, r.result.Symbols); err != nil {
			return err
		}
	}
	return nil
}

// Refresh re-scans only files whose mtime has advanced since
// since, per original_source's workspace refresh command: mtime is a
// cheap pre-filter before the hash comparison IndexWorkspace already
// performs.
func (p *Pipeline) Refresh(ctx context.Context, since time.Time) (Stats, error) {
	files, err := Discover(p.Root, p.Excludes)
	if err != nil {
		return Stats{}, julierrors.NewStorageError("refresh_discover", err)
	}

	changed := make([]DiscoveredFile, 0, len(files))
	for _, f := range files {
		info, err := os.Stat(f.AbsPath)
		if err != nil {
			continue
		}
		if info.ModTime().After(since) {
			changed = append(changed, f)
		}
	}

	results := p.extractAll(ctx, changed)
	stats := Stats{FilesScanned: len(files)}
	for _, r := range results {
		if r.err != nil {
			stats.FilesFailed++
			stats.Errors = append(stats.Errors, r.err)
			continue
		}
		if err := p.persist(ctx, r); err != nil {
			stats.FilesFailed++
			stats.Errors = append(stats.Errors, err)
			continue
		}
		stats.FilesIndexed++
	}

	if err := p.fillTotals(ctx, &stats); err != nil {
		return stats, err
	}

	p.scheduleEmbeddings()
	return stats, nil
}

// Clean drops every row for this workspace from the relational store and
// discards the vector graph in memory, without touching the workspace
// registry entry — the distinction original_source draws between `clean`
// (keep the registration, drop the data) and `remove` (drop both, a
// workspace-manager-level operation).
func (p *Pipeline) Clean(ctx context.Context) error {
	if p.Vectors != nil {
		syms, err := p.Store.GetAllSymbols(ctx, p.WorkspaceID)
		if err != nil {
			return err
		}
		for _, s := range syms {
			p.Vectors.Delete(s.ID)
		}
	}
	if err := p.Store.DeleteWorkspace(ctx, p.WorkspaceID); err != nil {
		return err
	}
	return nil
}

// scheduleEmbeddings launches the background embedding job (spec §4.8
// step 8) if an embedder is configured. Failures never block indexing
// completion; they are swallowed here by design, matching "background
// embedding failures never block indexing completion".
func (p *Pipeline) scheduleEmbeddings() {
	if p.Embedder == nil || p.Vectors == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), embeddingBudget)
		defer cancel()
		_ = p.runEmbeddingJob(ctx)
	}()
}

func (p *Pipeline) runEmbeddingJob(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return julierrors.NewTimeoutError("background_embedding", embeddingBudget)
		default:
		}

		symbols, err := p.Store.GetSymbolsWithoutEmbeddings(ctx, p.WorkspaceID, embedBatchSize)
		if err != nil {
			return err
		}
		if len(symbols) == 0 {
			return p.Vectors.Save()
		}

		texts := make([]string, len(symbols))
		for i, sym := range symbols {
			texts[i] = embeddingText(sym)
		}

		vectors, err := p.Embedder.Embed(ctx, texts)
		if err != nil {
			return err
		}

		ids := make([]string, len(symbols))
		for i, sym := range symbols {
			ids[i] = sym.ID
		}
		if err := p.Vectors.AddBatch(ids, vectors); err != nil {
			return err
		}
		if err := p.Store.MarkEmbedded(ctx, p.WorkspaceID, ids); err != nil {
			return err
		}
	}
}

func embeddingText(sym types.Symbol) string {
	return fmt.Sprintf("%s %s %s", sym.Name, sym.Signature, sym.DocComment)
}

func contentHashHex(content []byte) string {
	return fmt.Sprintf("%x", xxhash.Sum64(content))
}
