package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
	"github.com/custodia-labs/risklists/internal/core/ports/driving"
	"github.com/custodia-labs/risklists/internal/logger"
	"github.com/custodia-labs/risklists/internal/merge"
	"github.com/custodia-labs/risklists/internal/normalisers/lists"
)

// Ensure ListService implements the interface.
var _ driving.ListService = (*ListService)(nil)

// Blob folders.
const (
	RawFolder     = "uncleaned_lists"
	CleanedFolder = "cleaned_lists"
)

// embeddedFields are the merged Risk Register fields that receive vectors.
var embeddedFields = []string{"Title", "Status", "Likelihood"}

// ListService fetches SharePoint lists, cleans them and keeps the results in
// blob storage. Cache, search index and embedder are optional.
type ListService struct {
	source  driven.ListSource
	schemas driven.SchemaRegistry
	blobs   driven.BlobStore
	cleaner *lists.Cleaner

	cache    driven.PayloadCache
	indexer  driven.RecordIndexer
	embedder driven.Embedder
	syncList []string
}

// NewListService creates a list service. A nil source disables uploads.
func NewListService(source driven.ListSource, schemas driven.SchemaRegistry, blobs driven.BlobStore) *ListService {
	return &ListService{
		source:   source,
		schemas:  schemas,
		blobs:    blobs,
		cleaner:  lists.NewCleaner(schemas),
		syncList: schemas.Names(),
	}
}

// SetCache enables read-through caching of stored payloads.
func (s *ListService) SetCache(cache driven.PayloadCache) {
	s.cache = cache
}

// SetIndexer enables search indexing of cleaned records.
func (s *ListService) SetIndexer(indexer driven.RecordIndexer) {
	s.indexer = indexer
}

// SetEmbedder enables embeddings on merged Risk Register records.
func (s *ListService) SetEmbedder(embedder driven.Embedder) {
	s.embedder = embedder
}

// SetSyncLists sets the lists SyncAll uploads.
func (s *ListService) SetSyncLists(names []string) {
	s.syncList = append([]string(nil), names...)
}

// BlobName converts a list name to its blob file name.
func BlobName(list string) string {
	return strings.ReplaceAll(list, " ", "_") + ".json"
}

// RawPath is where the uncleaned payload of a list is stored.
func RawPath(list string) string {
	return RawFolder + "/" + BlobName(list)
}

// CleanedPath is where the cleaned payload of a list is stored.
func CleanedPath(list string) string {
	return CleanedFolder + "/" + BlobName(list)
}

// MergedPath is where the merged compatible pair is stored.
func MergedPath() string {
	primary := strings.TrimSuffix(BlobName(domain.CompatibleLists[0]), ".json")
	secondary := strings.TrimSuffix(BlobName(domain.CompatibleLists[1]), ".json")
	return CleanedFolder + "/" + primary + "_" + secondary + "_merged.json"
}

// Upload fetches, cleans and stores a list. Members of the compatible pair
// are uploaded together and merged.
func (s *ListService) Upload(ctx context.Context, name string) (*domain.UploadResult, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: sharepoint source", domain.ErrNotConfigured)
	}
	canonical, err := s.schemas.Resolve(name)
	if err != nil {
		return nil, err
	}

	result := &domain.UploadResult{
		RunID:        uuid.NewString(),
		RecordCounts: make(map[string]int),
	}

	if !domain.IsCompatible(canonical) {
		if _, err := s.uploadOne(ctx, canonical, result); err != nil {
			return nil, err
		}
		s.invalidate(ctx, result.Blobs)
		return result, nil
	}

	primary, err := s.uploadOne(ctx, domain.CompatibleLists[0], result)
	if err != nil {
		return nil, err
	}
	secondary, err := s.uploadOne(ctx, domain.CompatibleLists[1], result)
	if err != nil {
		return nil, err
	}

	merged, err := merge.Merge(primary, secondary)
	if err != nil {
		if !errors.Is(err, domain.ErrMergeKey) {
			return nil, fmt.Errorf("merge %s: %w", canonical, err)
		}
		logger.Warn("run %s: merge abandoned: %v", result.RunID, err)
		result.MergeWarning = err.Error()
	}
	s.embed(ctx, merged)

	if err := s.put(ctx, MergedPath(), merged); err != nil {
		return nil, err
	}
	result.Blobs = append(result.Blobs, MergedPath())
	s.invalidate(ctx, result.Blobs)
	return result, nil
}

func (s *ListService) uploadOne(ctx context.Context, list string, result *domain.UploadResult) ([]*domain.Object, error) {
	items, err := s.source.FetchItems(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", list, err)
	}
	if err := s.put(ctx, RawPath(list), items); err != nil {
		return nil, err
	}

	cleaned, err := s.cleaner.CleanList(items, list)
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", list, err)
	}
	if err := s.put(ctx, CleanedPath(list), cleaned); err != nil {
		return nil, err
	}

	if s.indexer != nil {
		if err := s.indexer.IndexRecords(ctx, list, cleaned); err != nil {
			logger.Warn("run %s: index %s: %v", result.RunID, list, err)
		}
	}

	result.Lists = append(result.Lists, list)
	result.Blobs = append(result.Blobs, RawPath(list), CleanedPath(list))
	result.RecordCounts[list] = len(cleaned)
	logger.Info("run %s: stored %d %s records", result.RunID, len(cleaned), list)
	return cleaned, nil
}

// embed attaches vectors for embeddedFields to each record. Failures leave
// the records unchanged.
func (s *ListService) embed(ctx context.Context, records []*domain.Object) {
	if s.embedder == nil || len(records) == 0 {
		return
	}

	type slot struct {
		record int
		field  string
	}
	var (
		texts []string
		slots []slot
	)
	for i, rec := range records {
		for _, field := range embeddedFields {
			v, _ := rec.Get(field)
			if text, ok := v.Text(); ok && strings.TrimSpace(text) != "" {
				texts = append(texts, text)
				slots = append(slots, slot{record: i, field: field})
			}
		}
	}
	if len(texts) == 0 {
		return
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		logger.Warn("embeddings skipped: %v", err)
		return
	}

	perRecord := make(map[int]*domain.Object)
	for i, sl := range slots {
		obj, ok := perRecord[sl.record]
		if !ok {
			obj = domain.NewObject()
			perRecord[sl.record] = obj
		}
		obj.Set(sl.field, vectorValue(vectors[i]))
	}
	for i, obj := range perRecord {
		records[i].Set("Embeddings", domain.ObjectValue(obj))
	}
}

func vectorValue(vec []float32) domain.Value {
	items := make([]domain.Value, len(vec))
	for i, f := range vec {
		items[i] = domain.NumberValue(float64(f))
	}
	return domain.ArrayValue(items)
}

func (s *ListService) put(ctx context.Context, path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := s.blobs.Put(ctx, path, data); err != nil {
		return fmt.Errorf("store %s: %w", path, err)
	}
	return nil
}

func (s *ListService) invalidate(ctx context.Context, paths []string) {
	if s.cache == nil || len(paths) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, paths...); err != nil {
		logger.Warn("cache invalidation failed: %v", err)
	}
}

// Get returns the stored payload of a list. Members of the compatible pair
// return the merged dataset when it exists.
func (s *ListService) Get(ctx context.Context, name string) ([]domain.Value, error) {
	canonical, err := s.schemas.Resolve(name)
	if err != nil {
		return nil, err
	}

	paths := []string{CleanedPath(canonical)}
	if domain.IsCompatible(canonical) {
		paths = []string{MergedPath(), CleanedPath(canonical)}
	}

	for _, path := range paths {
		data, err := s.read(ctx, path)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items, err := domain.ParseArray(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: data not present for %s", domain.ErrNotFound, canonical)
}

func (s *ListService) read(ctx context.Context, path string) ([]byte, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, path)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("cache read %s: %v", path, err)
		}
	}

	data, err := s.blobs.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, path, data); err != nil {
			logger.Warn("cache write %s: %v", path, err)
		}
	}
	return data, nil
}

// SyncAll uploads every configured list. A compatible pair is uploaded once.
// Failures do not stop the run and are joined in the returned error.
func (s *ListService) SyncAll(ctx context.Context) ([]domain.UploadResult, error) {
	var (
		results  []domain.UploadResult
		errs     []error
		pairDone bool
	)
	for _, name := range s.syncList {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		canonical, err := s.schemas.Resolve(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if domain.IsCompatible(canonical) {
			if pairDone {
				continue
			}
			pairDone = true
		}

		result, err := s.Upload(ctx, canonical)
		if err != nil {
			logger.Error("sync %s: %v", canonical, err)
			errs = append(errs, fmt.Errorf("sync %s: %w", canonical, err))
			continue
		}
		results = append(results, *result)
	}
	return results, errors.Join(errs...)
}

// CleanLocal cleans an in-memory payload.
func (s *ListService) CleanLocal(items []domain.Value, name string) ([]*domain.Object, error) {
	canonical, err := s.schemas.Resolve(name)
	if err != nil {
		return nil, err
	}
	return s.cleaner.CleanList(items, canonical)
}

// MergeLocal cleans an in-memory risk and mitigation pair and merges it.
// An abandoned merge is logged and the cleaned risks are returned.
func (s *ListService) MergeLocal(primary, secondary []domain.Value) ([]*domain.Object, error) {
	risks, err := s.cleaner.CleanList(primary, domain.CompatibleLists[0])
	if err != nil {
		return nil, err
	}
	mitigations, err := s.cleaner.CleanList(secondary, domain.CompatibleLists[1])
	if err != nil {
		return nil, err
	}

	merged, err := merge.Merge(risks, mitigations)
	if errors.Is(err, domain.ErrMergeKey) {
		logger.Warn("merge abandoned: %v", err)
		return merged, nil
	}
	return merged, err
}
