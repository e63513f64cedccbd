// Package meili indexes cleaned list records in Meilisearch.
package meili

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	meili "github.com/meilisearch/meilisearch-go"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
	"github.com/custodia-labs/risklists/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driven.RecordIndexer = (*Indexer)(nil)

const (
	indexPrefix = "risklists_"
	primaryKey  = "doc_id"
)

var invalidUID = regexp.MustCompile(`[^a-z0-9_]+`)

// Indexer writes one index per list.
type Indexer struct {
	client meili.ServiceManager

	mu      sync.Mutex
	created map[string]bool
}

// New connects to Meilisearch and checks it is healthy.
func New(url, apiKey string) (*Indexer, error) {
	client := meili.New(url, meili.WithAPIKey(apiKey))
	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("meilisearch unavailable at %s: %w", url, err)
	}
	return &Indexer{client: client, created: map[string]bool{}}, nil
}

// IndexUID returns the index name used for a list.
func IndexUID(list string) string {
	return indexPrefix + strings.Trim(invalidUID.ReplaceAllString(strings.ToLower(list), "_"), "_")
}

// IndexRecords replaces documents of list with records. Records are keyed
// by their id, or by position when they have none.
func (i *Indexer) IndexRecords(ctx context.Context, list string, records []*domain.Object) error {
	if len(records) == 0 {
		return nil
	}
	uid := IndexUID(list)
	if err := i.ensureIndex(ctx, uid); err != nil {
		return err
	}

	docs := make([]*domain.Object, len(records))
	for n, rec := range records {
		doc := rec.Clone()
		doc.Set(primaryKey, domain.StringValue(documentID(rec, n)))
		docs[n] = doc
	}

	task, err := i.client.Index(uid).AddDocumentsWithContext(ctx, docs, nil)
	if err != nil {
		return fmt.Errorf("index %s: %w", uid, err)
	}
	logger.Debug("meili: enqueued %d documents for %s (task %d)", len(docs), uid, task.TaskUID)
	return nil
}

func (i *Indexer) ensureIndex(ctx context.Context, uid string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.created[uid] {
		return nil
	}
	if _, err := i.client.CreateIndexWithContext(ctx, &meili.IndexConfig{
		Uid:        uid,
		PrimaryKey: primaryKey,
	}); err != nil {
		logger.Debug("meili: create index %s (may already exist): %v", uid, err)
	}
	i.created[uid] = true
	return nil
}

func documentID(rec *domain.Object, position int) string {
	id, _ := rec.Get("id")
	if n, ok := id.Int(); ok {
		return strconv.FormatInt(n, 10)
	}
	if s, ok := id.Text(); ok && s != "" {
		return invalidUID.ReplaceAllString(strings.ToLower(s), "_")
	}
	return "pos_" + strconv.Itoa(position)
}
