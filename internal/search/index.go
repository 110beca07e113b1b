// Package search maintains a full-text index over tasks. The lifecycle
// engine keeps it in sync on writes; queries return task IDs ranked by
// BM25 relevance over title and description.
package search

import (
	"fmt"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/josecampelo/gerenciador-tarefas-api/internal/task"
)

// taskDocument is the indexed representation of a task.
type taskDocument struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Index is a bleve-backed full-text index over tasks.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewMemIndex creates an in-memory index. The index is rebuilt from the
// store's contents on startup, so nothing needs to survive a restart.
func NewMemIndex() (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}
	return &Index{index: index}, nil
}

// buildIndexMapping creates the bleve index mapping: analyzed text for
// title and description, exact-match keyword for status.
func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name

	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	dateFieldMapping := bleve.NewDateTimeFieldMapping()

	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("description", textFieldMapping)
	docMapping.AddFieldMappingsAt("status", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("updated_at", dateFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// Index adds or replaces a task in the index.
func (i *Index) Index(t *task.Task) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	doc := taskDocument{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		UpdatedAt:   t.UpdatedAt,
	}
	if err := i.index.Index(t.ID, doc); err != nil {
		return fmt.Errorf("index task: %w", err)
	}
	return nil
}

// Remove deletes a task from the index. Removing an ID that was never
// indexed is a no-op.
func (i *Index) Remove(id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.index.Delete(id); err != nil {
		return fmt.Errorf("remove task from index: %w", err)
	}
	return nil
}

// Search returns the IDs of matching tasks, best match first.
func (i *Index) Search(query string, limit int) ([]string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	matchQuery := bleve.NewMatchQuery(query)
	searchReq := bleve.NewSearchRequest(matchQuery)
	searchReq.Size = limit

	searchResult, err := i.index.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	ids := make([]string, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Rebuild re-indexes every task in the slice. Called at startup to
// bring the in-memory index up to date with the store.
func (i *Index) Rebuild(all []*task.Task) error {
	for _, t := range all {
		if err := i.Index(t); err != nil {
			return err
		}
	}
	return nil
}

// Close releases index resources.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Close()
}
