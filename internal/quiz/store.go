package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/quizserver/internal/telemetry/metrics"
	"github.com/2beens/quizserver/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrChapterNotFound = errors.New("chapter not found")
	ErrInvalidDocument = errors.New("invalid quiz document")
	ErrReadOnlySource  = errors.New("quiz source is read only")
)

type document struct {
	Chapters []json.RawMessage `json:"chapters"`
}

type chapterID struct {
	ID *int `json:"id"`
}

// Store serves the quiz document and single chapters from it.
// The quiz schema is opaque to it, apart from the top level "chapters" list
// and the numeric "id" of each chapter.
type Store struct {
	source         Source
	cache          *documentCache
	metricsManager *metrics.Manager
}

// NewStore creates the content store. With cacheTTLSec 0 the document is read
// from the source on every request.
func NewStore(source Source, cacheTTLSec int, metricsManager *metrics.Manager) *Store {
	var cache *documentCache
	if cacheTTLSec > 0 {
		cache = newDocumentCache(cacheTTLSec)
	}

	return &Store{
		source:         source,
		cache:          cache,
		metricsManager: metricsManager,
	}
}

// ListAll returns the whole quiz document, as stored.
func (s *Store) ListAll(ctx context.Context) (json.RawMessage, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "quizStore.listAll")
	defer span.End()

	docBytes, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return docBytes, nil
}

// GetChapter loads the document and returns the chapter with the given id.
func (s *Store) GetChapter(ctx context.Context, id int) (json.RawMessage, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "quizStore.getChapter")
	defer span.End()
	span.SetAttributes(attribute.Int("chapter.id", id))

	chapter, err := s.getChapter(ctx, id)
	if err != nil {
		if errors.Is(err, ErrChapterNotFound) {
			s.countChapterLookup("not_found")
		} else {
			s.countChapterLookup("error")
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.countChapterLookup("found")
	span.SetStatus(codes.Ok, "chapter found")
	return chapter, nil
}

func (s *Store) getChapter(ctx context.Context, id int) (json.RawMessage, error) {
	docBytes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(docBytes, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, err)
	}

	for _, rawChapter := range doc.Chapters {
		var cid chapterID
		if err := json.Unmarshal(rawChapter, &cid); err != nil {
			// chapters with a non numeric id cannot be looked up
			continue
		}
		if cid.ID != nil && *cid.ID == id {
			return rawChapter, nil
		}
	}

	return nil, ErrChapterNotFound
}

// Save validates and stores a new quiz document, then drops the cached one.
func (s *Store) Save(ctx context.Context, content []byte) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "quizStore.save")
	defer span.End()

	saver, ok := s.source.(Saver)
	if !ok {
		return ErrReadOnlySource
	}

	if err := validateDocument(content); err != nil {
		span.SetStatus(codes.Error, "invalid document")
		return err
	}

	if err := saver.Save(ctx, content); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("save quiz document: %w", err)
	}

	if s.cache != nil {
		s.cache.drop()
	}

	span.SetStatus(codes.Ok, "saved")
	return nil
}

// validateDocument accepts only a JSON object, with an optional list of chapters.
func validateDocument(content []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(content, &fields); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDocument, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: not a json object", ErrInvalidDocument)
	}

	var doc document
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDocument, err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) ([]byte, error) {
	if s.cache != nil {
		if docBytes, ok := s.cache.get(); ok {
			log.Trace("quiz document found in cache")
			s.countContentLoad("cache")
			return docBytes, nil
		}
	}

	docBytes, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load quiz document: %w", err)
	}
	s.countContentLoad("source")

	if !json.Valid(docBytes) {
		return nil, ErrInvalidDocument
	}

	if s.cache != nil {
		if err := s.cache.set(docBytes); err != nil {
			log.Errorf("failed to cache quiz document: %s", err)
		}
	}

	return docBytes, nil
}

func (s *Store) countContentLoad(origin string) {
	if s.metricsManager != nil {
		s.metricsManager.CounterContentLoads.WithLabelValues(origin).Inc()
	}
}

func (s *Store) countChapterLookup(result string) {
	if s.metricsManager != nil {
		s.metricsManager.CounterChapterLookups.WithLabelValues(result).Inc()
	}
}
