package quiz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/quizserver/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

var ErrDocumentNotFound = errors.New("quiz document not found")

// Source provides the raw quiz document.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// Saver is implemented by sources that can store a new quiz document.
type Saver interface {
	Save(ctx context.Context, content []byte) error
}

var (
	_ Source = (*FileSource)(nil)
	_ Saver  = (*FileSource)(nil)
)

// FileSource reads the quiz document from disk on every Load, so edits to the
// file are picked up without a restart.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{
		path: path,
	}
}

func (s *FileSource) Load(ctx context.Context) ([]byte, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "quizFileSource.load")
	defer span.End()
	span.SetAttributes(attribute.String("quiz.path", s.path))

	docBytes, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, s.path)
		}
		return nil, fmt.Errorf("read quiz file: %w", err)
	}

	return docBytes, nil
}

// Save replaces the quiz file. The content is written to a temp file in the
// same dir first, so readers never see a partially written document.
func (s *FileSource) Save(ctx context.Context, content []byte) error {
	_, span := tracing.GlobalTracer.Start(ctx, "quizFileSource.save")
	defer span.End()

	tmpFile, err := os.CreateTemp(filepath.Dir(s.path), ".quiz-*.json")
	if err != nil {
		return fmt.Errorf("create temp quiz file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(content); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp quiz file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp quiz file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), s.path); err != nil {
		return fmt.Errorf("replace quiz file: %w", err)
	}

	return nil
}
