package quiz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2beens/quizserver/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testDocument = `{
	"title": "particle dialogs",
	"chapters": [
		{"id": 1, "title": "wa vs ga", "questions": [{"q": "a", "answers": ["x", "y"]}]},
		{"id": 2, "title": "ni vs de"},
		{"id": "three", "title": "string id"},
		{"title": "no id"}
	]
}`

func writeQuizFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type errSource struct {
	err   error
	calls int
}

func (s *errSource) Load(_ context.Context) ([]byte, error) {
	s.calls++
	return nil, s.err
}

func TestStore_ListAll(t *testing.T) {
	store := NewStore(NewFileSource(writeQuizFile(t, testDocument)), 0, metrics.NewTestManager())

	doc, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, testDocument, string(doc))
}

func TestStore_GetChapter(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	store := NewStore(NewFileSource(writeQuizFile(t, testDocument)), 0, metricsManager)
	ctx := context.Background()

	chapter, err := store.GetChapter(ctx, 2)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 2, "title": "ni vs de"}`, string(chapter))

	chapter, err = store.GetChapter(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, string(chapter), "wa vs ga")

	chapter, err = store.GetChapter(ctx, 3)
	assert.ErrorIs(t, err, ErrChapterNotFound)
	assert.Nil(t, chapter)

	_, err = store.GetChapter(ctx, 0)
	assert.ErrorIs(t, err, ErrChapterNotFound)

	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterChapterLookups.WithLabelValues("found")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterChapterLookups.WithLabelValues("not_found")))
	// every lookup loads the document
	assert.Equal(t, float64(4), testutil.ToFloat64(metricsManager.CounterContentLoads.WithLabelValues("source")))
}

func TestStore_NoChapters(t *testing.T) {
	store := NewStore(NewFileSource(writeQuizFile(t, `{"title": "empty"}`)), 0, nil)

	_, err := store.GetChapter(context.Background(), 1)
	assert.ErrorIs(t, err, ErrChapterNotFound)
}

func TestStore_InvalidDocument(t *testing.T) {
	store := NewStore(NewFileSource(writeQuizFile(t, `{"chapters": [`)), 0, metrics.NewTestManager())
	ctx := context.Background()

	_, err := store.ListAll(ctx)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = store.GetChapter(ctx, 1)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestStore_MissingFile(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	store := NewStore(NewFileSource(filepath.Join(t.TempDir(), "nope.json")), 0, metricsManager)
	ctx := context.Background()

	_, err := store.ListAll(ctx)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	// content failures are not a missing chapter
	_, err = store.GetChapter(ctx, 1)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.NotErrorIs(t, err, ErrChapterNotFound)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterChapterLookups.WithLabelValues("error")))
}

func TestStore_NoCacheReadsFresh(t *testing.T) {
	path := writeQuizFile(t, `{"chapters": [{"id": 1}]}`)
	store := NewStore(NewFileSource(path), 0, nil)
	ctx := context.Background()

	_, err := store.GetChapter(ctx, 2)
	assert.ErrorIs(t, err, ErrChapterNotFound)

	require.NoError(t, os.WriteFile(path, []byte(`{"chapters": [{"id": 1}, {"id": 2}]}`), 0o600))
	chapter, err := store.GetChapter(ctx, 2)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 2}`, string(chapter))
}

func TestStore_Cache(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	path := writeQuizFile(t, `{"chapters": [{"id": 1}]}`)
	store := NewStore(NewFileSource(path), 60, metricsManager)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.ListAll(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterContentLoads.WithLabelValues("source")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterContentLoads.WithLabelValues("cache")))

	// file edits are not seen until the cached document expires
	require.NoError(t, os.WriteFile(path, []byte(`{"chapters": [{"id": 1}, {"id": 2}]}`), 0o600))
	_, err := store.GetChapter(ctx, 2)
	assert.ErrorIs(t, err, ErrChapterNotFound)
}

func TestStore_CacheLargeDocument(t *testing.T) {
	chapters := make([]string, 0, 500)
	for i := 1; i <= 500; i++ {
		chapters = append(chapters, fmt.Sprintf(`{"id": %d, "title": "chapter %d", "text": "%s"}`, i, i, strings.Repeat("ka", 100)))
	}
	largeDoc := `{"chapters": [` + strings.Join(chapters, ",") + `]}`
	require.Greater(t, len(largeDoc), 100*1024)

	metricsManager := metrics.NewTestManager()
	store := NewStore(NewFileSource(writeQuizFile(t, largeDoc)), 60, metricsManager)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		doc, err := store.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, largeDoc, string(doc))
	}
	chapter, err := store.GetChapter(ctx, 321)
	require.NoError(t, err)
	assert.Contains(t, string(chapter), `"chapter 321"`)

	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterContentLoads.WithLabelValues("source")))
	assert.Equal(t, float64(3), testutil.ToFloat64(metricsManager.CounterContentLoads.WithLabelValues("cache")))
}

func TestStore_SourceErrorNotCached(t *testing.T) {
	source := &errSource{err: errors.New("disk on fire")}
	store := NewStore(source, 60, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := store.ListAll(ctx)
		assert.ErrorIs(t, err, source.err)
	}
	assert.Equal(t, 2, source.calls)
}

func TestStore_Save(t *testing.T) {
	path := writeQuizFile(t, `{"chapters": [{"id": 1}]}`)
	store := NewStore(NewFileSource(path), 60, nil)
	ctx := context.Background()

	_, err := store.ListAll(ctx)
	require.NoError(t, err)

	newDoc := `{"chapters": [{"id": 1}, {"id": 7, "title": "new one"}]}`
	require.NoError(t, store.Save(ctx, []byte(newDoc)))

	// cache dropped on save
	chapter, err := store.GetChapter(ctx, 7)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 7, "title": "new one"}`, string(chapter))

	fileContent, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, newDoc, string(fileContent))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_SaveInvalid(t *testing.T) {
	path := writeQuizFile(t, `{"chapters": [{"id": 1}]}`)
	store := NewStore(NewFileSource(path), 0, nil)
	ctx := context.Background()

	for _, content := range []string{`not json`, `[1, 2]`, `{"chapters": "nope"}`, `null`, `42`, `"quiz"`, `true`} {
		err := store.Save(ctx, []byte(content))
		assert.ErrorIs(t, err, ErrInvalidDocument, content)
	}

	fileContent, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"chapters": [{"id": 1}]}`, string(fileContent))
}

func TestStore_SaveReadOnlySource(t *testing.T) {
	store := NewStore(&errSource{}, 0, nil)
	assert.ErrorIs(t, store.Save(context.Background(), []byte(`{}`)), ErrReadOnlySource)
}
