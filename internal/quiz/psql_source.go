package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/quizserver/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var (
	_ Source = (*PsqlSource)(nil)
	_ Saver  = (*PsqlSource)(nil)
)

// PsqlSource reads the newest quiz document stored in postgres.
//
//	CREATE SCHEMA quiz;
//	CREATE TABLE quiz.document (
//	    id         SERIAL PRIMARY KEY,
//	    content    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PsqlSource struct {
	db *pgxpool.Pool
}

func NewPsqlSource(db *pgxpool.Pool) *PsqlSource {
	return &PsqlSource{
		db: db,
	}
}

func (s *PsqlSource) Load(ctx context.Context) ([]byte, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "quizPsqlSource.load")
	defer span.End()

	var content []byte
	err := s.db.QueryRow(
		ctx,
		`SELECT content FROM quiz.document ORDER BY created_at DESC, id DESC LIMIT 1;`,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("query quiz document: %w", err)
	}

	return content, nil
}

// Save stores a new version of the quiz document. It becomes the one served.
func (s *PsqlSource) Save(ctx context.Context, content []byte) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "quizPsqlSource.save")
	defer span.End()

	var id int
	if err := s.db.QueryRow(
		ctx,
		`INSERT INTO quiz.document (content) VALUES ($1) RETURNING id;`,
		content,
	).Scan(&id); err != nil {
		return fmt.Errorf("insert quiz document: %w", err)
	}

	log.Debugf("new quiz document version stored: %d", id)
	return nil
}
