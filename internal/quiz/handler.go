package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/2beens/quizserver/internal/telemetry/tracing"
	"github.com/2beens/quizserver/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EditPath is where the editor saves the quiz document. It must be gated
// behind the session.
const EditPath = "/api/editor/quiz"

// max size of a saved quiz document
const maxDocumentBytes = 5 << 20

type contentStore interface {
	ListAll(ctx context.Context) (json.RawMessage, error)
	GetChapter(ctx context.Context, id int) (json.RawMessage, error)
	Save(ctx context.Context, content []byte) error
}

type Handler struct {
	store contentStore
}

func NewHandler(store contentStore) *Handler {
	return &Handler{
		store: store,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/quiz", handler.handleListAll).Methods("GET").Name("quiz")
	router.HandleFunc("/api/quiz/chapter/{id}", handler.handleGetChapter).Methods("GET").Name("quiz-chapter")
	router.HandleFunc(EditPath, handler.handleSave).Methods("PUT", "OPTIONS").Name("quiz-save")
}

func (handler *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "quizHandler.listAll")
	defer span.End()

	doc, err := handler.store.ListAll(ctx)
	if err != nil {
		log.Errorf("get quiz document: %s", err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrInvalidDocument) {
			pkg.WriteJSONError(w, http.StatusInternalServerError, "invalid data format")
			return
		}
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to read data")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, doc)
}

func (handler *Handler) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "quizHandler.getChapter")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, "invalid chapter id")
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid chapter id")
		return
	}
	span.SetAttributes(attribute.Int("chapter.id", id))

	chapter, err := handler.store.GetChapter(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrChapterNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "chapter not found")
			return
		}
		log.Errorf("get quiz chapter %d: %s", id, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to read data")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, chapter)
}

func (handler *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "quizHandler.save")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "PUT, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	content, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes+1))
	if err != nil {
		log.Errorf("save quiz, read body: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(content) > maxDocumentBytes {
		pkg.WriteJSONError(w, http.StatusRequestEntityTooLarge, "quiz document too large")
		return
	}

	if err := handler.store.Save(ctx, content); err != nil {
		span.SetStatus(codes.Error, err.Error())
		switch {
		case errors.Is(err, ErrInvalidDocument):
			pkg.WriteJSONError(w, http.StatusBadRequest, "invalid data format")
		case errors.Is(err, ErrReadOnlySource):
			pkg.WriteJSONError(w, http.StatusMethodNotAllowed, err.Error())
		default:
			log.Errorf("save quiz document: %s", err)
			pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to save data")
		}
		return
	}

	log.Debugf("quiz document saved, %d bytes", len(content))
	span.SetStatus(codes.Ok, "saved")
	pkg.WriteJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}
