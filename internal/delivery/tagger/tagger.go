package tagger

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"puzzle_tagger/internal/adapters"
	"puzzle_tagger/internal/bootstrap"
	"puzzle_tagger/internal/domain/tag"
	errdefs "puzzle_tagger/internal/errors"
	"puzzle_tagger/internal/httpresponse"
	repo "puzzle_tagger/internal/repository"
	taggeruc "puzzle_tagger/internal/usecase/tagger"
	"puzzle_tagger/internal/utils"
)

type TaggerHandler struct {
	cfg      bootstrap.Config
	log      *zap.SugaredLogger
	taggerUC *taggeruc.TaggerUseCase
	puzzles  *repo.PuzzleRepository
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewTaggerHandler(cfg bootstrap.Config, log *zap.SugaredLogger, mongoAdapter *adapters.AdapterMongo, redisAdapter *adapters.AdapterRedis) *TaggerHandler {
	puzzles := repo.NewPuzzleRepository(cfg, log, mongoAdapter.Database)

	var engine taggeruc.Evaluator
	engineRepo, err := repo.NewEngineRepository(cfg, log, redisAdapter.GetClient())
	if err != nil {
		log.Warnf("engine unavailable, zugzwang tagging disabled: %v", err)
	} else {
		engine = engineRepo
	}

	return &TaggerHandler{
		cfg:      cfg,
		log:      log,
		taggerUC: taggeruc.NewTaggerUseCase(cfg, log, puzzles, engine),
		puzzles:  puzzles,
	}
}

type classifyRequest struct {
	ID   string `json:"id"`
	FEN  string `json:"fen"`
	Line string `json:"line"`
	CP   int    `json:"cp"`
}

type classifyResponse struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

// HandleClassify cooks the tag list for an ad-hoc line without touching
// storage.
func (t *TaggerHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		t.log.Error("JSON decode error:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	tags, err := t.taggerUC.ClassifyLine(req.ID, req.FEN, req.Line, req.CP)
	if err != nil {
		t.log.Errorf("failed to classify %s: %v", req.ID, err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, classifyResponse{
		ID:   req.ID,
		Tags: tag.Strings(tags),
	})
}

// HandleGetPuzzle fetches a stored puzzle with its published round tags.
func (t *TaggerHandler) HandleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	rec, err := t.puzzles.GetPuzzle(ctx, id)
	if errors.Is(err, errdefs.ErrPuzzleNotFound) {
		httpresponse.WriteResponseWithStatus(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		httpresponse.WriteInternalErrorResponse(w)
		return
	}

	roundTags, err := t.puzzles.RoundTags(ctx, id)
	if err != nil {
		httpresponse.WriteInternalErrorResponse(w)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, map[string]any{
		"puzzle": rec,
		"tags":   roundTags,
	})
}

type runRequest struct {
	Workers int  `json:"workers"`
	Dry     bool `json:"dry"`
	All     bool `json:"all"`
	Zug     bool `json:"zug"`
}

// HandleRun kicks off a batch tagging run in the background.
func (t *TaggerHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		t.log.Error("JSON decode error:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	go func() {
		err := t.taggerUC.Run(context.Background(), taggeruc.Options{
			Workers: req.Workers,
			Dry:     req.Dry,
			All:     req.All,
			Zug:     req.Zug,
		})
		if err != nil && !errors.Is(err, errdefs.ErrRunInProgress) {
			t.log.Errorf("batch run failed: %v", err)
		}
	}()

	httpresponse.WriteResponseWithStatus(w, http.StatusAccepted, "run started")
}

// HandleProgress streams run progress snapshots over a websocket until the
// client goes away or the run finishes.
func (t *TaggerHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		t.log.Error("upgrade error:", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		progress := t.taggerUC.Progress()
		if err := conn.WriteJSON(progress); err != nil {
			return
		}
		if !progress.Running {
			return
		}
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// HandleZugzwang runs the engine-assisted zugzwang check for one puzzle.
func (t *TaggerHandler) HandleZugzwang(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	zug, err := t.taggerUC.TagZugzwang(r.Context(), id)
	if errors.Is(err, errdefs.ErrPuzzleNotFound) {
		httpresponse.WriteResponseWithStatus(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		t.log.Errorf("zugzwang check for %s: %v", id, err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, map[string]any{
		"id":       id,
		"zugzwang": zug,
	})
}
