package repo

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/freeeve/uci"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"puzzle_tagger/internal/bootstrap"
	errdefs "puzzle_tagger/internal/errors"
)

const evalCacheTTL = 24 * time.Hour

// EngineRepository wraps a UCI engine subprocess behind a FEN evaluation
// cache. The subprocess speaks one search at a time, so calls are serialized;
// cache hits bypass the engine entirely.
type EngineRepository struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	redis  *redis.Client
	engine *uci.Engine
	mu     sync.Mutex
}

func NewEngineRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redisClient *redis.Client) (*EngineRepository, error) {
	engine, err := uci.NewEngine(cfg.EnginePath)
	if err != nil {
		return nil, err
	}

	err = engine.SetOptions(uci.Options{
		MultiPV: 1,
		Hash:    cfg.EngineHashMB,
		Ponder:  false,
		OwnBook: false,
	})
	if err != nil {
		engine.Close()
		return nil, err
	}

	return &EngineRepository{
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
		engine: engine,
	}, nil
}

// Evaluate returns the engine score of a position in centipawns from the
// side to move. Forced mates are collapsed onto the centipawn scale: mate in
// n maps to ±(10000-n), keeping shorter mates more valuable.
func (e *EngineRepository) Evaluate(ctx context.Context, fen string) (int, error) {
	if e.redis != nil {
		cached, err := e.redis.Get(ctx, evalKey(fen)).Result()
		if err == nil {
			if cp, convErr := strconv.Atoi(cached); convErr == nil {
				return cp, nil
			}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.engine.SetFEN(fen); err != nil {
		return 0, err
	}
	result, err := e.engine.GoDepth(e.cfg.EngineDepth)
	if err != nil {
		return 0, err
	}
	if len(result.Results) == 0 {
		return 0, errdefs.ErrMissingEval
	}

	best := result.Results[0]
	cp := best.Score
	if best.Mate {
		if best.Score >= 0 {
			cp = 10000 - best.Score
		} else {
			cp = -10000 - best.Score
		}
	}

	if e.redis != nil {
		if err := e.redis.Set(ctx, evalKey(fen), strconv.Itoa(cp), evalCacheTTL).Err(); err != nil {
			e.log.Warnf("failed to cache evaluation for %q: %v", fen, err)
		}
	}
	return cp, nil
}

func (e *EngineRepository) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.engine.Close()
}

func evalKey(fen string) string {
	return "eval:" + fen
}
