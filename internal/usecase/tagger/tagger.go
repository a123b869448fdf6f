// Package tagger drives batch classification: it streams untagged puzzles
// from storage, cooks their tag lists and publishes rounds, fanning the work
// out over a fixed pool of workers.
package tagger

import (
	"context"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"puzzle_tagger/internal/bootstrap"
	"puzzle_tagger/internal/domain/board"
	"puzzle_tagger/internal/domain/puzzle"
	"puzzle_tagger/internal/domain/tag"
	"puzzle_tagger/internal/domain/variation"
	errdefs "puzzle_tagger/internal/errors"
	"puzzle_tagger/internal/usecase/cook"
)

// PuzzleStore is the persistence surface the tagger needs.
type PuzzleStore interface {
	GetPuzzle(ctx context.Context, id string) (puzzle.Record, error)
	ForEachUntagged(ctx context.Context, fn func(puzzle.Record)) error
	ForEachRoundWithoutZugzwang(ctx context.Context, fn func(puzzleID string)) error
	RoundTags(ctx context.Context, puzzleID string) ([]string, error)
	HasRound(ctx context.Context, puzzleID string) (bool, error)
	SaveRound(ctx context.Context, round puzzle.Round) error
	AddRoundTag(ctx context.Context, puzzleID string, tag string) error
}

// Evaluator scores a position in centipawns from the side to move.
type Evaluator interface {
	Evaluate(ctx context.Context, fen string) (int, error)
}

// Options tune a single batch run.
type Options struct {
	Workers int
	// Dry cooks and counts but writes nothing.
	Dry bool
	// All re-tags puzzles that already have a round.
	All bool
	// Zug runs the engine zugzwang pass over rounds without a verdict
	// instead of the cook pass.
	Zug bool
}

// Progress is a point-in-time snapshot of a run.
type Progress struct {
	RunID    string `json:"runId"`
	Total    int64  `json:"total"`
	Computed int64  `json:"computed"`
	Updated  int64  `json:"updated"`
	Failed   int64  `json:"failed"`
	Running  bool   `json:"running"`
}

type TaggerUseCase struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	store  PuzzleStore
	engine Evaluator

	running  atomic.Bool
	runID    atomic.Value
	total    atomic.Int64
	computed atomic.Int64
	updated  atomic.Int64
	failed   atomic.Int64
}

func NewTaggerUseCase(cfg bootstrap.Config, log *zap.SugaredLogger, store PuzzleStore, engine Evaluator) *TaggerUseCase {
	uc := &TaggerUseCase{
		cfg:    cfg,
		log:    log,
		store:  store,
		engine: engine,
	}
	uc.runID.Store("")
	return uc
}

// Classify cooks the tag list for a single stored puzzle.
func (t *TaggerUseCase) Classify(rec puzzle.Record) ([]tag.Kind, error) {
	cp, _ := rec.Centipawns()
	v, err := variation.FromRecord(rec.ID, rec.FEN, rec.UCIMoves(), cp)
	if err != nil {
		return nil, err
	}
	return cook.Cook(v), nil
}

// ClassifyLine cooks the tag list for an ad-hoc line given as a FEN and
// space-separated coordinate moves.
func (t *TaggerUseCase) ClassifyLine(id, fen, line string, cp int) ([]tag.Kind, error) {
	v, err := variation.FromUCILine(id, fen, line, cp)
	if err != nil {
		return nil, err
	}
	return cook.Cook(v), nil
}

// Run streams every untagged puzzle through the worker pool and blocks until
// the stream is drained. Only one run may be active at a time.
func (t *TaggerUseCase) Run(ctx context.Context, opts Options) error {
	if !t.running.CompareAndSwap(false, true) {
		return errdefs.ErrRunInProgress
	}
	defer t.running.Store(false)

	workers := opts.Workers
	if workers <= 0 {
		workers = t.cfg.Workers
	}
	if workers <= 0 {
		workers = 1
	}

	t.runID.Store(uuid.New().String())
	t.total.Store(0)
	t.computed.Store(0)
	t.updated.Store(0)
	t.failed.Store(0)

	if opts.Zug {
		return t.runZugzwang(ctx, opts, workers)
	}

	// One channel per worker: a puzzle always lands on the same worker, so
	// rounds are never written concurrently for the same id.
	jobs := make([]chan puzzle.Record, workers)
	for i := range jobs {
		jobs[i] = make(chan puzzle.Record, 64)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(ch <-chan puzzle.Record) {
			defer wg.Done()
			for rec := range ch {
				t.process(ctx, rec, opts)
			}
		}(jobs[i])
	}

	err := t.store.ForEachUntagged(ctx, func(rec puzzle.Record) {
		n := t.total.Add(1)
		if n%1000 == 0 {
			t.log.Infof("%d / %d / %d", n, t.computed.Load(), t.updated.Load())
		}
		jobs[partition(rec.ID, workers)] <- rec
	})
	for _, ch := range jobs {
		close(ch)
	}
	wg.Wait()

	t.log.Infof("run %s done: %d scanned, %d computed, %d updated, %d failed",
		t.runID.Load(), t.total.Load(), t.computed.Load(), t.updated.Load(), t.failed.Load())
	return err
}

// runZugzwang streams every round that carries no zugzwang verdict yet and
// lets the engine decide each one.
func (t *TaggerUseCase) runZugzwang(ctx context.Context, opts Options, workers int) error {
	if t.engine == nil {
		return errdefs.ErrMissingEval
	}

	jobs := make([]chan string, workers)
	for i := range jobs {
		jobs[i] = make(chan string, 64)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(ch <-chan string) {
			defer wg.Done()
			for id := range ch {
				t.computed.Add(1)
				verdict, err := t.zugzwangVerdict(ctx, id)
				if err != nil {
					t.fail(id, err)
					continue
				}
				if opts.Dry {
					continue
				}
				if err := t.store.AddRoundTag(ctx, id, verdict); err != nil {
					t.fail(id, err)
					continue
				}
				t.updated.Add(1)
			}
		}(jobs[i])
	}

	err := t.store.ForEachRoundWithoutZugzwang(ctx, func(id string) {
		n := t.total.Add(1)
		if n%1000 == 0 {
			t.log.Infof("%d / %d / %d", n, t.computed.Load(), t.updated.Load())
		}
		jobs[partition(id, workers)] <- id
	})
	for _, ch := range jobs {
		close(ch)
	}
	wg.Wait()

	t.log.Infof("zugzwang run %s done: %d scanned, %d computed, %d updated, %d failed",
		t.runID.Load(), t.total.Load(), t.computed.Load(), t.updated.Load(), t.failed.Load())
	return err
}

// process tags one puzzle; failures are logged and counted, never fatal to
// the run.
func (t *TaggerUseCase) process(ctx context.Context, rec puzzle.Record, opts Options) {
	if !opts.All {
		exists, err := t.store.HasRound(ctx, rec.ID)
		if err != nil {
			t.fail(rec.ID, err)
			return
		}
		if exists {
			return
		}
	}
	t.computed.Add(1)

	if _, ok := rec.Centipawns(); !ok {
		cp, err := t.rescore(ctx, rec)
		if err != nil {
			t.fail(rec.ID, err)
			return
		}
		rec.CP = &cp
	}

	tags, err := t.Classify(rec)
	if err != nil {
		t.fail(rec.ID, err)
		return
	}
	if opts.Dry {
		return
	}

	existing, err := t.store.RoundTags(ctx, rec.ID)
	if err != nil {
		t.fail(rec.ID, err)
		return
	}

	newTags := make([]string, 0, len(tags)+2)
	for _, k := range tags {
		newTags = append(newTags, "+"+string(k))
	}
	// Engine-assisted zugzwang verdicts survive re-tagging.
	for _, existingTag := range existing {
		if existingTag == "+zugzwang" || existingTag == "-zugzwang" {
			newTags = append(newTags, existingTag)
		}
	}

	if existing != nil && sameTagSet(newTags, existing) {
		return
	}

	round := puzzle.Round{
		ID:          puzzle.RoundID(rec.ID),
		Puzzle:      rec.ID,
		GeneratedAt: time.Now(),
		Weight:      puzzle.DefaultWeight,
		Tags:        newTags,
	}
	if err := t.store.SaveRound(ctx, round); err != nil {
		t.fail(rec.ID, err)
		return
	}
	t.updated.Add(1)
}

// rescore asks the engine for the line's final evaluation when the stored
// record carries none. The score comes back from pov's side.
func (t *TaggerUseCase) rescore(ctx context.Context, rec puzzle.Record) (int, error) {
	if t.engine == nil {
		return 0, errdefs.ErrMissingEval
	}
	v, err := variation.FromRecord(rec.ID, rec.FEN, rec.UCIMoves(), 0)
	if err != nil {
		return 0, err
	}
	score, err := t.engine.Evaluate(ctx, v.Final().After.String())
	if err != nil {
		return 0, err
	}
	// the engine scores for the side to move, which is the opponent after
	// pov's last move
	return -score, nil
}

// TagZugzwang runs the engine-assisted zugzwang check on one puzzle and
// records the verdict on its round.
func (t *TaggerUseCase) TagZugzwang(ctx context.Context, id string) (bool, error) {
	if t.engine == nil {
		return false, errdefs.ErrMissingEval
	}
	verdict, err := t.zugzwangVerdict(ctx, id)
	if err != nil {
		return false, err
	}
	zug := verdict == "+zugzwang"
	if err := t.store.AddRoundTag(ctx, id, verdict); err != nil {
		return zug, err
	}
	return zug, nil
}

// zugzwangVerdict loads a puzzle and compares each quiet opponent-to-move
// position against a null-move pass. A position counts as zugzwang when the
// opponent would be clearly better off passing than playing any move.
func (t *TaggerUseCase) zugzwangVerdict(ctx context.Context, id string) (string, error) {
	rec, err := t.store.GetPuzzle(ctx, id)
	if err != nil {
		return "", err
	}
	cp, _ := rec.Centipawns()
	v, err := variation.FromRecord(rec.ID, rec.FEN, rec.UCIMoves(), cp)
	if err != nil {
		return "", err
	}

	for i := 1; i < len(v.Mainline)-1; i += 2 {
		n := v.Mainline[i]
		if board.IsCheck(n.After) {
			continue
		}
		fen := n.After.String()
		moveScore, err := t.engine.Evaluate(ctx, fen)
		if err != nil {
			return "", err
		}
		nullFEN, ok := nullMoveFEN(fen)
		if !ok {
			continue
		}
		passScore, err := t.engine.Evaluate(ctx, nullFEN)
		if err != nil {
			return "", err
		}
		// passScore is from the mover's point of view after the turn flip.
		if -passScore-moveScore >= 200 {
			return "+zugzwang", nil
		}
	}
	return "-zugzwang", nil
}

// Progress reports the current (or last finished) run.
func (t *TaggerUseCase) Progress() Progress {
	id, _ := t.runID.Load().(string)
	return Progress{
		RunID:    id,
		Total:    t.total.Load(),
		Computed: t.computed.Load(),
		Updated:  t.updated.Load(),
		Failed:   t.failed.Load(),
		Running:  t.running.Load(),
	}
}

func (t *TaggerUseCase) fail(id string, err error) {
	t.failed.Add(1)
	t.log.Errorf("puzzle %s: %v", id, err)
}

func partition(id string, workers int) int {
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32() % uint32(workers))
}

func sameTagSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// nullMoveFEN flips the side to move and clears the en passant square, so
// the engine scores the position as if the mover passed.
func nullMoveFEN(fen string) (string, bool) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return "", false
	}
	if parts[1] == "w" {
		parts[1] = "b"
	} else {
		parts[1] = "w"
	}
	parts[3] = "-"
	return strings.Join(parts, " "), true
}
