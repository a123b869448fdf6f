package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"puzzle_tagger/internal/bootstrap"
	"puzzle_tagger/internal/domain/puzzle"
	errdefs "puzzle_tagger/internal/errors"
)

const (
	playCollection  = "puzzle2_puzzle"
	roundCollection = "puzzle2_round"
)

type PuzzleRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	mongo *mongo.Database
}

func NewPuzzleRepository(cfg bootstrap.Config, log *zap.SugaredLogger, db *mongo.Database) *PuzzleRepository {
	return &PuzzleRepository{
		cfg:   cfg,
		log:   log,
		mongo: db,
	}
}

// GetPuzzle loads one puzzle by id.
func (p *PuzzleRepository) GetPuzzle(ctx context.Context, id string) (puzzle.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec puzzle.Record
	err := p.mongo.Collection(playCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return puzzle.Record{}, errdefs.ErrPuzzleNotFound
	}
	if err != nil {
		p.log.Errorf("failed to load puzzle %s: %v", id, err)
		return puzzle.Record{}, err
	}
	return rec, nil
}

// ForEachUntagged streams puzzles that have no private tagger themes yet and
// feeds each one to fn. Iteration stops on the first cursor error or when the
// context is done; fn errors are the caller's business and do not stop the
// stream.
func (p *PuzzleRepository) ForEachUntagged(ctx context.Context, fn func(puzzle.Record)) error {
	cur, err := p.mongo.Collection(playCollection).Find(ctx, bson.M{"themes": bson.A{}})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var rec puzzle.Record
		if err := cur.Decode(&rec); err != nil {
			p.log.Errorf("failed to decode puzzle document: %v", err)
			continue
		}
		fn(rec)
	}
	return cur.Err()
}

// ForEachRoundWithoutZugzwang streams the puzzle ids of rounds that carry
// neither zugzwang verdict yet, for the engine pass.
func (p *PuzzleRepository) ForEachRoundWithoutZugzwang(ctx context.Context, fn func(puzzleID string)) error {
	filter := bson.M{"t": bson.M{"$nin": bson.A{"+zugzwang", "-zugzwang"}}}
	opts := options.Find().SetProjection(bson.M{"p": true})
	cur, err := p.mongo.Collection(roundCollection).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var round puzzle.Round
		if err := cur.Decode(&round); err != nil {
			p.log.Errorf("failed to decode round document: %v", err)
			continue
		}
		fn(round.Puzzle)
	}
	return cur.Err()
}

// RoundTags returns the published tags of a puzzle's round, a nil slice when
// no round exists yet.
func (p *PuzzleRepository) RoundTags(ctx context.Context, puzzleID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var round puzzle.Round
	opts := options.FindOne().SetProjection(bson.M{"t": true})
	err := p.mongo.Collection(roundCollection).
		FindOne(ctx, bson.M{"_id": puzzle.RoundID(puzzleID)}, opts).
		Decode(&round)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return round.Tags, nil
}

// HasRound reports whether a round with at least two tags already exists.
func (p *PuzzleRepository) HasRound(ctx context.Context, puzzleID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := p.mongo.Collection(roundCollection).CountDocuments(ctx, bson.M{
		"_id": puzzle.RoundID(puzzleID),
		"t.1": bson.M{"$exists": true},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveRound upserts the round document for a puzzle and marks the puzzle
// dirty so downstream consumers re-read it.
func (p *PuzzleRepository) SaveRound(ctx context.Context, round puzzle.Round) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"p": round.Puzzle,
			"d": round.GeneratedAt,
			"e": round.Weight,
			"t": round.Tags,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := p.mongo.Collection(roundCollection).UpdateOne(ctx, bson.M{"_id": round.ID}, update, opts); err != nil {
		p.log.Errorf("failed to upsert round %s: %v", round.ID, err)
		return err
	}
	return p.MarkDirty(ctx, round.Puzzle)
}

// MarkDirty flags a puzzle as changed.
func (p *PuzzleRepository) MarkDirty(ctx context.Context, puzzleID string) error {
	_, err := p.mongo.Collection(playCollection).UpdateMany(ctx,
		bson.M{"_id": puzzleID},
		bson.M{"$set": bson.M{"dirty": true}})
	if err != nil {
		p.log.Errorf("failed to mark puzzle %s dirty: %v", puzzleID, err)
	}
	return err
}

// AddRoundTag pushes a single tag onto a round without duplicates, used for
// engine-assisted verdicts like zugzwang.
func (p *PuzzleRepository) AddRoundTag(ctx context.Context, puzzleID string, tag string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := p.mongo.Collection(roundCollection).UpdateOne(ctx,
		bson.M{"_id": puzzle.RoundID(puzzleID)},
		bson.M{"$addToSet": bson.M{"t": tag}})
	if err != nil {
		p.log.Errorf("failed to add tag %s to round of %s: %v", tag, puzzleID, err)
		return err
	}
	return p.MarkDirty(ctx, puzzleID)
}
