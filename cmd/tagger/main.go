package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"puzzle_tagger/internal/adapters"
	"puzzle_tagger/internal/bootstrap"
	repo "puzzle_tagger/internal/repository"
	taggeruc "puzzle_tagger/internal/usecase/tagger"
)

func main() {
	workers := flag.Int("threads", 0, "count of worker goroutines")
	dry := flag.Bool("dry", false, "dry run, write nothing")
	all := flag.Bool("all", false, "don't skip puzzles that already have a round")
	zug := flag.Bool("zug", false, "run the engine zugzwang pass over rounds without a verdict")
	enginePath := flag.String("engine", "", "analysis engine binary")
	flag.Parse()

	logger := newLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Fatal("Failed to setup configuration", zap.Error(err))
	}
	if *enginePath != "" {
		cfg.EnginePath = *enginePath
	}

	ctx := context.Background()

	mongoAdapter := adapters.NewAdapterMongo(cfg)
	if err := mongoAdapter.Init(ctx); err != nil {
		logger.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}
	defer mongoAdapter.Close(ctx)

	redisAdapter := adapters.NewAdapterRedis(cfg)
	if err := redisAdapter.Init(ctx); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisAdapter.Close(ctx)

	puzzles := repo.NewPuzzleRepository(*cfg, logger, mongoAdapter.Database)

	engineRepo, err := repo.NewEngineRepository(*cfg, logger, redisAdapter.GetClient())
	if err != nil {
		logger.Fatal("Failed to start analysis engine", zap.Error(err))
	}
	defer engineRepo.Close()

	uc := taggeruc.NewTaggerUseCase(*cfg, logger, puzzles, engineRepo)
	err = uc.Run(ctx, taggeruc.Options{
		Workers: *workers,
		Dry:     *dry,
		All:     *all,
		Zug:     *zug,
	})
	if err != nil {
		logger.Fatal("Batch run failed", zap.Error(err))
	}
}

func newLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}
