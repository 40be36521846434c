package main

import (
	"context"
	"fmt"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hyperjump/kondate/internal/assembler"
	"github.com/hyperjump/kondate/internal/config"
	"github.com/hyperjump/kondate/internal/embedding"
	"github.com/hyperjump/kondate/internal/generator"
	"github.com/hyperjump/kondate/internal/indexer"
	"github.com/hyperjump/kondate/internal/ingest"
	"github.com/hyperjump/kondate/internal/keyword"
	"github.com/hyperjump/kondate/internal/planner"
	"github.com/hyperjump/kondate/internal/retriever"
	"github.com/hyperjump/kondate/internal/search"
	"github.com/hyperjump/kondate/internal/storage"
	"github.com/hyperjump/kondate/internal/telemetry"
	"github.com/hyperjump/kondate/internal/vector"
	"go.uber.org/zap"
)

// Components holds initialized services.
type Components struct {
	Config       *config.Config
	Storage      storage.Storage
	Embedder     embedding.Embedder
	VectorIndex  *vector.MemoryIndex
	KeywordIndex *keyword.BleveIndex
	Engine       *search.Engine
	Indexer      *indexer.Indexer
	Parser       *ingest.Parser
	logger       *zap.Logger
	saveMu       sync.Mutex
}

// SaveVectors writes the vector index to its configured path.
func (c *Components) SaveVectors() {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	if err := c.VectorIndex.Save(c.Config.Storage.VectorIndexPath); err != nil {
		c.logger.Warn("vector index save failed", zap.String("path", c.Config.Storage.VectorIndexPath), zap.Error(err))
	}
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	c := &Components{Config: cfg, Storage: store, logger: logger}

	c.Embedder = embedding.New(cfg.Embedding, logger)

	c.VectorIndex, err = vector.NewMemoryIndex(cfg.Embedding.Dimensions)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	if err := c.VectorIndex.Load(cfg.Storage.VectorIndexPath); err != nil {
		logger.Warn("vector index load skipped, rebuilding", zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(err))
	}

	c.KeywordIndex, err = keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	c.Parser = ingest.NewParser()
	c.Engine = search.NewEngine(store, c.Embedder, c.VectorIndex, c.KeywordIndex, &cfg.Search, search.WithLogger(logger))
	c.Indexer = indexer.New(store, c.Embedder, c.VectorIndex, c.KeywordIndex, c.Parser, indexer.WithLogger(logger))

	// The database is the source of truth; rebuild indices that fell behind it.
	count, err := store.CountFoods(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to count foods: %w", err)
	}
	docs, _ := c.KeywordIndex.DocCount()
	if count > 0 && (int64(c.VectorIndex.Size()) != count || int64(docs) != count) {
		n, err := c.Indexer.Reindex(ctx)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to rebuild indices: %w", err)
		}
		logger.Info("Rebuilt indices from storage", zap.Int("foods", n))
		c.SaveVectors()
	}
	return c, nil
}

// newPlanner wires retrieval and generation into the planning pipeline.
func newPlanner(ctx context.Context, cfg *config.Config, c *Components, providers *telemetry.Providers, logger *zap.Logger) (planner.Service, error) {
	gen, err := generator.New(ctx, cfg.Generator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}
	ret := retriever.New(search.NewCorpus(c.Engine),
		retriever.WithLogger(logger),
		retriever.WithOptions(retriever.Options{
			RetrievalK:        cfg.Planner.RetrievalK,
			MaxPerMeal:        cfg.Planner.MaxCandidatesPerMeal,
			FlexibilityFactor: cfg.Planner.FlexibilityFactor,
			SearchTimeout:     cfg.Planner.SearchTimeout,
		}),
	)
	asm := assembler.New(gen,
		assembler.WithLogger(logger),
		assembler.WithOptions(assembler.Options{
			CandidatesPerSlot: cfg.Planner.PromptCandidates,
			GenerateTimeout:   cfg.Planner.GenerateTimeout,
		}),
	)
	base := planner.New(ret, asm, planner.WithLogger(logger))
	if providers == nil {
		return base, nil
	}
	instrumented, err := planner.NewInstrumentedPlanner(base, providers.Tracer, providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to instrument planner: %w", err)
	}
	return instrumented, nil
}

// ingestSource loads one corpus source: a file, a directory, an s3:// URI
// or the built-in sample. It returns the number of items (or, for a
// directory, files) updated.
func ingestSource(ctx context.Context, c *Components, source string) (int, error) {
	switch {
	case source == "sample" || source == ingest.SampleSource:
		foods, err := ingest.SampleFoods()
		if err != nil {
			return 0, err
		}
		return c.Indexer.ReplaceSource(ctx, ingest.SampleSource, foods, nil)
	case ingest.IsS3URI(source):
		var loadOpts []func(*awsconfig.LoadOptions) error
		if c.Config.Generator.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(c.Config.Generator.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return 0, fmt.Errorf("failed to load AWS config: %w", err)
		}
		foods, err := ingest.NewS3Source(s3.NewFromConfig(awsCfg), c.Parser).Fetch(ctx, source)
		if err != nil {
			return 0, err
		}
		return c.Indexer.ReplaceSource(ctx, source, foods, nil)
	default:
		return ingestPath(ctx, c, source)
	}
}
