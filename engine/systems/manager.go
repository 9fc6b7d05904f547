package systems

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/assets/loaders"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/strategy"
)

/** @brief The configuration used to wire every system together. */
type SystemManagerConfig struct {
	/** @brief Local directory holding the model files. Enumerated and, optionally, watched. */
	AssetDir string
	/** @brief When set, relative asset URLs are fetched from this server instead of AssetDir. */
	BaseURL string
	/** @brief Template turning a file name into its URL, e.g. "/assets/%s". */
	PathTemplate string
	/** @brief Names always offered, in order, before the discovered ones. */
	StaticAssets []string
	ColorMode    strategy.ColorMode
	/** @brief Number of load workers. Defaults to the number of CPUs. */
	Workers   int
	QueueSize int
}

type SystemManager struct {
	Locator    *assets.Locator
	Fetcher    *assets.ResourceFetcher
	Decoders   *assets.Decoders
	SceneCache *strategy.SceneCache
	Registry   *strategy.Registry
	Strategies *strategy.Set
	JobSystem  *JobSystem
	Metrics    *core.MetricsState
}

func NewSystemManager(config *SystemManagerConfig) (*SystemManager, error) {
	workers := config.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	js, err := NewJobSystem(workers, config.QueueSize)
	if err != nil {
		return nil, err
	}

	locator, err := assets.NewLocator(assets.LocatorConfig{
		Dir:          config.AssetDir,
		Static:       config.StaticAssets,
		PathTemplate: config.PathTemplate,
	})
	if err != nil {
		js.Shutdown()
		return nil, err
	}

	root := config.AssetDir
	if root == "" {
		root = "."
	}
	fetcher := assets.NewResourceFetcher(root, config.BaseURL, locator.PathPrefix())

	decoders := assets.NewDecoders()
	decoders.Register(assets.FormatGLTFBinary, loaders.NewGLTFLoader(fetcher))
	decoders.Register(assets.FormatWavefrontOBJ, loaders.NewOBJLoader(fetcher))

	cache := strategy.NewSceneCache(decoders)
	registry := strategy.NewRegistry()
	direct := strategy.NewDirectLoader(decoders, config.ColorMode)

	core.LogInfo("systems initialized: %d workers, %d assets", workers, len(locator.List()))

	return &SystemManager{
		Locator:    locator,
		Fetcher:    fetcher,
		Decoders:   decoders,
		SceneCache: cache,
		Registry:   registry,
		Strategies: &strategy.Set{
			Direct:      direct,
			Cached:      strategy.NewCachedLoader(cache),
			Declarative: strategy.NewDeclarativeLoader(registry, cache, direct),
		},
		JobSystem: js,
		Metrics:   core.NewMetrics(),
	}, nil
}

/**
 * @brief Queues a load of the asset with the given strategy.
 * @param generation Tag copied onto the returned future.
 * @return The future settling with a *strategy.LoadedScene.
 */
func (sm *SystemManager) SubmitLoad(ctx context.Context, desc assets.AssetDescriptor, s strategy.Strategy, generation uint64) (*Future, error) {
	loader, err := sm.Strategies.Loader(s)
	if err != nil {
		return nil, err
	}
	url := sm.Locator.URL(desc.FileName)
	name := fmt.Sprintf("%s/%s", desc.FileName, s)

	return sm.JobSystem.Submit(ctx, name, generation, func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		loaded, err := loader.Load(ctx, desc, url)
		sm.Metrics.Record(core.LoadSample{
			Asset:    desc.FileName,
			Strategy: s.String(),
			Duration: time.Since(start),
			Failed:   err != nil,
		})
		if err != nil {
			return nil, err
		}
		return loaded, nil
	})
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.JobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.Locator.Close(); err != nil {
		return err
	}
	return nil
}
