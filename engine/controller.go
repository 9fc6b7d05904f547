package engine

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/strategy"
)

// Selection is the (asset, strategy) pair picked in the panel together with
// the compatibility verdict for it.
type Selection struct {
	Asset         assets.AssetDescriptor
	Strategy      strategy.Strategy
	Compatibility strategy.Compatibility
}

// Empty is true before any asset has been selected.
func (s Selection) Empty() bool {
	return s.Asset.FileName == ""
}

type Controller struct {
	locator *assets.Locator

	mutex    sync.RWMutex
	asset    assets.AssetDescriptor
	strategy strategy.Strategy
}

// NewController starts with the given strategy and asset. An empty asset
// name selects the first listed asset, if any.
func NewController(locator *assets.Locator, asset string, s strategy.Strategy) (*Controller, error) {
	c := &Controller{
		locator:  locator,
		strategy: s,
	}
	if asset == "" {
		list := locator.List()
		if len(list) == 0 {
			return c, nil
		}
		asset = list[0]
	}
	if err := c.SelectAsset(asset); err != nil {
		return nil, err
	}
	return c, nil
}

// SelectAsset switches the model. Wavefront assets force the Direct strategy.
func (c *Controller) SelectAsset(name string) error {
	desc, err := c.locator.Describe(name)
	if err != nil {
		return err
	}
	if desc.Format == assets.FormatUnknown {
		return fmt.Errorf("%s: %w", name, core.ErrUnsupportedFormat)
	}

	c.mutex.Lock()
	c.asset = desc
	forced := false
	previous := c.strategy
	if desc.Format == assets.FormatWavefrontOBJ && c.strategy != strategy.Direct {
		c.strategy = strategy.Direct
		forced = true
	}
	c.mutex.Unlock()

	core.LogDebug("asset selected: %s (%s)", desc.FileName, desc.Format)
	core.EventFire(core.EventContext{
		Type:   core.EVENT_CODE_ASSET_SELECTED,
		Sender: c,
		Data:   desc.FileName,
	})
	if forced {
		core.LogInfo("%s is a %s file, switching from %s to %s", desc.FileName, desc.Format, previous.Label(), strategy.Direct.Label())
		core.EventFire(core.EventContext{
			Type:   core.EVENT_CODE_STRATEGY_FORCED,
			Sender: c,
			Data:   strategy.Direct.String(),
		})
	}
	return nil
}

// SelectStrategy always records the choice. Whether it can take effect is
// decided by the compatibility policy.
func (c *Controller) SelectStrategy(s strategy.Strategy) error {
	if _, err := strategy.ParseStrategy(s.String()); err != nil {
		return err
	}

	c.mutex.Lock()
	c.strategy = s
	c.mutex.Unlock()

	core.LogDebug("strategy selected: %s", s)
	core.EventFire(core.EventContext{
		Type:   core.EVENT_CODE_STRATEGY_SELECTED,
		Sender: c,
		Data:   s.String(),
	})
	return nil
}

func (c *Controller) State() Selection {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return Selection{
		Asset:         c.asset,
		Strategy:      c.strategy,
		Compatibility: strategy.Evaluate(c.asset.Format, c.strategy),
	}
}

// Forget clears the asset selection when it is no longer listed.
func (c *Controller) Forget(name string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.asset.FileName != name {
		return false
	}
	c.asset = assets.AssetDescriptor{}
	return true
}
