package engine

import (
	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/strategy"
)

type AssetOption struct {
	Name     string
	Format   assets.Format
	Selected bool
}

type StrategyButton struct {
	Strategy strategy.Strategy
	Label    string
	Active   bool
	// Wavefront assets can only be shown with the Direct strategy.
	Disabled bool
}

// PanelModel is everything the control panel displays.
type PanelModel struct {
	Assets     []AssetOption
	Strategies []StrategyButton
	ModeLabel  string
	Snippet    string
	Warning    string
}

func (e *Engine) Panel() PanelModel {
	sel := e.controller.State()

	model := PanelModel{
		ModeLabel: sel.Strategy.Label(),
		Snippet:   Snippet(sel.Strategy),
	}
	for _, desc := range e.systemManager.Locator.Descriptors() {
		model.Assets = append(model.Assets, AssetOption{
			Name:     desc.FileName,
			Format:   desc.Format,
			Selected: desc.FileName == sel.Asset.FileName,
		})
	}
	for _, s := range strategy.All {
		model.Strategies = append(model.Strategies, StrategyButton{
			Strategy: s,
			Label:    s.Label(),
			Active:   s == sel.Strategy,
			Disabled: strategy.Evaluate(sel.Asset.Format, s) == strategy.Incompatible,
		})
	}
	if sel.Compatibility == strategy.Incompatible {
		model.Warning = strategy.IncompatibilityMessage(sel.Asset, sel.Strategy)
	}
	return model
}

var snippets = map[strategy.Strategy]string{
	strategy.Direct: `decoder, _ := decoders.Get(assets.Classify(url))
root, err := decoder.Decode(ctx, url) // decoded on every call
if err != nil {
	return err
}
inventory := direct.Diagnose(root)`,

	strategy.Cached: `cache := strategy.NewSceneCache(decoders)
root, err := cache.GetOrLoad(ctx, "/assets/model.glb") // one decode per URL
if err != nil {
	return err
}`,

	strategy.Declarative: `registry.Register("model.glb", func(g *strategy.Graph) (*scene.Node, error) {
	return scene.NewGroup("Model", scene.NewPrimitive("Scene", g.Scene)), nil
})`,
}

// Snippet returns the example code shown for a strategy.
func Snippet(s strategy.Strategy) string {
	return snippets[s]
}
