package config

import (
	"log"

	"github.com/thereceipt/ticket-engine/internal/assembler"
	"github.com/thereceipt/ticket-engine/internal/assets"
)

// AssetResolver returns the resolver for the configured asset directory
func (c *Config) AssetResolver(logger *log.Logger) *assets.Resolver {
	return assets.NewDir(c.Assets.Dir,
		assets.WithFile(assets.Logo, c.Assets.Logo),
		assets.WithFile(assets.Collage, c.Assets.Collage),
		assets.WithLogger(logger),
	)
}

// Assembler returns a document assembler wired to this configuration
func (c *Config) Assembler(logger *log.Logger) *assembler.Assembler {
	return assembler.New(
		assembler.WithAssets(c.AssetResolver(logger)),
		assembler.WithEvent(c.Event),
		assembler.WithLayout(c.RendererLayout()),
		assembler.WithLogger(logger),
		assembler.WithPreviewScale(c.Server.PreviewScale),
	)
}
