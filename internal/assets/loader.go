package assets

// Built-in asset names.
const (
	// ChapterTitleTemplate renders the title page of a module chapter.
	ChapterTitleTemplate = "chapter_title"

	// FrameEmbedTemplate is the code cell that replaces a slide frame embed.
	FrameEmbedTemplate = "frame_embed"

	// TechnicalHelpOutline is the static chapter listed after the book intro.
	TechnicalHelpOutline = "technical_help"
)

// File extensions per asset kind.
const (
	templateExt = ".tmpl"
	outlineExt  = ".yaml"
)

// AssetLoader defines the contract for loading book templates and outline fragments.
type AssetLoader interface {
	// LoadTemplate loads a text/template source by name (without extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)

	// LoadOutline loads a YAML outline fragment by name (without extension).
	// Returns ErrOutlineNotFound if the fragment doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadOutline(name string) ([]byte, error)
}
