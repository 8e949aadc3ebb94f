package coursebook

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/alnah/go-coursebook/internal/assets"
	"github.com/alnah/go-coursebook/internal/fileutil"
	"github.com/alnah/go-coursebook/internal/notebook"
	"github.com/alnah/go-coursebook/internal/outline"
	"github.com/alnah/go-coursebook/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ assets.AssetLoader           = (*assets.AssetResolver)(nil)
	_ pipeline.NotebookTransformer = (*pipeline.Transformer)(nil)
)

// Notebook and page names inside a module directory.
const (
	titlePageName    = "chapter_title.md"
	introNotebook    = "intro.ipynb"
	studentDir       = "student"
	introSuffix      = "_Intro.ipynb"
	outroSuffix      = "_Outro.ipynb"
	daySummarySuffix = "_DaySummary.ipynb"
	titlePagePerm    = 0o644
)

// Builder assembles the book outline from the materials manifest and
// prepares every referenced notebook for publishing.
// Create with NewBuilder(), then call Build() and WriteOutline().
type Builder struct {
	layout      Layout
	assetPath   string
	progress    io.Writer
	loader      assets.AssetLoader
	transformer pipeline.NotebookTransformer
	titlePage   *titlePageRenderer
}

// BuildResult reports what a build produced.
type BuildResult struct {
	Outline     outline.Document
	TitlePages  []string // Written title pages, layout-relative
	Transformed []string // Rewritten notebooks, layout-relative
	Missing     []string // Listed tutorials not present on disk
}

// NewBuilder creates a Builder for layout.
// Returns error if the layout is incomplete or the assets cannot be loaded.
func NewBuilder(layout Layout, opts ...BuildOption) (*Builder, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	b := &Builder{
		layout:   layout,
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(b)
	}

	resolver, err := assets.NewAssetResolver(b.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	b.loader = resolver

	titleSource, err := b.loader.LoadTemplate(assets.ChapterTitleTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading title page template: %w", err)
	}
	if b.titlePage, err = newTitlePageRenderer(titleSource); err != nil {
		return nil, err
	}

	frameSource, err := b.loader.LoadTemplate(assets.FrameEmbedTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading frame embed template: %w", err)
	}
	if b.transformer, err = pipeline.NewTransformer(frameSource); err != nil {
		return nil, fmt.Errorf("initializing transformer: %w", err)
	}

	return b, nil
}

// partBuilder accumulates one category's chapters.
type partBuilder struct {
	category string
	chapters []outline.Node
}

// Build lays out every module, writes the title pages, rewrites the notebooks
// found on disk and returns the outline. Parts follow the order in which
// categories first appear in modules.
func (b *Builder) Build(ctx context.Context, modules []Module) (*BuildResult, error) {
	result := &BuildResult{}

	var parts []*partBuilder
	byCategory := make(map[string]*partBuilder)

	for _, m := range modules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}

		fmt.Fprintln(b.progress, m.Day)

		chapter, err := b.buildChapter(ctx, m, result)
		if err != nil {
			return nil, err
		}

		part, ok := byCategory[m.Category]
		if !ok {
			part = &partBuilder{category: m.Category}
			byCategory[m.Category] = part
			parts = append(parts, part)
		}
		part.chapters = append(part.chapters, chapter)
	}

	intro := path.Join(b.layout.Tutorials, introNotebook)
	if _, err := b.transformIfPresent(ctx, intro, result); err != nil {
		return nil, err
	}

	help, err := b.technicalHelp()
	if err != nil {
		return nil, err
	}

	doc := outline.Document{outline.Leaf(intro), help}
	for _, part := range parts {
		wrapUp := path.Join(b.layout.WrapUps, fileutil.StripWhitespace(part.category)+notebook.Extension)
		presence, err := b.lookup(wrapUp)
		if err != nil {
			return nil, err
		}
		if presence == fileutil.Found {
			part.chapters = append(part.chapters, outline.Leaf(wrapUp))
		}
		doc = append(doc, outline.Node{Part: part.category, Chapters: part.chapters})
	}

	result.Outline = doc
	return result, nil
}

// buildChapter writes the module's title page and returns its chapter node.
func (b *Builder) buildChapter(ctx context.Context, m Module, result *BuildResult) (outline.Node, error) {
	moduleDir := path.Join(b.layout.Tutorials, m.Directory())

	titlePage, err := b.writeTitlePage(m, moduleDir)
	if err != nil {
		return outline.Node{}, err
	}
	result.TitlePages = append(result.TitlePages, titlePage)

	chapter := outline.Node{
		File:  titlePage,
		Title: fmt.Sprintf("%s (%s)", m.Name, m.Day),
	}

	optional := func(suffix string) error {
		nb := path.Join(moduleDir, m.Day+suffix)
		found, err := b.transformIfPresent(ctx, nb, result)
		if err != nil {
			return err
		}
		if found {
			chapter.Sections = append(chapter.Sections, outline.Leaf(nb))
		}
		return nil
	}

	if err := optional(introSuffix); err != nil {
		return outline.Node{}, err
	}

	for i := 1; i <= m.Tutorials; i++ {
		nb := path.Join(moduleDir, studentDir, fmt.Sprintf("%s_Tutorial%d%s", m.Day, i, notebook.Extension))
		found, err := b.transformIfPresent(ctx, nb, result)
		if err != nil {
			return outline.Node{}, err
		}
		if !found {
			result.Missing = append(result.Missing, nb)
		}
		chapter.Sections = append(chapter.Sections, outline.Leaf(nb))
	}

	if err := optional(outroSuffix); err != nil {
		return outline.Node{}, err
	}
	if err := optional(daySummarySuffix); err != nil {
		return outline.Node{}, err
	}

	return chapter, nil
}

// writeTitlePage renders and writes the module's title page, returning its
// layout-relative path.
func (b *Builder) writeTitlePage(m Module, moduleDir string) (string, error) {
	art, err := artworkFor(b.layout.Path(moduleDir), b.layout.Path(b.layout.Art), m.Day)
	if err != nil {
		return "", err
	}

	page, err := b.titlePage.Render(TitlePage{Name: m.Name, Art: art})
	if err != nil {
		return "", err
	}

	rel := path.Join(moduleDir, titlePageName)
	if err := fileutil.WriteFileAtomic(b.layout.Path(rel), []byte(page), titlePagePerm); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteTitlePage, err)
	}
	return rel, nil
}

// transformIfPresent rewrites the notebook at rel when it exists.
func (b *Builder) transformIfPresent(ctx context.Context, rel string, result *BuildResult) (bool, error) {
	presence, err := b.lookup(rel)
	if err != nil {
		return false, err
	}
	if presence == fileutil.NotFound {
		return false, nil
	}

	file := b.layout.Path(rel)
	nb, err := notebook.ReadFile(file)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrReadNotebook, err)
	}

	out, err := b.transformer.Transform(ctx, nb)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrTransform, rel, err)
	}

	if err := notebook.WriteFile(file, out); err != nil {
		return false, fmt.Errorf("%w: %v", ErrWriteNotebook, err)
	}

	result.Transformed = append(result.Transformed, rel)
	return true, nil
}

// lookup checks a layout-relative path.
func (b *Builder) lookup(rel string) (fileutil.Presence, error) {
	return fileutil.Lookup(b.layout.Path(rel))
}

// technicalHelp loads the fixed help chapter.
func (b *Builder) technicalHelp() (outline.Node, error) {
	data, err := b.loader.LoadOutline(assets.TechnicalHelpOutline)
	if err != nil {
		return outline.Node{}, fmt.Errorf("loading technical help outline: %w", err)
	}
	node, err := outline.ParseNode(data)
	if err != nil {
		return outline.Node{}, fmt.Errorf("technical help outline: %w", err)
	}
	return node, nil
}

// WriteOutline encodes doc and atomically writes it to the layout's
// outline path, creating parent directories.
func (b *Builder) WriteOutline(doc outline.Document) error {
	if err := outline.Write(b.layout.Path(b.layout.Outline), doc); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutline, err)
	}
	return nil
}
