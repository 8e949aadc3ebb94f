package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTemplate loads a template by name using the default embedded loader.
// The name should not include the .tmpl extension or path components.
// Returns ErrTemplateNotFound if the template does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// LoadOutline loads an outline fragment by name using the default embedded loader.
// Returns ErrOutlineNotFound if the fragment does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadOutline(name string) ([]byte, error) {
	return defaultLoader.LoadOutline(name)
}
