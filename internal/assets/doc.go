// Package assets provides the templates and outline fragments used to build
// a course book. Assets can be loaded from embedded files or a custom
// filesystem path.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the book builder. A course can
// override the chapter title page or the frame embed cell by placing a file
// with the same name under its asset path; anything not overridden falls
// back to the embedded copy.
//
// # Directory Structure
//
//	{basePath}/
//	├── templates/
//	│   ├── chapter_title.tmpl   # Module title page (text/template)
//	│   └── frame_embed.tmpl     # Slide frame code cell (text/template)
//	└── outlines/
//	    └── technical_help.yaml  # Static outline chapter
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
