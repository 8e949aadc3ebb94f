// Package coursebook builds the table of contents of a course book and
// executes the notebooks it references.
//
// # Building the Book
//
// A Builder reads nothing on its own: load the materials manifest, then
// build and write the outline:
//
//	layout := coursebook.DefaultLayout(".")
//	modules, err := coursebook.LoadMaterials(layout.Path(layout.Materials))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b, err := coursebook.NewBuilder(layout, coursebook.WithProgress(os.Stdout))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := b.Build(ctx, modules)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := b.WriteOutline(result.Outline); err != nil {
//	    log.Fatal(err)
//	}
//
// For each module Build writes a chapter title page (with the module's
// artwork when exactly one art file names its day), lists the intro,
// tutorial, outro and summary notebooks, and rewrites every notebook found
// on disk for publishing:
//
//  1. Links in the first line of the first cell open in a new tab
//  2. Embedded videos are resized to the book's column width
//  3. Hidden form cells get a heading and note cell in front of them
//
// Tutorials listed in the manifest but missing on disk are still referenced
// by the outline and reported in BuildResult.Missing.
//
// # Running Notebooks
//
// A Runner executes every notebook an outline references through
// `jupyter nbconvert`, strictly one at a time:
//
//	r := coursebook.NewRunner(
//	    coursebook.WithTimeout(2*time.Hour),
//	    coursebook.WithKernel("python3"),
//	    coursebook.WithNotices(os.Stdout),
//	)
//	report, err := r.Run(ctx, "book/_toc.yml")
//
// Errors raised inside a notebook are recorded in its outputs. A notebook the
// engine cannot execute at all is reported in RunReport.Failed and the run
// goes on; Run then returns an error wrapping ErrExecution.
//
// # Error Handling
//
// Errors are wrapped sentinels; test with errors.Is:
//
//	if errors.Is(err, coursebook.ErrExecutorNotFound) {
//	    // jupyter is not installed
//	}
package coursebook
