package pipeline

import (
	"errors"
	"strconv"
	"strings"

	"github.com/alnah/go-coursebook/internal/notebook"
)

// Markers identifying embedded players and frames in a cell source.
const (
	VideoMarker = "YouTubeVideo"
	FrameMarker = "IFrame"
)

// Player sizes. Source literals are the notebook defaults; the book column
// fits the narrower values.
const (
	sourceWidth  = "854"
	sourceHeight = "480"

	VideoWidth  = 730
	VideoHeight = 410
)

// ResizeVideos narrows embedded players and wraps slide frames.
//
// In every cell mentioning VideoMarker, each line has "854" replaced by "730"
// and "480" by "410". Then every cell with at least two lines whose second
// line mentions FrameMarker is replaced by the frame embed template, filled
// with the URL found by ParseFrameEmbed. A cell whose embed cannot be parsed
// is left as is.
func (t *Transformer) ResizeVideos(cells []notebook.Cell) ([]notebook.Cell, error) {
	out := cloneCells(cells)
	for i := range out {
		cell := &out[i]

		if cell.Source.Contains(VideoMarker) {
			for j, line := range cell.Source {
				line = strings.ReplaceAll(line, sourceWidth, strconv.Itoa(VideoWidth))
				cell.Source[j] = strings.ReplaceAll(line, sourceHeight, strconv.Itoa(VideoHeight))
			}
		}

		if len(cell.Source) < 2 || !strings.Contains(cell.Source[1], FrameMarker) {
			continue
		}
		embed, err := ParseFrameEmbed(cell.Source.Text())
		if errors.Is(err, ErrMalformedEmbed) {
			continue
		}
		src, err := t.renderFrame(embed)
		if err != nil {
			return nil, err
		}
		cell.Source = src
	}
	return out, nil
}
