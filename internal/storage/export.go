package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

type ExportData struct {
	Run    RunMetadata          `json:"run"`
	Times  []float64            `json:"times"`
	Series map[string][]float64 `json:"series"`
	Frames []dynamo.Frame       `json:"frames,omitempty"`
}

// Export writes one saved run as a single JSON document. Frames are left
// out unless withFrames is set.
func (s *Store) Export(runID string, w io.Writer, withFrames bool) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:    *meta,
		Times:  times,
		Series: series,
	}
	if withFrames {
		if data.Frames, err = s.LoadFrames(runID); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
