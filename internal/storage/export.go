package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/pendsim/internal/dynamo"
)

type ExportData struct {
	*RunMetadata
	Times []float64 `json:"times"`
	// States holds null for samples that diverged to NaN or ±Inf.
	States [][]*float64 `json:"states"`
}

// ExportJSON writes a stored run with its full state history to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: meta,
		Times:       times,
		States:      make([][]*float64, len(states)),
	}
	for i, x := range states {
		data.States[i] = nullable(x)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// nullable maps non-finite values to nil so they encode as JSON null.
func nullable(x dynamo.State) []*float64 {
	row := make([]*float64, len(x))
	for j := range x {
		if math.IsNaN(x[j]) || math.IsInf(x[j], 0) {
			continue
		}
		row[j] = &x[j]
	}
	return row
}

// ExportCSV writes time,theta,omega rows to w with the precision of
// states.csv.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(stateHeader(states)); err != nil {
		return err
	}
	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'g', -1, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func stateHeader(states []dynamo.State) []string {
	header := []string{"time", "theta", "omega"}
	if len(states) > 0 && len(states[0]) < 2 {
		return header[:2]
	}
	return header
}
