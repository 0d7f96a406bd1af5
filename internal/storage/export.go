package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

type ExportData struct {
	RunMetadata
	Times  []float64 `json:"times"`
	Values []float64 `json:"values"`
}

// ExportJSON writes a stored run, metadata and mesh, as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	mesh, err := s.LoadMesh(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Times:       mesh.T,
		Values:      mesh.U,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes a stored run as "t,u" rows with six decimals.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	mesh, err := s.LoadMesh(runID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "u"}); err != nil {
		return err
	}
	for i, t := range mesh.T {
		row := []string{
			strconv.FormatFloat(t, 'f', 6, 64),
			strconv.FormatFloat(mesh.U[i], 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
