package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ltikit/internal/sim"
)

type ExportData struct {
	RunMetadata
	Times   []float64   `json:"times"`
	States  [][]float64 `json:"states"`
	Inputs  [][]float64 `json:"inputs"`
	Outputs [][]float64 `json:"outputs"`
}

func NewExportData(meta RunMetadata, result *sim.Result) ExportData {
	data := ExportData{
		RunMetadata: meta,
		Times:       result.Times,
		States:      make([][]float64, len(result.States)),
		Inputs:      make([][]float64, len(result.Inputs)),
		Outputs:     make([][]float64, len(result.Outputs)),
	}
	if data.Steps == 0 {
		data.Steps = len(result.Times)
	}

	for i, s := range result.States {
		data.States[i] = s
	}
	for i, u := range result.Inputs {
		data.Inputs[i] = u
	}
	for i, y := range result.Outputs {
		data.Outputs[i] = y
	}
	return data
}

// ExportJSON writes meta and the full trace as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, result))
}
