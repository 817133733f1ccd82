package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/ltikit/internal/sim"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Model        string             `json:"model"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Method       string             `json:"method"`
	SamplePeriod float64            `json:"sample_period"`
	Duration     float64            `json:"duration"`
	Input        string             `json:"input"`
	Params       map[string]float64 `json:"params,omitempty"`
	Order        int                `json:"order"`
	Inputs       int                `json:"inputs"`
	Outputs      int                `json:"outputs"`
	Steps        int                `json:"steps"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes meta and the trace of result under a new run directory and
// returns the run id. meta.ID, meta.Timestamp and meta.Steps are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Model, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	if meta.SamplePeriod == 0 {
		meta.SamplePeriod = result.SamplePeriod
	}
	if meta.Metrics == nil {
		meta.Metrics = result.Metrics
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTrace(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteTrace writes one CSV row per step: time, x0.., u0.., y0...
// Missing samples are written as 0 so every row has the header's width.
func WriteTrace(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	nx, nu, ny := width(result.States), width(result.Inputs), width(result.Outputs)
	header := []string{"time"}
	for i := 0; i < nx; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	for i := 0; i < nu; i++ {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	for i := 0; i < ny; i++ {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for k, t := range result.Times {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(t))
		row = appendPadded(row, at(result.States, k), nx)
		row = appendPadded(row, at(result.Inputs, k), nu)
		row = appendPadded(row, at(result.Outputs, k), ny)
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func width[S ~[]float64](rows []S) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0])
}

func at[S ~[]float64](rows []S, k int) []float64 {
	if k < len(rows) {
		return rows[k]
	}
	return nil
}

func appendPadded(row []string, vals []float64, n int) []string {
	for i := 0; i < n; i++ {
		if i < len(vals) {
			row = append(row, formatFloat(vals[i]))
		} else {
			row = append(row, "0")
		}
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every run under the store, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrace reads the trace of runID back into a result. Metrics and the
// sample period come from the run's metadata.
func (s *Store) LoadTrace(runID string) (*sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	result, err := ReadTrace(file)
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	result.SamplePeriod = meta.SamplePeriod
	result.Metrics = meta.Metrics
	return result, nil
}

// ReadTrace parses the format written by WriteTrace.
func ReadTrace(in io.Reader) (*sim.Result, error) {
	r := csv.NewReader(in)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	result := &sim.Result{
		States:  []sim.State{},
		Inputs:  []sim.Input{},
		Outputs: []sim.Output{},
		Times:   []float64{},
		Metrics: map[string]float64{},
	}
	if len(records) == 0 {
		return result, nil
	}

	var nx, nu, ny int
	for _, col := range records[0][1:] {
		switch {
		case strings.HasPrefix(col, "x"):
			nx++
		case strings.HasPrefix(col, "u"):
			nu++
		case strings.HasPrefix(col, "y"):
			ny++
		default:
			return nil, fmt.Errorf("unexpected column %q", col)
		}
	}

	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j, err)
			}
			vals[j] = v
		}

		result.Times = append(result.Times, vals[0])
		result.States = append(result.States, sim.State(vals[1:1+nx]))
		result.Inputs = append(result.Inputs, sim.Input(vals[1+nx:1+nx+nu]))
		result.Outputs = append(result.Outputs, sim.Output(vals[1+nx+nu:1+nx+nu+ny]))
	}
	result.StepsTaken = len(result.Times)
	return result, nil
}

// CopyTrace streams the raw trace.csv of runID to w.
func (s *Store) CopyTrace(runID string, w io.Writer) error {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}
