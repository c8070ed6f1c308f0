package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

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
	ID          string                   `json:"id"`
	Timestamp   time.Time                `json:"timestamp"`
	Method      string                   `json:"method"`
	Params      dynamo.Params            `json:"params"`
	Initial     dynamo.InitialState      `json:"initial"`
	Integration dynamo.IntegrationConfig `json:"integration"`
	Samples     int                      `json:"samples"`
	Metrics     map[string]float64       `json:"metrics"`
}

// RunSpec describes what was integrated.
type RunSpec struct {
	Method      string
	Params      dynamo.Params
	Initial     dynamo.InitialState
	Integration dynamo.IntegrationConfig
}

// Save writes metadata.json and states.csv (time, theta, omega) into a new
// run directory and returns its id.
func (s *Store) Save(spec RunSpec, result *sim.Result) (string, error) {
	runID, runDir, err := s.newRunDir(time.Now())
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Method:      spec.Method,
		Params:      spec.Params,
		Initial:     spec.Initial,
		Integration: spec.Integration,
		Samples:     len(result.States),
		Metrics:     finiteMetrics(result),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

// finiteMetrics merges the energy drift into the metrics and drops values
// JSON cannot represent; a diverged run still gets stored.
func finiteMetrics(result *sim.Result) map[string]float64 {
	out := make(map[string]float64, len(result.Metrics)+1)
	for name, v := range result.Metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[name] = v
		}
	}
	if !math.IsNaN(result.EnergyDrift) && !math.IsInf(result.EnergyDrift, 0) {
		out["energy_drift"] = result.EnergyDrift
	}
	return out
}

// newRunDir claims pendulum_<unix-millis>, adding a suffix on collision.
func (s *Store) newRunDir(now time.Time) (string, string, error) {
	base := fmt.Sprintf("pendulum_%d", now.UnixMilli())
	for i := 0; i < 100; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s_%d", base, i)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("could not allocate run directory for %s", base)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeStates(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "theta", "omega"}); err != nil {
		return err
	}
	for i, x := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'g', -1, 64)}
		for _, val := range x {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns stored runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStates returns the stored (theta, omega) rows and their times.
func (s *Store) LoadStates(runID string) ([]dynamo.State, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []dynamo.State{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([]dynamo.State, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 2 {
			return nil, nil, fmt.Errorf("%s line %d: expected time and theta", statesFile, i+2)
		}
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", statesFile, i+2, err)
			}
			row[j] = v
		}
		times = append(times, row[0])
		states = append(states, dynamo.State(row[1:]))
	}
	return states, times, nil
}

// LoadTrajectory rebuilds the angle trajectory of a stored run.
func (s *Store) LoadTrajectory(runID string) (dynamo.Trajectory, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return dynamo.Trajectory{}, nil, err
	}
	states, _, err := s.LoadStates(runID)
	if err != nil {
		return dynamo.Trajectory{}, nil, err
	}
	angles := make([]float64, len(states))
	for i, x := range states {
		angles[i] = x[0]
	}
	return dynamo.NewTrajectory(angles, meta.Integration.TimeStep), meta, nil
}
