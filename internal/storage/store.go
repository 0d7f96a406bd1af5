package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/xid"
	"github.com/san-kum/decay/internal/dynamo"
	"github.com/san-kum/decay/internal/experiment"
)

const (
	metadataFile = "metadata.json"
	meshFile     = "mesh.csv"
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
	ID        string          `json:"id"`
	Scheme    string          `json:"scheme"`
	Title     string          `json:"title"`
	Timestamp time.Time       `json:"timestamp"`
	Spec      dynamo.MeshSpec `json:"spec"`
	Steps     int             `json:"steps"`
}

// Save writes metadata.json and mesh.csv for run under a new id.
func (s *Store) Save(run experiment.Run) (string, error) {
	runID := fmt.Sprintf("%s_%s", run.Demo.Name, xid.New().String())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scheme:    run.Demo.Name,
		Title:     run.Demo.Title,
		Timestamp: time.Now(),
		Spec:      run.Mesh.Spec,
		Steps:     run.Mesh.Len() - 1,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeMeshCSV(filepath.Join(runDir, meshFile), run.Mesh); err != nil {
		return "", err
	}

	return runID, nil
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

func writeMeshCSV(path string, mesh dynamo.MeshFunction) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"t", "u"}); err != nil {
		return err
	}
	for i, t := range mesh.T {
		row := []string{
			strconv.FormatFloat(t, 'g', -1, 64),
			strconv.FormatFloat(mesh.U[i], 'g', -1, 64),
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

// List returns every stored run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}

	return &meta, nil
}

// LoadMesh reads a stored run back into a mesh function.
func (s *Store) LoadMesh(runID string) (dynamo.MeshFunction, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return dynamo.MeshFunction{}, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, meshFile))
	if err != nil {
		return dynamo.MeshFunction{}, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return dynamo.MeshFunction{}, fmt.Errorf("%s: %w", runID, err)
	}
	if len(records) < 2 {
		return dynamo.MeshFunction{}, fmt.Errorf("%s: %w", runID, dynamo.ErrNoData)
	}

	mesh := dynamo.MeshFunction{
		Spec: meta.Spec,
		T:    make([]float64, 0, len(records)-1),
		U:    make([]float64, 0, len(records)-1),
	}
	for i, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return dynamo.MeshFunction{}, fmt.Errorf("%s row %d: %w", runID, i+1, err)
		}
		u, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return dynamo.MeshFunction{}, fmt.Errorf("%s row %d: %w", runID, i+1, err)
		}
		mesh.T = append(mesh.T, t)
		mesh.U = append(mesh.U, u)
	}

	return mesh, nil
}

// Sink saves every run it consumes.
type Sink struct {
	store *Store
	ids   []string
}

func (s *Store) Sink() *Sink {
	return &Sink{store: s}
}

func (k *Sink) Consume(run experiment.Run) error {
	id, err := k.store.Save(run)
	if err != nil {
		return err
	}
	k.ids = append(k.ids, id)
	return nil
}

// IDs returns the ids saved so far.
func (k *Sink) IDs() []string {
	return append([]string(nil), k.ids...)
}
