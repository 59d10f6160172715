package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/juliaset/internal/fractal"
	"github.com/san-kum/juliaset/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var framesHeader = []string{"frame", "elapsed_ms", "mean_iteration", "bounded_fraction"}

// Store keeps one directory per run holding metadata.json and frames.csv.
// Images are never written.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type ViewportRecord struct {
	CenterRe float64 `json:"center_re"`
	CenterIm float64 `json:"center_im"`
	Zoom     float64 `json:"zoom"`
	OffsetX  int32   `json:"offset_x"`
	OffsetY  int32   `json:"offset_y"`
}

func NewViewportRecord(v fractal.Viewport) ViewportRecord {
	return ViewportRecord{
		CenterRe: v.CenterRe,
		CenterIm: v.CenterIm,
		Zoom:     v.Zoom,
		OffsetX:  v.OffsetX,
		OffsetY:  v.OffsetY,
	}
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Kind           string             `json:"kind"`
	Timestamp      time.Time          `json:"timestamp"`
	Width          int                `json:"width"`
	Height         int                `json:"height"`
	MaxIteration   int                `json:"max_iteration"`
	SamplesPerLine int                `json:"samples_per_line"`
	Partition      string             `json:"partition"`
	Workers        int                `json:"workers"`
	Palette        string             `json:"palette"`
	Start          ViewportRecord     `json:"start"`
	End            ViewportRecord     `json:"end"`
	Frames         int                `json:"frames"`
	Metrics        map[string]float64 `json:"metrics"`
}

type FrameRecord struct {
	Frame           uint64  `json:"frame"`
	ElapsedMs       float64 `json:"elapsed_ms"`
	MeanIteration   float64 `json:"mean_iteration"`
	BoundedFraction float64 `json:"bounded_fraction"`
}

func FromSamples(samples []metrics.Sample) []FrameRecord {
	out := make([]FrameRecord, len(samples))
	for i, s := range samples {
		out[i] = FrameRecord{
			Frame:           s.Frame,
			ElapsedMs:       float64(s.Elapsed.Microseconds()) / 1000,
			MeanIteration:   s.MeanIteration,
			BoundedFraction: s.BoundedFraction,
		}
	}
	return out
}

// Save writes a new run and returns its id. ID, Timestamp and Frames in
// meta are filled in by Save.
func (s *Store) Save(meta RunMetadata, frames []FrameRecord) (string, error) {
	name := meta.Name
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Name = name
	meta.Timestamp = now
	meta.Frames = len(frames)

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeFrames(path string, frames []FrameRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(framesHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		row := []string{
			strconv.FormatUint(fr.Frame, 10),
			strconv.FormatFloat(fr.ElapsedMs, 'f', 3, 64),
			strconv.FormatFloat(fr.MeanIteration, 'f', 6, 64),
			strconv.FormatFloat(fr.BoundedFraction, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []FrameRecord{}, nil
	}

	frames := make([]FrameRecord, 0, len(records)-1)
	for i, record := range records[1:] {
		fr, err := parseFrame(record)
		if err != nil {
			return nil, fmt.Errorf("run %s: row %d: %w", runID, i+2, err)
		}
		frames = append(frames, fr)
	}
	return frames, nil
}

func parseFrame(record []string) (FrameRecord, error) {
	var fr FrameRecord
	if len(record) != len(framesHeader) {
		return fr, fmt.Errorf("expected %d fields, got %d", len(framesHeader), len(record))
	}

	var err error
	if fr.Frame, err = strconv.ParseUint(record[0], 10, 64); err != nil {
		return fr, err
	}
	if fr.ElapsedMs, err = strconv.ParseFloat(record[1], 64); err != nil {
		return fr, err
	}
	if fr.MeanIteration, err = strconv.ParseFloat(record[2], 64); err != nil {
		return fr, err
	}
	if fr.BoundedFraction, err = strconv.ParseFloat(record[3], 64); err != nil {
		return fr, err
	}
	return fr, nil
}

type exportData struct {
	RunMetadata
	FrameData []FrameRecord `json:"frame_data"`
}

// Export writes a run's metadata and frames to w as a single JSON document.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData{RunMetadata: *meta, FrameData: frames})
}
