package bank

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/depbank/pkg/errors"
)

// RunRecord captures one generation run for later inspection: which
// project was analyzed, which registry snapshot served the sources, and
// how each dependency fared. It is written as run.json next to the
// generated banks.
type RunRecord struct {
	ID          string    `json:"id"`           // unique run identifier
	GeneratedAt time.Time `json:"generated_at"` // run completion time
	Root        string    `json:"root"`         // analyzed project root
	Snapshot    string    `json:"snapshot"`     // active registry snapshot path
	Counts      Counts    `json:"counts"`       // outcome tally
	Files       []string  `json:"files"`        // written bank files, in collection order
}

// RecordFileName is the file the run record is written to inside the
// output directory.
const RecordFileName = "run.json"

// NewRunRecord builds a record for a completed run.
func NewRunRecord(root, snapshot string, results []Result) *RunRecord {
	rec := &RunRecord{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Root:        root,
		Snapshot:    snapshot,
		Counts:      Summarize(results),
	}
	for _, r := range results {
		if r.Status == StatusGenerated {
			rec.Files = append(rec.Files, r.File)
		}
	}
	return rec
}

// Write stores the record as JSON in outDir.
func (r *RunRecord) Write(outDir string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode run record")
	}
	path := filepath.Join(outDir, RecordFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write run record %s", path)
	}
	return path, nil
}

// ReadRunRecord loads a previously written run record from outDir.
func ReadRunRecord(outDir string) (*RunRecord, error) {
	path := filepath.Join(outDir, RecordFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no run record at %s", path)
	}
	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode run record %s", path)
	}
	return &rec, nil
}
