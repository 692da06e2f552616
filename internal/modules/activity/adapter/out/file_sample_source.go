package out

import (
	"bytes"
	"context"
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

	"standwatch/internal/modules/activity/domain"
	activityout "standwatch/internal/modules/activity/port/out"
	apperrors "standwatch/internal/platform/errors"
)

// FileSampleSource serves samples from a JSON or CSV fixture file. The file
// is re-read on every fetch so edits show up on the next cycle.
type FileSampleSource struct {
	path string
}

func NewFileSampleSource(path string) *FileSampleSource {
	return &FileSampleSource{path: path}
}

func (s *FileSampleSource) Fetch(ctx context.Context, window domain.Window) ([]domain.Sample, error) {
	samples, err := readSampleFile(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, err)
	}
	out := make([]domain.Sample, 0, len(samples))
	for _, sample := range samples {
		if sample.Overlaps(window) {
			out = append(out, sample)
		}
	}
	return out, nil
}

func (s *FileSampleSource) Probe(ctx context.Context) (domain.SourceInfo, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return domain.SourceInfo{}, fmt.Errorf("%w: stat sample file: %w", apperrors.ErrSourceUnavailable, err)
	}
	return domain.SourceInfo{
		Kind:   "file",
		Name:   s.path,
		Detail: fmt.Sprintf("%d bytes, modified %s", info.Size(), info.ModTime().Format(time.RFC3339)),
	}, nil
}

type fileSampleReader struct{}

func NewFileSampleReader() activityout.SampleFileReader {
	return fileSampleReader{}
}

func (fileSampleReader) Read(ctx context.Context, path string) ([]domain.Sample, error) {
	return readSampleFile(ctx, path)
}

type sampleRecord struct {
	Start           string  `json:"start"`
	End             string  `json:"end"`
	DurationMinutes float64 `json:"duration_minutes"`
}

func readSampleFile(ctx context.Context, path string) ([]domain.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sample file: %w", err)
	}
	var samples []domain.Sample
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		samples, err = decodeCSVSamples(data)
	} else {
		samples, err = decodeJSONSamples(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Start.Before(samples[j].Start) })
	return samples, nil
}

func decodeJSONSamples(data []byte) ([]domain.Sample, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Sample{}, nil
	}
	records := []sampleRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	out := make([]domain.Sample, 0, len(records))
	for i, record := range records {
		sample, err := record.sample()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		out = append(out, sample)
	}
	return out, nil
}

func decodeCSVSamples(data []byte) ([]domain.Sample, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 3
	out := make([]domain.Sample, 0)
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "start") {
			continue
		}
		minutes, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: duration %q", apperrors.ErrInvalidInput, line, row[2])
		}
		sample, err := sampleRecord{Start: row[0], End: row[1], DurationMinutes: minutes}.sample()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, sample)
	}
	return out, nil
}

func (r sampleRecord) sample() (domain.Sample, error) {
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(r.Start))
	if err != nil {
		return domain.Sample{}, fmt.Errorf("%w: start %q", apperrors.ErrInvalidInput, r.Start)
	}
	end := start
	if strings.TrimSpace(r.End) != "" {
		end, err = time.Parse(time.RFC3339, strings.TrimSpace(r.End))
		if err != nil {
			return domain.Sample{}, fmt.Errorf("%w: end %q", apperrors.ErrInvalidInput, r.End)
		}
	}
	sample := domain.Sample{Start: start, End: end, DurationMinutes: r.DurationMinutes}
	if err := sample.Validate(); err != nil {
		return domain.Sample{}, err
	}
	return sample, nil
}
