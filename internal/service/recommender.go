package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lshigami/studyhub-ai/config"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Dataset columns, in feature order.
var featureColumns = []string{
	"time_available",
	"vocab_score",
	"grammar_score",
	"listening_score",
	"speaking_score",
	"reading_score",
	"writing_score",
}

const (
	pathColumn       = "recommended_path"
	lessonsColumn    = "top_3_recommendations"
	recommendedStyle = "Video lessons with hands-on practice"
	maxNextLessons   = 3
	weakSkillsToShow = 2
	lessonSeparator  = ";"
	featureCount     = 7
)

type studentRecord struct {
	features [featureCount]float64
	path     string
	lessons  []string
}

// Recommender suggests a learning path from the nearest historical students.
type Recommender interface {
	Recommend(features [featureCount]float64) (*dto.RecommendResponse, error)
	Available() bool
}

type knnRecommender struct {
	records []studentRecord
	k       int
}

// NewRecommender loads the dataset once. A missing or unreadable dataset
// leaves the recommender unavailable instead of failing start-up.
func NewRecommender(cfg *config.Config) Recommender {
	records, err := loadStudentDataset(cfg.Recommender.DatasetPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Recommender.DatasetPath).Msg("Recommender dataset not loaded. /recommend will be unavailable.")
		return &knnRecommender{k: cfg.Recommender.Neighbors}
	}
	log.Info().Int("students", len(records)).Int("k", cfg.Recommender.Neighbors).Msg("Recommender dataset loaded")
	return newKNNRecommender(records, cfg.Recommender.Neighbors)
}

func newKNNRecommender(records []studentRecord, k int) *knnRecommender {
	if k <= 0 {
		k = 3
	}
	return &knnRecommender{records: records, k: k}
}

func (r *knnRecommender) Available() bool {
	return len(r.records) > 0
}

func (r *knnRecommender) Recommend(features [featureCount]float64) (*dto.RecommendResponse, error) {
	if !r.Available() {
		return nil, ErrRecommenderUnavailable
	}
	nearest := r.nearest(features)

	totalTime := 0.0
	for _, s := range nearest {
		totalTime += s.features[0]
	}
	avgTime := totalTime / float64(len(nearest))

	return &dto.RecommendResponse{
		LearningPath: modePath(nearest),
		NextLessons:  topLessons(nearest, maxNextLessons),
		WeakSkills:   weakestSkills(features, weakSkillsToShow),
		StudyStyle:   recommendedStyle,
		Schedule:     fmt.Sprintf("Study about %d hours per week", int(math.Round(avgTime))),
	}, nil
}

// nearest returns the k closest records by euclidean distance; equal
// distances keep dataset order.
func (r *knnRecommender) nearest(features [featureCount]float64) []studentRecord {
	type scored struct {
		idx  int
		dist float64
	}
	all := make([]scored, len(r.records))
	for i, rec := range r.records {
		sum := 0.0
		for j := range features {
			d := rec.features[j] - features[j]
			sum += d * d
		}
		all[i] = scored{idx: i, dist: math.Sqrt(sum)}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].dist < all[b].dist })

	k := min(r.k, len(all))
	out := make([]studentRecord, k)
	for i := 0; i < k; i++ {
		out[i] = r.records[all[i].idx]
	}
	return out
}

func modePath(nearest []studentRecord) string {
	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, s := range nearest {
		counts[s.path]++
	}
	for _, s := range nearest {
		if c := counts[s.path]; c > bestCount {
			best, bestCount = s.path, c
		}
	}
	return best
}

func topLessons(nearest []studentRecord, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, s := range nearest {
		for _, l := range s.lessons {
			if _, seen := counts[l]; !seen {
				order = append(order, l)
			}
			counts[l]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// weakestSkills names the n lowest skill scores, ignoring study time. Ties
// keep column order.
func weakestSkills(features [featureCount]float64, n int) []string {
	idx := make([]int, 0, featureCount-1)
	for i := 1; i < featureCount; i++ {
		idx = append(idx, i)
	}
	sort.SliceStable(idx, func(a, b int) bool { return features[idx[a]] < features[idx[b]] })

	out := make([]string, 0, n)
	for _, i := range idx[:min(n, len(idx))] {
		out = append(out, strings.TrimSuffix(featureColumns[i], "_score"))
	}
	return out
}

// loadStudentDataset reads a .csv or .xlsx file whose header names the
// feature columns plus recommended_path and top_3_recommendations.
func loadStudentDataset(path string) ([]studentRecord, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSXRows(path)
	case ".csv":
		rows, err = readCSVRows(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return parseStudentRows(rows)
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv dataset: %w", err)
	}
	return rows, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx dataset: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx dataset has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func parseStudentRows(rows [][]string) ([]studentRecord, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset has no student rows")
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	required := append(append([]string{}, featureColumns...), pathColumn, lessonsColumn)
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("dataset is missing column %q", name)
		}
	}

	cell := func(row []string, name string) string {
		if i := col[name]; i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	records := make([]studentRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		var rec studentRecord
		for i, name := range featureColumns {
			v, err := strconv.ParseFloat(cell(row, name), 64)
			if err != nil {
				return nil, fmt.Errorf("dataset row %d column %s: %w", n+2, name, err)
			}
			rec.features[i] = v
		}
		rec.path = cell(row, pathColumn)
		for _, l := range strings.Split(cell(row, lessonsColumn), lessonSeparator) {
			if l = strings.TrimSpace(l); l != "" {
				rec.lessons = append(rec.lessons, l)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
