package model

// Package model holds linear weights over string features. A model file has
// one "<weight>\t<feature>" line per feature; lines starting with '#' are
// comments.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"kintoki/alg/featurevector"
	"kintoki/util"
	"kintoki/util/conf"
)

const (
	APPROX_MODEL_FEATURES = 1024
	FIELD_SEPARATOR       = "\t"
)

type Model struct {
	Features   *util.EnumSet
	Weights    featurevector.Sparse
	CostFactor float64
}

// New returns an empty model, under which every cost is zero
func New() *Model {
	m := &Model{
		Features:   util.NewEnumSet(0),
		Weights:    featurevector.NewSparse(),
		CostFactor: 1.0,
	}
	m.Features.Freeze()
	return m
}

// Lookup maps features to ids, dropping features the model does not know
func (m *Model) Lookup(features []string) []int {
	retval := make([]int, 0, len(features))
	for _, feature := range features {
		if id, exists := m.Features.IndexOf(feature); exists {
			retval = append(retval, id)
		}
	}
	return retval
}

// Cost is the negated, scaled weight sum: features with positive weight
// make a decision cheaper
func (m *Model) Cost(fvector []int) float64 {
	sum := m.Weights.DotProductFeatures(fvector)
	if sum == 0.0 {
		return 0.0
	}
	return -m.CostFactor * sum
}

func (m *Model) Len() int {
	return m.Features.Len()
}

func Read(reader io.Reader) (*Model, error) {
	lines, err := conf.ReadLines(reader)
	if err != nil {
		return nil, err
	}
	m := &Model{
		Features:   util.NewEnumSet(util.Max(len(lines), APPROX_MODEL_FEATURES)),
		Weights:    make(featurevector.Sparse, len(lines)),
		CostFactor: 1.0,
	}
	for i, line := range lines {
		weightStr, feature, found := strings.Cut(line, FIELD_SEPARATOR)
		if !found || len(feature) == 0 {
			return nil, errors.New(fmt.Sprintf("Model entry %d: expected <weight>\\t<feature>, got %q", i+1, line))
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
		if err != nil {
			return nil, fmt.Errorf("Model entry %d: %w", i+1, err)
		}
		id, isNew := m.Features.Add(feature)
		if !isNew {
			return nil, errors.New(fmt.Sprintf("Model entry %d: duplicate feature %q", i+1, feature))
		}
		if weight != 0.0 {
			m.Weights[id] = weight
		}
	}
	m.Features.Freeze()
	return m, nil
}

func ReadFile(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	m, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}
