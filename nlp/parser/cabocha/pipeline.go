package cabocha

// Package cabocha runs the analysis steps between an input layer and an
// output layer: morphological analysis, chunking, head selection and
// dependency parsing.

import (
	"fmt"
	"strings"

	"kintoki/alg/model"
	format "kintoki/nlp/format/cabocha"
	"kintoki/nlp/morph"
	"kintoki/nlp/parser/chunker"
	"kintoki/nlp/parser/dependency"
	"kintoki/nlp/parser/selection"
	nlp "kintoki/nlp/types"
	"kintoki/util/conf"
)

// Pipeline holds per-worker state; the models and analyzer it is built
// from may be shared between pipelines
type Pipeline struct {
	Config   *conf.Config
	Analyzer *morph.Analyzer
	Chunker  *chunker.Chunker
	Parser   *dependency.Parser
}

// Models are the read-only resources shared by all pipelines
type Models struct {
	Analyzer *morph.Analyzer
	Chunker  *model.Model
	Parser   *model.Model
}

func NewPipeline(config *conf.Config, models *Models) *Pipeline {
	return &Pipeline{
		Config:   config,
		Analyzer: models.Analyzer,
		Chunker:  chunker.New(models.Chunker),
		Parser:   dependency.New(models.Parser),
	}
}

// Parse reads one sentence at the configured input layer and analyzes it up
// to the output layer. More than one tree is returned only for n-best
// dependency parsing.
func (p *Pipeline) Parse(input string) ([]*nlp.Tree, error) {
	in, out := p.Config.InputLayer, p.Config.OutputLayer
	tree, err := format.Read(input, in)
	if err != nil {
		return nil, err
	}
	if in == nlp.INPUT_RAW_SENTENCE && out > nlp.OUTPUT_RAW_SENTENCE {
		if p.Analyzer == nil {
			return nil, &nlp.ConfigurationError{Msg: "raw input requires a morphological analyzer"}
		}
		tree.AddMorphemes(p.Analyzer.Analyze(input))
	}
	if out >= nlp.OUTPUT_CHUNK && in < nlp.INPUT_CHUNK {
		if err := p.Chunker.Parse(tree); err != nil {
			return nil, fmt.Errorf("chunking: %w", err)
		}
	}
	if out >= nlp.OUTPUT_SELECTION && in < nlp.INPUT_SELECTION {
		selection.Apply(tree)
	}
	tree.OutputLayer = out
	if out < nlp.OUTPUT_DEP || in == nlp.INPUT_DEP {
		return []*nlp.Tree{tree}, nil
	}
	if p.Config.NBest <= 1 {
		if err := p.Parser.Parse(tree); err != nil {
			return nil, fmt.Errorf("dependency parsing: %w", err)
		}
		return []*nlp.Tree{tree}, nil
	}
	analyses, err := p.Parser.ParseNBest(tree, p.Config.NBest)
	if err != nil {
		return nil, fmt.Errorf("dependency parsing: %w", err)
	}
	trees := make([]*nlp.Tree, len(analyses))
	for i, analysis := range analyses {
		trees[i] = tree.Copy()
		dependency.Apply(trees[i], analysis)
	}
	return trees, nil
}

// Render parses input and writes every resulting tree in the configured
// output format
func (p *Pipeline) Render(input string) (string, error) {
	trees, err := p.Parse(input)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, tree := range trees {
		if err := format.Write(&b, tree, tree.OutputLayer, p.Config.OutputFormat); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
