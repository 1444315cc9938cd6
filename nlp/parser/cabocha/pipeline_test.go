package cabocha

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"kintoki/alg/model"
	"kintoki/nlp/morph"
	nlp "kintoki/nlp/types"
	"kintoki/util/conf"
)

const TEST_POS_SENTENCE = `太郎	名詞,固有名詞,人名,名,*,*,太郎,タロウ,タロー
は	助詞,係助詞,*,*,*,*,は,ハ,ワ
花子	名詞,固有名詞,人名,名,*,*,花子,ハナコ,ハナコ
に	助詞,格助詞,一般,*,*,*,に,ニ,ニ
会っ	動詞,自立,*,*,五段・ワ行促音便,連用タ接続,会う,アッ,アッ
た	助動詞,*,*,*,特殊・タ,基本形,た,タ,タ
`

const TEST_DEP_OUTPUT = `* 0 2D 0/1 1.0
太郎	名詞,固有名詞,人名,名,*,*,太郎,タロウ,タロー
は	助詞,係助詞,*,*,*,*,は,ハ,ワ
* 1 2D 0/1 1.0
花子	名詞,固有名詞,人名,名,*,*,花子,ハナコ,ハナコ
に	助詞,格助詞,一般,*,*,*,に,ニ,ニ
* 2 -1D 0/1 0.0
会っ	動詞,自立,*,*,五段・ワ行促音便,連用タ接続,会う,アッ,アッ
た	助動詞,*,*,*,特殊・タ,基本形,た,タ,タ
EOS
`

func testModels(t *testing.T) *Models {
	chunkerModel, err := model.Read(strings.NewReader("2.0\tI/POS=助詞\n2.0\tI/POS=助動詞\n"))
	if err != nil {
		t.Fatal(err)
	}
	parserModel, err := model.Read(strings.NewReader("1.0\tH_FHP0:動詞\n"))
	if err != nil {
		t.Fatal(err)
	}
	return &Models{Chunker: chunkerModel, Parser: parserModel}
}

func testConfig(in nlp.InputLayer, out nlp.OutputLayer) *conf.Config {
	config := conf.Default()
	config.InputLayer, config.OutputLayer, config.OutputFormat = in, out, nlp.FORMAT_LATTICE
	return config
}

func TestRenderPOSToDep(t *testing.T) {
	p := NewPipeline(testConfig(nlp.INPUT_POS, nlp.OUTPUT_DEP), testModels(t))
	output, err := p.Render(TEST_POS_SENTENCE)
	if err != nil {
		t.Fatal(err)
	}
	if output != TEST_DEP_OUTPUT {
		t.Errorf("Expected\n%s\ngot\n%s", TEST_DEP_OUTPUT, output)
	}
	// the pipeline is reusable
	again, err := p.Render(TEST_POS_SENTENCE)
	if err != nil || again != output {
		t.Errorf("Second run differs: %v\n%s", err, again)
	}
}

func TestParseDepPassThrough(t *testing.T) {
	p := NewPipeline(testConfig(nlp.INPUT_DEP, nlp.OUTPUT_DEP), &Models{})
	output, err := p.Render(strings.TrimSuffix(TEST_DEP_OUTPUT, "EOS\n"))
	if err != nil {
		t.Fatal(err)
	}
	if output != TEST_DEP_OUTPUT {
		t.Errorf("Expected input unchanged, got\n%s", output)
	}
}

func TestParseNBest(t *testing.T) {
	config := testConfig(nlp.INPUT_POS, nlp.OUTPUT_DEP)
	config.NBest = 3
	trees, err := NewPipeline(config, testModels(t)).Parse(TEST_POS_SENTENCE)
	if err != nil {
		t.Fatal(err)
	}
	// three chunks admit two non-crossing trees
	if len(trees) != 2 {
		t.Fatalf("Expected 2 trees, got %d", len(trees))
	}
	expected := [][]int{{2, 2, -1}, {1, 2, -1}}
	for i, tree := range trees {
		links := make([]int, tree.ChunkSize())
		for j, chunk := range tree.Chunks {
			links[j] = chunk.Link
		}
		if !reflect.DeepEqual(links, expected[i]) {
			t.Errorf("Tree %d: expected links %v, got %v", i, expected[i], links)
		}
	}
	if trees[0].Tokens[0] != trees[1].Tokens[0] {
		t.Error("N-best trees should share tokens")
	}
}

func TestParseChunkToSelection(t *testing.T) {
	input := "* 0 -1D\n" + strings.Join(strings.Split(TEST_POS_SENTENCE, "\n")[:2], "\n")
	trees, err := NewPipeline(testConfig(nlp.INPUT_CHUNK, nlp.OUTPUT_SELECTION), &Models{}).Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	chunk := trees[0].Chunk(0)
	if chunk.HeadPos != 0 || chunk.FuncPos != 1 || chunk.FeatureListSize() == 0 {
		t.Errorf("Selection not applied: %d/%d %v", chunk.HeadPos, chunk.FuncPos, chunk.FeatureList)
	}
	if trees[0].OutputLayer != nlp.OUTPUT_SELECTION {
		t.Errorf("Unexpected output layer %v", trees[0].OutputLayer)
	}
}

func TestParseErrors(t *testing.T) {
	var confErr *nlp.ConfigurationError
	p := NewPipeline(testConfig(nlp.INPUT_RAW_SENTENCE, nlp.OUTPUT_POS), &Models{})
	if _, err := p.Parse("太郎は花子に会った"); !errors.As(err, &confErr) {
		t.Errorf("Expected ConfigurationError without analyzer, got %v", err)
	}
	var formatErr *nlp.FormatError
	p = NewPipeline(testConfig(nlp.INPUT_POS, nlp.OUTPUT_DEP), &Models{})
	if _, err := p.Parse("太郎\n"); !errors.As(err, &formatErr) {
		t.Errorf("Expected FormatError, got %v", err)
	}
	config := testConfig(nlp.INPUT_POS, nlp.OUTPUT_POS)
	config.OutputFormat = nlp.FORMAT_XML
	var unsupported *nlp.UnsupportedFormatError
	if _, err := NewPipeline(config, &Models{}).Render(TEST_POS_SENTENCE); !errors.As(err, &unsupported) {
		t.Errorf("Expected UnsupportedFormatError, got %v", err)
	}
}

func TestParseRaw(t *testing.T) {
	analyzer, err := morph.NewAnalyzer()
	if err != nil {
		t.Fatal(err)
	}
	models := testModels(t)
	models.Analyzer = analyzer
	trees, err := NewPipeline(testConfig(nlp.INPUT_RAW_SENTENCE, nlp.OUTPUT_DEP), models).Parse("太郎は花子に会った")
	if err != nil {
		t.Fatal(err)
	}
	tree := trees[0]
	if tree.Sentence() != "太郎は花子に会った" {
		t.Errorf("Unexpected sentence %s", tree.Sentence())
	}
	if err := tree.Validate(); err != nil {
		t.Error(err)
	}
	if tree.ChunkSize() == 0 || tree.Chunk(tree.ChunkSize()-1).Link != nlp.NO_LINK {
		t.Errorf("Expected a rooted tree, got %d chunks", tree.ChunkSize())
	}
}
