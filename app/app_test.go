package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	format "kintoki/nlp/format/cabocha"
	"kintoki/nlp/parser/cabocha"
	nlp "kintoki/nlp/types"
	"kintoki/util/conf"
	"kintoki/util/store"
)

const TEST_POS_BLOCK = "太郎\t名詞,固有名詞\nは\t助詞,係助詞\n会う\t動詞,自立"

func TestReadConfig(t *testing.T) {
	rc := filepath.Join(t.TempDir(), "kintokirc")
	if err := os.WriteFile(rc, []byte("input-layer: dep\noutput-format: lattice\nnbest: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cmd := ParseCmd()
	if err := cmd.Flag.Parse([]string{"-rc", rc, "-I", "pos", "-c", "0.5"}); err != nil {
		t.Fatal(err)
	}
	defer func() { rcFile = "" }()
	config, err := readConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if config.InputLayer != nlp.INPUT_POS {
		t.Errorf("Flag did not override rc input layer: %v", config.InputLayer)
	}
	if config.OutputFormat != nlp.FORMAT_LATTICE || config.NBest != 4 {
		t.Errorf("Unset flags overrode the rc file: %v %d", config.OutputFormat, config.NBest)
	}
	if config.CostFactor != 0.5 {
		t.Errorf("Expected cost factor 0.5, got %v", config.CostFactor)
	}
}

func TestParseSentences(t *testing.T) {
	config := conf.Default()
	config.InputLayer, config.OutputLayer, config.OutputFormat = nlp.INPUT_POS, nlp.OUTPUT_DEP, nlp.FORMAT_LATTICE
	models, err := LoadModels(config)
	if err != nil {
		t.Fatal(err)
	}
	blocks := make([]string, 20)
	for i := range blocks {
		blocks[i] = strings.Repeat(TEST_POS_BLOCK+"\n", i%3+1)
	}
	outputs, err := ParseSentences(blocks, config, models, nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, output := range outputs {
		trees, err := format.ReadSentences(strings.NewReader(output), nlp.INPUT_DEP)
		if err != nil {
			t.Fatalf("Sentence %d: %v", i, err)
		}
		if len(trees) != 1 || trees[0].TokenSize() != 3*(i%3+1) {
			t.Errorf("Sentence %d out of order or malformed:\n%s", i, output)
		}
	}

	blocks[7] = "broken"
	if _, err := ParseSentences(blocks, config, models, nil, 4); err == nil || !strings.Contains(err.Error(), "sentence 8") {
		t.Errorf("Expected error for sentence 8, got %v", err)
	}
}

func TestParseSentencesCached(t *testing.T) {
	config := conf.Default()
	config.InputLayer, config.OutputLayer, config.OutputFormat = nlp.INPUT_POS, nlp.OUTPUT_POS, nlp.FORMAT_LATTICE
	scope, err := cacheScope(config)
	if err != nil {
		t.Fatal(err)
	}
	cache, err := store.Open(filepath.Join(t.TempDir(), "cache"), scope)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()
	cache.Put(TEST_POS_BLOCK, "cached\n")
	outputs, err := ParseSentences([]string{TEST_POS_BLOCK, "猫\t名詞"}, config, &cabocha.Models{}, cache, 2)
	if err != nil {
		t.Fatal(err)
	}
	if outputs[0] != "cached\n" || outputs[1] != "猫\t名詞\nEOS\n" {
		t.Errorf("Unexpected outputs %q", outputs)
	}
	if output, found, _ := cache.Get("猫\t名詞"); !found || output != outputs[1] {
		t.Errorf("Rendered sentence not cached: %q", output)
	}
}

func TestEvaluate(t *testing.T) {
	gold, err := format.ReadSentences(strings.NewReader("* 0 2D\nA\tx\n* 1 2D\nB\tx\n* 2 -1D\nC\tx\nEOS\n"), nlp.INPUT_DEP)
	if err != nil {
		t.Fatal(err)
	}
	test, err := format.ReadSentences(strings.NewReader("* 0 1D\nA\tx\n* 1 2D\nB\tx\n* 2 -1D\nC\tx\nEOS\n"), nlp.INPUT_DEP)
	if err != nil {
		t.Fatal(err)
	}
	dep, chunk, err := Evaluate(test, gold)
	if err != nil {
		t.Fatal(err)
	}
	if dep.TP != 1 || dep.FP != 1 || dep.Exact != 0 {
		t.Errorf("Unexpected dependency totals %+v", dep.Result)
	}
	if errs := dep.Errors().ByType(); len(dep.Errors()) != 1 || errs["link"] != 1 {
		t.Errorf("Expected one link error, got %v", errs)
	}
	if chunk.F1() != 1.0 {
		t.Errorf("Expected chunk F1 1.0, got %v", chunk.F1())
	}
	if _, _, err := Evaluate(test, nil); err == nil {
		t.Error("Expected error for sentence count mismatch")
	}
}

func TestStandardStreams(t *testing.T) {
	in, err := openInput("")
	if err != nil {
		t.Fatal(err)
	}
	in.Close()
	if _, err := os.Stdin.Stat(); err != nil {
		t.Errorf("stdin closed: %v", err)
	}
	out, err := createOutput("")
	if err != nil {
		t.Fatal(err)
	}
	out.Close()
	if _, err := os.Stdout.Stat(); err != nil {
		t.Errorf("stdout closed: %v", err)
	}

	filename := filepath.Join(t.TempDir(), "out.cabocha")
	if out, err = createOutput(filename); err != nil {
		t.Fatal(err)
	}
	out.Write([]byte("猫\t名詞\nEOS\n"))
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	if in, err = openInput(filename); err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	blocks, err := format.ReadBlocks(in, nlp.INPUT_POS)
	if err != nil || len(blocks) != 1 {
		t.Errorf("Expected one block back from %s, got %v (%v)", filename, blocks, err)
	}
}
