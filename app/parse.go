package app

import (
	"bufio"
	"fmt"
	"log"
	"sync"
	"time"

	"kintoki/alg/model"
	format "kintoki/nlp/format/cabocha"
	"kintoki/nlp/morph"
	"kintoki/nlp/parser/cabocha"
	nlp "kintoki/nlp/types"
	"kintoki/util"
	"kintoki/util/conf"
	"kintoki/util/store"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

// flag destinations; only flags set on the command line override the rc file
var parseFlags = conf.Default()

func ParseConfigOut(config *conf.Config) {
	log.Println("Configuration")
	config.Out()
	log.Printf("CPUs:\t\t\t%d", CPUs)
	log.Println()
	log.Println("Data")
	log.Printf("Input file:\t\t%s", input)
	log.Printf("Output file:\t\t%s", outFile)
	log.Println()
}

func readConfig(cmd *commander.Command) (*conf.Config, error) {
	config := conf.Default()
	if rcFile != "" {
		var err error
		if config, err = conf.ReadFile(rcFile); err != nil {
			return nil, err
		}
	}
	cmd.Flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "I":
			config.InputLayer = parseFlags.InputLayer
		case "O":
			config.OutputLayer = parseFlags.OutputLayer
		case "f":
			config.OutputFormat = parseFlags.OutputFormat
		case "m":
			config.ParserModel = parseFlags.ParserModel
		case "M":
			config.ChunkerModel = parseFlags.ChunkerModel
		case "n":
			config.NBest = parseFlags.NBest
		case "c":
			config.CostFactor = parseFlags.CostFactor
		case "v":
			config.Verbose = parseFlags.Verbose
		case "cache":
			config.Cache = parseFlags.Cache
		}
	})
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func readModel(filename string, costFactor float64, name string) (*model.Model, error) {
	if filename == "" {
		log.Printf("Warning: no %s model given, all %s decisions score zero", name, name)
		m := model.New()
		m.CostFactor = costFactor
		return m, nil
	}
	m, err := model.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	m.CostFactor = costFactor
	if allOut {
		log.Println("Read", m.Len(), name, "features from", filename)
	}
	return m, nil
}

// LoadModels reads everything the configuration needs between its input
// and output layers
func LoadModels(config *conf.Config) (*cabocha.Models, error) {
	var (
		models = &cabocha.Models{}
		in     = config.InputLayer
		out    = config.OutputLayer
		err    error
	)
	if in == nlp.INPUT_RAW_SENTENCE && out > nlp.OUTPUT_RAW_SENTENCE {
		if models.Analyzer, err = morph.NewAnalyzer(); err != nil {
			return nil, err
		}
	}
	if in < nlp.INPUT_CHUNK && out >= nlp.OUTPUT_CHUNK {
		if models.Chunker, err = readModel(config.ChunkerModel, config.CostFactor, "chunker"); err != nil {
			return nil, err
		}
	}
	if in < nlp.INPUT_DEP && out >= nlp.OUTPUT_DEP {
		if models.Parser, err = readModel(config.ParserModel, config.CostFactor, "parser"); err != nil {
			return nil, err
		}
	}
	return models, nil
}

// cacheScope digests the settings that change the output of a sentence
func cacheScope(config *conf.Config) (string, error) {
	parts := []string{
		config.InputLayer.String(),
		config.OutputLayer.String(),
		config.OutputFormat.String(),
		fmt.Sprint(config.NBest),
		fmt.Sprint(config.CostFactor),
	}
	for _, filename := range []string{config.ChunkerModel, config.ParserModel} {
		if filename == "" {
			parts = append(parts, "")
			continue
		}
		sum, err := util.MD5File(filename)
		if err != nil {
			return "", err
		}
		parts = append(parts, sum)
	}
	return util.MD5String(parts...), nil
}

// ParseSentences renders every block with a pool of pipelines, one per
// worker, and returns the outputs in input order
func ParseSentences(blocks []string, config *conf.Config, models *cabocha.Models, cache *store.Store, workers int) ([]string, error) {
	var (
		outputs  = make([]string, len(blocks))
		jobs     = make(chan int)
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pipeline := cabocha.NewPipeline(config, models)
			for i := range jobs {
				output, err := renderCached(pipeline, cache, blocks[i])
				if err != nil {
					errOnce.Do(func() { firstErr = fmt.Errorf("sentence %d: %w", i+1, err) })
					continue
				}
				outputs[i] = output
			}
		}()
	}
	for i := range blocks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return outputs, nil
}

func renderCached(pipeline *cabocha.Pipeline, cache *store.Store, block string) (string, error) {
	if cache != nil {
		if output, found, err := cache.Get(block); err != nil {
			return "", err
		} else if found {
			return output, nil
		}
	}
	output, err := pipeline.Render(block)
	if err != nil {
		return "", err
	}
	if cache != nil {
		if err := cache.Put(block, output); err != nil {
			return "", err
		}
	}
	return output, nil
}

func Parse(cmd *commander.Command, args []string) error {
	config, err := readConfig(cmd)
	if err != nil {
		return err
	}
	allOut = config.Verbose
	if allOut {
		ParseConfigOut(config)
	}
	models, err := LoadModels(config)
	if err != nil {
		return err
	}

	var cache *store.Store
	if config.Cache != "" {
		scope, err := cacheScope(config)
		if err != nil {
			return err
		}
		if cache, err = store.Open(config.Cache, scope); err != nil {
			return err
		}
		defer cache.Close()
	}

	in, err := openInput(input)
	if err != nil {
		return err
	}
	defer in.Close()
	blocks, err := format.ReadBlocks(in, config.InputLayer)
	if err != nil {
		return err
	}
	if allOut {
		log.Println("Read", len(blocks), "sentences from", input)
	}

	start := time.Now()
	outputs, err := ParseSentences(blocks, config, models, cache, CPUs)
	if err != nil {
		return err
	}
	if allOut {
		log.Println("Parsed", len(blocks), "sentences in", time.Since(start))
		util.LogMemory()
	}

	out, err := createOutput(outFile)
	if err != nil {
		return err
	}
	defer out.Close()
	writer := bufio.NewWriter(out)
	for _, output := range outputs {
		if _, err := writer.WriteString(output); err != nil {
			return err
		}
	}
	return writer.Flush()
}

func ParseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Parse,
		UsageLine: "parse <file options> [arguments]",
		Short:     "analyzes sentences into CaboCha-format chunk dependencies",
		Long: `
analyzes sentences into CaboCha-format chunk dependencies

	$ ./kintoki parse [-rc <rc file>] [-I raw|pos|chunk|selection|dep] [-O raw|pos|chunk|selection|dep] [-f tree|lattice|tree-lattice|none] [-m <parser model>] [-M <chunker model>] [-in <input>] [-out <output>] [options]

`,
		Flag: *flag.NewFlagSet("parse", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&rcFile, "rc", "", "Optional - YAML configuration file")
	cmd.Flag.Var(&parseFlags.InputLayer, "I", "Input layer [raw, pos, chunk, selection, dep] or 0-4")
	cmd.Flag.Var(&parseFlags.OutputLayer, "O", "Output layer [raw, pos, chunk, selection, dep] or 0-4")
	cmd.Flag.Var(&parseFlags.OutputFormat, "f", "Output format [tree, lattice, tree-lattice, none] or 0-5")
	cmd.Flag.StringVar(&parseFlags.ParserModel, "m", "", "Dependency parser model file")
	cmd.Flag.StringVar(&parseFlags.ChunkerModel, "M", "", "Chunker model file")
	cmd.Flag.IntVar(&parseFlags.NBest, "n", 1, "Number of dependency analyses per sentence")
	cmd.Flag.Float64Var(&parseFlags.CostFactor, "c", 1.0, "Cost factor applied to model weights")
	cmd.Flag.BoolVar(&parseFlags.Verbose, "v", false, "Log configuration and progress")
	cmd.Flag.StringVar(&parseFlags.Cache, "cache", "", "Optional - leveldb directory caching rendered sentences")
	cmd.Flag.StringVar(&input, "in", "", "Input file (default stdin)")
	cmd.Flag.StringVar(&outFile, "out", "", "Output file (default stdout)")
	return cmd
}
