package conf

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	nlp "kintoki/nlp/types"

	"gopkg.in/yaml.v3"
)

// Config is the analyzer configuration as read from an rc file. Keys not
// listed here are rejected when the file is read.
type Config struct {
	InputLayer   nlp.InputLayer  `yaml:"input-layer"`
	OutputLayer  nlp.OutputLayer `yaml:"output-layer"`
	OutputFormat nlp.Format      `yaml:"output-format"`
	ParserModel  string          `yaml:"parser-model"`
	ChunkerModel string          `yaml:"chunker-model"`
	NBest        int             `yaml:"nbest"`
	CostFactor   float64         `yaml:"cost-factor"`
	Verbose      bool            `yaml:"verbose"`
	Cache        string          `yaml:"cache"`
}

func Default() *Config {
	return &Config{
		InputLayer:   nlp.INPUT_RAW_SENTENCE,
		OutputLayer:  nlp.OUTPUT_DEP,
		OutputFormat: nlp.FORMAT_TREE,
		NBest:        1,
		CostFactor:   1.0,
	}
}

// Read overlays the YAML document in reader on the defaults
func Read(reader io.Reader) (*Config, error) {
	config := Default()
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, &nlp.ConfigurationError{Msg: err.Error()}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func ReadFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch {
	case !c.InputLayer.Valid():
		return &nlp.ConfigurationError{Msg: fmt.Sprintf("unknown input layer %v", c.InputLayer)}
	case !c.OutputLayer.Valid():
		return &nlp.ConfigurationError{Msg: fmt.Sprintf("unknown output layer %v", c.OutputLayer)}
	case c.OutputFormat < nlp.FORMAT_TREE || c.OutputFormat > nlp.FORMAT_NONE:
		return &nlp.ConfigurationError{Msg: fmt.Sprintf("unknown output format %v", c.OutputFormat)}
	case c.NBest < 1:
		return &nlp.ConfigurationError{Msg: fmt.Sprintf("nbest must be positive, got %d", c.NBest)}
	case c.CostFactor <= 0:
		return &nlp.ConfigurationError{Msg: fmt.Sprintf("cost-factor must be positive, got %v", c.CostFactor)}
	}
	return nil
}

func (c *Config) Out() {
	log.Printf("Input Layer:\t\t%v", c.InputLayer)
	log.Printf("Output Layer:\t\t%v", c.OutputLayer)
	log.Printf("Output Format:\t\t%v", c.OutputFormat)
	log.Printf("Parser Model:\t\t%s", c.ParserModel)
	log.Printf("Chunker Model:\t\t%s", c.ChunkerModel)
	log.Printf("N-Best:\t\t\t%d", c.NBest)
	log.Printf("Cost Factor:\t\t%v", c.CostFactor)
	if c.Cache != "" {
		log.Printf("Cache:\t\t\t%s", c.Cache)
	}
}
