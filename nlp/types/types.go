package types

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	EOS                 = "EOS"
	CHUNK_HEADER_PREFIX = "* "
	FEATURE_DELIM       = ","
	NO_LINK             = -1
)

type InputLayer int

const (
	INPUT_RAW_SENTENCE InputLayer = iota
	INPUT_POS
	INPUT_CHUNK
	INPUT_SELECTION
	INPUT_DEP
)

var inputLayerNames = []string{"raw", "pos", "chunk", "selection", "dep"}

func (l InputLayer) String() string {
	if l < 0 || int(l) >= len(inputLayerNames) {
		return fmt.Sprintf("InputLayer(%d)", int(l))
	}
	return inputLayerNames[l]
}

func (l InputLayer) Valid() bool {
	return l >= INPUT_RAW_SENTENCE && l <= INPUT_DEP
}

// OutputLayer returns the output layer carrying the same amount of structure
func (l InputLayer) OutputLayer() OutputLayer {
	return OutputLayer(l)
}

type OutputLayer int

const (
	OUTPUT_RAW_SENTENCE OutputLayer = iota
	OUTPUT_POS
	OUTPUT_CHUNK
	OUTPUT_SELECTION
	OUTPUT_DEP
)

func (l OutputLayer) String() string {
	if l < 0 || int(l) >= len(inputLayerNames) {
		return fmt.Sprintf("OutputLayer(%d)", int(l))
	}
	return inputLayerNames[l]
}

func (l OutputLayer) Valid() bool {
	return l >= OUTPUT_RAW_SENTENCE && l <= OUTPUT_DEP
}

type Format int

const (
	FORMAT_TREE Format = iota
	FORMAT_LATTICE
	FORMAT_TREE_LATTICE
	FORMAT_XML
	FORMAT_CONLL
	FORMAT_NONE
)

var formatNames = []string{"tree", "lattice", "tree-lattice", "xml", "conll", "none"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

func parseEnum(value string, names []string, kind string) (int, error) {
	value = strings.TrimSpace(value)
	if i, err := strconv.Atoi(value); err == nil {
		if i < 0 || i >= len(names) {
			return 0, &ConfigurationError{fmt.Sprintf("%s out of range: %d", kind, i)}
		}
		return i, nil
	}
	for i, name := range names {
		if strings.EqualFold(name, value) {
			return i, nil
		}
	}
	return 0, &ConfigurationError{fmt.Sprintf("unknown %s: %q", kind, value)}
}

// ParseInputLayer accepts either the CaboCha layer number or its name
func ParseInputLayer(value string) (InputLayer, error) {
	i, err := parseEnum(value, inputLayerNames, "input layer")
	return InputLayer(i), err
}

func ParseOutputLayer(value string) (OutputLayer, error) {
	i, err := parseEnum(value, inputLayerNames, "output layer")
	return OutputLayer(i), err
}

func ParseFormat(value string) (Format, error) {
	i, err := parseEnum(value, formatNames, "output format")
	return Format(i), err
}

// Set and UnmarshalText let the enums be filled from command line flags and
// configuration files alike

func (l *InputLayer) Set(value string) error {
	parsed, err := ParseInputLayer(value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l *InputLayer) UnmarshalText(text []byte) error {
	return l.Set(string(text))
}

func (l InputLayer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *InputLayer) Get() interface{} {
	return *l
}

func (l *OutputLayer) Set(value string) error {
	parsed, err := ParseOutputLayer(value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l *OutputLayer) UnmarshalText(text []byte) error {
	return l.Set(string(text))
}

func (l OutputLayer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *OutputLayer) Get() interface{} {
	return *l
}

func (f *Format) Set(value string) error {
	parsed, err := ParseFormat(value)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f *Format) UnmarshalText(text []byte) error {
	return f.Set(string(text))
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) Get() interface{} {
	return *f
}

// Morpheme is a single analysis record handed over by a morphological analyzer
type Morpheme struct {
	Surface        string
	NormalizedForm string
	PartOfSpeech   []string
	ReadingForm    string
}

type Token struct {
	Surface           string
	NormalizedSurface string
	POS               string
	Feature           string
	FeatureList       []string
	Reading           string
}

func NewToken(m Morpheme) *Token {
	token := &Token{
		Surface:           m.Surface,
		NormalizedSurface: m.NormalizedForm,
		Feature:           strings.Join(m.PartOfSpeech, FEATURE_DELIM),
		FeatureList:       m.PartOfSpeech,
		Reading:           m.ReadingForm,
	}
	if len(m.PartOfSpeech) > 0 {
		token.POS = m.PartOfSpeech[0]
	}
	return token
}

// FeatureAt returns the i-th tag component or "*" when the tag list is shorter
func (t *Token) FeatureAt(i int) string {
	if i < 0 || i >= len(t.FeatureList) {
		return "*"
	}
	return t.FeatureList[i]
}

func (t *Token) String() string {
	return t.Surface + "\t" + t.Feature
}
