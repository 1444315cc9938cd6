package cabocha

// Package cabocha reads and writes the CaboCha text format.
// A sentence is a block of token lines (surface<TAB>tag,tag,...)
// optionally interleaved with chunk headers (* <id> <link>D ...).
// Sentences in a file are terminated by an EOS line.

import (
	nlp "kintoki/nlp/types"

	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	LINE_SEPARATOR     = "\n"
	FIELD_SEPARATOR    = "\t"
	HEADER_SEPARATOR   = " "
	HEAD_FUNC_DELIM    = "/"
	LINK_SUFFIX        = "D"
	MIN_HEADER_COLUMNS = 3
)

// Read parses one sentence of the given layer. On error no tree is returned.
func Read(input string, layer nlp.InputLayer) (*nlp.Tree, error) {
	tree := nlp.NewTree()
	switch layer {
	case nlp.INPUT_RAW_SENTENCE:
		tree.SetSentence(input)
		return tree, nil
	case nlp.INPUT_POS, nlp.INPUT_CHUNK, nlp.INPUT_SELECTION, nlp.INPUT_DEP:
		if err := readCaboChaFormat(tree, input, layer); err != nil {
			return nil, err
		}
	default:
		return nil, &nlp.ConfigurationError{Msg: fmt.Sprintf("invalid input layer %v", layer)}
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return tree, nil
}

// splitLines splits on newlines, dropping trailing empty elements
func splitLines(input string) []string {
	lines := strings.Split(input, LINE_SEPARATOR)
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}
	return lines[:end]
}

func readCaboChaFormat(tree *nlp.Tree, input string, layer nlp.InputLayer) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	var (
		chunkID   int
		lastChunk *nlp.Chunk
	)
	for i, line := range splitLines(input) {
		if strings.TrimSpace(line) == "" {
			return &nlp.FormatError{Line: i + 1, Msg: "blank line"}
		}
		if strings.HasPrefix(line, nlp.CHUNK_HEADER_PREFIX) {
			if layer == nlp.INPUT_POS {
				continue
			}
			chunk, err := ParseHeader(line, chunkID)
			if err != nil {
				return lineError(err, i+1)
			}
			chunk.TokenPos = tree.TokenSize()
			tree.AddChunk(chunk)
			lastChunk = chunk
			chunkID++
			continue
		}
		token, err := ParseToken(line)
		if err != nil {
			return lineError(err, i+1)
		}
		tree.AddToken(token)
		if lastChunk != nil && layer > nlp.INPUT_POS {
			lastChunk.Tokens = append(lastChunk.Tokens, token)
		}
	}
	return nil
}

func lineError(err error, line int) error {
	if formatErr, ok := err.(*nlp.FormatError); ok && formatErr.Line == 0 {
		formatErr.Line = line
	}
	return err
}

// ParseHeader parses "* <id> <link>D [<head>/<func> [<score> [<f,f,...>]]]"
func ParseHeader(line string, chunkID int) (*nlp.Chunk, error) {
	columns := splitColumns(line)
	if len(columns) < MIN_HEADER_COLUMNS {
		return nil, &nlp.FormatError{Msg: fmt.Sprintf("header has %d columns: %q", len(columns), line)}
	}
	id, err := strconv.Atoi(columns[1])
	if err != nil {
		return nil, &nlp.FormatError{Msg: fmt.Sprintf("error parsing chunk id (%s): %s", columns[1], err.Error())}
	}
	if id != chunkID {
		return nil, &nlp.FormatError{Msg: fmt.Sprintf("chunk id %d found where %d expected", id, chunkID)}
	}
	if !strings.HasSuffix(columns[2], LINK_SUFFIX) {
		return nil, &nlp.FormatError{Msg: fmt.Sprintf("link field (%s) lacks the %s suffix", columns[2], LINK_SUFFIX)}
	}
	chunk := nlp.NewChunk(0)
	link, err := strconv.Atoi(strings.TrimSuffix(columns[2], LINK_SUFFIX))
	if err != nil {
		return nil, &nlp.FormatError{Msg: fmt.Sprintf("error parsing link field (%s): %s", columns[2], err.Error())}
	}
	chunk.Link = link

	if len(columns) >= 4 {
		positions := strings.Split(columns[3], HEAD_FUNC_DELIM)
		if len(positions) != 2 {
			return nil, &nlp.FormatError{Msg: fmt.Sprintf("head/func field (%s) is not of the form h/f", columns[3])}
		}
		if chunk.HeadPos, err = strconv.Atoi(positions[0]); err != nil {
			return nil, &nlp.FormatError{Msg: fmt.Sprintf("error parsing head position (%s): %s", positions[0], err.Error())}
		}
		if chunk.FuncPos, err = strconv.Atoi(positions[1]); err != nil {
			return nil, &nlp.FormatError{Msg: fmt.Sprintf("error parsing func position (%s): %s", positions[1], err.Error())}
		}
	}
	if len(columns) >= 5 {
		if chunk.Score, err = strconv.ParseFloat(columns[4], 64); err != nil {
			return nil, &nlp.FormatError{Msg: fmt.Sprintf("error parsing score (%s): %s", columns[4], err.Error())}
		}
	}
	if len(columns) >= 6 {
		chunk.FeatureList = strings.Split(columns[5], nlp.FEATURE_DELIM)
	}
	return chunk, nil
}

func splitColumns(line string) []string {
	columns := strings.Split(line, HEADER_SEPARATOR)
	end := len(columns)
	for end > 0 && columns[end-1] == "" {
		end--
	}
	return columns[:end]
}

// ParseToken parses "<surface>\t<tag,tag,...>", splitting at the first tab
func ParseToken(line string) (*nlp.Token, error) {
	surface, feature, found := strings.Cut(line, FIELD_SEPARATOR)
	if !found {
		return nil, &nlp.FormatError{Msg: fmt.Sprintf("token line without tab: %q", line)}
	}
	if surface == "" {
		return nil, &nlp.FormatError{Msg: "empty surface field"}
	}
	if feature == "" {
		return nil, &nlp.FormatError{Msg: "empty feature field"}
	}
	featureList := strings.Split(feature, nlp.FEATURE_DELIM)
	return &nlp.Token{
		Surface:           surface,
		NormalizedSurface: surface,
		POS:               featureList[0],
		Feature:           feature,
		FeatureList:       featureList,
	}, nil
}

// ReadBlocks splits a stream into sentence inputs. Raw sentences are one per
// non-empty line; richer layers are blocks terminated by an EOS line, which
// is not part of the block. A final block without EOS is kept.
func ReadBlocks(reader io.Reader, layer nlp.InputLayer) ([]string, error) {
	var (
		blocks []string
		block  []string
	)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if layer == nlp.INPUT_RAW_SENTENCE {
			if line != "" {
				blocks = append(blocks, line)
			}
			continue
		}
		if line == "" && len(block) == 0 {
			continue
		}
		if line != nlp.EOS {
			block = append(block, line)
			continue
		}
		blocks = append(blocks, strings.Join(block, LINE_SEPARATOR))
		block = block[:0]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(block) > 0 && strings.TrimSpace(strings.Join(block, "")) != "" {
		blocks = append(blocks, strings.Join(block, LINE_SEPARATOR))
	}
	return blocks, nil
}

// ReadSentences reads every sentence of a stream
func ReadSentences(reader io.Reader, layer nlp.InputLayer) ([]*nlp.Tree, error) {
	blocks, err := ReadBlocks(reader, layer)
	if err != nil {
		return nil, err
	}
	trees := make([]*nlp.Tree, len(blocks))
	for i, block := range blocks {
		if trees[i], err = Read(block, layer); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i+1, err)
		}
	}
	return trees, nil
}

func ReadFile(filename string, layer nlp.InputLayer) ([]*nlp.Tree, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadSentences(file, layer)
}
