package cabocha

import (
	nlp "kintoki/nlp/types"

	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const EOS_NL = nlp.EOS + "\n"

// String renders the tree at its own output layer
func String(tree *nlp.Tree, format nlp.Format) (string, error) {
	var b strings.Builder
	if err := Write(&b, tree, tree.OutputLayer, format); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write renders the tree in the given format. Nothing is written when the
// format or layer is rejected.
func Write(writer io.Writer, tree *nlp.Tree, layer nlp.OutputLayer, format nlp.Format) error {
	var b strings.Builder
	switch format {
	case nlp.FORMAT_LATTICE:
		if err := writeLattice(&b, tree, layer); err != nil {
			return err
		}
	case nlp.FORMAT_TREE_LATTICE:
		writeTree(&b, tree)
		if err := writeLattice(&b, tree, layer); err != nil {
			return err
		}
	case nlp.FORMAT_TREE:
		writeTree(&b, tree)
	case nlp.FORMAT_XML, nlp.FORMAT_CONLL:
		return &nlp.UnsupportedFormatError{Format: format}
	case nlp.FORMAT_NONE:
		return nil
	default:
		return &nlp.ConfigurationError{Msg: fmt.Sprintf("unknown format: %v", format)}
	}
	_, err := io.WriteString(writer, b.String())
	return err
}

func writeLattice(b *strings.Builder, tree *nlp.Tree, layer nlp.OutputLayer) error {
	switch layer {
	case nlp.OUTPUT_RAW_SENTENCE:
		b.WriteString(tree.Sentence())
		b.WriteByte('\n')
	case nlp.OUTPUT_POS:
		for _, token := range tree.Tokens {
			writeToken(b, token)
		}
	case nlp.OUTPUT_CHUNK, nlp.OUTPUT_SELECTION, nlp.OUTPUT_DEP:
		for i, chunk := range tree.Chunks {
			writeChunk(b, chunk, i, layer)
		}
	default:
		return &nlp.ConfigurationError{Msg: fmt.Sprintf("unknown output layer: %v", layer)}
	}
	b.WriteString(EOS_NL)
	return nil
}

func writeToken(b *strings.Builder, token *nlp.Token) {
	b.WriteString(token.Surface)
	b.WriteString(FIELD_SEPARATOR)
	b.WriteString(token.Feature)
	b.WriteByte('\n')
}

func writeChunk(b *strings.Builder, chunk *nlp.Chunk, id int, layer nlp.OutputLayer) {
	link := nlp.NO_LINK
	if layer == nlp.OUTPUT_DEP {
		link = chunk.Link
	}
	writeHeader1(b, id, link)
	if layer != nlp.OUTPUT_CHUNK {
		writeHeader2(b, chunk)
		if layer == nlp.OUTPUT_SELECTION && len(chunk.FeatureList) > 0 {
			b.WriteString(HEADER_SEPARATOR)
			b.WriteString(strings.Join(chunk.FeatureList, nlp.FEATURE_DELIM))
		}
	}
	b.WriteByte('\n')
	for _, token := range chunk.Tokens {
		writeToken(b, token)
	}
}

func writeHeader1(b *strings.Builder, id, link int) {
	b.WriteString(nlp.CHUNK_HEADER_PREFIX)
	b.WriteString(strconv.Itoa(id))
	b.WriteString(HEADER_SEPARATOR)
	b.WriteString(strconv.Itoa(link))
	b.WriteString(LINK_SUFFIX)
}

func writeHeader2(b *strings.Builder, chunk *nlp.Chunk) {
	fmt.Fprintf(b, " %d%s%d %s", chunk.HeadPos, HEAD_FUNC_DELIM, chunk.FuncPos, formatScore(chunk.Score))
}

// formatScore writes the shortest exact decimal, keeping ".0" on integers
func formatScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if score == math.Trunc(score) && !math.IsInf(score, 0) {
		s += ".0"
	}
	return s
}

// WriteSentences renders every tree at its own output layer
func WriteSentences(writer io.Writer, trees []*nlp.Tree, format nlp.Format) error {
	bufWriter := bufio.NewWriter(writer)
	for _, tree := range trees {
		if err := Write(bufWriter, tree, tree.OutputLayer, format); err != nil {
			return err
		}
	}
	return bufWriter.Flush()
}

func WriteFile(filename string, trees []*nlp.Tree, format nlp.Format) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteSentences(file, trees, format)
}
