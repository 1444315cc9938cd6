package conf

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// ReadLines returns the non-empty lines of reader that do not start with '#'
func ReadLines(reader io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var retval []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) > 0 && line[0] != '#' {
			retval = append(retval, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return retval, nil
}

func ReadLinesFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadLines(file)
}
