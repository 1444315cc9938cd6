package app

import (
	"io"
	"log"
	"os"

	"github.com/gonuts/commander"
)

var (
	allOut bool = true

	// file names
	input     string
	inputGold string
	outFile   string
	rcFile    string
)

func VerifyExists(filename string) bool {
	_, err := os.Stat(filename)
	if err != nil {
		log.Println("Error accessing file", filename)
		log.Println(err)
		return false
	}
	return true
}

func VerifyFlags(cmd *commander.Command, required []string) {
	for _, flag := range required {
		f := cmd.Flag.Lookup(flag)
		if f.Value.String() == "" {
			log.Printf("Required flag %s not set", f.Name)
			cmd.Usage()
			os.Exit(1)
		}
	}
}

// openInput opens filename, or stdin when it is empty. Closing stdin
// this way leaves it open.
func openInput(filename string) (io.ReadCloser, error) {
	if filename == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(filename)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// createOutput creates filename, or wraps stdout when it is empty
func createOutput(filename string) (io.WriteCloser, error) {
	if filename == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(filename)
}
