package app

import (
	"errors"
	"fmt"
	"log"

	"kintoki/eval"
	format "kintoki/nlp/format/cabocha"
	nlp "kintoki/nlp/types"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func EvalConfigOut() {
	log.Println("Data")
	log.Printf("Parsed result file:\t%s", input)
	log.Printf("Gold file:\t\t%s", inputGold)
	log.Println()
}

// Evaluate compares parsed trees to gold trees sentence by sentence
func Evaluate(test, gold []*nlp.Tree) (dep, chunk *eval.Total, err error) {
	if len(test) != len(gold) {
		return nil, nil, errors.New(fmt.Sprintf("Parsed file has %d sentences, gold file has %d", len(test), len(gold)))
	}
	dep, chunk = &eval.Total{}, &eval.Total{}
	for i := range test {
		depResult, err := eval.Dependency(test[i], gold[i])
		if err != nil {
			return nil, nil, fmt.Errorf("sentence %d: %w", i+1, err)
		}
		dep.Add(depResult)
		chunkResult, err := eval.Chunk(test[i], gold[i])
		if err != nil {
			return nil, nil, fmt.Errorf("sentence %d: %w", i+1, err)
		}
		chunk.Add(chunkResult)
	}
	return dep, chunk, nil
}

func Eval(cmd *commander.Command, args []string) error {
	VerifyFlags(cmd, []string{"in", "gold"})
	if !VerifyExists(input) || !VerifyExists(inputGold) {
		return errors.New("missing input files")
	}
	EvalConfigOut()
	test, err := format.ReadFile(input, nlp.INPUT_DEP)
	if err != nil {
		return err
	}
	log.Println("Read", len(test), "sentences from", input)
	gold, err := format.ReadFile(inputGold, nlp.INPUT_DEP)
	if err != nil {
		return err
	}
	log.Println("Read", len(gold), "sentences from", inputGold)

	dep, chunk, err := Evaluate(test, gold)
	if err != nil {
		return err
	}
	fmt.Printf("Dependency accuracy:\t%.4f (%d/%d)\n", dep.Accuracy(), dep.TP, dep.All())
	fmt.Printf("Sentence accuracy:\t%.4f (%d/%d)\n", dep.ExactMatch(), dep.Exact, dep.Population)
	fmt.Printf("Chunk precision:\t%.4f (%d/%d)\n", chunk.Precision(), chunk.TP, chunk.TestPositives())
	fmt.Printf("Chunk recall:\t\t%.4f (%d/%d)\n", chunk.Recall(), chunk.TP, chunk.ConditionPositives())
	fmt.Printf("Chunk F1:\t\t%.4f\n", chunk.F1())
	for class, count := range dep.Errors().ByType() {
		log.Printf("Dependency errors (%s):\t%d", class, count)
	}
	for class, count := range chunk.Errors().ByType() {
		log.Printf("Chunk errors (%s):\t%d", class, count)
	}
	return nil
}

func EvalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Eval,
		UsageLine: "eval <file options>",
		Short:     "evaluates parsed dependencies against gold",
		Long: `
evaluates parsed dependencies and chunks against a gold file, both in the
CaboCha dependency layer

	$ ./kintoki eval -in <parsed> -gold <gold>

`,
		Flag: *flag.NewFlagSet("eval", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&input, "in", "", "Parse Result File")
	cmd.Flag.StringVar(&inputGold, "gold", "", "Gold File")
	return cmd
}
