package analysis

import (
	"fmt"

	"github.com/edp1096/blocklac/pkg/deck"
)

// FromCommand returns the analysis that runs a deck command.
func FromCommand(cmd deck.Command) (Analysis, error) {
	switch cmd.Type {
	case deck.CommandVMult:
		return NewVMult(cmd.Args[0], false), nil
	case deck.CommandTVMult:
		return NewVMult(cmd.Args[0], true), nil
	case deck.CommandResidual:
		return NewResidual(cmd.Args[0], cmd.Args[1]), nil
	case deck.CommandSolve:
		return NewBlockGaussSeidel(cmd.Args[0], cmd.MaxIter, cmd.Tol), nil
	}
	return nil, fmt.Errorf("unsupported analysis type: %v", cmd.Type)
}
