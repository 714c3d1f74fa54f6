package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astmary-project/astmery/internal/character"
	"github.com/astmary-project/astmery/internal/dice"
)

var rollCmd = &cobra.Command{
	Use:   "roll [formula...]",
	Short: "Roll a dice formula",
	Long: `Roll evaluates a dice formula like "2d6 + 3". With --character the
formula may reference that character's stats by key or label:

  astmery roll 2d6 + {肉体}
  astmery roll --character char-1 1d20 + Combat`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoll,
}

var rollCharacterID string

func init() {
	rollCmd.Flags().StringVar(&rollCharacterID, "character", "", "character whose stats resolve references")
}

func runRoll(cmd *cobra.Command, args []string) error {
	formula := strings.Join(args, " ")

	var state *character.State
	if rollCharacterID != "" {
		store, _, err := openJournal()
		if err != nil {
			return err
		}
		defer closeStore("journal", store)

		loaded, err := loadState(cmd.Context(), store, rollCharacterID)
		if err != nil {
			return err
		}
		state = &loaded
	}

	result, err := dice.Roll(dice.Request{Formula: formula, State: state})
	if err != nil {
		return err
	}
	printRoll(formula, result)
	return nil
}

func printRoll(formula string, result dice.Result) {
	line := fmt.Sprintf("%s = %s = %v", formula, result.Detail, result.Total)
	switch {
	case result.Critical:
		line += "  (critical)"
	case result.Fumble:
		line += "  (fumble)"
	}
	fmt.Println(line)
}
