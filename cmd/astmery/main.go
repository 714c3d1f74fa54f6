// Package main is the astmery command line interface: character journal
// management, dice rolls and session play.
package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/astmary-project/astmery/internal/character"
	"github.com/astmary-project/astmery/internal/platform/config"
	"github.com/astmary-project/astmery/internal/storage/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "astmery",
	Short: "Event-sourced TTRPG character sheets and session rolls",
	Long: `astmery keeps character sheets as append-only event journals and
derives the current sheet by replay. It also rolls dice and runs
session rooms with live resource tracking.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		config.Exitf("astmery: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(sessionCmd)
}

// openJournal opens the SQLite store from the environment configuration.
// Callers must Close the returned store.
func openJournal() (*sqlite.Store, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("open journal db: %w", err)
	}
	return store, cfg, nil
}

// closeStore logs close failures instead of surfacing them; they should not
// mask the command's real result.
func closeStore(name string, store io.Closer) {
	if err := store.Close(); err != nil {
		log.Printf("close %s store: %v", name, err)
	}
}

// loadState replays a character's journal into its current state.
func loadState(ctx context.Context, store *sqlite.Store, characterID string) (character.State, error) {
	record, err := store.GetCharacter(ctx, characterID)
	if err != nil {
		return character.State{}, err
	}
	events, err := store.ListEvents(ctx, characterID)
	if err != nil {
		return character.State{}, err
	}
	return character.Calculate(events, record.BaseStats, record.Tags)
}
