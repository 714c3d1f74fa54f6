package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/astmary-project/astmery/internal/character"
	"github.com/astmary-project/astmery/internal/dice"
	"github.com/astmary-project/astmery/internal/platform/config"
	"github.com/astmary-project/astmery/internal/session"
	redisstore "github.com/astmary-project/astmery/internal/storage/redis"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Play in a session room",
	Long: `Session commands operate on a room's ephemeral state: live resource
values and the chat log. A posted line is interpreted as a resource
command (":HP-5"), then as a dice roll ("2d6 Attack"), then as chat.`,
}

var sessionPostCmd = &cobra.Command{
	Use:   "post [line...]",
	Short: "Post one line to the room",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSessionPost,
}

var sessionLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the room log, oldest first",
	RunE:  runSessionLog,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the character sheet as the room currently sees it",
	RunE:  runSessionShow,
}

var (
	sessionCharacterID string
	sessionRoomID      string
	sessionLogLimit    int64
)

func init() {
	for _, cmd := range []*cobra.Command{sessionPostCmd, sessionShowCmd} {
		cmd.Flags().StringVar(&sessionCharacterID, "character", "", "acting character id")
	}
	sessionCmd.PersistentFlags().StringVar(&sessionRoomID, "room", "", "room id (defaults to ASTMERY_ROOM_ID)")
	sessionLogCmd.Flags().Int64Var(&sessionLogLimit, "limit", 50, "maximum entries to print")

	sessionCmd.AddCommand(sessionPostCmd)
	sessionCmd.AddCommand(sessionLogCmd)
	sessionCmd.AddCommand(sessionShowCmd)
}

// openRoom connects both stores and resolves the room id.
func openRoom(ctx context.Context) (*redisstore.Store, config.Config, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, "", err
	}
	if cfg.RedisAddr == "" {
		return nil, config.Config{}, "", fmt.Errorf("session commands need ASTMERY_REDIS_ADDR")
	}
	store, err := redisstore.Open(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return nil, config.Config{}, "", err
	}
	roomID := sessionRoomID
	if roomID == "" {
		roomID = cfg.RoomID
	}
	return store, cfg, roomID, nil
}

func runSessionPost(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rooms, _, roomID, err := openRoom(ctx)
	if err != nil {
		return err
	}
	defer closeStore("session", rooms)

	if sessionCharacterID == "" {
		return fmt.Errorf("--character is required")
	}
	journal, _, err := openJournal()
	if err != nil {
		return err
	}
	defer closeStore("journal", journal)

	state, err := loadState(ctx, journal, sessionCharacterID)
	if err != nil {
		return err
	}
	values, err := rooms.GetResourceValues(ctx, roomID)
	if err != nil {
		return err
	}

	line := strings.Join(args, " ")
	events := interpretLine(line, &state)
	next := values
	for _, evt := range events {
		next = session.Apply(next, evt, &state)
		if err := rooms.AppendSessionEvent(ctx, roomID, evt); err != nil {
			return err
		}
		printSessionEvent(evt)
	}
	if !sameValues(values, next) {
		if err := rooms.PutResourceValues(ctx, roomID, next); err != nil {
			return err
		}
	}
	return nil
}

// interpretLine resolves a posted line: resource command first, dice roll
// second, plain chat last.
func interpretLine(line string, state *character.State) []session.Event {
	if events := session.ParseCommand(line); events != nil {
		return events
	}
	if formula, description, ok := session.SplitDiceInput(line, state); ok {
		result, err := dice.Roll(dice.Request{Formula: formula, State: state})
		if err == nil {
			return []session.Event{session.NewRoll(session.RollRecord{
				Formula:  formula,
				Detail:   result.Detail,
				Total:    result.Total,
				Critical: result.Critical,
				Fumble:   result.Fumble,
			}, description)}
		}
	}
	return []session.Event{session.NewChat(line)}
}

func runSessionLog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rooms, _, roomID, err := openRoom(ctx)
	if err != nil {
		return err
	}
	defer closeStore("session", rooms)

	events, err := rooms.ListSessionEvents(ctx, roomID, sessionLogLimit)
	if err != nil {
		return err
	}
	for _, evt := range events {
		printSessionEvent(evt)
	}
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rooms, _, roomID, err := openRoom(ctx)
	if err != nil {
		return err
	}
	defer closeStore("session", rooms)

	if sessionCharacterID == "" {
		return fmt.Errorf("--character is required")
	}
	journal, _, err := openJournal()
	if err != nil {
		return err
	}
	defer closeStore("journal", journal)

	state, err := loadState(ctx, journal, sessionCharacterID)
	if err != nil {
		return err
	}
	values, err := rooms.GetResourceValues(ctx, roomID)
	if err != nil {
		return err
	}

	projected := character.Project(&state, values)
	fmt.Println("Stats:")
	for _, key := range statDisplayOrder(&projected) {
		value := projected.Stats[key]
		if derived, ok := projected.DerivedStats[key]; ok {
			value = derived
		}
		fmt.Printf("  %-14s %v\n", displayLabel(&projected, key), value)
	}
	if len(state.Resources) > 0 {
		fmt.Println("\nResources:")
		for _, res := range state.Resources {
			current, ok := values[res.ID]
			if !ok {
				current = res.Clamp(&state, res.InitialValue(&state))
			}
			_, max := res.Bounds(&state)
			fmt.Printf("  %-14s %v / %v\n", res.Name, current, max)
		}
	}
	return nil
}

func printSessionEvent(evt session.Event) {
	ts := time.UnixMilli(evt.Timestamp).Format("15:04:05")
	switch evt.Type {
	case session.EventChat:
		fmt.Printf("%s  %s\n", ts, evt.Message)
	case session.EventRoll:
		line := fmt.Sprintf("%s  %s = %s = %v", ts, evt.Roll.Formula, evt.Roll.Detail, evt.Roll.Total)
		if evt.Description != "" {
			line += "  " + evt.Description
		}
		switch {
		case evt.Roll.Critical:
			line += "  (critical)"
		case evt.Roll.Fumble:
			line += "  (fumble)"
		}
		fmt.Println(line)
	default:
		fmt.Printf("%s  %s\n", ts, evt.Description)
	}
}

func sameValues(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for key, value := range a {
		if b[key] != value {
			return false
		}
	}
	return true
}
