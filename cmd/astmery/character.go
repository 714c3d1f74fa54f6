package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/astmary-project/astmery/internal/character"
	"github.com/astmary-project/astmery/internal/character/stat"
	"github.com/astmary-project/astmery/internal/storage"
)

var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Manage characters and their journals",
}

var characterCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a character",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharacterCreate,
}

var characterShowCmd = &cobra.Command{
	Use:   "show [character-id]",
	Short: "Replay a character's journal and print the sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharacterShow,
}

var characterGrowCmd = &cobra.Command{
	Use:   "grow [character-id] [stat] [delta]",
	Short: "Grow a base stat, charging experience",
	Long: `Grow appends a STAT_GROWN event. The stat may be a canonical key
(Body) or a localized label (肉体). The cost follows the growth table
unless --cost overrides it.`,
	Args: cobra.ExactArgs(3),
	RunE: runCharacterGrow,
}

var characterExpCmd = &cobra.Command{
	Use:   "exp [character-id] [amount]",
	Short: "Record earned (or with --spend, spent) experience",
	Args:  cobra.ExactArgs(2),
	RunE:  runCharacterExp,
}

var characterLogCmd = &cobra.Command{
	Use:   "log [character-id]",
	Short: "Print a character's journal",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharacterLog,
}

var (
	createID      string
	createOwner   string
	createProfile string
	createStats   []string
	createTags    []string

	growCost int
	growDesc string

	expSpend    bool
	expCategory string
	expReason   string
)

func init() {
	characterCreateCmd.Flags().StringVar(&createID, "id", "", "character id (defaults to a fresh uuid)")
	characterCreateCmd.Flags().StringVar(&createOwner, "owner", "", "owner id")
	characterCreateCmd.Flags().StringVar(&createProfile, "profile", "", "free-text profile")
	characterCreateCmd.Flags().StringArrayVar(&createStats, "stat", nil, "base stat as key=value, repeatable")
	characterCreateCmd.Flags().StringArrayVar(&createTags, "tag", nil, "initial tag, repeatable")

	characterGrowCmd.Flags().IntVar(&growCost, "cost", -1, "experience cost override")
	characterGrowCmd.Flags().StringVar(&growDesc, "desc", "", "journal description")

	characterExpCmd.Flags().BoolVar(&expSpend, "spend", false, "record spent instead of earned experience")
	characterExpCmd.Flags().StringVar(&expCategory, "category", "", "spend category")
	characterExpCmd.Flags().StringVar(&expReason, "reason", "", "earn reason")

	characterCmd.AddCommand(characterCreateCmd)
	characterCmd.AddCommand(characterShowCmd)
	characterCmd.AddCommand(characterGrowCmd)
	characterCmd.AddCommand(characterExpCmd)
	characterCmd.AddCommand(characterLogCmd)
}

func runCharacterCreate(cmd *cobra.Command, args []string) error {
	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer closeStore("journal", store)

	baseStats, err := parseStatFlags(createStats)
	if err != nil {
		return err
	}

	id := createID
	if id == "" {
		id = uuid.NewString()
	}
	record := storage.CharacterRecord{
		ID:        id,
		Name:      args[0],
		OwnerID:   createOwner,
		BaseStats: baseStats,
		Tags:      createTags,
		Profile:   createProfile,
	}
	if err := store.PutCharacter(cmd.Context(), record); err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", record.Name, record.ID)
	return nil
}

func runCharacterShow(cmd *cobra.Command, args []string) error {
	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer closeStore("journal", store)

	ctx := cmd.Context()
	record, err := store.GetCharacter(ctx, args[0])
	if err != nil {
		return err
	}
	state, err := loadState(ctx, store, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", record.Name, record.ID)
	if record.Profile != "" {
		fmt.Println(record.Profile)
	}
	fmt.Printf("EXP %d total, %d used, %d free\n", state.Exp.Total, state.Exp.Used, state.Exp.Free)

	fmt.Println("\nStats:")
	for _, key := range statDisplayOrder(&state) {
		value := state.Stats[key]
		if derived, ok := state.DerivedStats[key]; ok {
			value = derived
		}
		fmt.Printf("  %-14s %v\n", displayLabel(&state, key), value)
	}

	if len(state.Resources) > 0 {
		fmt.Println("\nResources:")
		for _, res := range state.Resources {
			current, ok := state.ResourceValues[res.ID]
			if !ok {
				current = res.Clamp(&state, res.InitialValue(&state))
			}
			_, max := res.Bounds(&state)
			fmt.Printf("  %-14s %v / %v\n", res.Name, current, max)
		}
	}

	if len(state.EquipmentSlots) > 0 {
		fmt.Println("\nEquipped:")
		for _, item := range state.EquipmentSlots {
			fmt.Printf("  %s (%s)\n", item.Name, item.Slot)
		}
	}
	if len(state.Skills) > 0 {
		fmt.Println("\nSkills:")
		for _, skill := range state.Skills {
			fmt.Printf("  %s\n", skill.Name)
		}
	}
	return nil
}

func runCharacterGrow(cmd *cobra.Command, args []string) error {
	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer closeStore("journal", store)

	ctx := cmd.Context()
	delta, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("delta %q is not a number", args[2])
	}

	key := stat.Canonical(strings.TrimSpace(args[1]))
	cost := growCost
	if cost < 0 {
		state, err := loadState(ctx, store, args[0])
		if err != nil {
			return err
		}
		cost = character.StatCost(int(state.Stats[key]), key == "Grade")
	}

	evt, err := character.NewStatGrownEvent(key, delta, cost, growDesc)
	if err != nil {
		return err
	}
	seq, err := store.AppendEvent(ctx, args[0], evt)
	if err != nil {
		return err
	}
	fmt.Printf("grew %s by %v for %d exp (event %d)\n", stat.Label(key), delta, cost, seq)
	return nil
}

func runCharacterExp(cmd *cobra.Command, args []string) error {
	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer closeStore("journal", store)

	amount, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("amount %q is not an integer", args[1])
	}

	if expSpend {
		spent, err := character.NewExperienceSpentEvent(amount, expCategory, "")
		if err != nil {
			return err
		}
		if _, err := store.AppendEvent(cmd.Context(), args[0], spent); err != nil {
			return err
		}
		fmt.Printf("spent %d exp\n", amount)
		return nil
	}

	gained, err := character.NewExperienceGainedEvent(amount, expReason, "")
	if err != nil {
		return err
	}
	if _, err := store.AppendEvent(cmd.Context(), args[0], gained); err != nil {
		return err
	}
	fmt.Printf("gained %d exp\n", amount)
	return nil
}

func runCharacterLog(cmd *cobra.Command, args []string) error {
	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer closeStore("journal", store)

	events, err := store.ListEvents(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	for i, evt := range events {
		ts := time.UnixMilli(evt.Timestamp).Format(time.RFC3339)
		line := fmt.Sprintf("%4d  %s  %-22s", i+1, ts, evt.Type)
		if evt.Description != "" {
			line += "  " + evt.Description
		}
		fmt.Println(line)
	}
	return nil
}

// parseStatFlags turns repeated key=value flags into a stat map. Labels are
// resolved to canonical keys.
func parseStatFlags(flags []string) (map[string]float64, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	stats := make(map[string]float64, len(flags))
	for _, raw := range flags {
		key, value, found := strings.Cut(raw, "=")
		if !found {
			return nil, fmt.Errorf("stat %q is not key=value", raw)
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("stat %q has a non-numeric value", raw)
		}
		stats[stat.Canonical(strings.TrimSpace(key))] = parsed
	}
	return stats, nil
}

// statDisplayOrder yields the standard block first, then custom main stats,
// then any remaining keys sorted.
func statDisplayOrder(state *character.State) []string {
	seen := make(map[string]bool)
	var order []string
	add := func(key string) {
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		order = append(order, key)
	}
	for _, key := range stat.StandardOrder {
		add(key)
	}
	for _, key := range state.CustomMainStats {
		add(key)
	}

	var rest []string
	for key := range state.Stats {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	for key := range state.DerivedStats {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		add(key)
	}
	return order
}

func displayLabel(state *character.State, key string) string {
	if label, ok := state.CustomLabels[key]; ok && label != "" {
		return label
	}
	return stat.Label(key)
}
