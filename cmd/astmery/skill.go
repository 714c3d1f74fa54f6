package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/astmary-project/astmery/internal/character"
	"github.com/astmary-project/astmery/internal/character/effect"
)

var characterSkillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage a character's skills and wishlist",
}

var skillLearnCmd = &cobra.Command{
	Use:   "learn [character-id] [name]",
	Short: "Learn a skill, charging experience",
	Long: `Learn appends a SKILL_LEARNED event. Passive skills feed their
--effect into the bonus pass; active skills keep it as roll guidance.
The cost follows the acquisition table unless --cost overrides it.`,
	Args: cobra.ExactArgs(2),
	RunE: runSkillLearn,
}

var skillForgetCmd = &cobra.Command{
	Use:   "forget [character-id] [skill-id]",
	Short: "Forget a learned skill",
	Args:  cobra.ExactArgs(2),
	RunE:  runSkillForget,
}

var skillWishCmd = &cobra.Command{
	Use:   "wish [character-id] [name]",
	Short: "Add a skill to the wishlist",
	Args:  cobra.ExactArgs(2),
	RunE:  runSkillWish,
}

var (
	skillPassive bool
	skillEffect  string
	skillDesc    string
	skillCost    int
	skillMethod  string
)

func init() {
	skillLearnCmd.Flags().BoolVar(&skillPassive, "passive", false, "mark the skill as passive")
	skillLearnCmd.Flags().StringVar(&skillEffect, "effect", "", "effect text, e.g. \"GrantStat:カルマ=0, 防護+1\"")
	skillLearnCmd.Flags().StringVar(&skillDesc, "desc", "", "skill description")
	skillLearnCmd.Flags().IntVar(&skillCost, "cost", -1, "experience cost override")
	skillLearnCmd.Flags().StringVar(&skillMethod, "method", string(character.AcquisitionStandard),
		"acquisition method (Standard, Free, Grade, Other)")

	characterSkillCmd.AddCommand(skillLearnCmd)
	characterSkillCmd.AddCommand(skillForgetCmd)
	characterSkillCmd.AddCommand(skillWishCmd)
	characterCmd.AddCommand(characterSkillCmd)
}

func runSkillLearn(cmd *cobra.Command, args []string) error {
	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer closeStore("journal", store)
	ctx := cmd.Context()

	method := character.AcquisitionType(skillMethod)
	skill := buildSkill(args[1], skillPassive, skillEffect)
	skill.Description = skillDesc
	skill.Acquisition = method

	cost := skillCost
	if cost < 0 {
		state, err := loadState(ctx, store, args[0])
		if err != nil {
			return err
		}
		cost = character.SkillCost(len(state.Skills), method)
	}

	evt, err := character.NewSkillLearnedEvent(skill, cost, skillDesc)
	if err != nil {
		return err
	}
	if _, err := store.AppendEvent(ctx, args[0], evt); err != nil {
		return err
	}
	fmt.Printf("learned %s (%s) for %d exp\n", skill.Name, skill.ID, cost)
	return nil
}

func runSkillForget(cmd *cobra.Command, args []string) error {
	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer closeStore("journal", store)

	evt, err := character.NewSkillForgottenEvent(args[1], "")
	if err != nil {
		return err
	}
	if _, err := store.AppendEvent(cmd.Context(), args[0], evt); err != nil {
		return err
	}
	fmt.Printf("forgot %s\n", args[1])
	return nil
}

func runSkillWish(cmd *cobra.Command, args []string) error {
	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer closeStore("journal", store)

	skill := buildSkill(args[1], false, "")
	evt, err := character.NewWishlistSkillAddedEvent(skill, "")
	if err != nil {
		return err
	}
	if _, err := store.AppendEvent(cmd.Context(), args[0], evt); err != nil {
		return err
	}
	fmt.Printf("wishlisted %s (%s)\n", skill.Name, skill.ID)
	return nil
}

// buildSkill assembles a skill entity, routing parsed effect text into the
// variant and grant fields the bonus pass reads.
func buildSkill(name string, passive bool, effectText string) character.Skill {
	skill := character.Skill{
		ID:       uuid.NewString(),
		Name:     name,
		Category: character.SkillActive,
	}
	if passive {
		skill.Category = character.SkillPassive
	}
	if effectText != "" {
		parsed := effect.Parse(effectText)
		skill.GrantedStats = parsed.GrantedStats
		skill.GrantedResources = parsed.GrantedResources
		if variant := parsed.Variant(); variant.Modifiers != nil {
			skill.Variants = map[string]character.Variant{
				character.DefaultVariantKey: variant,
			}
			skill.CurrentVariant = character.DefaultVariantKey
		}
	}
	return skill
}
