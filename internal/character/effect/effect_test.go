package effect

import (
	"testing"
)

func TestParseStaticModifiers(t *testing.T) {
	parsed := Parse("肉体+2, 戦闘能力-1")

	if got := parsed.StatModifiers["Body"]; got != 2 {
		t.Fatalf("Body modifier = %v, want 2", got)
	}
	if got := parsed.StatModifiers["Combat"]; got != -1 {
		t.Fatalf("Combat modifier = %v, want -1", got)
	}
}

func TestParseDynamicModifier(t *testing.T) {
	parsed := Parse("防護:{肉体}/2")

	if got := parsed.DynamicModifiers["Defense"]; got != "{肉体}/2" {
		t.Fatalf("Defense modifier = %q, want %q", got, "{肉体}/2")
	}
}

func TestParseDynamicModifierFullWidthColon(t *testing.T) {
	parsed := Parse("回復量：{魔力}*2")

	if got := parsed.DynamicModifiers["RecoveryAmount"]; got != "{魔力}*2" {
		t.Fatalf("RecoveryAmount modifier = %q, want %q", got, "{魔力}*2")
	}
}

func TestParseGrantStatWithLabel(t *testing.T) {
	parsed := Parse("GrantStat:karma(カルマ)=0")

	if len(parsed.GrantedStats) != 1 {
		t.Fatalf("granted stats = %d, want 1", len(parsed.GrantedStats))
	}
	granted := parsed.GrantedStats[0]
	if granted.Key != "karma" || granted.Label != "カルマ" || granted.Value != "0" {
		t.Fatalf("granted stat = %+v", granted)
	}
	if !granted.IsMain {
		t.Fatal("granted stat should be promoted to main")
	}
}

func TestParseGrantStatLabelOnly(t *testing.T) {
	parsed := Parse("GrantStat:カルマ=3")

	if len(parsed.GrantedStats) != 1 {
		t.Fatalf("granted stats = %d, want 1", len(parsed.GrantedStats))
	}
	granted := parsed.GrantedStats[0]
	if granted.Key != "カルマ" || granted.Label != "カルマ" || granted.Value != "3" {
		t.Fatalf("granted stat = %+v", granted)
	}
}

func TestParseGrantResourceSimple(t *testing.T) {
	parsed := Parse("GrantResource:弾薬=10")

	if len(parsed.GrantedResources) != 1 {
		t.Fatalf("granted resources = %d, want 1", len(parsed.GrantedResources))
	}
	res := parsed.GrantedResources[0]
	if res.Name != "弾薬" {
		t.Fatalf("name = %q, want 弾薬", res.Name)
	}
	if res.Max != "10" || res.Initial != "10" || res.Min != "0" {
		t.Fatalf("bounds = max %q min %q initial %q", res.Max, res.Min, res.Initial)
	}
	if res.ID == "" {
		t.Fatal("resource id should be generated")
	}
}

func TestParseGrantResourceProperties(t *testing.T) {
	parsed := Parse("GrantResource:弾薬{max:12,min:0}")

	if len(parsed.GrantedResources) != 1 {
		t.Fatalf("granted resources = %d, want 1", len(parsed.GrantedResources))
	}
	res := parsed.GrantedResources[0]
	if res.Max != "12" {
		t.Fatalf("max = %q, want 12", res.Max)
	}
	if res.Initial != "12" {
		t.Fatalf("initial = %q, want 12 (defaults to max)", res.Initial)
	}
}

func TestParseGrantResourceExplicitInit(t *testing.T) {
	parsed := Parse("GrantResource:チャージ{max:5,init:0}")

	res := parsed.GrantedResources[0]
	if res.Max != "5" || res.Initial != "0" {
		t.Fatalf("max = %q initial = %q, want 5 and 0", res.Max, res.Initial)
	}
}

func TestParseMixedTokensAndSeparators(t *testing.T) {
	parsed := Parse("肉体+2、防護:{肉体}/2 GrantResource:弾薬=6")

	if len(parsed.StatModifiers) != 1 || len(parsed.DynamicModifiers) != 1 || len(parsed.GrantedResources) != 1 {
		t.Fatalf("parsed = %+v", parsed)
	}
}

func TestParseIgnoresUnmatchedTokens(t *testing.T) {
	parsed := Parse("毎ターン開始時に発動する")

	if len(parsed.StatModifiers) != 0 || len(parsed.DynamicModifiers) != 0 ||
		len(parsed.GrantedStats) != 0 || len(parsed.GrantedResources) != 0 {
		t.Fatalf("free text should parse to nothing, got %+v", parsed)
	}
}

func TestVariantMergesBothModifierKinds(t *testing.T) {
	parsed := Parse("肉体+2, 防護:{肉体}/2")
	variant := parsed.Variant()

	if got := variant.Modifiers["Body"]; got != "2" {
		t.Fatalf("Body = %q, want constant formula 2", got)
	}
	if got := variant.Modifiers["Defense"]; got != "{肉体}/2" {
		t.Fatalf("Defense = %q", got)
	}
}

func TestVariantEmptyParse(t *testing.T) {
	variant := Parse("just flavour text").Variant()

	if variant.Modifiers != nil {
		t.Fatalf("modifiers = %v, want none", variant.Modifiers)
	}
}
