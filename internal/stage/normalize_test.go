package stage

import (
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

// TestNormalize_EmptyRecord verifies the never-fails contract: a record with
// nothing in it yields zeroed scalars and empty collections.
func TestNormalize_EmptyRecord(t *testing.T) {
	s := Normalize(gjson.Parse(`{}`))

	if s.RoundLabel != "" || s.Health != 0 || s.Gold != 0 || s.Level != 0 {
		t.Errorf("Expected zeroed scalars, got %+v", s)
	}
	if s.RoundType != RoundTypeUnknown {
		t.Errorf("Expected unknown round type, got %q", s.RoundType)
	}
	if len(s.Board) != 0 || len(s.Bench) != 0 || len(s.UnitDamage) != 0 ||
		len(s.Players) != 0 || len(s.Shop) != 0 || len(s.Outcomes) != 0 {
		t.Errorf("Expected empty collections, got %+v", s)
	}
}

// TestNormalize_StringNumerics verifies numeric fields arriving as strings
// parse with a 0 fallback, never an error.
func TestNormalize_StringNumerics(t *testing.T) {
	s := Normalize(gjson.Parse(`{
		"round": "3-2",
		"type": "pvp",
		"me": {"health": "86", "gold": "53", "level": 7, "goldEarned": "5", "rerolls": "not-a-number"}
	}`))

	if s.Health != 86 || s.Gold != 53 || s.Level != 7 || s.GoldEarned != 5 {
		t.Errorf("String numerics not parsed: %+v", s)
	}
	if s.Rerolls != 0 {
		t.Errorf("Unparsable numeric must default to 0, got %d", s.Rerolls)
	}
	if s.RoundType != RoundTypePVP {
		t.Errorf("Expected PVP (case-insensitive), got %q", s.RoundType)
	}
}

// TestNormalize_BoardOrderAndItems verifies board pieces keep the keyed
// mapping's document order and item slots are compacted without gaps.
func TestNormalize_BoardOrderAndItems(t *testing.T) {
	s := Normalize(gjson.Parse(`{
		"board": {
			"u3": {"unitId": "TFT14_Ahri", "starLevel": "2", "item1": "TFT_Item_JeweledGauntlet", "item3": "TFT_Item_Deathcap"},
			"u1": {"unitId": "TFT14_Kayle", "starLevel": 3},
			"u2": {"unitId": "TFT14_Poppy"}
		}
	}`))

	if len(s.Board) != 3 {
		t.Fatalf("Expected 3 board pieces, got %d", len(s.Board))
	}

	gotOrder := []string{s.Board[0].UnitID, s.Board[1].UnitID, s.Board[2].UnitID}
	wantOrder := []string{"TFT14_Ahri", "TFT14_Kayle", "TFT14_Poppy"}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("Board must keep document order, got %v", gotOrder)
	}

	// item2 absent: the list compacts to two items with no gap.
	if !reflect.DeepEqual(s.Board[0].ItemIDs, []string{"TFT_Item_JeweledGauntlet", "TFT_Item_Deathcap"}) {
		t.Errorf("Item slots not compacted: %v", s.Board[0].ItemIDs)
	}

	if s.Board[0].StarLevel != 2 {
		t.Errorf("String star level not parsed, got %d", s.Board[0].StarLevel)
	}
	if s.Board[2].StarLevel != 1 {
		t.Errorf("Absent star level must default to 1, got %d", s.Board[2].StarLevel)
	}
}

// TestNormalize_DamageForms verifies the damage list decodes from both the
// keyed-map and array shapes, with string damage values tolerated.
func TestNormalize_DamageForms(t *testing.T) {
	fromMap := Normalize(gjson.Parse(`{
		"unitDamage": {
			"TFT14_Ahri": {"damage": "1250.5", "starLevel": 2},
			"TFT14_Kayle": {"damage": 800}
		}
	}`))
	if len(fromMap.UnitDamage) != 2 {
		t.Fatalf("Expected 2 damage records, got %d", len(fromMap.UnitDamage))
	}
	if fromMap.UnitDamage[0].UnitID != "TFT14_Ahri" || fromMap.UnitDamage[0].Damage != 1250.5 {
		t.Errorf("Unexpected first damage record: %+v", fromMap.UnitDamage[0])
	}

	fromArray := Normalize(gjson.Parse(`{
		"unitDamage": [
			{"unitId": "TFT14_Ahri", "damage": 1250.5, "starLevel": 2},
			{"unitId": "TFT14_Kayle", "damage": 800}
		]
	}`))
	if !reflect.DeepEqual(fromMap.UnitDamage, fromArray.UnitDamage) {
		t.Errorf("Map and array damage forms differ: %+v vs %+v",
			fromMap.UnitDamage, fromArray.UnitDamage)
	}
}

func TestNormalize_PlayersShopOutcomes(t *testing.T) {
	s := Normalize(gjson.Parse(`{
		"players": {"Alice": {"health": 42, "level": 8}, "Bob": {"health": "0", "level": 7}},
		"shop": {"slot1": "TFT14_Poppy", "slot2": "", "slot3": "TFT14_Kayle"},
		"roundOutcome": {"Alice": "victory", "Bob": "defeat"}
	}`))

	wantPlayers := []PlayerStatus{{Name: "Alice", Health: 42, Level: 8}, {Name: "Bob", Health: 0, Level: 7}}
	if !reflect.DeepEqual(s.Players, wantPlayers) {
		t.Errorf("Unexpected players: %+v", s.Players)
	}

	// Empty shop slots are skipped.
	if !reflect.DeepEqual(s.Shop, []string{"TFT14_Poppy", "TFT14_Kayle"}) {
		t.Errorf("Unexpected shop: %v", s.Shop)
	}

	wantOutcomes := []RoundOutcome{{Player: "Alice", Result: "victory"}, {Player: "Bob", Result: "defeat"}}
	if !reflect.DeepEqual(s.Outcomes, wantOutcomes) {
		t.Errorf("Unexpected outcomes: %+v", s.Outcomes)
	}
}
