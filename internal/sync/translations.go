// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import "strings"

// The catalog is presented in French. The tables below are read-only after
// package initialization; lookups fall back to the provider value.

var extensionNames = map[string]string{
	"Base":                               "Set de Base",
	"Jungle":                             "Jungle",
	"Fossil":                             "Fossile",
	"Base Set 2":                         "Set de Base 2",
	"Team Rocket":                        "Team Rocket",
	"Neo Genesis":                        "Neo Genesis",
	"Expedition Base Set":                "Expédition",
	"Diamond & Pearl":                    "Diamant & Perle",
	"HeartGold & SoulSilver":             "HeartGold SoulSilver",
	"Black & White":                      "Noir & Blanc",
	"XY":                                 "XY",
	"Evolutions":                         "Évolutions",
	"Sun & Moon":                         "Soleil et Lune",
	"Guardians Rising":                   "Gardiens Ascendants",
	"Burning Shadows":                    "Ombres Ardentes",
	"Team Up":                            "Duo de Choc",
	"Cosmic Eclipse":                     "Éclipse Cosmique",
	"Sword & Shield":                     "Épée et Bouclier",
	"Rebel Clash":                        "Clash des Rebelles",
	"Darkness Ablaze":                    "Ténèbres Embrasées",
	"Vivid Voltage":                      "Voltage Éclatant",
	"Battle Styles":                      "Styles de Combat",
	"Chilling Reign":                     "Règne de Glace",
	"Evolving Skies":                     "Évolution Céleste",
	"Fusion Strike":                      "Poing de Fusion",
	"Brilliant Stars":                    "Stars Étincelantes",
	"Astral Radiance":                    "Astres Radieux",
	"Lost Origin":                        "Origine Perdue",
	"Silver Tempest":                     "Tempête Argentée",
	"Crown Zenith":                       "Zénith Suprême",
	"Scarlet & Violet":                   "Écarlate et Violet",
	"Paldea Evolved":                     "Évolutions à Paldea",
	"Obsidian Flames":                    "Flammes Obsidiennes",
	"151":                                "151",
	"Paradox Rift":                       "Faille Paradoxe",
	"Paldean Fates":                      "Destinées de Paldea",
	"Temporal Forces":                    "Forces Temporelles",
	"Twilight Masquerade":                "Mascarade Crépusculaire",
	"Shrouded Fable":                     "Fable Nébuleuse",
	"Stellar Crown":                      "Couronne Stellaire",
	"Surging Sparks":                     "Étincelles Déferlantes",
	"Prismatic Evolutions":               "Évolutions Prismatiques",
	"Journey Together":                   "Aventures Ensemble",
	"Destined Rivals":                    "Rivalités Destinées",
	"Scarlet & Violet Black Star Promos": "Promos Écarlate et Violet",
}

// blockRules map a series keyword to its block, checked in order.
var blockRules = []struct {
	keyword string
	block   string
}{
	{"Scarlet", "Scarlet & Violet"},
	{"Sword", "Sword & Shield"},
	{"Sun", "Sun & Moon"},
	{"XY", "XY"},
	{"Black", "Black & White"},
	{"HeartGold", "HeartGold & SoulSilver"},
	{"Platinum", "Platinum"},
	{"Diamond", "Diamond & Pearl"},
	{"EX", "EX"},
	{"Neo", "Neo"},
	{"Gym", "Gym"},
	{"E-Card", "E-Card"},
	{"Base", "Base"},
}

var rarityNames = map[string]string{
	"Common":                    "Commune",
	"Uncommon":                  "Peu Commune",
	"Rare":                      "Rare",
	"Rare Holo":                 "Rare Holo",
	"Rare Holo EX":              "Rare Holo EX",
	"Rare Holo GX":              "Rare Holo GX",
	"Rare Holo V":               "Rare Holo V",
	"Rare Holo VMAX":            "Rare Holo VMAX",
	"Rare Holo VSTAR":           "Rare Holo VSTAR",
	"Rare Ultra":                "Ultra Rare",
	"Rare Secret":               "Rare Secrète",
	"Rare Rainbow":              "Rare Arc-en-ciel",
	"Rare Shiny":                "Rare Chromatique",
	"Rare Shiny GX":             "Rare Chromatique GX",
	"Amazing Rare":              "Rare Magnifique",
	"Radiant Rare":              "Rare Radieuse",
	"Double Rare":               "Double Rare",
	"Ultra Rare":                "Ultra Rare",
	"Illustration Rare":         "Illustration Rare",
	"Special Illustration Rare": "Illustration Spéciale Rare",
	"Hyper Rare":                "Hyper Rare",
	"ACE SPEC Rare":             "ACE SPEC Rare",
	"Shiny Rare":                "Rare Chromatique",
	"Shiny Ultra Rare":          "Ultra Rare Chromatique",
	"Promo":                     "Promo",
	"Classic Collection":        "Collection Classique",
}

var cardNames = map[string]string{
	"Bulbasaur":            "Bulbizarre",
	"Ivysaur":              "Herbizarre",
	"Venusaur":             "Florizarre",
	"Charmander":           "Salamèche",
	"Charmeleon":           "Reptincel",
	"Charizard":            "Dracaufeu",
	"Squirtle":             "Carapuce",
	"Wartortle":            "Carabaffe",
	"Blastoise":            "Tortank",
	"Pikachu":              "Pikachu",
	"Raichu":               "Raichu",
	"Jigglypuff":           "Rondoudou",
	"Meowth":               "Miaouss",
	"Psyduck":              "Psykokwak",
	"Alakazam":             "Alakazam",
	"Machamp":              "Mackogneur",
	"Gengar":               "Ectoplasma",
	"Onix":                 "Onix",
	"Gyarados":             "Léviator",
	"Lapras":               "Lokhlass",
	"Eevee":                "Évoli",
	"Snorlax":              "Ronflex",
	"Dragonite":            "Dracolosse",
	"Mewtwo":               "Mewtwo",
	"Mew":                  "Mew",
	"Pineco":               "Pomdepik",
	"Lugia":                "Lugia",
	"Umbreon":              "Noctali",
	"Espeon":               "Mentali",
	"Tyranitar":            "Tyranocif",
	"Rayquaza":             "Rayquaza",
	"Lucario":              "Lucario",
	"Greninja":             "Amphinobi",
	"Sprigatito":           "Poussacha",
	"Fuecoco":              "Chochodile",
	"Quaxly":               "Coiffeton",
	"Miraidon":             "Miraidon",
	"Koraidon":             "Koraidon",
	"Grass Energy":         "Énergie Plante",
	"Fire Energy":          "Énergie Feu",
	"Water Energy":         "Énergie Eau",
	"Lightning Energy":     "Énergie Électrique",
	"Psychic Energy":       "Énergie Psy",
	"Fighting Energy":      "Énergie Combat",
	"Darkness Energy":      "Énergie Obscurité",
	"Metal Energy":         "Énergie Métal",
	"Professor's Research": "Recherches Professorales",
	"Boss's Orders":        "Ordres du Boss",
	"Nest Ball":            "Nid Ball",
	"Ultra Ball":           "Hyper Ball",
	"Rare Candy":           "Super Bonbon",
	"Switch":               "Échange",
}

// mechanicSuffixes are kept verbatim after a translated base name.
var mechanicSuffixes = []string{" VMAX", " VSTAR", " V-UNION", " ex", " EX", " GX", " V", " LV.X", " BREAK", " Prime"}

// localizeExtensionName returns the display name of an extension.
func localizeExtensionName(name string) string {
	if localized, ok := extensionNames[name]; ok {
		return localized
	}
	return name
}

// resolveBlock maps a series name to the block it belongs to.
func resolveBlock(series string) string {
	for _, rule := range blockRules {
		if strings.Contains(series, rule.keyword) {
			return rule.block
		}
	}
	return series
}

// localizeRarity returns the display rarity.
func localizeRarity(rarity string) string {
	if localized, ok := rarityNames[rarity]; ok {
		return localized
	}
	return rarity
}

// localizeCardName translates a card name, keeping mechanic suffixes such
// as "ex" or "VMAX" and falling back to the provider name.
func localizeCardName(name string) string {
	if localized, ok := cardNames[name]; ok {
		return localized
	}
	for _, suffix := range mechanicSuffixes {
		if base, found := strings.CutSuffix(name, suffix); found {
			if localized, ok := cardNames[base]; ok {
				return localized + suffix
			}
		}
	}
	return name
}
