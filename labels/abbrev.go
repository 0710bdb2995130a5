package labels

// MaxSetNameLength 系列名允许的最大字符数，超出时截断加省略号。
const MaxSetNameLength = 32

// abbreviations 人工整理的系列名缩写表，键为 Scryfall 全名。
var abbreviations = map[string]string{
	"Adventures in the Forgotten Realms Minigames":          "Forgotten Realms Minigames",
	"Adventures in the Forgotten Realms":                    "Forgotten Realms",
	"Angels: They're Just Like Us but Cooler and with Wings": "Angels: They're Just Like Us",
	"Archenemy: Nicol Bolas Schemes":                        "Archenemy: Bolas Schemes",
	"Commander Anthology Volume II":                         "Commander Anthology II",
	"Commander Legends: Battle for Baldur's Gate":           "CMDR Legends: Baldur's Gate",
	"Crimson Vow Commander":                                 "CMDR Crimson Vow",
	"Dominaria United Commander":                            "CMDR Dominaria United",
	"Duel Decks Anthology: Divine vs. Demonic":              "DDA: Divine vs. Demonic",
	"Duel Decks Anthology: Elves vs. Goblins":               "DDA: Elves vs. Goblins",
	"Duel Decks Anthology: Garruk vs. Liliana":              "DDA: Garruk vs. Liliana",
	"Duel Decks Anthology: Jace vs. Chandra":                "DDA: Jace vs. Chandra",
	"Duel Decks: Ajani vs. Nicol Bolas":                     "DD: Ajani vs. Nicol Bolas",
	"Duel Decks: Blessed vs. Cursed":                        "DD: Blessed vs. Cursed",
	"Duel Decks: Divine vs. Demonic":                        "DD: Divine vs. Demonic",
	"Duel Decks: Elspeth vs. Kiora":                         "DD: Elspeth vs. Kiora",
	"Duel Decks: Elspeth vs. Tezzeret":                      "DD: Elspeth vs. Tezzeret",
	"Duel Decks: Elves vs. Goblins":                         "DD: Elves vs. Goblins",
	"Duel Decks: Elves vs. Inventors":                       "DD: Elves vs. Inventors",
	"Duel Decks: Garruk vs. Liliana":                        "DD: Garruk vs. Liliana",
	"Duel Decks: Heroes vs. Monsters":                       "DD: Heroes vs. Monsters",
	"Duel Decks: Jace vs. Chandra":                          "DD: Jace vs. Chandra",
	"Duel Decks: Knights vs. Dragons":                       "DD: Knights vs. Dragons",
	"Duel Decks: Merfolk vs. Goblins":                       "DD: Merfolk vs. Goblins",
	"Duel Decks: Nissa vs. Ob Nixilis":                      "DD: Nissa vs. Ob Nixilis",
	"Duel Decks: Phyrexia vs. the Coalition":                "DD: Phyrexia vs. Coalition",
	"Duel Decks: Speed vs. Cunning":                         "DD: Speed vs. Cunning",
	"Duel Decks: Zendikar vs. Eldrazi":                      "DD: Zendikar vs. Eldrazi",
	"Forgotten Realms Commander":                            "CMDR Forgotten Realms",
	"Fourth Edition Foreign Black Border":                   "Fourth Edition FBB",
	"Global Series Jiang Yanggu & Mu Yanling":               "Jiang Yanggu & Mu Yanling",
	"Innistrad: Crimson Vow Minigames":                      "Crimson Vow Minigames",
	"Introductory Two-Player Set":                           "Intro Two-Player Set",
	"Kaldheim Commander":                                    "CMDR Kaldheim",
	"March of the Machine Commander":                        "CMDR March of the Machine",
	"March of the Machine: The Aftermath":                   "March of the Machine: Aftermath",
	"Midnight Hunt Commander":                               "CMDR Midnight Hunt",
	"Mystery Booster Playtest Cards 2019":                   "MB Playtest Cards 2019",
	"Mystery Booster Playtest Cards 2021":                   "MB Playtest Cards 2021",
	"Mystery Booster Playtest Cards":                        "Mystery Booster Playtest",
	"Mystery Booster Retail Edition Foils":                  "Mystery Booster Retail Foils",
	"Neon Dynasty Commander":                                "CMDR Neon Dynasty",
	"New Capenna Commander":                                 "CMDR New Capenna",
	"Phyrexia: All Will Be One Commander":                   "CMDR Phyrexia: One",
	"Planechase Anthology Planes":                           "Planechase Anth. Planes",
	"Premium Deck Series: Fire and Lightning":               "PD: Fire & Lightning",
	"Premium Deck Series: Graveborn":                        "Premium Deck Graveborn",
	"Premium Deck Series: Slivers":                          "Premium Deck Slivers",
	"Starter Commander Decks":                               "CMDR Starter Decks",
	"Strixhaven: School of Mages Minigames":                 "Strixhaven Minigames",
	"Tales of Middle-earth Commander":                       "CMDR The Lord of the Rings",
	"The Brothers' War Commander":                           "CMDR The Brothers' War",
	"The Brothers' War Retro Artifacts":                     "The Brothers' War Retro",
	"The Lord of the Rings: Tales of Middle-earth":          "The Lord of the Rings",
	"The Lost Caverns of Ixalan Commander":                  "CMDR Lost Caverns of Ixalan",
	"Warhammer 40,000 Commander":                            "CMDR Warhammer 40K",
	"Wilds of Eldraine Commander":                           "CMDR Wilds of Eldraine",
	"World Championship Decks 1997":                         "World Championship 1997",
	"World Championship Decks 1998":                         "World Championship 1998",
	"World Championship Decks 1999":                         "World Championship 1999",
	"World Championship Decks 2000":                         "World Championship 2000",
	"World Championship Decks 2001":                         "World Championship 2001",
	"World Championship Decks 2002":                         "World Championship 2002",
	"World Championship Decks 2003":                         "World Championship 2003",
	"World Championship Decks 2004":                         "World Championship 2004",
	"Zendikar Rising Commander":                             "CMDR Zendikar Rising",
	"Murders at Karlov Manor Commander":                     "CMDR Murders at Karlov Manor",
	"Outlaws of Thunder Junction Commander":                 "CMDR Outlaws of Thunder Junction",
	"Modern Horizons 3 Commander":                           "CMDR Modern Horizons 3",
	"Bloomburrow Commander":                                 "CMDR Bloomburrow",
	"Duskmourn: House of Horror Commander":                  "CMDR Duskmourn: House of Horror",
	"Aetherdrift Commander":                                 "CMDR Aetherdrift",
	"Tarkir: Dragonstorm Commander":                         "CMDR Tarkir: Dragonstorm",
	"Final Fantasy Commander":                               "CMDR Final Fantasy",
	"Edge of Eternities Commander":                          "CMDR Edge of Eternities",
}

// Abbreviate 先查缩写表，命中直接返回；否则超长名截断为前
// MaxSetNameLength-3 个字符加 "..."。按 rune 计数，多字节安全。
func Abbreviate(name string) string {
	if short, ok := abbreviations[name]; ok {
		return short
	}
	runes := []rune(name)
	if len(runes) > MaxSetNameLength {
		return string(runes[:MaxSetNameLength-3]) + "..."
	}
	return name
}
