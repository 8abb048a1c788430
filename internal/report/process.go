package report

import (
	"fmt"
	"strings"

	"damagecontrol/internal/domain"
)

// Process fills the placeholders of a hand-written damage report with the
// system's current surroundings. It is the immediate report shown on break,
// before a full report is composed. The system's first location anchors the
// location placeholders.
//
// Placeholders: #SYSTEMNAME, #SYSTEMTYPE, #SIM, #LOCATION, #DECK, #ROOM.
func Process(text string, sys *domain.System, snap Snapshot) string {
	if !strings.Contains(text, "#") {
		return text
	}
	location, deckNum, roomName := "None", "", ""
	for _, id := range sys.Locations {
		room := snap.room(id)
		if room == nil {
			continue
		}
		roomName = room.Name
		location = room.Name
		if deck := snap.deck(room.DeckID); deck != nil {
			deckNum = fmt.Sprint(deck.Number)
			location = fmt.Sprintf("%s, Deck %d", room.Name, deck.Number)
		}
		break
	}
	return strings.NewReplacer(
		"#SYSTEMNAME", sys.DisplayName(),
		"#SYSTEMTYPE", sys.Type,
		"#SIM", snap.Simulator.Name,
		"#LOCATION", location,
		"#DECK", deckNum,
		"#ROOM", roomName,
	).Replace(text)
}
