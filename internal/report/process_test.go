package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"damagecontrol/internal/domain"
	"damagecontrol/internal/report"
)

func TestProcessFillsPlaceholders(t *testing.T) {
	sys := engines()
	text := report.Process("#SYSTEMNAME (#SYSTEMTYPE) on the #SIM failed at #LOCATION: deck #DECK, #ROOM.", sys, fullSnapshot())
	assert.Equal(t, "Engines (System) on the Voyager failed at Main Engineering, Deck 3: deck 3, Main Engineering.", text)
}

func TestProcessWithoutLocation(t *testing.T) {
	sys := domain.NewSystem(domain.SystemParams{Name: "Sensors"})
	text := report.Process("#SYSTEMNAME at #LOCATION", sys, report.Snapshot{})
	assert.Equal(t, "Sensors at None", text)
}

func TestProcessLeavesPlainText(t *testing.T) {
	assert.Equal(t, "Nothing to replace.", report.Process("Nothing to replace.", engines(), fullSnapshot()))
}

func TestSnapshotComponents(t *testing.T) {
	got := fullSnapshot().Components()
	assert.Equal(t, []string{
		"DamageTeams", "Messaging", "PowerDistribution", "Exocomps", "ComputerCore",
		"SecurityTeams", "SecurityDecks", "CommInternal", "LongRangeComm", "ProbeConstruction",
	}, got)
}
