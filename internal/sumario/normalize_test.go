package sumario

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fransm/boe-watcher/internal/gazette"
)

func TestNormalizeTrimsAndDerivesRegion(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	ann := n.Normalize(gazette.RawEntry{
		Identifier:  "  BOE-A-2026-1002 ",
		Control:     "CE-2026-18",
		Title:       "\n\tResolución del Ayuntamiento de Sevilla referente a la convocatoria  ",
		DetailURL:   " https://www.boe.es/diario_boe/txt.php?id=BOE-A-2026-1002 ",
		DocumentURL: "https://www.boe.es/boe/dias/2026/01/09/pdfs/BOE-A-2026-1002.pdf",
		Department:  " ADMINISTRACIÓN LOCAL ",
	})

	assert.Equal(t, "BOE-A-2026-1002", ann.BOEID)
	assert.Equal(t, "Resolución del Ayuntamiento de Sevilla referente a la convocatoria", ann.Title)
	assert.Equal(t, "https://www.boe.es/diario_boe/txt.php?id=BOE-A-2026-1002", ann.DetailURL)
	assert.Equal(t, "ADMINISTRACIÓN LOCAL", ann.IssuingBody)
	assert.Equal(t, "Sevilla", ann.Region)

	// The publication date is owned by the ingestion step, not here.
	assert.Empty(t, ann.PublicationDate)
	assert.Zero(t, ann.ID)
}

func TestNormalizeEmptyEntry(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	ann := n.Normalize(gazette.RawEntry{})
	assert.Equal(t, gazette.Announcement{}, ann)
}
