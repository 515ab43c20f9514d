package gazette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionMatcherListMatch(t *testing.T) {
	t.Parallel()

	m := NewRegionMatcher(nil)

	tests := []struct {
		name    string
		title   string
		control string
		want    string
	}{
		{
			name:  "accented province in title",
			title: "Resolución de la Diputación de Cádiz por la que se convocan plazas",
			want:  "Cádiz",
		},
		{
			name:  "multi word community",
			title: "Convocatoria de la Junta de Castilla y León",
			want:  "Castilla y León",
		},
		{
			name:  "case insensitive",
			title: "resolución del ayuntamiento de MADRID",
			want:  "Madrid",
		},
		{
			name:  "no partial word match",
			title: "Convocatoria del organismo Madrileño de empleo",
			want:  "",
		},
		{
			name:    "control code consulted when title misses",
			title:   "Resolución por la que se convoca concurso",
			control: "Ayuntamiento de Sevilla",
			want:    "Sevilla",
		},
		{
			name: "empty input",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, m.Match(tt.title, tt.control))
		})
	}
}

func TestRegionMatcherUppercaseFallback(t *testing.T) {
	t.Parallel()

	m := NewRegionMatcher([]string{"Nowhere"})

	// No list entry matches, so the first all-uppercase token of 4 to 15
	// letters wins, title-cased.
	got := m.Match("Resolución del cabildo de GOMERA sobre plazas", "")
	assert.Equal(t, "Gomera", got)

	// Short uppercase tokens like acronyms are skipped.
	assert.Equal(t, "", m.Match("Resolución del INE n. 4", ""))
}

func TestRegionMatcherCustomList(t *testing.T) {
	t.Parallel()

	m := NewRegionMatcher([]string{"Alta Ribagorza"})
	require.Equal(t, "Alta Ribagorza", m.Match("convocatoria en la alta ribagorza", ""))
	assert.Equal(t, "", m.Match("convocatoria en Madrid y sus distritos", ""))
}

func TestRegionMatcherTitleWinsOverControl(t *testing.T) {
	t.Parallel()

	m := NewRegionMatcher(nil)
	got := m.Match("Diputación de Burgos", "Ayuntamiento de Soria")
	assert.Equal(t, "Burgos", got)
}
