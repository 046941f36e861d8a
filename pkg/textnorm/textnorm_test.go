package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "punctuation removed", in: "Sci-Fi!", want: "scifi"},
		{name: "upper case", in: "SCIFI", want: "scifi"},
		{name: "spaces and digits", in: " Action 2 ", want: "action"},
		{name: "ampersand", in: "Science Fiction & Fantasy", want: "sciencefictionfantasy"},
		{name: "non ascii letters dropped", in: "Drâma", want: "drma"},
		{name: "empty", in: "", want: ""},
		{name: "only symbols", in: "-- !!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Equivalence(t *testing.T) {
	assert.Equal(t, Normalize("Sci-Fi!"), Normalize("SCIFI"))
	assert.Equal(t, "scifi", Normalize("SCIFI"))
}

func TestSplitNormalized(t *testing.T) {
	assert.Equal(t, []string{"action", "drama"}, SplitNormalized("Action, Drama"))
	assert.Equal(t, []string{"comedy"}, SplitNormalized("Comedy, ,"))
	assert.Nil(t, SplitNormalized(""))
}
