package gate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akopian/portfolio/internal/gate"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"2", "2"},
		{"  2  ", "2"},
		{"1, 2", "1 2"},
		{"1,2", "1 2"},
		{"1 ,2", "1 2"},
		{",1,2,", "1 2"},
		{"3,  2 ,1", "3 2 1"},
		{"1\t2\n3", "1 2 3"},
		{"1 and 2", "1 and 2"},
		{"A b", "A b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"", " , ", "1, 2", " 3 ,2,, 1 ", "a\t,b", ",x", "x,"}
	for _, in := range inputs {
		once := gate.Normalize(in)
		assert.Equal(t, once, gate.Normalize(once), "input %q", in)
	}
}

func TestNormalizeAnswers(t *testing.T) {
	got := gate.NormalizeAnswers([]string{"1 2", "1, 2", " 1 and 2 ", "", " , "})
	assert.Equal(t, []string{"1 2", "1 and 2"}, got)
}
