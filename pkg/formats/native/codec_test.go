package native_test

import (
	"strings"
	"testing"

	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/formats/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	s, err := native.Parse("<START:person> Pierre  Vinken <END> , 61 years old <START> X <END>", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"Pierre", "Vinken", ",", "61", "years", "old", "X"}, s.Tokens())
	assert.Equal(t, []domain.Span{
		{Start: 0, End: 2, Type: "person"},
		{Start: 6, End: 7},
	}, s.Spans())
	assert.False(t, s.ClearAdaptiveData())
}

func TestParse_Malformed(t *testing.T) {
	tests := map[string]string{
		"nested":      "<START:a> x <START:b> y <END> <END>",
		"unbalanced":  "x <END>",
		"missing end": "<START:a> x",
		"empty span":  "<START:a> <END> x",
		"empty type":  "<START:> x <END>",
		"no tokens":   "<START:a> <END>",
		"only spaces": "   ",
	}

	for name, line := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := native.Parse(line, false)
			assert.Error(t, err)
		})
	}
}

func TestAppendSample_RoundTrip(t *testing.T) {
	lines := []string{
		"<START:person> Pierre Vinken <END> , 61 years old , will join the board .",
		"Mr. <START:person> Vinken <END> is chairman of <START:organization> Elsevier N.V. <END> .",
		"<START> untyped <END>",
		"no names at all",
	}

	for i, line := range lines {
		original, err := native.Parse(line, i%2 == 1)
		require.NoError(t, err)

		encoded := native.AppendSample(nil, original)
		if original.ClearAdaptiveData() {
			assert.Equal(t, "\n"+line+"\n", string(encoded))
		} else {
			assert.Equal(t, line+"\n", string(encoded))
		}
	}
}

func TestAppendSample_UnicodeWhitespaceNeverReachesOutput(t *testing.T) {
	for _, tok := range []string{"São\u00a0Paulo", "x\vy", "a\fb", "東京\u3000駅", "line\u2028sep", "nel\u0085x"} {
		_, err := domain.NewNameSample([]string{tok, "grows"}, []domain.Span{{Start: 1, End: 2, Type: "verb"}}, false)
		assert.ErrorIs(t, err, domain.ErrInvalidSample, "%q", tok)
	}

	_, err := domain.NewNameSample([]string{"São", "Paulo"}, []domain.Span{{Start: 0, End: 2, Type: "big\u00a0city"}}, false)
	assert.ErrorIs(t, err, domain.ErrInvalidSample)

	// What the constructor accepts survives a write and re-read unchanged.
	original, err := domain.NewNameSample([]string{"São", "Paulo", "grows"}, []domain.Span{{Start: 0, End: 2, Type: "city"}}, true)
	require.NoError(t, err)
	line := strings.TrimPrefix(strings.TrimSuffix(string(native.AppendSample(nil, original)), "\n"), "\n")
	back, err := native.Parse(line, true)
	require.NoError(t, err)
	assert.True(t, original.Equal(back))
}
