package dracula

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pythonSrc = "# skip this\ndef f():\n    pass # comment\n"

func TestNativeSurface(t *testing.T) {
	t.Parallel()

	src := []byte(pythonSrc)
	assert.Equal(t, uint64(2), MeaningfulLineCount(src, uint32(Python)))
	assert.Equal(t, []uint64{1, 2}, MeaningfulLineIndices(src, uint32(Python)))
	assert.Equal(t, "def f():\n    pass \n", CleanedSource(src, uint32(Python)))
}

func TestNativeSurfaceSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  []byte
		lang uint32
	}{
		{"unknown language", []byte("x = 1\n"), 99},
		{"zero language", []byte("x = 1\n"), 0},
		{"invalid utf-8", []byte{'x', 0xff, 0xfe, '\n'}, uint32(C)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, uint64(math.MaxUint64), MeaningfulLineCount(tt.src, tt.lang))
			assert.Nil(t, MeaningfulLineIndices(tt.src, tt.lang))
			assert.Equal(t, "", CleanedSource(tt.src, tt.lang))
		})
	}
}

func TestEmbeddingSurfaceErrors(t *testing.T) {
	t.Parallel()

	_, err := CountMeaningfulLines([]byte("x"), Lang(42))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	_, err = MeaningfulLines([]byte{0xc3}, Rust)
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = Clean([]byte{0xc3}, Rust)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestIndexCountAgreementAcrossLanguages(t *testing.T) {
	t.Parallel()

	src := []byte("/* a */ x\n// b\n\"s\"\ny = 'z' # q\n{\n}\n")
	for _, lang := range []Lang{Python, C, Rust, Java, CSharp, Scala, Ruby, JSX} {
		n, err := CountMeaningfulLines(src, lang)
		require.NoError(t, err)
		idx, err := MeaningfulLines(src, lang)
		require.NoError(t, err)
		assert.Len(t, idx, n, "lang %d", lang)
	}
}

func TestExecutableLinesUsesOneBasedNumbers(t *testing.T) {
	t.Parallel()

	got, ok := ExecutableLines(context.Background(), []byte(pythonSrc), GrammarPython)
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, got)

	native, err := MeaningfulLines([]byte(pythonSrc), Python)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, native)
}

func TestExecutableLinesNoAnswer(t *testing.T) {
	t.Parallel()

	_, ok := ExecutableLines(context.Background(), []byte("def (:\n"), GrammarPython)
	assert.False(t, ok)

	_, err := ExecutableLinesErr(context.Background(), []byte("x"), Grammar(0))
	assert.ErrorIs(t, err, ErrUnsupportedGrammar)

	_, err = ExecutableLinesErr(context.Background(), []byte("def (:\n"), GrammarPython)
	assert.ErrorIs(t, err, ErrParseFailed)

	_, err = ExecutableLinesErr(context.Background(), []byte{0xff}, GrammarRust)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestEmptyInputHalts(t *testing.T) {
	t.Parallel()

	for _, lang := range []Lang{Python, C, Rust, Java, CSharp, Scala, Ruby, JSX} {
		assert.Equal(t, uint64(0), MeaningfulLineCount(nil, uint32(lang)))
		assert.Nil(t, MeaningfulLineIndices(nil, uint32(lang)))
		assert.Equal(t, "", CleanedSource(nil, uint32(lang)))
	}
	got, ok := ExecutableLines(context.Background(), nil, GrammarRuby)
	assert.True(t, ok)
	assert.Empty(t, got)
}

// Native indices shifted to 1-based numbers must match the lines a strict
// grammar finds executable on well-formed input.
func TestNativeAgreesWithTree(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file    string
		lang    Lang
		grammar Grammar
		count   int
	}{
		{"cross_oracle.py", Python, GrammarPython, 5},
		{"cross_oracle.c", C, GrammarC, 4},
		{"more_parse.rs", Rust, GrammarRust, 22},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()

			src, err := os.ReadFile(filepath.Join("testdata", tt.file))
			require.NoError(t, err)

			native, err := MeaningfulLines(src, tt.lang)
			require.NoError(t, err)
			assert.Len(t, native, tt.count)

			executable, err := ExecutableLinesErr(context.Background(), src, tt.grammar)
			require.NoError(t, err)

			shifted := make([]int, len(native))
			for i, idx := range native {
				shifted[i] = idx + 1
			}
			assert.Equal(t, shifted, executable)
		})
	}
}
