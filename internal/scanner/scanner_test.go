package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_Basic(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		target     int
		minSize    int
		splitDepth int
		expected   []Chunk
	}{
		{
			name:     "empty input",
			input:    "",
			target:   4,
			expected: []Chunk{{0, 0, 0}},
		},
		{
			name:     "scalar",
			input:    "12345",
			target:   1,
			expected: []Chunk{{0, 5, 0}},
		},
		{
			name:     "array at depth zero stays whole",
			input:    "[1,2,3]",
			target:   1,
			expected: []Chunk{{0, 7, 0}},
		},
		{
			name:     "top-level sequence",
			input:    "1,2,3",
			target:   1,
			expected: []Chunk{{0, 2, 0}, {2, 4, 0}, {4, 5, 0}},
		},
		{
			name:     "short tail is merged",
			input:    "1,2,3",
			target:   2,
			minSize:  2,
			expected: []Chunk{{0, 2, 0}, {2, 5, 0}},
		},
		{
			name:       "array members at depth one",
			input:      "[1,2,3]",
			target:     2,
			splitDepth: 1,
			expected:   []Chunk{{0, 3, 0}, {3, 5, 1}, {5, 7, 1}},
		},
		{
			name:       "commas inside strings are ignored",
			input:      `["a,b,c,d,e,f"]`,
			target:     1,
			splitDepth: 1,
			expected:   []Chunk{{0, 15, 0}},
		},
		{
			name:       "escaped quote does not end string",
			input:      `["a\",b",1]`,
			target:     1,
			splitDepth: 1,
			expected:   []Chunk{{0, 9, 0}, {9, 11, 1}},
		},
		{
			name:       "nested members are not split",
			input:      `[[1,2],[3,4]]`,
			target:     1,
			splitDepth: 1,
			expected:   []Chunk{{0, 6, 0}, {6, 7, 1}, {7, 12, 1}, {12, 13, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Scanner{TargetSize: tt.target, MinSize: tt.minSize, SplitDepth: tt.splitDepth}
			chunks, err := s.Partition([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, chunks)
		})
	}
}

func TestPartition_Unbalanced(t *testing.T) {
	_, err := Partition([]byte(`{"a":1}}`), 1, 0)
	require.Error(t, err)

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.ErrorIs(t, err, ErrUnbalancedStructure)
	assert.Equal(t, int64(7), se.Offset)
}

func TestPartition_UnterminatedStringIsOneChunk(t *testing.T) {
	// A string that never closes swallows the rest of the input; the
	// minifier is the one to report it.
	chunks, err := Scanner{TargetSize: 1, SplitDepth: 1}.Partition([]byte(`[1,"abc,def`))
	require.NoError(t, err)
	assert.Equal(t, Chunk{Start: 3, End: 11, Depth: 1}, chunks[len(chunks)-1])
}

func TestPartition_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		doc := randomDocument(rng, 4, 6)
		for _, target := range []int{1, 7, 64, 1 << 10} {
			for splitDepth := 0; splitDepth <= 2; splitDepth++ {
				for _, acc := range []Accelerator{Scalar, Wide} {
					s := Scanner{TargetSize: target, MinSize: target / 4, SplitDepth: splitDepth, Accel: acc}
					name := fmt.Sprintf("doc%d/target%d/depth%d/%s", i, target, splitDepth, acc.Name())

					chunks, err := s.Partition(doc)
					require.NoError(t, err, name)
					checkChunks(t, name, doc, chunks, splitDepth)
				}
			}
		}
	}
}

// checkChunks verifies that chunks tile doc and that every cut lands outside
// any string, right after a separator, at the recorded depth.
func checkChunks(t *testing.T, name string, doc []byte, chunks []Chunk, splitDepth int) {
	t.Helper()
	require.NotEmpty(t, chunks, name)

	depths, inString := referenceWalk(doc)
	pos := 0
	for k, c := range chunks {
		require.Equal(t, pos, c.Start, "%s: chunk %d does not continue the previous one", name, k)
		require.LessOrEqual(t, c.Start, c.End, name)
		require.Equal(t, depths[c.Start], c.Depth, "%s: chunk %d depth", name, k)
		if c.Start > 0 {
			require.False(t, inString[c.Start], "%s: chunk %d starts inside a string", name, k)
			prev := doc[c.Start-1]
			require.True(t, prev == ',' || prev == ']' || prev == '}',
				"%s: chunk %d follows %q", name, k, prev)
			require.LessOrEqual(t, c.Depth, splitDepth, name)
		}
		pos = c.End
	}
	require.Equal(t, len(doc), pos, "%s: chunks do not cover the input", name)
}

// referenceWalk returns the nesting depth and string state before each
// byte, plus one entry for the end of input.
func referenceWalk(doc []byte) ([]int, []bool) {
	depths := make([]int, len(doc)+1)
	inString := make([]bool, len(doc)+1)
	depth, str, esc := 0, false, false
	for i, c := range doc {
		depths[i], inString[i] = depth, str
		switch {
		case esc:
			esc = false
		case str && c == '\\':
			esc = true
		case str && c == '"':
			str = false
		case str:
		case c == '"':
			str = true
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
		}
	}
	depths[len(doc)], inString[len(doc)] = depth, str
	return depths, inString
}

var fillers = []string{"", " ", "\n", "\t", "\r\n  ", "   \t"}

// randomDocument builds a valid JSON document with random whitespace,
// including strings full of separators and escapes.
func randomDocument(rng *rand.Rand, maxDepth, maxWidth int) []byte {
	var b bytes.Buffer
	ws := func() { b.WriteString(fillers[rng.Intn(len(fillers))]) }

	var value func(depth int)
	value = func(depth int) {
		kind := rng.Intn(8)
		if depth >= maxDepth && kind >= 6 {
			kind = rng.Intn(6)
		}
		switch kind {
		case 0:
			b.WriteString("null")
		case 1:
			b.WriteString("true")
		case 2:
			fmt.Fprintf(&b, "%d", rng.Intn(100000)-50000)
		case 3:
			fmt.Fprintf(&b, "%g", rng.NormFloat64()*1e3)
		case 4, 5:
			b.WriteString(randomString(rng))
		case 6:
			b.WriteByte('[')
			n := rng.Intn(maxWidth + 1)
			for i := 0; i < n; i++ {
				if i > 0 {
					b.WriteByte(',')
				}
				ws()
				value(depth + 1)
				ws()
			}
			b.WriteByte(']')
		case 7:
			b.WriteByte('{')
			n := rng.Intn(maxWidth + 1)
			for i := 0; i < n; i++ {
				if i > 0 {
					b.WriteByte(',')
				}
				ws()
				b.WriteString(randomString(rng))
				ws()
				b.WriteByte(':')
				ws()
				value(depth + 1)
				ws()
			}
			b.WriteByte('}')
		}
	}

	ws()
	b.WriteByte('[')
	n := 1 + rng.Intn(maxWidth*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		ws()
		value(1)
		ws()
	}
	b.WriteByte(']')
	ws()
	return b.Bytes()
}

var stringPieces = []string{
	"a", "key", " ", "  ", ",", ":", "{", "}", "[", "]",
	`\"`, `\\`, `\n`, `\t`, `\u00e9`, `\/`, "é", "日本",
}

func randomString(rng *rand.Rand) string {
	var b strings.Builder
	b.WriteByte('"')
	n := rng.Intn(12)
	for i := 0; i < n; i++ {
		b.WriteString(stringPieces[rng.Intn(len(stringPieces))])
	}
	b.WriteByte('"')
	return b.String()
}
