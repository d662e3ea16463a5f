package scanner

const (
	DefaultTargetSize = 256 << 10
	DefaultMinSize    = 32 << 10
)

// Chunk is the half-open byte range [Start, End) of the input. Depth is the
// nesting depth at Start, so a chunk can be minified on its own by seeding
// the parse state with it.
type Chunk struct {
	Start int
	End   int
	Depth int
}

func (c Chunk) Len() int {
	return c.End - c.Start
}

// Scanner finds split points that are safe for independent minification.
//
// A position is admissible when the previous byte is a comma outside any
// string, or a closing bracket, and the nesting depth there is at most
// SplitDepth. With SplitDepth 0 only top-level separators qualify.
type Scanner struct {
	TargetSize int
	MinSize    int
	SplitDepth int
	Accel      Accelerator
}

// Partition splits input at top-level boundaries only. Chunks are at least
// targetSize bytes unless no boundary follows; a trailing chunk shorter than
// minSize is folded into its predecessor.
func Partition(input []byte, targetSize, minSize int) ([]Chunk, error) {
	return Scanner{TargetSize: targetSize, MinSize: minSize}.Partition(input)
}

// Partition walks input once. The returned chunks tile [0, len(input))
// with no gaps and never cut inside a string, an escape pair or a structure
// deeper than SplitDepth.
func (s Scanner) Partition(input []byte) ([]Chunk, error) {
	target := s.TargetSize
	if target <= 0 {
		target = DefaultTargetSize
	}
	minSize := s.MinSize
	if minSize < 0 {
		minSize = 0
	}
	if minSize > target {
		minSize = target
	}
	splitDepth := s.SplitDepth
	if splitDepth < 0 {
		splitDepth = 0
	}
	acc := s.Accel
	if acc == nil {
		acc = Scalar
	}

	n := len(input)
	chunks := make([]Chunk, 0, n/target+1)
	start, startDepth := 0, 0
	depth := 0

	for i := 0; i < n; {
		switch ByteClass[input[i]] {
		case ClassSpace:
			i += acc.SpaceRun(input[i:])
			continue
		case ClassQuote:
			i = skipString(input, i+1, acc)
			continue
		case ClassOpen:
			depth++
		case ClassClose:
			depth--
			if depth < 0 {
				return nil, syntaxError(ErrUnbalancedStructure, int64(i))
			}
			i++
			if depth <= splitDepth && i-start >= target {
				chunks = append(chunks, Chunk{Start: start, End: i, Depth: startDepth})
				start, startDepth = i, depth
			}
			continue
		case ClassComma:
			i++
			if depth <= splitDepth && i-start >= target {
				chunks = append(chunks, Chunk{Start: start, End: i, Depth: startDepth})
				start, startDepth = i, depth
			}
			continue
		}
		i++
	}

	if start < n || len(chunks) == 0 {
		chunks = append(chunks, Chunk{Start: start, End: n, Depth: startDepth})
	}
	if last := len(chunks) - 1; last > 0 && chunks[last].Len() < minSize {
		chunks[last-1].End = chunks[last].End
		chunks = chunks[:last]
	}
	return chunks, nil
}

// skipString returns the index just past the closing quote of the string
// whose body starts at i, or len(input) if the string never closes.
func skipString(input []byte, i int, acc Accelerator) int {
	n := len(input)
	for i < n {
		i += acc.StringRun(input[i:])
		if i >= n {
			return n
		}
		if input[i] == '\\' {
			i += 2
			continue
		}
		return i + 1
	}
	return n
}
