package scanner

import "sync"

var tokenPool = sync.Pool{
	New: func() interface{} {
		s := make([]Token, 0, 256)
		return &s
	},
}

// GetTokens returns an empty token slice from the pool.
func GetTokens() []Token {
	return (*tokenPool.Get().(*[]Token))[:0]
}

// PutTokens recycles a slice obtained from GetTokens.
func PutTokens(tokens []Token) {
	if cap(tokens) > 64*1024 { // Don't pool very large slices
		return
	}
	tokens = tokens[:0]
	tokenPool.Put(&tokens)
}
