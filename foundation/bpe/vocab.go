package bpe

// The four reserved tokens occupy the lowest ids. They are created at
// construction and survive every training run and snapshot round trip.
const (
	PadToken = "<PAD>"
	UnkToken = "<UNK>"
	BosToken = "<BOS>"
	EosToken = "<EOS>"
)

const (
	PadID = 0
	UnkID = 1
	BosID = 2
	EosID = 3
)

// Vocabulary is a bidirectional mapping between token strings and integer
// ids. Ids are assigned monotonically and never reused or renumbered; no
// token is ever removed. The next-free-id counter is owned by the instance,
// so independent vocabularies never share numbering.
type Vocabulary struct {
	tokens  map[string]int
	special map[string]int
	size    int
}

// NewVocabulary constructs a vocabulary seeded with the four special tokens.
func NewVocabulary() *Vocabulary {
	v := Vocabulary{
		tokens:  make(map[string]int),
		special: make(map[string]int),
	}

	v.AddSpecialToken(PadToken, PadID)
	v.AddSpecialToken(UnkToken, UnkID)
	v.AddSpecialToken(BosToken, BosID)
	v.AddSpecialToken(EosToken, EosID)

	return &v
}

// AddSpecialToken inserts a reserved token at the given id, recording it in
// both the full table and the special subset. The size grows to cover the id.
func (v *Vocabulary) AddSpecialToken(token string, id int) {
	v.tokens[token] = id
	v.special[token] = id

	if id+1 > v.size {
		v.size = id + 1
	}
}

// AddToken inserts the token at the next free id and returns that id. Adding
// a token that already exists is a no-op returning the existing id.
func (v *Vocabulary) AddToken(token string) int {
	if id, ok := v.tokens[token]; ok {
		return id
	}

	id := v.size
	v.tokens[token] = id
	v.size = id + 1

	return id
}

// IDOf returns the id of the token, or the UNK id when the token is not in
// the vocabulary.
func (v *Vocabulary) IDOf(token string) int {
	if id, ok := v.tokens[token]; ok {
		return id
	}

	return UnkID
}

// Contains reports whether the token is in the vocabulary.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.tokens[token]
	return ok
}

// IsSpecial reports whether the token is one of the reserved tokens.
func (v *Vocabulary) IsSpecial(token string) bool {
	_, ok := v.special[token]
	return ok
}

// Inverse builds the id to token mapping used during decode. Ids are unique
// by construction, so the inversion is lossless.
func (v *Vocabulary) Inverse() map[int]string {
	inverse := make(map[int]string, len(v.tokens))
	for token, id := range v.tokens {
		inverse[id] = token
	}

	return inverse
}

// Size returns one plus the highest assigned id.
func (v *Vocabulary) Size() int {
	return v.size
}

// TokenCount returns the number of tokens in the table.
func (v *Vocabulary) TokenCount() int {
	return len(v.tokens)
}

// SpecialCount returns the number of reserved tokens.
func (v *Vocabulary) SpecialCount() int {
	return len(v.special)
}
