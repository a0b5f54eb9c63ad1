package pak

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// hashListEncMode uses Core Deterministic Encoding so the same entries
// always produce identical bytes.
var hashListEncMode cbor.EncMode

var hashListDecMode cbor.DecMode

func init() {
	var err error
	hashListEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("pak: CBOR encoder initialization failed: " + err.Error())
	}
	hashListDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("pak: CBOR decoder initialization failed: " + err.Error())
	}
}

// HashList is an ordered report of entry digests under one algorithm.
// It encodes as the CBOR array [algorithm, [[name, digest], ...]].
type HashList struct {
	_         struct{} `cbor:",toarray"`
	Algorithm string
	Entries   []HashListEntry
}

// HashListEntry is one (name, digest) pair.
type HashListEntry struct {
	_      struct{} `cbor:",toarray"`
	Name   string
	Digest []byte
}

// NewHashList hashes each file entry under alg, in order. Pads are skipped.
func NewHashList(entries []*Entry, alg HashAlgorithm) (*HashList, error) {
	if !alg.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, uint8(alg))
	}
	list := &HashList{Algorithm: alg.String(), Entries: make([]HashListEntry, 0, len(entries))}
	for _, e := range entries {
		if e.kind == KindPad {
			continue
		}
		sum, err := e.Hash(alg)
		if err != nil {
			return nil, fmt.Errorf("hash %q: %w", e.name, err)
		}
		list.Entries = append(list.Entries, HashListEntry{Name: e.name, Digest: sum})
	}
	return list, nil
}

// CreateHashList hashes entries under alg and returns the encoded list.
func CreateHashList(entries []*Entry, alg HashAlgorithm) ([]byte, error) {
	list, err := NewHashList(entries, alg)
	if err != nil {
		return nil, err
	}
	return list.Marshal()
}

// HashList hashes every file entry of the archive under alg.
func (a *Archive) HashList(alg HashAlgorithm) (*HashList, error) {
	return NewHashList(a.entries, alg)
}

// Marshal encodes the list as deterministic CBOR.
func (l *HashList) Marshal() ([]byte, error) {
	return hashListEncMode.Marshal(l)
}

// DecodeHashList parses an encoded hash list.
func DecodeHashList(data []byte) (*HashList, error) {
	var l HashList
	if err := hashListDecMode.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode hash list: %w", err)
	}
	if _, err := ParseHashAlgorithm(l.Algorithm); err != nil {
		return nil, err
	}
	return &l, nil
}

// HashAlgorithm returns the parsed algorithm of the list.
func (l *HashList) HashAlgorithm() (HashAlgorithm, error) {
	return ParseHashAlgorithm(l.Algorithm)
}

// Text renders one "algorithm:hex  name" line per entry, the layout of
// sha256sum output with a prefixed algorithm. It fails when the list
// names an unsupported algorithm.
func (l *HashList) Text() (string, error) {
	alg, err := l.HashAlgorithm()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, e := range l.Entries {
		fmt.Fprintf(&b, "%s  %s\n", formatDigest(alg, e.Digest), e.Name)
	}
	return b.String(), nil
}

// Mismatch describes an entry that failed hash list verification.
type Mismatch struct {
	Name     string
	Expected []byte
	// Actual is nil when the archive has no entry with Name.
	Actual []byte
}

func (m Mismatch) String() string {
	if m.Actual == nil {
		return m.Name + ": missing"
	}
	return fmt.Sprintf("%s: digest %x, expected %x", m.Name, m.Actual, m.Expected)
}

// VerifyHashList rehashes the entries named in l and returns every one
// whose digest differs or that the archive lacks. Entries are resolved
// with Lookup, so the last entry with a name is the one checked.
func (a *Archive) VerifyHashList(l *HashList) ([]Mismatch, error) {
	alg, err := l.HashAlgorithm()
	if err != nil {
		return nil, err
	}
	var mismatches []Mismatch
	for _, want := range l.Entries {
		e, err := a.Lookup(want.Name)
		if err != nil {
			mismatches = append(mismatches, Mismatch{Name: want.Name, Expected: want.Digest})
			continue
		}
		got, err := e.Hash(alg)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(got, want.Digest) {
			mismatches = append(mismatches, Mismatch{Name: want.Name, Expected: want.Digest, Actual: got})
		}
	}
	return mismatches, nil
}
