package publicsuffix

import (
	"compress/zlib"
	"encoding/json"
	"fmt"
	"io"
)

// listSnapshot is the serialised form of a list: the parsed rules plus the
// metadata needed to rebuild an equivalent List.
type listSnapshot struct {
	Rules   []Rule
	Release string
	IDNA    bool
}

// Write encodes the list as JSON and compresses and writes it to w. The
// output is a snapshot of the parsed rules, not of the compiled trie, so it
// stays readable across versions of this package.
func (l *List) Write(w io.Writer) error {
	var zlibWriter = zlib.NewWriter(w)
	defer zlibWriter.Close()

	// Encode directly into the zlib writer, which in turn writes into w.
	return json.NewEncoder(zlibWriter).Encode(listSnapshot{
		Rules:   l.rules,
		Release: l.release,
		IDNA:    l.idna,
	})
}

// ReadList decodes a list serialised and compressed by Write and compiles it
// for lookups.
func ReadList(r io.Reader) (*List, error) {
	var zlibReader, err = zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("publicsuffix: zlib error: %s", err.Error())
	}
	defer zlibReader.Close()

	var snapshot = listSnapshot{}
	if err := json.NewDecoder(zlibReader).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("publicsuffix: json error: %s", err.Error())
	}

	var l = NewListFromRules(snapshot.Rules, &ParseOptions{IDNA: snapshot.IDNA})
	l.release = snapshot.Release

	return l, nil
}
