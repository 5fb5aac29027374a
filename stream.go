package tldr

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
)

// Delimiter separates the serialized metadata record from the summary text
// in a response body.
const Delimiter = "\n---\n"

// metadataPrefix is how a body carrying a metadata segment begins.
const metadataPrefix = `{"metadata":`

// metadataEnvelope is the serialized form of the metadata segment.
type metadataEnvelope struct {
	Metadata *ArticleMetadata `json:"metadata"`
}

// flusher is implemented by writers that buffer, such as http.ResponseWriter.
type flusher interface {
	Flush()
}

// Compose writes a summary stream to w: the metadata segment and Delimiter
// when meta is non-nil, then every fragment in the order it is yielded.
//
// Nothing is written until the first fragment arrives, so an error raised
// before generation produces any text leaves w untouched and n == 0.
// An error after that stops the stream; the metadata segment is never
// written twice. Compose flushes after each write when w supports it.
func Compose(w io.Writer, meta *ArticleMetadata, fragments iter.Seq2[string, error]) (n int64, err error) {
	next, stop := iter.Pull2(fragments)
	defer stop()

	first, err, ok := next()
	if err != nil {
		return 0, err
	}

	if meta != nil {
		header, err := json.Marshal(metadataEnvelope{Metadata: meta})
		if err != nil {
			return 0, fmt.Errorf("marshal metadata: %w", err)
		}
		header = append(header, Delimiter...)
		if err := write(w, header, &n); err != nil {
			return n, err
		}
	}

	for ok {
		if first != "" {
			if err := write(w, []byte(first), &n); err != nil {
				return n, err
			}
		}
		first, err, ok = next()
		if err != nil {
			return n, err
		}
	}

	return n, nil
}

func write(w io.Writer, p []byte, n *int64) error {
	m, err := w.Write(p)
	*n += int64(m)
	if err != nil {
		return err
	}
	if f, ok := w.(flusher); ok {
		f.Flush()
	}
	return nil
}

// ReadStream splits a summary stream written by Compose. When the stream
// starts with a metadata segment, the record is decoded and the returned
// reader yields the summary text after the first Delimiter. Otherwise meta is
// nil and the reader yields the whole stream.
func ReadStream(r io.Reader) (*ArticleMetadata, io.Reader, error) {
	br := bufio.NewReader(r)

	prefix, err := br.Peek(len(metadataPrefix))
	if err != nil && err != io.EOF {
		return nil, nil, err
	}
	if !bytes.Equal(prefix, []byte(metadataPrefix)) {
		return nil, br, nil
	}

	// json.Marshal escapes newlines, so the record is the first line.
	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, nil, fmt.Errorf("read metadata segment: %w", err)
	}

	rest := make([]byte, len(Delimiter)-1)
	if _, err := io.ReadFull(br, rest); err != nil {
		return nil, nil, fmt.Errorf("read delimiter: %w", err)
	}
	if string(rest) != Delimiter[1:] {
		return nil, nil, errors.New("missing delimiter after metadata segment")
	}

	var env metadataEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, nil, fmt.Errorf("decode metadata segment: %w", err)
	}

	return env.Metadata, br, nil
}
