package table

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
)

// readDelimited streams a CSV file into an index. The first record is the
// header; data rows are consumed one at a time so the file never needs to
// be resident in memory (only the index is).
func readDelimited(ctx context.Context, path string, keyColumns []string, opts Options) (*Indexed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceUnreadableError{Path: path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(newBOMSkippingReader(f))
	// Ragged rows are mapped onto the header by position; let the index
	// layer handle short/long rows instead of failing the parse.
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	headerCells, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SourceUnreadableError{Path: path, Err: errors.New("file has no header row")}
		}
		return nil, &SourceUnreadableError{Path: path, Err: err}
	}
	header := trimHeader(headerCells)

	positions, err := resolveKeyPositions(path, header, keyColumns)
	if err != nil {
		return nil, err
	}

	indexed := &Indexed{Header: header, Rows: make(map[string]Row)}
	interval := opts.interval()
	scanned := 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &SourceUnreadableError{Path: path, Err: err}
		}

		indexed.insert(buildKey(record, positions), buildRow(header, record))
		scanned++

		if scanned%interval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			opts.status("Scanned %d rows from %s file...", scanned, opts.Label)
		}
	}

	opts.status("Indexed %d rows (%d distinct keys) from %s file", scanned, indexed.Len(), opts.Label)
	return indexed, nil
}

// bomSkippingReader strips a UTF-8 byte order mark from the start of the
// stream. Windows tools routinely prepend one, which would otherwise glue
// itself onto the first header name and break key-column lookup.
type bomSkippingReader struct {
	r       io.Reader
	checked bool
	buf     []byte
}

func newBOMSkippingReader(r io.Reader) *bomSkippingReader {
	return &bomSkippingReader{r: r}
}

func (b *bomSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		head := make([]byte, 3)
		n, err := io.ReadFull(b.r, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, err
		}
		head = head[:n]

		if !(n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF) {
			b.buf = head
		}
	}

	if len(b.buf) > 0 {
		n := copy(p, b.buf)
		b.buf = b.buf[n:]
		return n, nil
	}

	return b.r.Read(p)
}
