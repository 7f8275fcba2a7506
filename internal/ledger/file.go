package ledger

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileLedger persists outcomes as one JSON object per line. The file is
// opened in append mode so restarts never lose history.
type FileLedger struct {
	mu   sync.Mutex
	path string
	f    *os.File
	enc  *json.Encoder
}

// NewFileLedger opens (or creates) a JSONL ledger at path.
func NewFileLedger(path string) (*FileLedger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	return &FileLedger{path: path, f: f, enc: json.NewEncoder(f)}, nil
}

func (l *FileLedger) Append(_ context.Context, o Outcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(stamp(o)); err != nil {
		return fmt.Errorf("append outcome: %w", err)
	}
	return nil
}

func (l *FileLedger) All(_ context.Context) ([]Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAll()
}

func (l *FileLedger) BySupplier(_ context.Context, supplierID string) ([]Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	all, err := l.readAll()
	if err != nil {
		return nil, err
	}
	var out []Outcome
	for _, o := range all {
		if o.SupplierID == supplierID {
			out = append(out, o)
		}
	}
	return out, nil
}

// readAll re-reads the file from the start; callers hold l.mu.
func (l *FileLedger) readAll() ([]Outcome, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	defer f.Close()

	var out []Outcome
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var o Outcome
		if err := json.Unmarshal(line, &o); err != nil {
			return nil, fmt.Errorf("decode ledger line: %w", err)
		}
		out = append(out, o)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan ledger file: %w", err)
	}
	return out, nil
}

func (l *FileLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
