package buildpipeline

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// ReceiptModuleEntry is one module's record within a Receipt.
type ReceiptModuleEntry struct {
	Name        string
	SourcePath  string
	OutputPath  string
	ContentHash [32]byte
}

// Receipt is written to build/receipt.msgpack after a successful
// build, for downstream tooling to read — never consulted by fygc
// itself to skip recompilation (spec.md's Non-goals exclude
// compilation caching; contrast with the teacher's
// internal/driver.DiskCache, which this package deliberately does not
// adopt the read/skip half of).
type Receipt struct {
	BuildID   string
	CreatedAt time.Time
	Elapsed   time.Duration
	Modules   []ReceiptModuleEntry
}

// NewReceipt builds a Receipt from a completed Result.
func NewReceipt(result Result) Receipt {
	entries := make([]ReceiptModuleEntry, len(result.Modules))
	for i, m := range result.Modules {
		entries[i] = ReceiptModuleEntry{
			Name:        m.Name,
			SourcePath:  m.Path,
			OutputPath:  m.GoPath,
			ContentHash: m.Content,
		}
	}
	return Receipt{
		BuildID:   uuid.New().String(),
		CreatedAt: time.Now(),
		Elapsed:   result.Elapsed,
		Modules:   entries,
	}
}

// WriteReceipt serializes r as msgpack to <buildDir>/receipt.msgpack.
func WriteReceipt(buildDir string, r Receipt) error {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return fmt.Errorf("buildpipeline: encoding build receipt: %w", err)
	}
	path := filepath.Join(buildDir, "receipt.msgpack")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("buildpipeline: writing %s: %w", path, err)
	}
	return nil
}

func contentHash(s string) [32]byte {
	return sha256.Sum256([]byte(s))
}
