// Package snapshot exports a key-value database to a compressed stream and
// imports it back.
//
// Stream layout: the magic "MKTS", a version byte, then blocks. A block is
// uvarint(raw length), uvarint(stored length), crc32(raw, 4 bytes BE) and
// the stored bytes. Stored length 0 means the block is kept uncompressed.
// A raw length of 0 ends the stream. Raw blocks are a sequence of
// uvarint(len) key, uvarint(len) value pairs.
package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/pierrec/lz4"
)

const (
	magic   = "MKTS"
	version = 1

	// blockSize is the raw size at which a block is flushed
	blockSize = 64 << 10
	// maxBlockSize bounds what Import accepts from a stream
	maxBlockSize = 64 << 20
)

var (
	ErrBadMagic    = errors.New("not a marketd snapshot")
	ErrBadVersion  = errors.New("unsupported snapshot version")
	ErrCorrupt     = errors.New("corrupt snapshot")
	ErrBlockTooBig = errors.New("snapshot block too large")
)

// Stats describes an export or import.
type Stats struct {
	Entries     int
	Blocks      int
	RawBytes    int64
	StoredBytes int64
}

// Export writes every key in db to w.
func Export(ctx context.Context, db database.DB, w io.Writer) (Stats, error) {
	var stats Stats
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(magic); err != nil {
		return stats, err
	}
	if err := bw.WriteByte(version); err != nil {
		return stats, err
	}

	it, err := db.Iterator(ctx, nil, nil)
	if err != nil {
		return stats, fmt.Errorf("open iterator: %w", err)
	}
	defer it.Close()

	var block bytes.Buffer
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		putBytes(&block, it.Key())
		putBytes(&block, it.Value())
		stats.Entries++
		if block.Len() >= blockSize {
			if err := writeBlock(bw, block.Bytes(), &stats); err != nil {
				return stats, err
			}
			block.Reset()
		}
	}
	if err := it.Error(); err != nil {
		return stats, fmt.Errorf("iterate: %w", err)
	}
	if block.Len() > 0 {
		if err := writeBlock(bw, block.Bytes(), &stats); err != nil {
			return stats, err
		}
	}

	// End marker
	if err := writeUvarint(bw, 0); err != nil {
		return stats, err
	}
	return stats, bw.Flush()
}

// Import reads a stream written by Export and stores every entry in db,
// one batch per block.
func Import(ctx context.Context, db database.DB, r io.Reader) (Stats, error) {
	var stats Stats
	br := bufio.NewReader(r)

	head := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(br, head); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if string(head[:len(magic)]) != magic {
		return stats, ErrBadMagic
	}
	if head[len(magic)] != version {
		return stats, fmt.Errorf("%w: %d", ErrBadVersion, head[len(magic)])
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		raw, err := readBlock(br, &stats)
		if err != nil {
			return stats, err
		}
		if raw == nil {
			return stats, nil
		}

		ops, err := decodeEntries(raw)
		if err != nil {
			return stats, err
		}
		if err := db.Batch(ctx, ops); err != nil {
			return stats, fmt.Errorf("write block %d: %w", stats.Blocks, err)
		}
		stats.Entries += len(ops)
	}
}

func writeBlock(w *bufio.Writer, raw []byte, stats *Stats) error {
	compressed := make([]byte, lz4.CompressBlockBound(len(raw)))
	n, err := lz4.CompressBlock(raw, compressed, nil)
	if err != nil {
		return fmt.Errorf("lz4 compression failed: %w", err)
	}
	stored := compressed[:n]
	if n == 0 || n >= len(raw) {
		stored = nil
	}

	if err := writeUvarint(w, uint64(len(raw))); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(len(stored))); err != nil {
		return err
	}
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc32.ChecksumIEEE(raw))
	if _, err := w.Write(sum[:]); err != nil {
		return err
	}
	payload := stored
	if payload == nil {
		payload = raw
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}

	stats.Blocks++
	stats.RawBytes += int64(len(raw))
	stats.StoredBytes += int64(len(payload))
	return nil
}

// readBlock returns the raw bytes of the next block, or nil at the end
// marker.
func readBlock(r *bufio.Reader, stats *Stats) ([]byte, error) {
	rawLen, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read block header: %v", ErrCorrupt, err)
	}
	if rawLen == 0 {
		return nil, nil
	}
	if rawLen > maxBlockSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrBlockTooBig, rawLen)
	}
	storedLen, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read block header: %v", ErrCorrupt, err)
	}
	if storedLen > rawLen {
		return nil, fmt.Errorf("%w: stored length %d exceeds raw length %d", ErrCorrupt, storedLen, rawLen)
	}
	var sum [4]byte
	if _, err := io.ReadFull(r, sum[:]); err != nil {
		return nil, fmt.Errorf("%w: read checksum: %v", ErrCorrupt, err)
	}

	raw := make([]byte, rawLen)
	if storedLen == 0 {
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("%w: read block: %v", ErrCorrupt, err)
		}
	} else {
		stored := make([]byte, storedLen)
		if _, err := io.ReadFull(r, stored); err != nil {
			return nil, fmt.Errorf("%w: read block: %v", ErrCorrupt, err)
		}
		n, err := lz4.UncompressBlock(stored, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4 decompression failed: %v", ErrCorrupt, err)
		}
		if uint64(n) != rawLen {
			return nil, fmt.Errorf("%w: block decompressed to %d bytes, want %d", ErrCorrupt, n, rawLen)
		}
	}
	if crc32.ChecksumIEEE(raw) != binary.BigEndian.Uint32(sum[:]) {
		return nil, fmt.Errorf("%w: checksum mismatch in block %d", ErrCorrupt, stats.Blocks)
	}

	stats.Blocks++
	stats.RawBytes += int64(rawLen)
	if storedLen == 0 {
		stats.StoredBytes += int64(rawLen)
	} else {
		stats.StoredBytes += int64(storedLen)
	}
	return raw, nil
}

func decodeEntries(raw []byte) ([]database.BatchOperation, error) {
	var ops []database.BatchOperation
	for len(raw) > 0 {
		key, rest, err := getBytes(raw)
		if err != nil {
			return nil, err
		}
		value, rest, err := getBytes(rest)
		if err != nil {
			return nil, err
		}
		ops = append(ops, database.Put(key, value))
		raw = rest
	}
	return ops, nil
}

func putBytes(buf *bytes.Buffer, b []byte) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(b)))
	buf.Write(tmp[:n])
	buf.Write(b)
}

func getBytes(b []byte) ([]byte, []byte, error) {
	l, n := binary.Uvarint(b)
	if n <= 0 || uint64(len(b)-n) < l {
		return nil, nil, fmt.Errorf("%w: truncated entry", ErrCorrupt)
	}
	end := n + int(l)
	return b[n:end], b[end:], nil
}

func writeUvarint(w io.Writer, v uint64) error {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	_, err := w.Write(tmp[:n])
	return err
}
