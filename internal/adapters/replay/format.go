package replay

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/bft-labs/arscan/internal/domain"
)

// Magic identifies a recording stream.
const Magic = "ARSR"

// Version is the recording format version written by this package.
const Version = 1

// ErrBadRecording is returned when a stream is not a readable recording.
var ErrBadRecording = errors.New("replay: bad recording")

// maxPreallocRecords caps the record capacity taken from a header count.
const maxPreallocRecords = 1024

// Header is the first item of a recording.
type Header struct {
	Magic   string `cbor:"magic"`
	Version int    `cbor:"version"`

	// Frames is the number of records that follow, or 0 when unknown.
	Frames int `cbor:"frames,omitempty"`
}

// Record is one captured frame.
type Record struct {
	Width       int    `cbor:"width"`
	Height      int    `cbor:"height"`
	RowStride   int    `cbor:"row_stride"`
	Data        []byte `cbor:"data"`
	TimestampNs int64  `cbor:"ts_ns"`
}

// Frame returns the record as a RawFrame sharing Data.
func (r Record) Frame() domain.RawFrame {
	return domain.RawFrame{Width: r.Width, Height: r.Height, RowStride: r.RowStride, Data: r.Data}
}

// RecordFromGray builds a record from img, padding every row with padding
// bytes of 0 to emulate a device row stride.
func RecordFromGray(img *image.Gray, padding int, timestampNs int64) Record {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := w + padding
	data := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(data[y*stride:], img.Pix[off:off+w])
	}
	return Record{Width: w, Height: h, RowStride: stride, Data: data, TimestampNs: timestampNs}
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("replay: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("replay: CBOR decoder initialization failed: " + err.Error())
	}
}

// Writer streams records into a recording.
type Writer struct {
	zw     *zstd.Encoder
	enc    *cbor.Encoder
	frames int
}

// NewWriter writes a header to w and returns a Writer for the records.
// frames is recorded in the header; pass 0 when the count is not known.
// Close must be called to flush the stream. It does not close w.
func NewWriter(w io.Writer, frames int) (*Writer, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("replay: zstd writer: %w", err)
	}
	enc := encMode.NewEncoder(zw)
	if err := enc.Encode(Header{Magic: Magic, Version: Version, Frames: frames}); err != nil {
		zw.Close()
		return nil, fmt.Errorf("replay: write header: %w", err)
	}
	return &Writer{zw: zw, enc: enc}, nil
}

// WriteFrame appends one record.
func (w *Writer) WriteFrame(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("replay: write frame %d: %w", w.frames, err)
	}
	w.frames++
	return nil
}

// Frames returns the number of records written.
func (w *Writer) Frames() int { return w.frames }

// Close flushes the compressed stream.
func (w *Writer) Close() error {
	return w.zw.Close()
}

// ReadAll reads a complete recording.
func ReadAll(r io.Reader) (Header, []Record, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return Header{}, nil, fmt.Errorf("%w: %v", ErrBadRecording, err)
	}
	defer zr.Close()

	dec := decMode.NewDecoder(zr)

	var hdr Header
	if err := dec.Decode(&hdr); err != nil {
		return Header{}, nil, fmt.Errorf("%w: header: %v", ErrBadRecording, err)
	}
	if hdr.Magic != Magic {
		return hdr, nil, fmt.Errorf("%w: magic %q", ErrBadRecording, hdr.Magic)
	}
	if hdr.Version != Version {
		return hdr, nil, fmt.Errorf("%w: unsupported version %d", ErrBadRecording, hdr.Version)
	}

	if hdr.Frames < 0 {
		return hdr, nil, fmt.Errorf("%w: negative frame count %d", ErrBadRecording, hdr.Frames)
	}

	// The header count is untrusted; grow from the records actually present.
	records := make([]Record, 0, min(hdr.Frames, maxPreallocRecords))
	for {
		var rec Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return hdr, records, fmt.Errorf("%w: frame %d: %v", ErrBadRecording, len(records), err)
		}
		records = append(records, rec)
	}

	if hdr.Frames != 0 && hdr.Frames != len(records) {
		return hdr, records, fmt.Errorf("%w: header says %d frames, found %d", ErrBadRecording, hdr.Frames, len(records))
	}
	return hdr, records, nil
}
