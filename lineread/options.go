package lineread

// Encoding selects how raw bytes are decoded into line text. Lines are
// split on the encoding's newline byte sequence first, and each extracted
// line is then decoded on its own.
type Encoding string

const (
	EncodingUTF8    Encoding = "utf8"
	EncodingASCII   Encoding = "ascii"
	EncodingUTF16LE Encoding = "utf16le"
	// EncodingUCS2 is treated identically to EncodingUTF16LE: UCS-2 has no
	// surrogate pairs, and real-world sources that label their output
	// "ucs2" are, in practice, emitting UTF-16LE-compatible basic-plane
	// text (this mirrors how Node.js, the runtime this spec's source was
	// written for, aliases "ucs2"/"ucs-2" to "utf16le").
	EncodingUCS2   Encoding = "ucs2"
	EncodingBase64 Encoding = "base64"
	EncodingLatin1 Encoding = "latin1"
	EncodingBinary Encoding = "binary"
	EncodingHex    Encoding = "hex"
)

// DefaultMaxLineLength bounds a single emitted line when the caller leaves
// MaxLineLength unset. The spec calls the source's real default "effectively
// unbounded in practice"; 10 MiB is generous enough to never trigger on a
// realistic line while still bounding worst-case memory, matching the
// teacher's own NDJSON scanner buffer cap in internal/loop/stream.go.
const DefaultMaxLineLength = 10 * 1024 * 1024

// Options configures a Reader, per spec section 4.A.
type Options struct {
	// MaxLineLength bounds a single emitted line, measured in raw
	// (pre-decode) bytes. Must be positive; non-positive values fall back
	// to DefaultMaxLineLength.
	MaxLineLength int

	// Encoding selects the byte-to-text mapping. Zero value defaults to
	// EncodingUTF8.
	Encoding Encoding

	// IncludeEmpty, when true, emits lines whose trimmed content is empty
	// and increments the line counter for every line including blanks.
	// When false (the default), blank lines are filtered and do not
	// consume a line number.
	IncludeEmpty bool
}

func (o Options) withDefaults() Options {
	if o.MaxLineLength <= 0 {
		o.MaxLineLength = DefaultMaxLineLength
	}
	if o.Encoding == "" {
		o.Encoding = EncodingUTF8
	}
	return o
}
