package trackdat

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"sort"
	"strings"
)

// ChecksumAlgorithm computes the trailer value for a file payload (the file
// without its last four bytes). The algorithm the game uses is not known;
// implementations here are interchangeable strategies.
type ChecksumAlgorithm interface {
	Name() string
	Compute(payload []byte) uint32
}

// ByteSum adds every payload byte into a wrapping u32.
type ByteSum struct{}

func (ByteSum) Name() string { return "bytesum" }

func (ByteSum) Compute(payload []byte) uint32 {
	var sum uint32
	for _, b := range payload {
		sum += uint32(b)
	}
	return sum
}

// CRC32 is the IEEE CRC-32 of the payload.
type CRC32 struct{}

func (CRC32) Name() string { return "crc32" }

func (CRC32) Compute(payload []byte) uint32 { return crc32.ChecksumIEEE(payload) }

var checksumAlgorithms = map[string]ChecksumAlgorithm{
	ByteSum{}.Name(): ByteSum{},
	CRC32{}.Name():   CRC32{},
}

// ChecksumAlgorithmByName returns a registered algorithm. The names "" and
// "none" return nil, meaning the checksum is not checked.
func ChecksumAlgorithmByName(name string) (ChecksumAlgorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "none" {
		return nil, nil
	}
	if a, ok := checksumAlgorithms[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("unknown checksum algorithm %q (known: none, %s)", name, strings.Join(ChecksumAlgorithmNames(), ", "))
}

// ChecksumAlgorithmNames lists the registered algorithm names.
func ChecksumAlgorithmNames() []string {
	names := make([]string, 0, len(checksumAlgorithms))
	for n := range checksumAlgorithms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ChecksumMismatchError reports a trailer that does not match the computed value.
type ChecksumMismatchError struct {
	Algorithm string
	Stored    uint32
	Computed  uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch (%s): stored 0x%08X, computed 0x%08X", e.Algorithm, e.Stored, e.Computed)
}

func (e *ChecksumMismatchError) Is(target error) bool { return target == ErrChecksumMismatch }

// StoredChecksum returns the little-endian trailer of buf.
func StoredChecksum(buf []byte) (uint32, error) {
	if len(buf) < TrailerSize {
		return 0, &DecodeError{
			Region: "checksum",
			Offset: 0,
			Err:    fmt.Errorf("%w: file is %d bytes", ErrUnexpectedEOF, len(buf)),
		}
	}
	return binary.LittleEndian.Uint32(buf[len(buf)-TrailerSize:]), nil
}

// Validator checks file trailers with a pluggable algorithm.
type Validator struct {
	Algorithm ChecksumAlgorithm
}

// NewValidator returns a Validator using a.
func NewValidator(a ChecksumAlgorithm) *Validator {
	return &Validator{Algorithm: a}
}

// Compute returns the checksum of a buffer that has no trailer.
func (v *Validator) Compute(payload []byte) uint32 {
	return v.Algorithm.Compute(payload)
}

// Validate compares the stored trailer of buf with the computed value.
// A mismatch is returned as *ChecksumMismatchError.
func (v *Validator) Validate(buf []byte) error {
	stored, err := StoredChecksum(buf)
	if err != nil {
		return err
	}
	computed := v.Compute(buf[:len(buf)-TrailerSize])
	if stored != computed {
		return &ChecksumMismatchError{Algorithm: v.Algorithm.Name(), Stored: stored, Computed: computed}
	}
	return nil
}

// ChecksumReport records the outcome of the integrity check made by Decode.
// Checked is false when no algorithm was configured. Err is nil, a
// *ChecksumMismatchError, or a read error for files shorter than the trailer.
type ChecksumReport struct {
	Checked   bool   `json:"checked"`
	Algorithm string `json:"algorithm,omitempty"`
	Stored    uint32 `json:"stored"`
	Computed  uint32 `json:"computed,omitempty"`
	Err       error  `json:"-"`
}

// Verified reports whether the trailer was checked and matched.
func (r ChecksumReport) Verified() bool { return r.Checked && r.Err == nil }

func checkFile(buf []byte, a ChecksumAlgorithm) ChecksumReport {
	stored, err := StoredChecksum(buf)
	if err != nil {
		return ChecksumReport{Err: err}
	}
	r := ChecksumReport{Stored: stored}
	if a == nil {
		return r
	}
	v := NewValidator(a)
	r.Checked = true
	r.Algorithm = a.Name()
	r.Computed = v.Compute(buf[:len(buf)-TrailerSize])
	if r.Computed != stored {
		r.Err = &ChecksumMismatchError{Algorithm: r.Algorithm, Stored: stored, Computed: r.Computed}
		opsf("%v", r.Err)
	}
	return r
}
