// Package layout contains the framing shared by program accounts and instructions: every account starts with a
// discriminator derived from its type name, events and instructions likewise.
package layout

import (
	"bytes"
	"io"

	"github.com/minio/sha256-simd"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
)

// DiscriminatorLength is the length of a Discriminator in bytes.
const DiscriminatorLength = 8

var ErrInvalidDiscriminator = ierrors.New("invalid discriminator")

// Discriminator identifies the type of an account or instruction.
type Discriminator [DiscriminatorLength]byte

// AccountDiscriminator returns the discriminator for accounts of the named type.
func AccountDiscriminator(name string) Discriminator {
	return newDiscriminator("account", name)
}

// EventDiscriminator returns the discriminator for events of the named type.
func EventDiscriminator(name string) Discriminator {
	return newDiscriminator("event", name)
}

// InstructionDiscriminator returns the discriminator for the named instruction.
func InstructionDiscriminator(name string) Discriminator {
	return newDiscriminator("global", name)
}

func newDiscriminator(namespace string, name string) Discriminator {
	hash := sha256.Sum256([]byte(namespace + ":" + name))

	var d Discriminator
	copy(d[:], hash[:DiscriminatorLength])

	return d
}

// ReadAnyDiscriminator reads the next discriminator from the reader.
func ReadAnyDiscriminator(reader io.Reader) (Discriminator, error) {
	var d Discriminator

	b, err := stream.ReadBytes(reader, DiscriminatorLength)
	if err != nil {
		return d, ierrors.Wrap(err, "failed to read discriminator")
	}
	copy(d[:], b)

	return d, nil
}

// WriteDiscriminator writes the discriminator to the writer.
func WriteDiscriminator(writer io.Writer, d Discriminator) error {
	return stream.WriteBytes(writer, d[:])
}

// ReadDiscriminator reads a discriminator from the reader and checks that it matches the expected one.
func ReadDiscriminator(reader io.ReadSeeker, expected Discriminator) error {
	d, err := ReadAnyDiscriminator(reader)
	if err != nil {
		return err
	}

	if d != expected {
		return ierrors.Wrapf(ErrInvalidDiscriminator, "expected %x, got %x", expected, d)
	}

	return nil
}

// HasDiscriminator returns true if the data starts with the given discriminator.
func HasDiscriminator(data []byte, d Discriminator) bool {
	return bytes.HasPrefix(data, d[:])
}
