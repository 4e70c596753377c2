package model

import (
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
	"github.com/iotaledger/hive.go/stringify"
	"github.com/iotaledger/iota.go/v4/hexutil"
)

const (
	// TransactionIDLength is the length of a TransactionID in bytes.
	TransactionIDLength = blake2b.Size256

	// MaxInstructionsPerTransaction limits the number of instructions in a single transaction.
	MaxInstructionsPerTransaction = 16

	// MaxSignaturesPerTransaction limits the number of signatures attached to a single transaction.
	MaxSignaturesPerTransaction = 8
)

var (
	ErrInvalidTransaction = ierrors.New("invalid transaction")
	ErrInvalidSignature   = ierrors.New("invalid signature")
)

// TransactionID is the blake2b-256 hash of a transaction's signing message.
type TransactionID [TransactionIDLength]byte

var EmptyTransactionID = TransactionID{}

func TransactionIDFromHexString(hexString string) (TransactionID, error) {
	b, err := hexutil.DecodeHex(hexString)
	if err != nil {
		return EmptyTransactionID, err
	}

	if len(b) != TransactionIDLength {
		return EmptyTransactionID, ierrors.Errorf("invalid transaction ID length: %d != %d", len(b), TransactionIDLength)
	}

	var id TransactionID
	copy(id[:], b)

	return id, nil
}

func (t TransactionID) Bytes() ([]byte, error) {
	return t[:], nil
}

func (t TransactionID) ToHex() string {
	return hexutil.EncodeHex(t[:])
}

func (t TransactionID) String() string {
	return t.ToHex()
}

// Instruction addresses a single program with opaque instruction data.
type Instruction struct {
	ProgramID Identity
	Data      []byte
}

func NewInstruction(programID Identity, data []byte) *Instruction {
	return &Instruction{
		ProgramID: programID,
		Data:      data,
	}
}

func instructionFromReader(reader io.ReadSeeker) (*Instruction, error) {
	var err error
	i := new(Instruction)

	if i.ProgramID, err = stream.Read[Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read ProgramID")
	}
	if i.Data, err = stream.ReadBytesWithSize(reader, serializer.SeriLengthPrefixTypeAsUint32); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Data")
	}

	return i, nil
}

func (i *Instruction) write(writer io.WriteSeeker) error {
	if err := stream.Write(writer, i.ProgramID); err != nil {
		return ierrors.Wrap(err, "failed to write ProgramID")
	}
	if err := stream.WriteBytesWithSize(writer, i.Data, serializer.SeriLengthPrefixTypeAsUint32); err != nil {
		return ierrors.Wrap(err, "failed to write Data")
	}

	return nil
}

// Signature is an ed25519 signature over the signing message of a transaction.
type Signature struct {
	PublicKey ed25519.PublicKey
	Signature ed25519.Signature
}

// Signer returns the Identity controlled by the signing key.
func (s *Signature) Signer() Identity {
	return IdentityFromPublicKey(s.PublicKey)
}

// Transaction is the atomic unit of work executed by the engine. All instructions either succeed together or fail
// together.
type Transaction struct {
	// Nonce makes otherwise identical transactions distinguishable.
	Nonce        uint64
	Instructions []*Instruction
	Signatures   []*Signature
}

func NewTransaction(nonce uint64, instructions ...*Instruction) *Transaction {
	return &Transaction{
		Nonce:        nonce,
		Instructions: instructions,
	}
}

func TransactionFromBytes(b []byte) (*Transaction, int, error) {
	byteReader := stream.NewByteReader(b)

	tx, err := TransactionFromReader(byteReader)
	if err != nil {
		return nil, 0, ierrors.Join(ErrInvalidTransaction, ierrors.Wrap(err, "failed to parse Transaction"))
	}

	if byteReader.BytesRead() != len(b) {
		return nil, 0, ierrors.Wrapf(ErrInvalidTransaction, "%d trailing bytes", len(b)-byteReader.BytesRead())
	}

	return tx, byteReader.BytesRead(), nil
}

func TransactionFromReader(reader io.ReadSeeker) (*Transaction, error) {
	var err error
	tx := new(Transaction)

	if tx.Nonce, err = stream.Read[uint64](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Nonce")
	}

	instructionCount, err := stream.Read[uint8](reader)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to read instruction count")
	}
	if instructionCount > MaxInstructionsPerTransaction {
		return nil, ierrors.Errorf("too many instructions: %d > %d", instructionCount, MaxInstructionsPerTransaction)
	}

	tx.Instructions = make([]*Instruction, instructionCount)
	for i := range tx.Instructions {
		if tx.Instructions[i], err = instructionFromReader(reader); err != nil {
			return nil, ierrors.Wrapf(err, "failed to read instruction %d", i)
		}
	}

	signatureCount, err := stream.Read[uint8](reader)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to read signature count")
	}
	if signatureCount > MaxSignaturesPerTransaction {
		return nil, ierrors.Errorf("too many signatures: %d > %d", signatureCount, MaxSignaturesPerTransaction)
	}

	tx.Signatures = make([]*Signature, signatureCount)
	for i := range tx.Signatures {
		signature := new(Signature)
		if signature.PublicKey, err = stream.Read[ed25519.PublicKey](reader); err != nil {
			return nil, ierrors.Wrapf(err, "failed to read public key of signature %d", i)
		}
		signatureBytes, err := stream.ReadBytes(reader, ed25519.SignatureSize)
		if err != nil {
			return nil, ierrors.Wrapf(err, "failed to read signature %d", i)
		}
		copy(signature.Signature[:], signatureBytes)

		tx.Signatures[i] = signature
	}

	return tx, nil
}

// SigningMessage returns the bytes that are covered by the signatures (everything but the signatures themselves).
func (t *Transaction) SigningMessage() ([]byte, error) {
	byteBuffer := stream.NewByteBuffer()

	if err := t.writeMessage(byteBuffer); err != nil {
		return nil, err
	}

	return byteBuffer.Bytes()
}

func (t *Transaction) writeMessage(writer io.WriteSeeker) error {
	if len(t.Instructions) > MaxInstructionsPerTransaction {
		return ierrors.Wrapf(ErrInvalidTransaction, "too many instructions: %d > %d", len(t.Instructions), MaxInstructionsPerTransaction)
	}

	if err := stream.Write(writer, t.Nonce); err != nil {
		return ierrors.Wrap(err, "failed to write Nonce")
	}
	if err := stream.Write(writer, uint8(len(t.Instructions))); err != nil {
		return ierrors.Wrap(err, "failed to write instruction count")
	}
	for i, instruction := range t.Instructions {
		if err := instruction.write(writer); err != nil {
			return ierrors.Wrapf(err, "failed to write instruction %d", i)
		}
	}

	return nil
}

func (t *Transaction) Bytes() ([]byte, error) {
	if len(t.Signatures) > MaxSignaturesPerTransaction {
		return nil, ierrors.Wrapf(ErrInvalidTransaction, "too many signatures: %d > %d", len(t.Signatures), MaxSignaturesPerTransaction)
	}

	byteBuffer := stream.NewByteBuffer()

	if err := t.writeMessage(byteBuffer); err != nil {
		return nil, err
	}

	if err := stream.Write(byteBuffer, uint8(len(t.Signatures))); err != nil {
		return nil, ierrors.Wrap(err, "failed to write signature count")
	}
	for i, signature := range t.Signatures {
		if err := stream.Write(byteBuffer, signature.PublicKey); err != nil {
			return nil, ierrors.Wrapf(err, "failed to write public key of signature %d", i)
		}
		if err := stream.WriteBytes(byteBuffer, signature.Signature[:]); err != nil {
			return nil, ierrors.Wrapf(err, "failed to write signature %d", i)
		}
	}

	return byteBuffer.Bytes()
}

// ID returns the identifier of the transaction. Signatures are not part of the ID.
func (t *Transaction) ID() (TransactionID, error) {
	message, err := t.SigningMessage()
	if err != nil {
		return EmptyTransactionID, err
	}

	return blake2b.Sum256(message), nil
}

// Sign adds a signature of the given private key to the transaction.
func (t *Transaction) Sign(privateKey ed25519.PrivateKey) error {
	message, err := t.SigningMessage()
	if err != nil {
		return ierrors.Wrap(err, "failed to compute signing message")
	}

	t.Signatures = append(t.Signatures, &Signature{
		PublicKey: privateKey.Public(),
		Signature: privateKey.Sign(message),
	})

	return nil
}

// VerifySignatures checks all signatures and returns the identities of the signers.
func (t *Transaction) VerifySignatures() ([]Identity, error) {
	message, err := t.SigningMessage()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to compute signing message")
	}

	seen := make(map[Identity]struct{}, len(t.Signatures))
	signers := make([]Identity, 0, len(t.Signatures))
	for i, signature := range t.Signatures {
		if !ed25519.Verify(signature.PublicKey[:], message, signature.Signature[:]) {
			return nil, ierrors.Wrapf(ErrInvalidSignature, "signature %d of %s does not match", i, signature.Signer())
		}

		if _, duplicate := seen[signature.Signer()]; duplicate {
			continue
		}
		seen[signature.Signer()] = struct{}{}

		signers = append(signers, signature.Signer())
	}

	return signers, nil
}

func (t *Transaction) String() string {
	return stringify.Struct("Transaction",
		stringify.NewStructField("Nonce", t.Nonce),
		stringify.NewStructField("Instructions", len(t.Instructions)),
		stringify.NewStructField("Signatures", len(t.Signatures)),
	)
}
