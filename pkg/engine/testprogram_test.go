package engine_test

import (
	"encoding/binary"

	"github.com/iotaledger/collection-pricing/pkg/derivation"
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
)

const (
	opCreate byte = iota
	opWrite
	opEmit
	opFail
	opCreateVault
	opInvoke
	opInvokeWithVault
	opInvokeAndIgnore
	opRequireSigner
	opStashVaultProof
	opInvokeWithStashedProof
	opTouchAndWait
)

var errTestProgram = ierrors.New("test program failed")

var vaultSeed = []byte("vault")

// testProgram executes simple operations that are encoded as an op code followed by its arguments.
type testProgram struct {
	id   model.Identity
	name string

	stash   *proofStash
	entered chan struct{}
	release chan struct{}
}

// proofStash keeps a proof beyond the invocation it was issued in. Programs can share a stash.
type proofStash struct {
	proof *engine.AuthorityProof
}

func newTestProgram(name string) *testProgram {
	return &testProgram{
		id:      model.Identity{byte(len(name)), name[0], 0xfe},
		name:    name,
		stash:   &proofStash{},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (p *testProgram) ID() model.Identity {
	return p.id
}

func (p *testProgram) Name() string {
	return p.name
}

func (p *testProgram) vault() (model.Identity, byte) {
	return derivation.MustFindProgramAddress([][]byte{vaultSeed}, p.id)
}

func (p *testProgram) signAsVault(ctx engine.Context) (*engine.AuthorityProof, error) {
	_, bump := p.vault()

	return ctx.SignAs(vaultSeed, []byte{bump})
}

func (p *testProgram) Execute(ctx engine.Context, data []byte) error {
	if len(data) == 0 {
		return errTestProgram
	}

	args := data[1:]
	switch data[0] {
	case opCreate:
		return ctx.CreateAccount(lo.Return1(model.IdentityFromBytes(args)), 8)
	case opWrite:
		return ctx.WriteAccount(lo.Return1(model.IdentityFromBytes(args)), args[model.IdentityLength:])
	case opEmit:
		return ctx.EmitEvent(lo.Return1(model.IdentityFromBytes(args)), args[model.IdentityLength:])
	case opFail:
		return errTestProgram
	case opCreateVault:
		if _, err := p.signAsVault(ctx); err != nil {
			return err
		}
		vault, _ := p.vault()

		return ctx.CreateAccount(vault, 8)
	case opInvoke:
		returnData, err := ctx.Invoke(lo.Return1(model.IdentityFromBytes(args)), args[model.IdentityLength:])
		ctx.SetReturnData(returnData)

		return err
	case opInvokeWithVault:
		proof, err := p.signAsVault(ctx)
		if err != nil {
			return err
		}

		_, err = ctx.Invoke(lo.Return1(model.IdentityFromBytes(args)), args[model.IdentityLength:], proof)

		return err
	case opInvokeAndIgnore:
		_, _ = ctx.Invoke(lo.Return1(model.IdentityFromBytes(args)), args[model.IdentityLength:])

		return nil
	case opRequireSigner:
		if !ctx.IsSigner(lo.Return1(model.IdentityFromBytes(args))) {
			return engine.ErrMissingSignature
		}
		ctx.SetReturnData([]byte("signed"))

		return nil
	case opStashVaultProof:
		proof, err := p.signAsVault(ctx)
		p.stash.proof = proof

		return err
	case opInvokeWithStashedProof:
		_, err := ctx.Invoke(lo.Return1(model.IdentityFromBytes(args)), args[model.IdentityLength:], p.stash.proof)

		return err
	case opTouchAndWait:
		if _, err := ctx.Account(lo.Return1(model.IdentityFromBytes(args))); err != nil {
			return err
		}

		close(p.entered)
		<-p.release

		return nil
	default:
		return errTestProgram
	}
}

func (p *testProgram) instruction(op byte, args ...[]byte) *model.Instruction {
	data := []byte{op}
	for _, arg := range args {
		data = append(data, arg...)
	}

	return model.NewInstruction(p.id, data)
}

func uint64Bytes(value uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, value)
}
