package frost

import (
	"bytes"
	"encoding/binary"

	"github.com/f3rmion/fy-multisig/group"
	"github.com/pkg/errors"
)

const encodingVersion byte = 1

// Bytes encodes the commitment as identity || hiding || binding.
func (c *SigningCommitment) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(c.Identity)
	buf.Write(c.HidingPoint.Bytes())
	buf.Write(c.BindingPoint.Bytes())
	return buf.Bytes()
}

// Bytes encodes the signing package.
func (p *SigningPackage) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteByte(encodingVersion)
	writeBlob(&buf, p.Message)
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(p.Commitments)))
	for _, c := range p.Commitments {
		buf.Write(c.Bytes())
	}
	return buf.Bytes()
}

// Bytes encodes the share as identity || z.
func (s *SignatureShare) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(s.Identity)
	buf.Write(s.Z.Bytes())
	return buf.Bytes()
}

// Bytes encodes the signature as R || z.
func (s *Signature) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(s.R.Bytes())
	buf.Write(s.Z.Bytes())
	return buf.Bytes()
}

// Bytes encodes the key package. The identifier and verifying share are
// recomputed on decode.
func (k *KeyPackage) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteByte(encodingVersion)
	buf.Write(k.Identity)
	buf.Write(k.SigningShare.Bytes())
	buf.Write(k.VerifyingKey.Bytes())
	_ = binary.Write(&buf, binary.BigEndian, k.MinSigners)
	return buf.Bytes()
}

// Bytes encodes the public key package.
func (p *PublicKeyPackage) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteByte(encodingVersion)
	buf.Write(p.VerifyingKey.Bytes())
	_ = binary.Write(&buf, binary.BigEndian, p.MinSigners)
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(p.Identities)))
	for i, id := range p.Identities {
		buf.Write(id)
		buf.Write(p.VerifyingShares[i].Bytes())
	}
	return buf.Bytes()
}

func writeBlob(buf *bytes.Buffer, b []byte) {
	_ = binary.Write(buf, binary.BigEndian, uint32(len(b)))
	buf.Write(b)
}

// decoder reads fixed-size group elements off a byte slice. The first
// failure sticks; callers check err once at the end.
type decoder struct {
	f   *FROST
	buf []byte
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.buf) < n {
		d.err = errors.Wrap(ErrMalformed, "truncated")
		return nil
	}
	out := d.buf[:n]
	d.buf = d.buf[n:]
	return out
}

func (d *decoder) version() {
	if b := d.take(1); b != nil && b[0] != encodingVersion {
		d.err = errors.Wrapf(ErrMalformed, "version %d", b[0])
	}
}

func (d *decoder) uint16() uint16 {
	if b := d.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (d *decoder) blob() []byte {
	b := d.take(4)
	if b == nil {
		return nil
	}
	n := binary.BigEndian.Uint32(b)
	if uint64(n) > uint64(len(d.buf)) {
		d.err = errors.Wrap(ErrMalformed, "blob length")
		return nil
	}
	return append([]byte(nil), d.take(int(n))...)
}

func (d *decoder) scalar() group.Scalar {
	b := d.take(d.f.group.ScalarSize())
	if b == nil {
		return nil
	}
	s, err := d.f.group.NewScalar().SetBytes(b)
	if err != nil {
		d.err = errors.Wrap(ErrMalformed, err.Error())
		return nil
	}
	return s
}

func (d *decoder) point() group.Point {
	b := d.take(d.f.group.PointSize())
	if b == nil {
		return nil
	}
	p, err := d.f.group.NewPoint().SetBytes(b)
	if err != nil {
		d.err = errors.Wrap(ErrMalformed, err.Error())
		return nil
	}
	return p
}

func (d *decoder) identity() Identity {
	b := d.take(d.f.identitySize())
	if b == nil {
		return nil
	}
	id, err := d.f.ParseIdentity(b)
	if err != nil {
		d.err = err
		return nil
	}
	return id
}

func (d *decoder) finish() error {
	if d.err == nil && len(d.buf) != 0 {
		d.err = errors.Wrapf(ErrMalformed, "%d trailing bytes", len(d.buf))
	}
	return d.err
}

func (d *decoder) commitment() *SigningCommitment {
	c := &SigningCommitment{
		Identity:     d.identity(),
		HidingPoint:  d.point(),
		BindingPoint: d.point(),
	}
	if d.err != nil {
		return nil
	}
	return c
}

// DecodeSigningCommitment decodes a commitment produced by
// [SigningCommitment.Bytes].
func (f *FROST) DecodeSigningCommitment(b []byte) (*SigningCommitment, error) {
	d := &decoder{f: f, buf: b}
	c := d.commitment()
	if err := d.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

// DecodeSigningPackage decodes a package produced by [SigningPackage.Bytes].
func (f *FROST) DecodeSigningPackage(b []byte) (*SigningPackage, error) {
	d := &decoder{f: f, buf: b}
	d.version()
	msg := d.blob()
	n := d.uint16()
	commitments := make([]*SigningCommitment, 0, n)
	for i := 0; i < int(n) && d.err == nil; i++ {
		commitments = append(commitments, d.commitment())
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return f.NewSigningPackage(msg, commitments)
}

// DecodeSignatureShare decodes a share produced by [SignatureShare.Bytes].
func (f *FROST) DecodeSignatureShare(b []byte) (*SignatureShare, error) {
	d := &decoder{f: f, buf: b}
	s := &SignatureShare{Identity: d.identity(), Z: d.scalar()}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeSignature decodes a signature produced by [Signature.Bytes].
func (f *FROST) DecodeSignature(b []byte) (*Signature, error) {
	d := &decoder{f: f, buf: b}
	s := &Signature{R: d.point(), Z: d.scalar()}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeKeyPackage decodes a key package produced by [KeyPackage.Bytes].
func (f *FROST) DecodeKeyPackage(b []byte) (*KeyPackage, error) {
	d := &decoder{f: f, buf: b}
	d.version()
	id := d.identity()
	share := d.scalar()
	vk := d.point()
	minSigners := d.uint16()
	if err := d.finish(); err != nil {
		return nil, err
	}
	if minSigners < 2 {
		return nil, errors.Wrapf(ErrMalformed, "min signers %d", minSigners)
	}
	return &KeyPackage{
		Identity:       id,
		Identifier:     f.Identifier(id),
		SigningShare:   share,
		VerifyingShare: f.group.NewPoint().ScalarMult(share, f.group.Generator()),
		VerifyingKey:   vk,
		MinSigners:     minSigners,
	}, nil
}

// DecodePublicKeyPackage decodes a package produced by
// [PublicKeyPackage.Bytes].
func (f *FROST) DecodePublicKeyPackage(b []byte) (*PublicKeyPackage, error) {
	d := &decoder{f: f, buf: b}
	d.version()
	p := &PublicKeyPackage{VerifyingKey: d.point(), MinSigners: d.uint16()}
	n := d.uint16()
	for i := 0; i < int(n) && d.err == nil; i++ {
		id := d.identity()
		share := d.point()
		p.Identities = append(p.Identities, id)
		p.VerifyingShares = append(p.VerifyingShares, share)
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	if p.MinSigners < 2 || int(p.MinSigners) > len(p.Identities) {
		return nil, errors.Wrapf(ErrMalformed, "min signers %d of %d", p.MinSigners, len(p.Identities))
	}
	if err := checkSigners(p.Identities); err != nil {
		return nil, err
	}
	return p, nil
}
