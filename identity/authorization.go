package identity

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// NonceSize is the length of the random nonce bound into every
// authorization.
const NonceSize = 16

var (
	ErrBadSignature = errors.New("signature does not verify")
	ErrStale        = errors.New("authorization outside of accepted time window")
)

// Authorization is a signature by Signer over one operation request.
// Domain names the deployment the request is meant for, so the same body
// cannot be presented to another one.
type Authorization struct {
	Domain    string
	Signer    Identity
	SignedAt  time.Time
	Nonce     []byte
	Signature []byte
}

// Message is the canonical byte string that gets signed: domain, op,
// signer, unix seconds, hex nonce and payload, newline separated.
func Message(domain, op string, signer Identity, at time.Time, nonce, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(domain)
	buf.WriteByte('\n')
	buf.WriteString(op)
	buf.WriteByte('\n')
	buf.WriteString(signer.String())
	buf.WriteByte('\n')
	buf.WriteString(strconv.FormatInt(at.Unix(), 10))
	buf.WriteByte('\n')
	buf.WriteString(hex.EncodeToString(nonce))
	buf.WriteByte('\n')
	buf.Write(payload)
	return buf.Bytes()
}

// Authorize signs op with a fresh nonce.
func (k Keypair) Authorize(domain, op string, payload []byte, at time.Time) (Authorization, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return Authorization{}, errors.Wrap(err, "read nonce")
	}
	at = time.Unix(at.Unix(), 0).UTC()
	return Authorization{
		Domain:    domain,
		Signer:    k.Identity,
		SignedAt:  at,
		Nonce:     nonce,
		Signature: ed25519.Sign(k.Private, Message(domain, op, k.Identity, at, nonce, payload)),
	}, nil
}

// Verify checks the signature and that SignedAt lies within window of now
// in either direction. A zero window disables the time check. Verify is
// stateless; rejecting a second use of the same authorization is up to
// the caller.
func (a Authorization) Verify(op string, payload []byte, now time.Time, window time.Duration) error {
	if len(a.Signature) != ed25519.SignatureSize || len(a.Nonce) != NonceSize {
		return ErrBadSignature
	}
	msg := Message(a.Domain, op, a.Signer, a.SignedAt, a.Nonce, payload)
	if !ed25519.Verify(a.Signer.PublicKey(), msg, a.Signature) {
		return ErrBadSignature
	}
	if window > 0 {
		skew := now.Sub(a.SignedAt)
		if skew > window || skew < -window {
			return errors.Wrapf(ErrStale, "signed %s ago", skew.Truncate(time.Second))
		}
	}
	return nil
}
