package command

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"sort"
)

// KeyPair is one peer's per-match signing identity (spec.md §6 "Command
// signing (optional, anti-tamper)"): ECDSA over P-256, SHA-256 digest.
type KeyPair struct {
	Private *ecdsa.PrivateKey
}

// GenerateKeyPair creates a new per-match key pair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Private: priv}, nil
}

// PublicKey is the wire-exchangeable public half, raw X/Y coordinates.
type PublicKey struct {
	X, Y []byte
}

func (kp *KeyPair) PublicKey() PublicKey {
	return PublicKey{X: kp.Private.PublicKey.X.Bytes(), Y: kp.Private.PublicKey.Y.Bytes()}
}

func (pk PublicKey) toECDSA() *ecdsa.PublicKey {
	x := new(big.Int).SetBytes(pk.X)
	y := new(big.Int).SetBytes(pk.Y)
	return &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}
}

// Canonicalize deep-key-sorts a command's payload for signing, matching
// spec.md §6 "canonicalized by deep key-sorting, JSON-serialized" — signing
// must produce the same bytes on every peer regardless of map/struct field
// iteration order.
func Canonicalize(cmd Command) ([]byte, error) {
	generic, err := toGenericJSON(cmd)
	if err != nil {
		return nil, err
	}
	sorted := sortKeysDeep(generic)
	return json.Marshal(sorted)
}

func toGenericJSON(cmd Command) (any, error) {
	raw, err := json.Marshal(cmd)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

// sortKeysDeep walks v and rebuilds every map[string]any node, recursing
// into nested maps and slices. The rebuilt nodes are still maps, so the
// fixed key order of the marshaled output comes from encoding/json, which
// sorts map[string]any keys when marshaling.
func sortKeysDeep(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make(map[string]any, len(t))
		for _, k := range keys {
			ordered[k] = sortKeysDeep(t[k])
		}
		return ordered
	case []any:
		for i, elem := range t {
			t[i] = sortKeysDeep(elem)
		}
		return t
	default:
		return v
	}
}

// Sign produces a base64-encoded ECDSA signature over the SHA-256 digest of
// the command's canonical form.
func Sign(kp *KeyPair, cmd Command) (string, error) {
	canon, err := Canonicalize(cmd)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(canon)
	sig, err := ecdsa.SignASN1(rand.Reader, kp.Private, digest[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify checks a base64 signature against the command's canonical digest
// using the signer's known public key (spec.md §6 "Receivers verify with
// the peer's known public key before queueing").
func Verify(pub PublicKey, cmd Command, signatureB64 string) bool {
	sigBytes, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return false
	}
	canon, err := Canonicalize(cmd)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(canon)
	return ecdsa.VerifyASN1(pub.toECDSA(), digest[:], sigBytes)
}

// SignedMode wraps a key registry and enforces spec.md §6: "Missing or
// invalid signatures cause command rejection in signed-mode matches."
type SignedMode struct {
	PeerKeys map[uint8]PublicKey // player id -> public key, exchanged at connection setup
}

// SignatureValidator returns an AuthParams.SignatureValid closure bound to
// this registry and a signature lookup.
func (s *SignedMode) SignatureValidator(signatures map[uint64]string, cmdID func(Command) uint64) func(Command) bool {
	return func(cmd Command) bool {
		pub, ok := s.PeerKeys[cmd.PlayerID]
		if !ok {
			return false
		}
		sig, ok := signatures[cmdID(cmd)]
		if !ok {
			return false
		}
		return Verify(pub, cmd, sig)
	}
}
