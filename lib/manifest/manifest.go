// Package manifest serializes resolved tag helper descriptors.
//
// A manifest is a msgpack document carried as a URL-safe base64 string. When
// the encoder has a key the payload is followed by an HMAC-SHA256 signature
// ("payload.signature") so that a manifest produced at build time can be
// trusted when loaded at startup.
package manifest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Version is the manifest format version written by Encode.
const Version = 1

// Sentinel errors returned by Decode.
var (
	ErrInvalidFormat    = errors.New("manifest: invalid format")
	ErrSignatureInvalid = errors.New("manifest: signature verification failed")
)

// Entry is one registered component. Tags keeps nil entries so that a
// damaged or hand-written manifest is rejected by declaration validation
// rather than silently repaired.
type Entry struct {
	Name   string    `msgpack:"n"`
	Tags   []*string `msgpack:"t"`
	Source string    `msgpack:"s,omitempty"`
}

type document struct {
	Version int     `msgpack:"v"`
	Entries []Entry `msgpack:"e"`
}

// Encoder handles encoding and decoding of manifests.
// It supports two modes:
//   - Signed: base64 + HMAC signature, used whenever a key is set
//   - Unsigned: base64 only, for an empty key
type Encoder struct {
	key []byte
}

// NewEncoder creates a new encoder. Keys shorter than 32 bytes are
// stretched with SHA-256. A nil or empty key produces unsigned manifests.
func NewEncoder(key []byte) *Encoder {
	if len(key) == 0 {
		return &Encoder{}
	}
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}
	return &Encoder{key: key}
}

// Signed reports whether the encoder signs and verifies manifests.
func (e *Encoder) Signed() bool {
	return len(e.key) > 0
}

// Encode serializes entries into a manifest string.
func (e *Encoder) Encode(entries []Entry) (string, error) {
	packed, err := msgpack.Marshal(document{Version: Version, Entries: entries})
	if err != nil {
		return "", err
	}
	if !e.Signed() {
		return base64.RawURLEncoding.EncodeToString(packed), nil
	}
	return e.sign(packed), nil
}

// Decode verifies and deserializes a manifest string.
func (e *Encoder) Decode(encoded string) ([]Entry, error) {
	encoded = strings.TrimSpace(encoded)

	var packed []byte
	var err error
	if e.Signed() {
		packed, err = e.verify(encoded)
	} else {
		if strings.Contains(encoded, ".") {
			return nil, fmt.Errorf("%w: signed manifest requires a key", ErrSignatureInvalid)
		}
		packed, err = base64.RawURLEncoding.DecodeString(encoded)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	}
	if err != nil {
		return nil, err
	}

	var doc document
	if err := msgpack.Unmarshal(packed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, doc.Version)
	}
	return doc.Entries, nil
}

// sign creates a signed (but visible) encoding: base64.signature
func (e *Encoder) sign(data []byte) string {
	b64 := base64.RawURLEncoding.EncodeToString(data)
	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return b64 + "." + sig
}

// verify verifies and decodes a signed string
func (e *Encoder) verify(encoded string) ([]byte, error) {
	payload, signature, ok := strings.Cut(encoded, ".")
	if !ok {
		return nil, fmt.Errorf("%w: missing signature", ErrInvalidFormat)
	}

	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrSignatureInvalid
	}

	return data, nil
}
