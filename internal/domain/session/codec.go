package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
)

// Codec seals sessions into an opaque cookie value using AES-GCM and opens
// them again on the next request. A decode failure means "no session" to the
// caller, never a hard error.
type Codec struct {
	key string
}

// NewCodec constructs a Codec. The key must be 16, 24, or 32 bytes.
func NewCodec(key string) (*Codec, error) {
	if _, err := newCipher(key); err != nil {
		return nil, err
	}
	return &Codec{key: key}, nil
}

// Encode serializes and encrypts a session for cookie transport.
func (c *Codec) Encode(sess Session) (string, error) {
	plaintext, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	block, err := newCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	payload := append(nonce, ciphertext...)
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// Decode decrypts and deserializes a cookie value back into a session.
func (c *Codec) Decode(encoded string) (Session, error) {
	if encoded == "" {
		return Session{}, errors.New("empty session payload")
	}
	block, err := newCipher(c.key)
	if err != nil {
		return Session{}, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return Session{}, err
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Session{}, err
	}
	nonceSize := gcm.NonceSize()
	if len(payload) < nonceSize {
		return Session{}, errors.New("invalid session payload")
	}
	nonce, ciphertext := payload[:nonceSize], payload[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(plaintext, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func newCipher(key string) (cipher.Block, error) {
	raw := []byte(key)
	switch len(raw) {
	case 16, 24, 32:
		return aes.NewCipher(raw)
	default:
		return nil, errors.New("session encryption key must be 16, 24, or 32 bytes")
	}
}
