package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretLen = 32

// JWT holds the HMAC secret that signs share owner tokens. Without a secret
// a random one is generated at start, so tokens do not survive a restart.
type JWT struct {
	Secret     string `yaml:"secret"`
	SecretFile string `yaml:"secret_file"`
}

func (j *JWT) applyEnv() error {
	if secret, ok := os.LookupEnv("JWT_SECRET"); ok {
		j.Secret = secret
	}
	if file, ok := os.LookupEnv("JWT_SECRET_FILE"); ok {
		j.SecretFile = file
	}
	if j.Secret != "" || j.SecretFile == "" {
		return nil
	}
	data, err := os.ReadFile(j.SecretFile)
	if err != nil {
		return fmt.Errorf("unable to read JWT secret file: %w", err)
	}
	j.Secret = strings.TrimSpace(string(data))
	return nil
}

func (j JWT) Configured() bool {
	return j.Secret != ""
}

// NewSigner returns a signer keyed with the configured secret, or with a
// random key when none is configured.
func (j JWT) NewSigner() (*Signer, error) {
	if !j.Configured() {
		key := make([]byte, minSecretLen)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("unable to generate JWT key: %w", err)
		}
		return NewSigner(key)
	}
	return NewSigner([]byte(j.Secret))
}

type Signer struct {
	key           []byte
	signingMethod jwt.SigningMethod
}

func NewSigner(key []byte) (*Signer, error) {
	if len(key) < minSecretLen {
		return nil, fmt.Errorf("JWT secret must be at least %d bytes, have %d", minSecretLen, len(key))
	}
	return &Signer{
		key:           key,
		signingMethod: jwt.SigningMethodHS256,
	}, nil
}

func (s *Signer) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(s.signingMethod, claims).SignedString(s.key)
}

func (s *Signer) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			return s.key, nil
		},
		jwt.WithValidMethods([]string{s.signingMethod.Alg()}),
	)
}
