package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"voltride/internal/models"
)

type snapshotClaims struct {
	Identity models.Identity `json:"identity"`
	jwt.RegisteredClaims
}

// Sealer signs the persisted identity snapshot so a hand-edited or corrupted
// local snapshot fails rehydration instead of loading as a forged session.
type Sealer struct {
	secret []byte
}

// NewSealer returns a sealer using the given HMAC secret.
func NewSealer(secret string) *Sealer {
	return &Sealer{secret: []byte(secret)}
}

// Seal encodes the identity as a signed HS256 token.
func (s *Sealer) Seal(identity models.Identity) ([]byte, error) {
	if identity.ID == 0 {
		return nil, errors.New("identity: cannot seal empty identity")
	}

	claims := snapshotClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return []byte(signed), nil
}

// Unseal verifies the token and decodes the identity.
func (s *Sealer) Unseal(data []byte) (*models.Identity, error) {
	token, err := jwt.ParseWithClaims(string(data), &snapshotClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("identity: unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*snapshotClaims)
	if !ok || !token.Valid || claims.Identity.ID == 0 {
		return nil, errors.New("identity: invalid snapshot claims")
	}
	return &claims.Identity, nil
}
