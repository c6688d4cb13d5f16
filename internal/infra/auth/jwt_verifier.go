package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"poscore/internal/domain/service"
)

// jwtVerifier accepts signed approval tokens issued by an external
// authorization system. The token subject must name the claimed approver.
type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for HMAC-signed approval tokens.
func NewJWTVerifier(secret string) service.ApproverVerifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) Verify(ctx context.Context, approverID, credential string) error {
	token, err := jwt.Parse(credential, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %s", t.Method.Alg())
		}

		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return errors.Wrap(err, "parse approval token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return errors.Wrap(err, "read token subject")
	}
	if subject != approverID {
		return errors.Errorf("token was issued for %s, not %s", subject, approverID)
	}

	return nil
}
