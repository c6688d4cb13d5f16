// Package auth provides concrete implementations of the approver-credential
// verification service.
package auth

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"poscore/internal/domain/service"
)

// directoryVerifier checks credentials against a directory of approver ids
// and bcrypt hashes. No plaintext secret ever lives in the engine.
type directoryVerifier struct {
	directory map[string]string
}

// NewDirectoryVerifier creates a verifier over the configured approver directory.
func NewDirectoryVerifier(directory map[string]string) service.ApproverVerifier {
	return &directoryVerifier{directory: directory}
}

func (v *directoryVerifier) Verify(ctx context.Context, approverID, credential string) error {
	hash, ok := v.directory[approverID]
	if !ok {
		return errors.Errorf("approver %s is not in the directory", approverID)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential)); err != nil {
		return errors.New("credential does not match")
	}

	return nil
}
