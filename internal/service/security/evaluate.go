package security

import (
	"fmt"

	"github.com/jwalitptl/sso-api/internal/model"
	apperrors "github.com/jwalitptl/sso-api/pkg/errors"
)

// Evaluate checks a candidate plaintext against a policy. Rules run in
// a fixed order (length, alphabetic, numeric, non-alphanumeric) and
// the first failure short-circuits. Character classification is ASCII:
// letters a-zA-Z, digits 0-9, everything else counts as
// non-alphanumeric. That matches how historical deployments counted
// bytes and is fixed semantics, not a limitation to lift.
func Evaluate(pol model.SecurityPolicy, plaintext string) error {
	if pol.MinLength > 0 && len(plaintext) < pol.MinLength {
		return apperrors.PolicyViolation(fmt.Sprintf("at least %d characters required", pol.MinLength))
	}

	alpha, numeric, other := classify(plaintext)

	if pol.MinAlpha > 0 && alpha < pol.MinAlpha {
		return apperrors.PolicyViolation(fmt.Sprintf("at least %d alphabetic characters required", pol.MinAlpha))
	}
	if pol.MinNumeric > 0 && numeric < pol.MinNumeric {
		return apperrors.PolicyViolation(fmt.Sprintf("at least %d numeric characters required", pol.MinNumeric))
	}
	if pol.MinNonAlphaNumeric > 0 && other < pol.MinNonAlphaNumeric {
		return apperrors.PolicyViolation(fmt.Sprintf("at least %d non-alphanumeric characters required", pol.MinNonAlphaNumeric))
	}
	return nil
}

func classify(s string) (alpha, numeric, other int) {
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z'):
			alpha++
		case '0' <= b && b <= '9':
			numeric++
		default:
			other++
		}
	}
	return alpha, numeric, other
}
