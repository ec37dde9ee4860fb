package integrity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/jgram/internal/core/assessment"
	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
)

// Defaults for the registered claims of a result token.
const (
	DefaultIssuer  = "BU-MET"
	DefaultSubject = "JGram"
	DefaultTokenID = "1"
)

const (
	claimTotalCheckpoint = "TotalCheckpoint"
	claimOverallGrade    = "OverallGrade"
)

// TokenConfig holds the signing secret and the registered claims written to
// and expected on every token.
type TokenConfig struct {
	Secret  string
	Issuer  string
	Subject string
	ID      string
	Now     func() time.Time
}

func (c TokenConfig) withDefaults() TokenConfig {
	if c.Issuer == "" {
		c.Issuer = DefaultIssuer
	}
	if c.Subject == "" {
		c.Subject = DefaultSubject
	}
	if c.ID == "" {
		c.ID = DefaultTokenID
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

func gradeClaim(id int) string    { return strconv.Itoa(id) + "-Grade" }
func weightClaim(id int) string   { return strconv.Itoa(id) + "-Weight" }
func feedbackClaim(id int) string { return strconv.Itoa(id) + "-Feedback" }

// Sign serializes result into a signed token.
func Sign(result assessment.Result, cfg TokenConfig) (string, error) {
	if cfg.Secret == "" {
		return "", apperrors.New(apperrors.CodeInvalidArgument, "token secret is required")
	}
	cfg = cfg.withDefaults()

	claims := jwt.MapClaims{
		"iss":                cfg.Issuer,
		"sub":                cfg.Subject,
		"jti":                cfg.ID,
		"iat":                jwt.NewNumericDate(cfg.Now()),
		claimTotalCheckpoint: result.Len(),
		claimOverallGrade:    result.OverallGrade,
	}
	for id, c := range result.All() {
		// JSON encoding would replace invalid bytes and the token could
		// never decode back to result.
		if !utf8.ValidString(c.Feedback) {
			return "", apperrors.WithMetadata(apperrors.CodeInvalidValue,
				fmt.Sprintf("checkpoint %d: feedback is not valid UTF-8", id),
				map[string]string{"Sequence": strconv.Itoa(id), "Field": "feedback"})
		}
		claims[gradeClaim(id)] = c.Grade
		claims[weightClaim(id)] = c.Weight
		claims[feedbackClaim(id)] = c.Feedback
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign result token: %w", err)
	}
	return signed, nil
}

// Decode verifies token and rebuilds the Result it carries.
func Decode(token string, cfg TokenConfig) (assessment.Result, error) {
	if cfg.Secret == "" {
		return assessment.Result{}, apperrors.New(apperrors.CodeInvalidArgument, "token secret is required")
	}
	cfg = cfg.withDefaults()

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithSubject(cfg.Subject),
		jwt.WithStrictDecoding(),
		jwt.WithJSONNumber(),
	)
	if err != nil {
		return assessment.Result{}, mapJWTError(err)
	}

	total, err := intClaim(claims, claimTotalCheckpoint)
	if err != nil {
		return assessment.Result{}, err
	}
	if total < 0 {
		return assessment.Result{}, claimError(claimTotalCheckpoint, "is negative")
	}

	var result assessment.Result
	for id := 1; id <= total; id++ {
		grade, err := intClaim(claims, gradeClaim(id))
		if err != nil {
			return assessment.Result{}, err
		}
		weight, err := intClaim(claims, weightClaim(id))
		if err != nil {
			return assessment.Result{}, err
		}
		feedback, ok := claims[feedbackClaim(id)].(string)
		if !ok {
			return assessment.Result{}, claimError(feedbackClaim(id), "is missing")
		}
		result.Add(assessment.Checkpoint{Weight: weight, Grade: grade, Feedback: feedback})
	}

	overall, err := numberClaim(claims, claimOverallGrade)
	if err != nil {
		return assessment.Result{}, err
	}
	result.OverallGrade, err = overall.Float64()
	if err != nil {
		return assessment.Result{}, claimError(claimOverallGrade, "is not a number")
	}
	return result, nil
}

func numberClaim(claims jwt.MapClaims, name string) (json.Number, error) {
	value, ok := claims[name]
	if !ok {
		return "", claimError(name, "is missing")
	}
	number, ok := value.(json.Number)
	if !ok {
		return "", claimError(name, "is not a number")
	}
	return number, nil
}

func intClaim(claims jwt.MapClaims, name string) (int, error) {
	number, err := numberClaim(claims, name)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(number.String())
	if err != nil {
		return 0, claimError(name, "is not an integer")
	}
	return value, nil
}

func claimError(name, reason string) error {
	return apperrors.WithMetadata(apperrors.CodeSecurityFailure,
		fmt.Sprintf("result token claim %s %s", name, reason),
		map[string]string{"Field": name, "Reason": reason})
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.WrapWithMetadata(apperrors.CodeSecurityFailure, "result token signature is invalid",
			map[string]string{"Reason": "signature"}, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidSubject):
		return apperrors.WrapWithMetadata(apperrors.CodeSecurityFailure, "result token was issued for another grader",
			map[string]string{"Reason": "issuer"}, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return apperrors.WrapWithMetadata(apperrors.CodeSecurityFailure, "result token is malformed",
			map[string]string{"Reason": "malformed"}, err)
	default:
		return apperrors.WrapWithMetadata(apperrors.CodeSecurityFailure, "result token is invalid",
			map[string]string{"Reason": strings.TrimSpace(err.Error())}, err)
	}
}
