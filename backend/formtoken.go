package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Form names a token can be issued for.
const (
	formContact      = "contact"
	formRegistration = "registration"
)

const formTokenHeader = "X-Form-Token"

var errInvalidFormToken = errors.New("invalid form token")

// formTokens signs short-lived tokens that a form submission must echo back,
// so posts only come from pages this site rendered.
type formTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type formClaims struct {
	Form string `json:"form"`
	jwt.RegisteredClaims
}

func newFormTokens(secret string, ttl time.Duration) *formTokens {
	return &formTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (ft *formTokens) Issue(form string) (string, error) {
	now := ft.now()
	claims := formClaims{
		Form: form,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ft.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ft.secret)
}

// Verify checks the signature, the expiry and that the token was issued for form.
func (ft *formTokens) Verify(tokenStr, form string) error {
	if tokenStr == "" {
		return fmt.Errorf("%w: missing", errInvalidFormToken)
	}
	var claims formClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return ft.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(ft.now))
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidFormToken, err)
	}
	if claims.Form != form {
		return fmt.Errorf("%w: issued for %q", errInvalidFormToken, claims.Form)
	}
	return nil
}

// GET /api/form-token?form=contact|registration
func formTokenHandler(ft *formTokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := r.URL.Query().Get("form")
		if form != formContact && form != formRegistration {
			writeError(w, http.StatusBadRequest, "unknown_form")
			return
		}
		token, err := ft.Issue(form)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token_generation_error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"token":      token,
			"form":       form,
			"expires_in": int(ft.ttl.Seconds()),
		})
	}
}
