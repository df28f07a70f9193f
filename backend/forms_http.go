package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/liangxing/matchsite/backend/directory"
	"github.com/liangxing/matchsite/backend/forms"
)

// formService validates and submits both site forms. The JSON API and the
// HTML form posts share it.
type formService struct {
	tokens *formTokens
	submit *submitter
}

// submitContact returns forms.FieldErrors for invalid input and the context
// error when the caller gave up before the submission finished.
func (fs *formService) submitContact(ctx context.Context, log *zerolog.Logger, f forms.ContactForm) (Receipt, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Receipt{}, err
	}
	receipt, err := fs.submit.Submit(ctx, forms.ContactNotice)
	if err != nil {
		log.Warn().Err(err).Str("phone", forms.Fingerprint(f.Phone)).Msg("Contact submission abandoned")
		return Receipt{}, err
	}
	log.Info().
		Str("receipt", receipt.ID).
		Str("phone", forms.Fingerprint(f.Phone)).
		Int("message_len", len([]rune(f.Message))).
		Msg("Contact inquiry received")
	return receipt, nil
}

func (fs *formService) submitRegistration(ctx context.Context, log *zerolog.Logger, f forms.RegistrationForm) (Receipt, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Receipt{}, err
	}
	receipt, err := fs.submit.Submit(ctx, f.Notice())
	if err != nil {
		log.Warn().Err(err).Str("contact", forms.Fingerprint(f.Contact)).Msg("Registration submission abandoned")
		return Receipt{}, err
	}
	log.Info().
		Str("receipt", receipt.ID).
		Str("gender", string(f.Gender)).
		Str("contact", forms.Fingerprint(f.Contact)).
		Msg("Registration received")
	return receipt, nil
}

// registrationGender reads the {gender} tab from the route. Only the two
// concrete genders have a form.
func registrationGender(r *http.Request) (directory.Gender, bool) {
	g, ok := directory.ParseGender(chi.URLParam(r, "gender"))
	if !ok || g == directory.GenderAny {
		return directory.GenderAny, false
	}
	return g, true
}

// writeSubmitResult maps a submission outcome onto the JSON API.
func writeSubmitResult(w http.ResponseWriter, receipt Receipt, err error) {
	var fe forms.FieldErrors
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, receipt)
	case errors.As(err, &fe):
		writeValidation(w, fe)
	default:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":  "submission_failed",
			"notice": forms.FailureNotice,
		})
	}
}

// POST /api/contact
func contactAPIHandler(fs *formService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := hlog.FromRequest(r)
		if err := fs.tokens.Verify(r.Header.Get(formTokenHeader), formContact); err != nil {
			log.Debug().Err(err).Msg("Contact form token rejected")
			writeError(w, http.StatusForbidden, "invalid_form_token")
			return
		}

		var f forms.ContactForm
		if err := decodeJSON(r, &f); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		receipt, err := fs.submitContact(r.Context(), log, f)
		writeSubmitResult(w, receipt, err)
	}
}

// POST /api/registration/{gender}
func registrationAPIHandler(fs *formService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := hlog.FromRequest(r)
		gender, ok := registrationGender(r)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		if err := fs.tokens.Verify(r.Header.Get(formTokenHeader), formRegistration); err != nil {
			log.Debug().Err(err).Msg("Registration form token rejected")
			writeError(w, http.StatusForbidden, "invalid_form_token")
			return
		}

		var f forms.RegistrationForm
		if err := decodeJSON(r, &f); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		f.Gender = gender
		receipt, err := fs.submitRegistration(r.Context(), log, f)
		writeSubmitResult(w, receipt, err)
	}
}

// GET /api/registration/options
func registrationOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"education": forms.EducationOptions,
			"income":    forms.IncomeOptions,
		})
	}
}
