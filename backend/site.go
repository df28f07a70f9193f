package main

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/liangxing/matchsite/backend/content"
	"github.com/liangxing/matchsite/backend/directory"
	"github.com/liangxing/matchsite/backend/forms"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	maxFormBody    = 16 << 10
	formTokenField = "form_token"
)

type selectOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
	// Gap marks an ellipsis between non-adjacent page numbers.
	Gap bool
}

type hiddenField struct {
	Name  string
	Value string
}

type tabLink struct {
	Label  string
	URL    string
	Active bool
}

type directoryData struct {
	View         directory.View
	Genders      []tabLink
	Educations   []selectOption
	Incomes      []selectOption
	Locations    []selectOption
	AgeBounds    directory.Range
	HeightBounds directory.Range
	Pages        []pageLink
	// Hidden carries the non-directory page state through the filter form.
	Hidden       []hiddenField
	PrevURL      string
	NextURL      string
	ResetURL     string
	// Invalid is set when the query could not be applied and the defaults
	// are shown instead.
	Invalid string
}

type storyData struct {
	Current content.Story
	Index   int
	Count   int
	PrevURL string
	NextURL string
	Dots    []tabLink
}

type registrationData struct {
	Gender     directory.Gender
	Action     string
	Tabs       []tabLink
	Form       forms.RegistrationForm
	Educations []selectOption
	Incomes    []selectOption
	Errors     forms.FieldErrors
	Notice     string
	Failure    string
	Token      string
}

type contactData struct {
	Form    forms.ContactForm
	Errors  forms.FieldErrors
	Notice  string
	Failure string
	Token   string
}

type pageData struct {
	Site         *content.Site
	Directory    directoryData
	Story        storyData
	Registration registrationData
	Contact      contactData
}

// pageState is everything the page URL carries.
type pageState struct {
	criteria directory.Criteria
	page     int
	story    int
	reg      directory.Gender
}

func (s pageState) url(anchor string) string {
	q := criteriaQuery(s.criteria, s.page)
	if s.story > 0 {
		q.Set("story", strconv.Itoa(s.story))
	}
	if s.reg != directory.Female {
		q.Set("reg", string(s.reg))
	}
	u := "/"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	if anchor != "" {
		u += "#" + anchor
	}
	return u
}

type siteHandler struct {
	site  *content.Site
	cat   *Catalog
	forms *formService
	tmpl  *template.Template
}

func newSiteHandler(site *content.Site, cat *Catalog, fs *formService) (*siteHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &siteHandler{site: site, cat: cat, forms: fs, tmpl: tmpl}, nil
}

// stateFromQuery never fails: anything unusable falls back to the default
// and the reason is returned for display.
func (h *siteHandler) stateFromQuery(q url.Values) (pageState, string) {
	st := pageState{criteria: directory.DefaultCriteria(), page: pageFromQuery(q), reg: directory.Female}
	var invalid string
	if c, err := criteriaFromQuery(q); err != nil {
		invalid = "筛选条件无效，已显示全部嘉宾"
		st.page = 1
	} else {
		st.criteria = c
	}
	if n, err := strconv.Atoi(q.Get("story")); err == nil {
		st.story = h.site.Carousel().Go(n)
	}
	if g, ok := directory.ParseGender(q.Get("reg")); ok && g != directory.GenderAny {
		st.reg = g
	}
	return st, invalid
}

func (h *siteHandler) build(st pageState, invalid string) (*pageData, error) {
	view := directory.Query(h.cat.All(), st.criteria, st.page)
	st.page = view.Page

	contactToken, err := h.forms.tokens.Issue(formContact)
	if err != nil {
		return nil, err
	}
	regToken, err := h.forms.tokens.Issue(formRegistration)
	if err != nil {
		return nil, err
	}

	return &pageData{
		Site:      h.site,
		Directory: directorySection(st, view, invalid),
		Story:     h.storySection(st),
		Registration: registrationData{
			Gender:     st.reg,
			Action:     "/register/" + string(st.reg) + "#registration",
			Tabs:       registrationTabs(st),
			Form:       forms.RegistrationForm{Gender: st.reg},
			Educations: formOptions(forms.EducationOptions, ""),
			Incomes:    formOptions(forms.IncomeOptions, ""),
			Token:      regToken,
		},
		Contact: contactData{Token: contactToken},
	}, nil
}

func directorySection(st pageState, view directory.View, invalid string) directoryData {
	d := directoryData{
		View:         view,
		Educations:   criteriaOptions(directory.Educations, st.criteria.Education),
		Incomes:      criteriaOptions(directory.Incomes, st.criteria.Income),
		Locations:    criteriaOptions(directory.Locations, st.criteria.Location),
		AgeBounds:    directory.AgeBounds,
		HeightBounds: directory.HeightBounds,
		Invalid:      invalid,
	}

	if st.story > 0 {
		d.Hidden = append(d.Hidden, hiddenField{Name: "story", Value: strconv.Itoa(st.story)})
	}
	if st.reg != directory.Female {
		d.Hidden = append(d.Hidden, hiddenField{Name: "reg", Value: string(st.reg)})
	}

	for _, g := range []directory.Gender{directory.GenderAny, directory.Female, directory.Male} {
		next := st
		next.criteria.Gender = g
		next.page = 1
		d.Genders = append(d.Genders, tabLink{Label: g.Label(), URL: next.url("members"), Active: st.criteria.Gender == g})
	}

	prev := 0
	for _, n := range view.Pages {
		if prev != 0 && n > prev+1 {
			d.Pages = append(d.Pages, pageLink{Gap: true})
		}
		to := st
		to.page = n
		d.Pages = append(d.Pages, pageLink{Number: n, URL: to.url("members"), Current: n == view.Page})
		prev = n
	}
	if view.HasPrev {
		to := st
		to.page = view.Page - 1
		d.PrevURL = to.url("members")
	}
	if view.HasNext {
		to := st
		to.page = view.Page + 1
		d.NextURL = to.url("members")
	}

	reset := st
	reset.criteria = directory.DefaultCriteria()
	reset.page = 1
	d.ResetURL = reset.url("members")
	return d
}

func (h *siteHandler) storySection(st pageState) storyData {
	car := h.site.Carousel()
	d := storyData{
		Current: h.site.Stories[st.story],
		Index:   st.story,
		Count:   car.Len,
	}
	prev, next := st, st
	prev.story = car.Prev(st.story)
	next.story = car.Next(st.story)
	d.PrevURL = prev.url("success-stories")
	d.NextURL = next.url("success-stories")
	for i := 0; i < car.Len; i++ {
		to := st
		to.story = i
		d.Dots = append(d.Dots, tabLink{Label: strconv.Itoa(i + 1), URL: to.url("success-stories"), Active: i == st.story})
	}
	return d
}

func registrationTabs(st pageState) []tabLink {
	tabs := make([]tabLink, 0, 2)
	for _, g := range []directory.Gender{directory.Female, directory.Male} {
		to := st
		to.reg = g
		tabs = append(tabs, tabLink{Label: g.Label() + "注册", URL: to.url("registration"), Active: st.reg == g})
	}
	return tabs
}

// criteriaOptions prepends the 不限 entry, which carries the empty value.
func criteriaOptions(values []string, selected string) []selectOption {
	out := make([]selectOption, 0, len(values)+1)
	out = append(out, selectOption{Value: "", Label: directory.Unrestricted, Selected: selected == ""})
	for _, v := range values {
		out = append(out, selectOption{Value: v, Label: v, Selected: v == selected})
	}
	return out
}

func formOptions(options []forms.Option, selected string) []selectOption {
	out := make([]selectOption, 0, len(options))
	for _, o := range options {
		out = append(out, selectOption{Value: o.Value, Label: o.Label, Selected: o.Value == selected})
	}
	return out
}

func (h *siteHandler) render(w http.ResponseWriter, r *http.Request, status int, data *pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Rendering page failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// GET /
func (h *siteHandler) index(w http.ResponseWriter, r *http.Request) {
	st, invalid := h.stateFromQuery(r.URL.Query())
	data, err := h.build(st, invalid)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Building page failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, data)
}

// submitStatus maps a submission outcome onto the notice fields of a form
// section and the response status.
func submitStatus(err error, receipt Receipt) (status int, fe forms.FieldErrors, notice, failure string) {
	switch {
	case err == nil:
		return http.StatusOK, nil, receipt.Notice, ""
	case errors.As(err, &fe):
		return http.StatusUnprocessableEntity, fe, "", ""
	default:
		return http.StatusServiceUnavailable, nil, "", forms.FailureNotice
	}
}

// POST /contact
func (h *siteHandler) contact(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	st, invalid := h.stateFromQuery(r.URL.Query())
	data, err := h.build(st, invalid)
	if err != nil {
		log.Error().Err(err).Msg("Building page failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.forms.tokens.Verify(r.PostForm.Get(formTokenField), formContact); err != nil {
		log.Debug().Err(err).Msg("Contact form token rejected")
		data.Contact.Failure = forms.FailureNotice
		h.render(w, r, http.StatusForbidden, data)
		return
	}

	f := forms.ContactForm{
		Name:    r.PostForm.Get("name"),
		Phone:   r.PostForm.Get("phone"),
		Message: r.PostForm.Get("message"),
	}
	receipt, err := h.forms.submitContact(r.Context(), log, f)
	status, fe, notice, failure := submitStatus(err, receipt)
	data.Contact.Errors, data.Contact.Notice, data.Contact.Failure = fe, notice, failure
	if err != nil {
		// keep what the visitor typed
		data.Contact.Form = f
	}
	h.render(w, r, status, data)
}

// POST /register/{gender}
func (h *siteHandler) register(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	gender, ok := registrationGender(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	st, invalid := h.stateFromQuery(r.URL.Query())
	st.reg = gender
	data, err := h.build(st, invalid)
	if err != nil {
		log.Error().Err(err).Msg("Building page failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.forms.tokens.Verify(r.PostForm.Get(formTokenField), formRegistration); err != nil {
		log.Debug().Err(err).Msg("Registration form token rejected")
		data.Registration.Failure = forms.FailureNotice
		h.render(w, r, http.StatusForbidden, data)
		return
	}

	f := registrationFromForm(r.PostForm, gender)
	receipt, err := h.forms.submitRegistration(r.Context(), log, f)
	status, fe, notice, failure := submitStatus(err, receipt)
	reg := &data.Registration
	reg.Errors, reg.Notice, reg.Failure = fe, notice, failure
	if err != nil {
		reg.Form = f
		reg.Educations = formOptions(forms.EducationOptions, f.Education)
		reg.Incomes = formOptions(forms.IncomeOptions, f.Income)
	}
	h.render(w, r, status, data)
}

// registrationFromForm reads a posted registration. Unparseable numbers are
// left at zero so validation reports them.
func registrationFromForm(v url.Values, gender directory.Gender) forms.RegistrationForm {
	age, _ := strconv.Atoi(strings.TrimSpace(v.Get("age")))
	height, _ := strconv.Atoi(strings.TrimSpace(v.Get("height")))
	return forms.RegistrationForm{
		Name:         v.Get("name"),
		Gender:       gender,
		Age:          age,
		Height:       height,
		Education:    v.Get("education"),
		Occupation:   v.Get("occupation"),
		Income:       v.Get("income"),
		Description:  v.Get("description"),
		Requirements: v.Get("requirements"),
		Contact:      v.Get("contact"),
	}
}

// GET /api/stories
func storiesHandler(site *content.Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, site.Stories)
	}
}

// GET /api/site
func siteContentHandler(site *content.Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, site)
	}
}
