package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/liangxing/matchsite/backend/directory"
)

// criteriaFromQuery reads the directory controls from query parameters.
// Missing parameters keep their default.
func criteriaFromQuery(q url.Values) (directory.Criteria, error) {
	c := directory.DefaultCriteria()
	if raw := q.Get("gender"); raw != "" {
		g, ok := directory.ParseGender(strings.TrimSpace(raw))
		if !ok {
			return c, fmt.Errorf("%w: unknown gender %q", directory.ErrInvalidCriteria, raw)
		}
		c.Gender = g
	}
	for key, dst := range map[string]*int{
		"age_min":    &c.Age.Min,
		"age_max":    &c.Age.Max,
		"height_min": &c.Height.Min,
		"height_max": &c.Height.Max,
	} {
		if err := intParam(q, key, dst); err != nil {
			return c, err
		}
	}
	c.Education = q.Get("education")
	c.Income = q.Get("income")
	c.Location = q.Get("location")
	c.Search = q.Get("q")

	c = c.Normalize()
	return c, c.Validate()
}

func intParam(q url.Values, key string, dst *int) error {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %s is not a number", directory.ErrInvalidCriteria, key)
	}
	*dst = n
	return nil
}

func pageFromQuery(q url.Values) int {
	p, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		return 1
	}
	return p
}

// criteriaQuery is the inverse of criteriaFromQuery. Defaults are left out
// so links stay short.
func criteriaQuery(c directory.Criteria, page int) url.Values {
	q := url.Values{}
	def := directory.DefaultCriteria()
	if c.Gender != directory.GenderAny {
		q.Set("gender", string(c.Gender))
	}
	if c.Age.Min != def.Age.Min {
		q.Set("age_min", strconv.Itoa(c.Age.Min))
	}
	if c.Age.Max != def.Age.Max {
		q.Set("age_max", strconv.Itoa(c.Age.Max))
	}
	if c.Height.Min != def.Height.Min {
		q.Set("height_min", strconv.Itoa(c.Height.Min))
	}
	if c.Height.Max != def.Height.Max {
		q.Set("height_max", strconv.Itoa(c.Height.Max))
	}
	if c.Education != "" {
		q.Set("education", c.Education)
	}
	if c.Income != "" {
		q.Set("income", c.Income)
	}
	if c.Location != "" {
		q.Set("location", c.Location)
	}
	if c.Search != "" {
		q.Set("q", c.Search)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

// GET /api/members
func membersHandler(cat *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		c, err := criteriaFromQuery(q)
		if err != nil {
			hlog.FromRequest(r).Debug().Err(err).Msg("Rejected directory criteria")
			writeError(w, http.StatusBadRequest, "invalid_criteria")
			return
		}
		writeJSON(w, http.StatusOK, directory.Query(cat.All(), c, pageFromQuery(q)))
	}
}

type choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func choices(values []string) []choice {
	out := make([]choice, 0, len(values)+1)
	out = append(out, choice{Value: "", Label: directory.Unrestricted})
	for _, v := range values {
		out = append(out, choice{Value: v, Label: v})
	}
	return out
}

func genderChoices() []choice {
	return []choice{
		{Value: "all", Label: directory.GenderAny.Label()},
		{Value: string(directory.Female), Label: directory.Female.Label()},
		{Value: string(directory.Male), Label: directory.Male.Label()},
	}
}

// GET /api/members/options
func memberOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"gender":        genderChoices(),
			"education":     choices(directory.Educations),
			"income":        choices(directory.Incomes),
			"location":      choices(directory.Locations),
			"age_bounds":    directory.AgeBounds,
			"height_bounds": directory.HeightBounds,
			"defaults":      directory.DefaultCriteria(),
			"page_size":     directory.PageSize,
		})
	}
}

// GET /api/members/{id}
func memberDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || id <= 0 {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		loaders := GetDataLoadersFromContext(r.Context())
		if loaders == nil {
			writeError(w, http.StatusInternalServerError, "loader_unavailable")
			return
		}
		m, err := loaders.MemberLoader.Load(r.Context(), id)()
		if errors.Is(err, errMemberNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, "load_error")
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// GET /api/members/batch?ids=1,2,3
func memberBatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := parseIDs(r.URL.Query().Get("ids"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_ids")
			return
		}
		if len(ids) > 50 {
			writeError(w, http.StatusBadRequest, "too_many_ids")
			return
		}
		loaders := GetDataLoadersFromContext(r.Context())
		if loaders == nil {
			writeError(w, http.StatusInternalServerError, "loader_unavailable")
			return
		}

		members := make([]*directory.Candidate, 0, len(ids))
		missing := make([]int, 0)
		found, errs := loaders.MemberLoader.LoadMany(r.Context(), ids)()
		for i, id := range ids {
			if i < len(errs) && errs[i] != nil {
				if !errors.Is(errs[i], errMemberNotFound) {
					writeError(w, http.StatusInternalServerError, "load_error")
					return
				}
				missing = append(missing, id)
				continue
			}
			members = append(members, found[i])
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"members": members,
			"missing": missing,
		})
	}
}
