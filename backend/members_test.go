package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liangxing/matchsite/backend/directory"
)

func getView(t *testing.T, base, query string) directory.View {
	t.Helper()
	resp, err := http.Get(base + "/api/members?" + query)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var v directory.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func ids(items []directory.Candidate) []int {
	out := make([]int, 0, len(items))
	for _, c := range items {
		out = append(out, c.ID)
	}
	return out
}

func TestCriteriaFromQuery(t *testing.T) {
	t.Run("Empty query gives defaults", func(t *testing.T) {
		c, err := criteriaFromQuery(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, directory.DefaultCriteria(), c)
	})

	t.Run("All parameters", func(t *testing.T) {
		q := url.Values{
			"gender":     {"female"},
			"age_min":    {"25"},
			"age_max":    {"30"},
			"height_min": {"160"},
			"height_max": {"170"},
			"education":  {"本科"},
			"income":     {"不限"},
			"location":   {"上海"},
			"q":          {"设计"},
		}
		c, err := criteriaFromQuery(q)
		require.NoError(t, err)
		assert.Equal(t, directory.Female, c.Gender)
		assert.Equal(t, directory.Range{Min: 25, Max: 30}, c.Age)
		assert.Equal(t, directory.Range{Min: 160, Max: 170}, c.Height)
		assert.Equal(t, "本科", c.Education)
		assert.Empty(t, c.Income)
		assert.Equal(t, "上海", c.Location)
		assert.Equal(t, "设计", c.Search)
	})

	t.Run("Rejects bad input", func(t *testing.T) {
		for _, q := range []url.Values{
			{"gender": {"other"}},
			{"age_min": {"abc"}},
			{"age_min": {"40"}, "age_max": {"30"}},
			{"height_max": {"250"}},
			{"location": {"纽约"}},
		} {
			_, err := criteriaFromQuery(q)
			assert.ErrorIs(t, err, directory.ErrInvalidCriteria, "query %v", q)
		}
	})

	t.Run("Round trip through criteriaQuery", func(t *testing.T) {
		c := directory.DefaultCriteria()
		c.Gender = directory.Male
		c.Age = directory.Range{Min: 30, Max: 40}
		c.Search = "工程师"

		q := criteriaQuery(c, 2)
		got, err := criteriaFromQuery(q)
		require.NoError(t, err)
		assert.Equal(t, c, got)
		assert.Equal(t, 2, pageFromQuery(q))
	})

	t.Run("Defaults are omitted from links", func(t *testing.T) {
		assert.Empty(t, criteriaQuery(directory.DefaultCriteria(), 1).Encode())
	})
}

func TestMembersHandler(t *testing.T) {
	_, ts := newTestServer(t, testConfig())

	t.Run("Unfiltered first page", func(t *testing.T) {
		v := getView(t, ts.URL, "")
		assert.Equal(t, 6, v.Total)
		assert.Equal(t, 1, v.TotalPages)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids(v.Items))
		assert.False(t, v.ShowPager)
	})

	t.Run("Female selector", func(t *testing.T) {
		v := getView(t, ts.URL, "gender=female")
		assert.Equal(t, 3, v.Total)
		assert.Equal(t, 1, v.TotalPages)
		for _, c := range v.Items {
			assert.Equal(t, directory.Female, c.Gender)
		}
	})

	t.Run("Age range keeps source order", func(t *testing.T) {
		v := getView(t, ts.URL, "age_min=30&age_max=35")
		ages := make([]int, 0, len(v.Items))
		for _, c := range v.Items {
			ages = append(ages, c.Age)
		}
		assert.Equal(t, []int{32, 35, 30}, ages)
	})

	t.Run("Search", func(t *testing.T) {
		v := getView(t, ts.URL, "q="+url.QueryEscape("设计"))
		assert.Equal(t, []int{1}, ids(v.Items))
	})

	t.Run("No matches", func(t *testing.T) {
		v := getView(t, ts.URL, "location="+url.QueryEscape("北京")+"&gender=female")
		assert.True(t, v.Empty)
		assert.Equal(t, 0, v.TotalPages)
		assert.NotNil(t, v.Items)
		assert.Empty(t, v.Items)
	})

	t.Run("Out of range page is clamped", func(t *testing.T) {
		v := getView(t, ts.URL, "page=9")
		assert.Equal(t, 1, v.Page)
	})

	t.Run("Invalid criteria", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/members?age_min=50&age_max=20")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "invalid_criteria")
	})
}

func TestMemberDetailHandler(t *testing.T) {
	_, ts := newTestServer(t, testConfig())

	t.Run("Known member", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/members/2")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var c directory.Candidate
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
		assert.Equal(t, "小明", c.Name)
	})

	for _, path := range []string{"/api/members/99", "/api/members/0", "/api/members/abc"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestMemberBatchHandler(t *testing.T) {
	_, ts := newTestServer(t, testConfig())

	t.Run("Found and missing", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/members/batch?ids=3,99,1")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			Members []directory.Candidate `json:"members"`
			Missing []int                 `json:"missing"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, []int{3, 1}, ids(out.Members))
		assert.Equal(t, []int{99}, out.Missing)
	})

	t.Run("Bad ids", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/members/batch?ids=1,x")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestMemberOptionsHandler(t *testing.T) {
	_, ts := newTestServer(t, testConfig())

	resp, err := http.Get(ts.URL + "/api/members/options")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Location []choice        `json:"location"`
		PageSize int             `json:"page_size"`
		Age      directory.Range `json:"age_bounds"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Location, len(directory.Locations)+1)
	assert.Equal(t, choice{Value: "", Label: directory.Unrestricted}, out.Location[0])
	assert.Equal(t, directory.PageSize, out.PageSize)
	assert.Equal(t, directory.AgeBounds, out.Age)
}
