package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDj_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.signup(t, "selector", false)

	resp := ts.api.Post("/api/v1/djs", map[string]any{
		"name":   "Sherelle",
		"city":   "London",
		"genres": []string{"dnb", "140"},
		"subgenres": map[string][]string{
			"drum n bass": {"jungle", "footwork jungle"},
		},
		"venues": []string{"fabric"},
	}, cookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[DjResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	created := envelope.Data
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"Drum & Bass", "Dubstep"}, created.AllGenres)
	assert.Equal(t, []string{"Jungle", "Footwork Jungle"}, created.Subgenres["Drum & Bass"])
	assert.Equal(t, []string{"Fabric"}, created.Venues)

	// Fetch it back without a session, reads are public.
	resp = ts.api.Get("/api/v1/djs/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var fetched testEnvelope[DjResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.Data.ID)
	assert.Equal(t, "Sherelle", fetched.Data.Name)
}

func TestCreateDj_RequiresSession(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/djs", map[string]any{
		"name": "Sherelle",
		"city": "London",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateDj_Duplicate(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.signup(t, "selector", false)

	resp := ts.api.Post("/api/v1/djs", map[string]any{
		"name": "Objekt",
		"city": "Berlin",
	}, cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/djs", map[string]any{
		"name": "OBJEKT",
		"city": "berlin",
	}, cookie)
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "DUPLICATE_DJ", envelope.Code)
}

func TestListDjs_Filter(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.signup(t, "selector", false)

	for _, dj := range []map[string]any{
		{"name": "Sherelle", "city": "London"},
		{"name": "Objekt", "city": "Berlin"},
		{"name": "Shed", "city": "Berlin"},
	} {
		resp := ts.api.Post("/api/v1/djs", dj, cookie)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/djs?search=she")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListDjsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Djs, 2)
	assert.Equal(t, "Shed", envelope.Data.Djs[0].Name)
	assert.Equal(t, "Sherelle", envelope.Data.Djs[1].Name)
}

func TestUpdateDj_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	adminCookie := ts.signup(t, "admin", true)
	userCookie := ts.signup(t, "punter", false)

	resp := ts.api.Post("/api/v1/djs", map[string]any{
		"name": "Helena Hauff",
		"city": "Hamburg",
	}, userCookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var created testEnvelope[DjResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	djID := created.Data.ID

	resp = ts.api.Patch("/api/v1/djs/"+djID, map[string]any{
		"city": "Berlin",
	}, userCookie)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Patch("/api/v1/djs/"+djID, map[string]any{
		"city": "Berlin",
	}, adminCookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated testEnvelope[DjResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "Berlin", updated.Data.City)
	assert.Equal(t, "Helena Hauff", updated.Data.Name)
}

func TestDeleteDj_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	adminCookie := ts.signup(t, "admin", true)
	userCookie := ts.signup(t, "punter", false)

	resp := ts.api.Post("/api/v1/djs", map[string]any{
		"name": "DVS1",
		"city": "Minneapolis",
	}, userCookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var created testEnvelope[DjResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	djID := created.Data.ID

	resp = ts.api.Delete("/api/v1/djs/"+djID, userCookie)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/djs/"+djID, adminCookie)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/djs/" + djID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSearchDjs(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.signup(t, "selector", false)

	resp := ts.api.Post("/api/v1/djs", map[string]any{
		"name":   "Sherelle",
		"city":   "London",
		"genres": []string{"dnb"},
		"subgenres": map[string][]string{
			"dnb": {"jungle"},
		},
	}, cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/djs/search?q=jungle")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[SearchDjsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, uint64(1), envelope.Data.Total)
	assert.Equal(t, "Sherelle", envelope.Data.Hits[0].Name)
}

func TestListGenres_AccumulatesTaxonomy(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.signup(t, "selector", false)

	resp := ts.api.Post("/api/v1/djs", map[string]any{
		"name":   "Loefah",
		"city":   "London",
		"genres": []string{"140"},
		"subgenres": map[string][]string{
			"dubstep": {"riddim"},
		},
	}, cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/genres")
	require.Equal(t, http.StatusOK, resp.Code)

	var genres testEnvelope[ListGenresResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &genres))
	require.Len(t, genres.Data.Genres, 1)
	assert.Equal(t, "Dubstep", genres.Data.Genres[0].Title)

	resp = ts.api.Get("/api/v1/genres/dubstep/subgenres")
	require.Equal(t, http.StatusOK, resp.Code)

	var subs testEnvelope[ListSubgenresResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &subs))
	require.Len(t, subs.Data.Subgenres, 1)
	assert.Equal(t, "Riddim", subs.Data.Subgenres[0].Subtitle)

	resp = ts.api.Get("/api/v1/genres/gabber/subgenres")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
