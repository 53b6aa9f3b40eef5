package ergast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenneh/discord-f1-reminder/internal/provider"
	"github.com/fenneh/discord-f1-reminder/internal/race"
)

const scheduleJSON = `{"MRData":{"RaceTable":{"season":"2024","Races":[
 {"season":"2024","round":"9","raceName":"Canadian Grand Prix","url":"https://en.wikipedia.org/wiki/2024_Canadian_Grand_Prix",
  "Circuit":{"circuitId":"villeneuve","circuitName":"Circuit Gilles Villeneuve","Location":{"lat":"45.5","long":"-73.5228","locality":"Montreal","country":"Canada"}},
  "date":"2024-06-09","time":"18:00:00Z",
  "Qualifying":{"date":"2024-06-08","time":"20:00:00Z"}},
 {"season":"2024","round":"10","raceName":"Spanish Grand Prix",
  "Circuit":{"circuitId":"catalunya","circuitName":"Circuit de Barcelona-Catalunya","Location":{"lat":"41.57","long":"2.26111","locality":"Montmeló","country":"Spain"}},
  "date":"2024-06-23","time":"13:00:00Z"}
]}}}`

const qualifyingJSON = `{"MRData":{"RaceTable":{"season":"2024","round":"10","Races":[{"season":"2024","round":"10",
 "QualifyingResults":[
  {"position":"2","Driver":{"familyName":"Verstappen"}},
  {"position":"1","Driver":{"familyName":"Norris"}},
  {"position":"","Driver":{"familyName":"Ghost"}},
  {"position":"3","Driver":{"familyName":"Hamilton"}}
 ]}]}}}`

func newTestFetcher(t *testing.T, h http.HandlerFunc) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := provider.NewClient("ergast", time.Second, 6000, nil)
	return New(client, srv.URL+"/current.json", srv.URL, nil)
}

func TestFetchSchedule(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/current.json", r.URL.Path)
		w.Write([]byte(scheduleJSON))
	})

	weekends, err := f.FetchSchedule(context.Background())
	require.NoError(t, err)
	require.Len(t, weekends, 2)

	assert.Equal(t, "Canadian Grand Prix", weekends[0].RaceName)
	assert.Equal(t, "villeneuve", weekends[0].Circuit.CircuitID)
	require.NotNil(t, weekends[0].Qualifying)
	assert.Equal(t, "2024-06-08", weekends[0].Qualifying.Date)
	assert.Nil(t, weekends[1].Qualifying)

	inst, err := race.Resolve(weekends[1], race.Race)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 23, 13, 0, 0, 0, time.UTC), inst.At)
}

func TestFetchSchedule_Empty(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"MRData":{"RaceTable":{"season":"2025","Races":[]}}}`))
	})
	_, err := f.FetchSchedule(context.Background())
	require.Error(t, err)
	assert.True(t, provider.IsUnavailable(err))
}

func TestFetchSchedule_ServerError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := f.FetchSchedule(context.Background())
	require.Error(t, err)
	assert.False(t, provider.IsUnavailable(err))
}

func TestQualifyingGrid(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2024/10/qualifying.json", r.URL.Path)
		w.Write([]byte(qualifyingJSON))
	})

	grid, err := f.QualifyingGrid(context.Background(), "2024", "10")
	require.NoError(t, err)
	assert.Equal(t, []provider.GridEntry{
		{Position: 1, FamilyName: "Norris"},
		{Position: 2, FamilyName: "Verstappen"},
		{Position: 3, FamilyName: "Hamilton"},
	}, grid)
}

func TestQualifyingGrid_NotYetRun(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"MRData":{"RaceTable":{"season":"2024","round":"11","Races":[]}}}`))
	})
	_, err := f.QualifyingGrid(context.Background(), "2024", "11")
	require.Error(t, err)
	assert.True(t, provider.IsUnavailable(err))
}
