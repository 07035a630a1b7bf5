package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/onnwee/scorebook/backend/internal/cache"
	"github.com/onnwee/scorebook/backend/internal/games"
	"github.com/onnwee/scorebook/backend/internal/mlb"
	"github.com/onnwee/scorebook/backend/internal/normalize"
)

type fakeReader struct {
	games         []normalize.Game
	details       *normalize.GameDetails
	err           error
	scheduleCalls int
	detailCalls   int
}

func (f *fakeReader) GamesForDate(ctx context.Context, date string) ([]normalize.Game, error) {
	f.scheduleCalls++
	return f.games, f.err
}

func (f *fakeReader) GameDetails(ctx context.Context, id string) (*normalize.GameDetails, error) {
	f.detailCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Error.Code
}

func TestGetGamesInvalidDate(t *testing.T) {
	h := NewGamesHandler(&fakeReader{}, nil)

	for _, date := range []string{"07/04/2024", "2024-7-4", "2024-13-99", "junk"} {
		req := httptest.NewRequest(http.MethodGet, "/api/games?date="+date, nil)
		rec := httptest.NewRecorder()
		h.GetGames(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("date %q: status = %d, want 400", date, rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != "SCHEDULE_INVALID_DATE" {
			t.Errorf("date %q: code = %q", date, code)
		}
	}
}

func TestGetGamesResponse(t *testing.T) {
	reader := &fakeReader{games: []normalize.Game{{ID: "2024-07-04-NYY-BOS-1"}}}
	h := NewGamesHandler(reader, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/games?date=2024-07-04", nil)
	rec := httptest.NewRecorder()
	h.GetGames(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}
	var body struct {
		Date  string           `json:"date"`
		Games []normalize.Game `json:"games"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Date != "2024-07-04" || len(body.Games) != 1 {
		t.Errorf("body = %+v", body)
	}
}

func TestGetGamesResponseCacheHit(t *testing.T) {
	respCache, err := cache.NewLRU(8, 1000, time.Minute)
	if err != nil {
		t.Fatalf("building cache: %v", err)
	}
	defer respCache.Close()

	reader := &fakeReader{games: []normalize.Game{{ID: "2024-07-04-NYY-BOS-1"}}}
	h := NewGamesHandler(reader, respCache)

	first := httptest.NewRecorder()
	h.GetGames(first, httptest.NewRequest(http.MethodGet, "/api/games?date=2024-07-04", nil))
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("first X-Cache = %q, want MISS", got)
	}

	// ristretto admits asynchronously
	deadline := time.After(2 * time.Second)
	for {
		rec := httptest.NewRecorder()
		h.GetGames(rec, httptest.NewRequest(http.MethodGet, "/api/games?date=2024-07-04", nil))
		if rec.Header().Get("X-Cache") == "HIT" {
			if rec.Body.String() != first.Body.String() {
				t.Error("cached body differs from the original response")
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("response cache never served a hit")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func getGame(h *GamesHandler, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/games/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rec := httptest.NewRecorder()
	h.GetGame(rec, req)
	return rec
}

func TestGetGameNotFound(t *testing.T) {
	h := NewGamesHandler(&fakeReader{err: games.ErrGameNotFound}, nil)
	rec := getGame(h, "2024-07-04-NYY-BOS-1")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "GAME_NOT_FOUND" {
		t.Errorf("code = %q", code)
	}
}

func TestGetGameInvalidID(t *testing.T) {
	h := NewGamesHandler(&fakeReader{err: fmt.Errorf("parsing %q: %w", "junk", mlb.ErrInvalidGameID)}, nil)
	rec := getGame(h, "junk")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "GAME_INVALID_ID" {
		t.Errorf("code = %q", code)
	}
}

func TestGetGameUpstreamTimeout(t *testing.T) {
	h := NewGamesHandler(&fakeReader{err: context.DeadlineExceeded}, nil)
	rec := getGame(h, "2024-07-04-NYY-BOS-1")

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
}

func TestGetGameSuccess(t *testing.T) {
	details := &normalize.GameDetails{}
	details.Game.ID = "2024-07-04-NYY-BOS-1"
	details.Game.Status = normalize.StatusFinal

	h := NewGamesHandler(&fakeReader{details: details}, nil)
	rec := getGame(h, "2024-07-04-NYY-BOS-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got normalize.GameDetails
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.Game.ID != "2024-07-04-NYY-BOS-1" {
		t.Errorf("id = %q", got.Game.ID)
	}
}
