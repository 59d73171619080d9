package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/clanhq/chestboard/internal/adapters/http/api"
	"github.com/clanhq/chestboard/internal/app"
	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/internal/domain/ranking"
	"github.com/clanhq/chestboard/internal/domain/stats"
)

// fakeDeps satisfies api.Dependencies with canned data so handler tests
// run without a service behind them.
type fakeDeps struct {
	players   []model.PlayerRecord
	summary   model.Summary
	buckets   []stats.Bucket
	weeks     []model.WeekDescriptor
	currentID string
	state     app.SlotState

	switchErr  error
	lastSwitch string
}

func (f *fakeDeps) Players(_ context.Context, _ string, _ ranking.Direction, criteria ranking.Criteria) []model.PlayerRecord {
	if criteria != nil {
		engine := ranking.New()
		return engine.Filter(context.Background(), f.players, criteria)
	}
	return f.players
}

func (f *fakeDeps) Summary() model.Summary { return f.summary }

func (f *fakeDeps) ScoreHistogram(int) []stats.Bucket { return f.buckets }

func (f *fakeDeps) Weeks(_ context.Context) ([]model.WeekDescriptor, string) {
	return f.weeks, f.currentID
}

func (f *fakeDeps) SwitchWeek(_ context.Context, weekID string) (model.WeekSnapshot, error) {
	f.lastSwitch = weekID
	if f.switchErr != nil {
		return model.WeekSnapshot{}, f.switchErr
	}
	return model.WeekSnapshot{WeekID: weekID, Players: f.players}, nil
}

func (f *fakeDeps) State() app.SlotState { return f.state }

func newFakeDeps() *fakeDeps {
	return &fakeDeps{
		players: []model.PlayerRecord{
			{Rank: 1, Name: "Alice", TotalScore: 100, ChestCount: 5, Premium: true},
			{Rank: 2, Name: "Bob", TotalScore: 80, ChestCount: 3},
		},
		summary: model.Summary{PlayerCount: 2, TotalScore: 180, TotalChests: 8, AverageScore: 90, AverageChests: 4, PremiumCount: 1},
		buckets: []stats.Bucket{{Label: "80-100", Start: 80, End: 100, Count: 2}},
		weeks: []model.WeekDescriptor{
			{WeekID: "2", SourceFile: "week_2.csv"},
			{WeekID: "1", SourceFile: "week_1.csv"},
		},
		currentID: "2",
		state:     app.SlotReady,
	}
}

func newTestMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, 1000, 10).Register(context.Background(), mux)
	return mux
}

func TestPlayersEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newFakeDeps()
		mux := newTestMux(deps)

		Convey("When requesting GET /players", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players", nil))

			Convey("Then the ranked table comes back as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var players []model.PlayerRecord
				So(json.Unmarshal(rec.Body.Bytes(), &players), ShouldBeNil)
				So(players, ShouldHaveLength, 2)
				So(players[0].Name, ShouldEqual, "Alice")
				So(players[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When requesting GET /players with a limit", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players?limit=1", nil))

			var players []model.PlayerRecord
			So(json.Unmarshal(rec.Body.Bytes(), &players), ShouldBeNil)
			So(players, ShouldHaveLength, 1)
		})

		Convey("When requesting GET /players with filters", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players?premium=true&minScore=90", nil))

			var players []model.PlayerRecord
			So(json.Unmarshal(rec.Body.Bytes(), &players), ShouldBeNil)
			So(players, ShouldHaveLength, 1)
			So(players[0].Name, ShouldEqual, "Alice")
		})

		Convey("When the limit is not a number", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players?limit=lots", nil))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the premium flag is not a bool", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players?premium=maybe", nil))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using the wrong method", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/players", nil))

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStatsEndpoints(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newFakeDeps()
		mux := newTestMux(deps)

		Convey("When requesting GET /stats", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			Convey("Then the summary carries the slot state", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					State   app.SlotState `json:"state"`
					Summary model.Summary `json:"summary"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.State, ShouldEqual, app.SlotReady)
				So(resp.Summary.PlayerCount, ShouldEqual, 2)
				So(resp.Summary.AverageScore, ShouldEqual, 90)
			})
		})

		Convey("When the slot is empty", func() {
			deps.state = app.SlotEmpty
			deps.summary = model.Summary{}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			Convey("Then a zero summary is still a 200", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"state":"empty"`)
			})
		})

		Convey("When requesting GET /stats/histogram", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats/histogram?buckets=5", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp struct {
				Metric  string         `json:"metric"`
				Buckets []stats.Bucket `json:"buckets"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Metric, ShouldEqual, "totalScore")
			So(resp.Buckets, ShouldHaveLength, 1)
		})

		Convey("When the bucket count is out of range", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats/histogram?buckets=9999", nil))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestWeeksEndpoints(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newFakeDeps()
		mux := newTestMux(deps)

		Convey("When requesting GET /weeks", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/weeks", nil))

			Convey("Then the selector order and current id come back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					Current string                 `json:"current"`
					Weeks   []model.WeekDescriptor `json:"weeks"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Current, ShouldEqual, "2")
				So(resp.Weeks, ShouldHaveLength, 2)
				So(resp.Weeks[0].WeekID, ShouldEqual, "2")
			})
		})

		Convey("When selecting a week via POST", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/weeks/1/select", nil))

			Convey("Then the switch is forwarded and summarized", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastSwitch, ShouldEqual, "1")
				So(rec.Body.String(), ShouldContainSubstring, `"week":"1"`)
			})
		})

		Convey("When selecting an unknown week", func() {
			deps.switchErr = app.ErrWeekNotFound
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/weeks/99/select", nil))

			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(rec.Body.String(), ShouldContainSubstring, "week_not_found")
		})

		Convey("When the switch lost against a newer one", func() {
			deps.switchErr = app.ErrStaleLoad
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/weeks/1/select", nil))

			Convey("Then the conflict is reported, not treated as failure", func() {
				So(rec.Code, ShouldEqual, http.StatusConflict)
				So(rec.Body.String(), ShouldContainSubstring, "superseded")
			})
		})

		Convey("When the select path is malformed", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/weeks/1/rename", nil))

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestExportEndpoints(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newFakeDeps()
		mux := newTestMux(deps)

		Convey("When requesting GET /export.xlsx", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export.xlsx", nil))

			Convey("Then a workbook download comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "spreadsheetml")
				So(rec.Header().Get("Content-Disposition"), ShouldContainSubstring, "chestboard.xlsx")
				So(rec.Body.Len(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When requesting GET /chart.png", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart.png", nil))

			Convey("Then a PNG comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldEqual, "image/png")
			})
		})

		Convey("When there is no data to chart", func() {
			deps.buckets = nil
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart.png", nil))

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(newFakeDeps())

		Convey("When requesting GET /healthz", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then it reports OK", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
