package export_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/clanhq/chestboard/internal/adapters/export"
	"github.com/clanhq/chestboard/internal/adapters/source"
	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/internal/domain/stats"
)

func rankedPlayers() []model.PlayerRecord {
	return []model.PlayerRecord{
		{Rank: 1, Name: "Alice", TotalScore: 120.5, ChestCount: 8, Premium: true},
		{Rank: 2, Name: "Bob", TotalScore: 90, ChestCount: 5},
	}
}

func TestWriteXLSX(t *testing.T) {
	Convey("Given a ranked player table", t, func() {
		players := rankedPlayers()

		Convey("When writing the workbook", func() {
			blob, err := export.WriteXLSX(players)

			Convey("Then it produces a readable single-sheet workbook", func() {
				So(err, ShouldBeNil)
				So(blob, ShouldNotBeEmpty)

				wb, err := excelize.OpenReader(bytes.NewReader(blob))
				So(err, ShouldBeNil)
				defer wb.Close()

				So(wb.GetSheetList(), ShouldResemble, []string{"Players"})
				rows, err := wb.GetRows("Players")
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 3)
				So(rows[0][0], ShouldEqual, "Rank")
				So(rows[1][1], ShouldEqual, "Alice")
				So(rows[2][1], ShouldEqual, "Bob")
			})

			Convey("And the workbook round-trips through the snapshot reader", func() {
				So(err, ShouldBeNil)
				dir := t.TempDir()
				path := filepath.Join(dir, "week_1.xlsx")
				So(os.WriteFile(path, blob, 0o600), ShouldBeNil)

				fetcher := source.NewDirFetcher(dir)
				raw, err := fetcher.Snapshot(context.Background(), "week_1.xlsx")
				So(err, ShouldBeNil)
				So(raw, ShouldHaveLength, 2)
				So(raw[0]["Player"], ShouldEqual, "Alice")
				So(raw[0]["Total Score"], ShouldEqual, 120.5)
			})
		})

		Convey("When the table is empty", func() {
			blob, err := export.WriteXLSX(nil)

			Convey("Then a header-only workbook still comes out", func() {
				So(err, ShouldBeNil)
				wb, err := excelize.OpenReader(bytes.NewReader(blob))
				So(err, ShouldBeNil)
				defer wb.Close()
				rows, err := wb.GetRows("Players")
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
			})
		})
	})
}

func TestRenderHistogramPNG(t *testing.T) {
	Convey("Given a bucketed score distribution", t, func() {
		buckets := stats.Histogram([]model.PlayerRecord{
			{TotalScore: 10}, {TotalScore: 40}, {TotalScore: 90},
		}, "totalScore", 4)

		Convey("When rendering", func() {
			blob, err := export.RenderHistogramPNG(buckets)

			Convey("Then a PNG comes back", func() {
				So(err, ShouldBeNil)
				So(len(blob), ShouldBeGreaterThan, 8)
				So(blob[1:4], ShouldResemble, []byte("PNG"))
			})
		})

		Convey("When the bucket set is empty", func() {
			_, err := export.RenderHistogramPNG(nil)

			Convey("Then ErrNoData is returned", func() {
				So(errors.Is(err, export.ErrNoData), ShouldBeTrue)
			})
		})
	})
}
