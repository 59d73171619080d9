package sampledata_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/clanhq/chestboard/internal/adapters/source"
	"github.com/clanhq/chestboard/internal/app"
	"github.com/clanhq/chestboard/internal/sampledata"
)

func TestGenerate(t *testing.T) {
	Convey("Given a generation config", t, func() {
		cfg := sampledata.Config{Players: 10, Weeks: 3, Seed: 7}

		Convey("When generating twice with the same seed", func() {
			a := sampledata.Generate(cfg)
			b := sampledata.Generate(cfg)

			Convey("Then the datasets are identical", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When generating with a different seed", func() {
			a := sampledata.Generate(cfg)
			b := sampledata.Generate(sampledata.Config{Players: 10, Weeks: 3, Seed: 8})

			Convey("Then the player rows differ", func() {
				So(a.Weeks[0].CSV, ShouldNotEqual, b.Weeks[0].CSV)
			})
		})

		Convey("When inspecting the generated shape", func() {
			ds := sampledata.Generate(cfg)

			Convey("Then each week has a descriptor and a CSV body", func() {
				So(ds.Weeks, ShouldHaveLength, 3)
				So(ds.Index, ShouldHaveLength, 3)
				So(ds.Index[0].WeekID, ShouldEqual, "10")
				So(ds.Index[0].SourceFile, ShouldEqual, "week_10.csv")
				So(ds.Index[0].EndDate, ShouldNotBeEmpty)
			})

			Convey("And each snapshot carries one row per player", func() {
				lines := strings.Split(strings.TrimSpace(ds.Weeks[0].CSV), "\n")
				So(lines, ShouldHaveLength, 11)
				So(lines[0], ShouldStartWith, "PLAYER,ID,PREMIUM,CHEST_COUNT")
			})

			Convey("And the rule table covers every category with a KEIN row", func() {
				So(ds.Rules, ShouldStartWith, "Typ,Stufe,Punkte")
				So(ds.Rules, ShouldContainSubstring, "Gold,KEIN,5")
				So(ds.Rules, ShouldContainSubstring, "Epic,5,50")
			})
		})
	})
}

func TestWriteDir(t *testing.T) {
	Convey("Given a generated dataset", t, func() {
		ctx := context.Background()
		ds := sampledata.Generate(sampledata.Config{Players: 5, Weeks: 2, Seed: 7})
		dir := t.TempDir()

		Convey("When writing it to a directory", func() {
			err := sampledata.WriteDir(ctx, dir, ds, nil)

			Convey("Then the index, rules and snapshots land on disk", func() {
				So(err, ShouldBeNil)
				for _, name := range []string{"weeks.json", "rules.csv", "week_10.csv", "week_11.csv"} {
					_, statErr := os.Stat(filepath.Join(dir, name))
					So(statErr, ShouldBeNil)
				}
			})

			Convey("And a service can run end to end on it", func() {
				So(err, ShouldBeNil)
				svc := app.New(app.WithFetcher(source.NewDirFetcher(dir)))
				So(svc.Start(ctx), ShouldBeNil)
				So(svc.State(), ShouldEqual, app.SlotReady)

				snap, ok := svc.Current()
				So(ok, ShouldBeTrue)
				So(snap.WeekID, ShouldEqual, "11")
				So(snap.Players, ShouldHaveLength, 5)
				So(snap.Players[0].Rank, ShouldEqual, 1)
			})
		})
	})
}
