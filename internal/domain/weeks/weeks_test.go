package weeks_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/internal/domain/weeks"
)

func TestResolver_ResolveLatest(t *testing.T) {
	Convey("Given a resolver", t, func() {
		ctx := context.Background()
		resolver := weeks.New()

		Convey("When the index carries end dates", func() {
			descs := []model.WeekDescriptor{
				{WeekID: "11", EndDate: "2026-03-15"},
				{WeekID: "13", EndDate: "2026-03-29"},
				{WeekID: "12", EndDate: "2026-03-22"},
			}
			latest, err := resolver.ResolveLatest(ctx, descs)

			Convey("Then the latest end date wins", func() {
				So(err, ShouldBeNil)
				So(latest.WeekID, ShouldEqual, "13")
			})
		})

		Convey("When dates are absent but ids are numeric", func() {
			descs := []model.WeekDescriptor{
				{WeekID: "9"},
				{WeekID: "13"},
				{WeekID: "10"},
			}
			latest, err := resolver.ResolveLatest(ctx, descs)

			Convey("Then the highest numeric id wins", func() {
				So(err, ShouldBeNil)
				So(latest.WeekID, ShouldEqual, "13")
			})
		})

		Convey("When only some entries carry dates", func() {
			descs := []model.WeekDescriptor{
				{WeekID: "99"},
				{WeekID: "5", EndDate: "2026-01-04"},
			}
			latest, err := resolver.ResolveLatest(ctx, descs)

			Convey("Then dated entries beat undated ones", func() {
				So(err, ShouldBeNil)
				So(latest.WeekID, ShouldEqual, "5")
			})
		})

		Convey("When an entry has only a start date", func() {
			descs := []model.WeekDescriptor{
				{WeekID: "a", StartDate: "2026-02-01"},
				{WeekID: "b", EndDate: "2026-01-10"},
			}
			latest, err := resolver.ResolveLatest(ctx, descs)

			Convey("Then the start date stands in for the missing end date", func() {
				So(err, ShouldBeNil)
				So(latest.WeekID, ShouldEqual, "a")
			})
		})

		Convey("When no entry has a date or a numeric id", func() {
			descs := []model.WeekDescriptor{
				{WeekID: "spring"},
				{WeekID: "summer"},
			}
			latest, err := resolver.ResolveLatest(ctx, descs)

			Convey("Then the first entry is returned rather than failing", func() {
				So(err, ShouldBeNil)
				So(latest.WeekID, ShouldEqual, "spring")
			})
		})

		Convey("When the index is empty", func() {
			_, err := resolver.ResolveLatest(ctx, nil)

			Convey("Then ErrNoWeeks is returned", func() {
				So(errors.Is(err, weeks.ErrNoWeeks), ShouldBeTrue)
			})
		})
	})
}

func TestResolver_SelectorOrder(t *testing.T) {
	Convey("Given a resolver and a mixed index", t, func() {
		ctx := context.Background()
		resolver := weeks.New()
		descs := []model.WeekDescriptor{
			{WeekID: "8", EndDate: "2026-02-22"},
			{WeekID: "bad-date", EndDate: "not a date"},
			{WeekID: "10", EndDate: "2026-03-08"},
			{WeekID: "9", EndDate: "2026-03-01"},
		}

		Convey("When ordering for the selector", func() {
			ordered := resolver.SelectorOrder(ctx, descs)

			Convey("Then entries are newest first", func() {
				So(ordered[0].WeekID, ShouldEqual, "10")
				So(ordered[1].WeekID, ShouldEqual, "9")
				So(ordered[2].WeekID, ShouldEqual, "8")
			})

			Convey("And unparsable dates sort last", func() {
				So(ordered[3].WeekID, ShouldEqual, "bad-date")
			})

			Convey("And the input order is untouched", func() {
				So(descs[0].WeekID, ShouldEqual, "8")
			})
		})

		Convey("When ids carry an RFC3339 timestamp", func() {
			ordered := resolver.SelectorOrder(ctx, []model.WeekDescriptor{
				{WeekID: "a", EndDate: "2026-03-01T10:00:00Z"},
				{WeekID: "b", EndDate: "2026-03-01T12:00:00Z"},
			})

			Convey("Then the timestamp layout is accepted", func() {
				So(ordered[0].WeekID, ShouldEqual, "b")
			})
		})
	})
}
