package main

import (
	"testing"
	"time"

	"github.com/okian/fettle/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func testDay(offset int) time.Time {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestSplitRecords(t *testing.T) {
	convey.Convey("Given a set of input records", t, func() {
		records := []model.WellnessRecord{
			{Date: testDay(-2), HRV: 44},
			{Date: testDay(0), HRV: 46},
			{Date: testDay(-1), HRV: 45},
		}

		convey.Convey("When no date is given", func() {
			day, current, historical, err := splitRecords(records, "")

			convey.Convey("Then the latest record is scored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(day.Equal(testDay(0)), convey.ShouldBeTrue)
				convey.So(current.HRV, convey.ShouldEqual, 46)
				convey.So(len(historical), convey.ShouldEqual, 2)
				convey.So(historical[0].Date.Before(historical[1].Date), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an explicit date is given", func() {
			day, current, historical, err := splitRecords(records, "2026-02-28")

			convey.Convey("Then later records are excluded from the history", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(day.Equal(testDay(-1)), convey.ShouldBeTrue)
				convey.So(current.HRV, convey.ShouldEqual, 45)
				convey.So(len(historical), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the date has no record", func() {
			_, _, _, err := splitRecords(records, "2026-03-05")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the date is malformed", func() {
			_, _, _, err := splitRecords(records, "03/05/2026")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
