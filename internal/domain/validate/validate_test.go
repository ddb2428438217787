package validate_test

import (
	"errors"
	"testing"

	model "github.com/aso-kit/keyrank/internal/domain/model"
	validate "github.com/aso-kit/keyrank/internal/domain/validate"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecords(t *testing.T) {
	Convey("Given a batch of in-domain records", t, func() {
		records := []model.KeywordRecord{
			{Text: "fitness", Difficulty: 3, Traffic: 8, AppCount: 1200},
			{Text: "workout", Difficulty: 5, Traffic: 9, AppCount: 3000},
		}

		Convey("When validating without clamping", func() {
			out, errs := validate.Records(records, false)

			Convey("Then no errors are reported and records pass through", func() {
				So(errs, ShouldBeEmpty)
				So(out, ShouldResemble, records)
			})
		})
	})

	Convey("Given a record with difficulty above the domain", t, func() {
		records := []model.KeywordRecord{
			{Text: "fitness", Difficulty: 3, Traffic: 8, AppCount: 1200},
			{Text: "running", Difficulty: 15, Traffic: 4, AppCount: 900},
		}

		Convey("When validating without clamping", func() {
			_, errs := validate.Records(records, false)

			Convey("Then the offending row and field are named", func() {
				So(errs, ShouldHaveLength, 1)
				So(errs[0].Row, ShouldEqual, 2)
				So(errs[0].Field, ShouldEqual, "difficulty")
				So(errs[0].Value, ShouldEqual, 15)
				So(errors.Is(errs[0], validate.ErrOutOfDomain), ShouldBeTrue)
			})
		})

		Convey("When validating with clamping", func() {
			out, errs := validate.Records(records, true)

			Convey("Then the value is pulled to the domain bound", func() {
				So(errs, ShouldBeEmpty)
				So(out[1].Difficulty, ShouldEqual, 10)
			})

			Convey("Then the input slice is not mutated", func() {
				So(records[1].Difficulty, ShouldEqual, 15)
			})
		})
	})

	Convey("Given several bad rows", t, func() {
		records := []model.KeywordRecord{
			{Text: "a", Difficulty: -1, Traffic: 8, AppCount: 10},
			{Text: "b", Difficulty: 2, Traffic: 11, AppCount: 10},
			{Text: "c", Difficulty: 2, Traffic: 8, AppCount: -5},
		}

		Convey("When validating without clamping", func() {
			_, errs := validate.Records(records, false)

			Convey("Then every bad row is reported, not just the first", func() {
				So(errs, ShouldHaveLength, 3)
				So(errs[0].Field, ShouldEqual, "difficulty")
				So(errs[1].Field, ShouldEqual, "traffic")
				So(errs[2].Field, ShouldEqual, "apps")
			})
		})
	})

	Convey("Given a record with empty keyword text", t, func() {
		records := []model.KeywordRecord{
			{Text: "   ", Difficulty: 2, Traffic: 8, AppCount: 10},
		}

		Convey("When validating with clamping enabled", func() {
			_, errs := validate.Records(records, true)

			Convey("Then it is still an error; there is nothing to clamp", func() {
				So(errs, ShouldHaveLength, 1)
				So(errs[0].Field, ShouldEqual, "key")
			})
		})
	})
}
