package app_test

import (
	"context"
	"errors"
	"testing"

	app "github.com/aso-kit/keyrank/internal/app"
	model "github.com/aso-kit/keyrank/internal/domain/model"
	scoring "github.com/aso-kit/keyrank/internal/domain/scoring"
	selection "github.com/aso-kit/keyrank/internal/domain/selection"
	validate "github.com/aso-kit/keyrank/internal/domain/validate"
	"github.com/aso-kit/keyrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func sampleBatch() []model.KeywordRecord {
	return []model.KeywordRecord{
		{Text: "fitness", Difficulty: 3, Traffic: 8, AppCount: 1200},
		{Text: "workout", Difficulty: 5, Traffic: 9, AppCount: 3000},
		{Text: "health app", Difficulty: 2, Traffic: 4, AppCount: 500},
	}
}

func TestSelectKeywords(t *testing.T) {
	Convey("Given the documented sample batch and a 20-char budget", t, func() {
		// Weight the three informative factors equally and ignore
		// length; orientation is handled by normalization, so the
		// cost factors need no sign here.
		svc := app.New(
			app.WithWeights(scoring.Weights{Difficulty: 1, Traffic: 1, AppCount: 1}),
			app.WithCharacterBudget(20),
		)

		Convey("When selecting", func() {
			sel, err := svc.SelectKeywords(context.Background(), sampleBatch())

			Convey("Then fitness ranks above workout", func() {
				So(err, ShouldBeNil)
				texts := sel.Texts()
				So(texts[0], ShouldEqual, "fitness")
				So(texts, ShouldNotContain, "workout")
			})

			Convey("Then the budget holds with separators counted", func() {
				So(sel.TotalChars, ShouldBeLessThanOrEqualTo, 20)
				So(sel.Texts(), ShouldResemble, []string{"fitness", "health app"})
				So(sel.TotalChars, ShouldEqual, 18)
			})
		})

		Convey("When selecting the same batch twice", func() {
			first, err1 := svc.SelectKeywords(context.Background(), sampleBatch())
			second, err2 := svc.SelectKeywords(context.Background(), sampleBatch())

			Convey("Then both runs are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})
		})
	})

	Convey("Given a batch with an out-of-domain difficulty", t, func() {
		bad := append(sampleBatch(), model.KeywordRecord{
			Text: "running", Difficulty: 15, Traffic: 4, AppCount: 900,
		})

		Convey("When selecting with clamping disabled", func() {
			svc := app.New()
			_, err := svc.SelectKeywords(context.Background(), bad)

			Convey("Then the run aborts naming the row and field", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, app.ErrValidation), ShouldBeTrue)
				So(errors.Is(err, validate.ErrOutOfDomain), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "row 4")
				So(err.Error(), ShouldContainSubstring, "difficulty")
			})
		})

		Convey("When selecting with clamping enabled", func() {
			svc := app.New(app.WithClamping(true))
			sel, err := svc.SelectKeywords(context.Background(), bad)

			Convey("Then the run proceeds", func() {
				So(err, ShouldBeNil)
				So(sel.Records, ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given an empty batch", t, func() {
		Convey("When selecting", func() {
			_, err := app.New().SelectKeywords(context.Background(), nil)

			Convey("Then it reports the empty input", func() {
				So(errors.Is(err, selection.ErrEmptyInput), ShouldBeTrue)
			})
		})
	})

	Convey("Given a budget smaller than the shortest keyword", t, func() {
		svc := app.New(app.WithCharacterBudget(2))

		Convey("When selecting", func() {
			sel, err := svc.SelectKeywords(context.Background(), sampleBatch())

			Convey("Then the selection is empty and no error is raised", func() {
				So(err, ShouldBeNil)
				So(sel.Records, ShouldBeEmpty)
			})
		})
	})

	Convey("Given parallel scoring workers", t, func() {
		sequential := app.New(
			app.WithWeights(scoring.Weights{Difficulty: 1, Traffic: 1, AppCount: 1}),
		)
		parallel := app.New(
			app.WithWeights(scoring.Weights{Difficulty: 1, Traffic: 1, AppCount: 1}),
			app.WithWorkerCount(8),
		)

		Convey("When both select from the same batch", func() {
			a, errA := sequential.SelectKeywords(context.Background(), sampleBatch())
			b, errB := parallel.SelectKeywords(context.Background(), sampleBatch())

			Convey("Then the results match exactly", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})
	})
}

func TestScoreKeywords(t *testing.T) {
	Convey("Given the sample batch", t, func() {
		svc := app.New(
			app.WithWeights(scoring.Weights{Difficulty: 1, Traffic: 1, AppCount: 1}),
		)

		Convey("When scoring without selection", func() {
			scored, err := svc.ScoreKeywords(context.Background(), sampleBatch())

			Convey("Then every record comes back", func() {
				So(err, ShouldBeNil)
				So(scored, ShouldHaveLength, 3)
			})

			Convey("Then records are in descending score order", func() {
				for i := 1; i < len(scored); i++ {
					So(scored[i-1].Score, ShouldBeGreaterThanOrEqualTo, scored[i].Score)
				}
			})

			Convey("Then the ordering matches selection before constraints", func() {
				sel, serr := app.New(
					app.WithWeights(scoring.Weights{Difficulty: 1, Traffic: 1, AppCount: 1}),
				).SelectKeywords(context.Background(), sampleBatch())
				So(serr, ShouldBeNil)
				So(sel.Texts()[0], ShouldEqual, scored[0].Text)
			})
		})

		Convey("When scoring records with identical metrics but different texts", func() {
			batch := []model.KeywordRecord{
				{Text: "Appz", Difficulty: 3, Traffic: 8, AppCount: 100},
				{Text: "App", Difficulty: 3, Traffic: 8, AppCount: 100},
			}
			scored, err := svc.ScoreKeywords(context.Background(), batch)

			Convey("Then scores tie and the shorter text ranks first", func() {
				So(err, ShouldBeNil)
				So(scored[0].Score, ShouldAlmostEqual, scored[1].Score, 1e-9)
				So(scored[0].Text, ShouldEqual, "App")
			})
		})
	})
}
