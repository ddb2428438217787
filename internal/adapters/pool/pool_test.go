package pool_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pool "github.com/aso-kit/keyrank/internal/adapters/pool"
	model "github.com/aso-kit/keyrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func batch(n int) []model.KeywordRecord {
	out := make([]model.KeywordRecord, n)
	for i := range out {
		out[i] = model.KeywordRecord{Text: fmt.Sprintf("kw-%03d", i), Traffic: float64(i)}
	}
	return out
}

func double(r model.KeywordRecord) model.ScoredRecord {
	return model.ScoredRecord{KeywordRecord: r, Score: r.Traffic * 2}
}

func TestPoolMap(t *testing.T) {
	Convey("Given a default single-worker pool", t, func() {
		p := pool.New()

		Convey("Then it defaults to sequential scoring", func() {
			So(p.Workers(), ShouldEqual, 1)
		})

		Convey("When mapping a batch", func() {
			records := batch(10)
			out, err := p.Map(context.Background(), records, double)

			Convey("Then every record is scored in input order", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 10)
				for i, s := range out {
					So(s.Text, ShouldEqual, records[i].Text)
					So(s.Score, ShouldEqual, records[i].Traffic*2)
				}
			})
		})

		Convey("When mapping an empty batch", func() {
			out, err := p.Map(context.Background(), nil, double)

			Convey("Then it returns an empty result without error", func() {
				So(err, ShouldBeNil)
				So(out, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a pool with several workers", t, func() {
		p := pool.New(pool.WithWorkers(8))

		Convey("When mapping a large batch", func() {
			records := batch(500)
			out, err := p.Map(context.Background(), records, double)

			Convey("Then order and completeness match the sequential result", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 500)
				for i, s := range out {
					So(s.Text, ShouldEqual, records[i].Text)
					So(s.Score, ShouldEqual, records[i].Traffic*2)
				}
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When mapping with one worker", func() {
			_, err := pool.New().Map(ctx, batch(5), double)

			Convey("Then the cancellation propagates", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When mapping with several workers", func() {
			_, err := pool.New(pool.WithWorkers(4)).Map(ctx, batch(100), double)

			Convey("Then no partial batch is returned", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given an invalid worker count option", t, func() {
		p := pool.New(pool.WithWorkers(0))

		Convey("Then the default is kept", func() {
			So(p.Workers(), ShouldEqual, 1)
		})
	})
}
