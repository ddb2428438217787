package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerSummary(t *testing.T) {
	Convey("Given a fresh metrics manager", t, func() {
		m := NewManager(WithRegistry(prometheus.NewRegistry()))

		Convey("When nothing has been recorded", func() {
			summary, err := m.Summary()

			Convey("Then the summary still gathers cleanly", func() {
				So(err, ShouldBeNil)
				So(summary, ShouldContainSubstring, "keyrank_pipeline_rows_read_total 0")
			})
		})

		Convey("When run counters are recorded", func() {
			m.rowsRead.Add(42)
			m.rowsRejected.Add(3)
			m.selected.Set(5)
			m.budgetUsed.Set(87)
			m.scores.Observe(0.7)
			m.stageDuration.WithLabelValues("score").Observe(0.01)

			summary, err := m.Summary()

			Convey("Then every metric shows up in the summary", func() {
				So(err, ShouldBeNil)
				So(summary, ShouldContainSubstring, "rows_read_total 42")
				So(summary, ShouldContainSubstring, "rows_rejected_total 3")
				So(summary, ShouldContainSubstring, "keywords_selected 5")
				So(summary, ShouldContainSubstring, "budget_chars_used 87")
				So(summary, ShouldContainSubstring, "composite_score_count 1")
				So(summary, ShouldContainSubstring, "stage_duration_seconds{stage=score}_count 1")
			})

			Convey("Then the summary lines are sorted", func() {
				lines := strings.Split(summary, "\n")
				for i := 1; i < len(lines); i++ {
					So(lines[i-1] <= lines[i], ShouldBeTrue)
				}
			})
		})
	})

	Convey("Given custom namespace and subsystem options", t, func() {
		m := NewManager(
			WithRegistry(prometheus.NewRegistry()),
			WithNamespace("acme"),
			WithSubsystem("runs"),
		)

		Convey("Then metric names carry them", func() {
			summary, err := m.Summary()
			So(err, ShouldBeNil)
			So(summary, ShouldContainSubstring, "acme_runs_rows_read_total")
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording through the package helpers", func() {
			RecordRowsRead(10)
			RecordRowsRejected(1)
			UpdateSelected(4)
			UpdateBudgetUsed(60)
			ObserveScore(0.5)
			ObserveStage("normalize", 2*time.Millisecond)

			Convey("Then the global summary reflects them", func() {
				summary, err := Summary()
				So(err, ShouldBeNil)
				So(summary, ShouldContainSubstring, "keywords_selected 4")
				So(summary, ShouldContainSubstring, "budget_chars_used 60")
			})
		})
	})
}
