// Package metrics registers the application counters exposed on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SessionsStarted counts created quiz sessions.
	SessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quizhub_sessions_started_total",
		Help: "Number of quiz sessions created.",
	})

	// AnswersGraded counts graded submissions by result.
	AnswersGraded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quizhub_answers_graded_total",
		Help: "Number of answers graded, partitioned by result.",
	}, []string{"result"})

	// QuizzesFinished counts runs that reached the summary screen.
	QuizzesFinished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quizhub_quizzes_finished_total",
		Help: "Number of quiz runs completed.",
	})

	// CertificatesRendered counts certificate downloads.
	CertificatesRendered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quizhub_certificates_rendered_total",
		Help: "Number of certificates rendered.",
	})
)

func init() {
	prometheus.MustRegister(SessionsStarted, AnswersGraded, QuizzesFinished, CertificatesRendered)
}

// GradeResult labels for AnswersGraded.
const (
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
)
