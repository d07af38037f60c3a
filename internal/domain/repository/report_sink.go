package repository

import (
	"github.com/hanman2016/fine-grained-sentiment/internal/domain/service"
)

// ReportSink persists an explanation result as a named artifact.
// Persist returns the full path of the written artifact.
type ReportSink interface {
	Persist(result service.Explanation, name string) (string, error)
}
