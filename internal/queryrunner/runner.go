// Package queryrunner executes the bookstore operation catalog against one
// database session and prints each result.
//
// A run moves through three phases: connecting, running and closing. Operations
// run strictly in order, one at a time, and share nothing. The first failure
// aborts the remaining operations; the session is closed on every path.
package queryrunner

import (
	"context"
	"time"

	"bookstore/internal/book"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Session is an open connection to the books collection.
type Session interface {
	Books() book.Repository
	Close(ctx context.Context) error
}

// ConnectFunc opens the session for one run.
type ConnectFunc func(ctx context.Context) (Session, error)

// Operation is one named step of a run. Exec returns the value to print: a
// Table, a Message, or anything that marshals to JSON.
type Operation struct {
	Name  string
	Title string
	Exec  func(ctx context.Context, svc *book.Service) (interface{}, error)
}

type Runner struct {
	connect ConnectFunc
	ops     []Operation
	printer *Printer
	log     logrus.FieldLogger
}

func New(connect ConnectFunc, ops []Operation, printer *Printer, log logrus.FieldLogger) *Runner {
	return &Runner{
		connect: connect,
		ops:     ops,
		printer: printer,
		log:     log,
	}
}

// Run connects, executes every operation in order and closes the session.
// A close failure is returned only when everything before it succeeded.
func (r *Runner) Run(ctx context.Context) (err error) {
	log := r.log.WithField("run_id", uuid.NewString())

	log.Info("connecting")
	sess, err := r.connect(ctx)
	if err != nil {
		return errors.Wrap(err, "connect")
	}

	defer func() {
		log.Info("closing")
		cerr := sess.Close(ctx)
		if cerr == nil {
			return
		}
		if err == nil {
			err = errors.Wrap(cerr, "close")
			return
		}
		log.WithError(cerr).Warn("close failed after an earlier error")
	}()

	svc := book.NewService(sess.Books())

	log.WithField("operations", len(r.ops)).Info("running")
	for i, op := range r.ops {
		opLog := log.WithFields(logrus.Fields{"op": op.Name, "step": i + 1})
		start := time.Now()

		res, opErr := op.Exec(ctx, svc)
		if opErr != nil {
			opLog.WithError(opErr).Error("operation failed")
			return errors.Wrapf(opErr, "operation %s", op.Name)
		}
		if perr := r.printer.Print(op.Title, res); perr != nil {
			return perr
		}

		opLog.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("operation finished")
	}

	log.Info("all operations finished")
	return nil
}
