// Package waiter blocks the session owner until every unit in a set of
// categories has finished.
package waiter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"asynctask/internal/build"
	"asynctask/internal/logevent"
	"asynctask/internal/registry"
	"asynctask/internal/unit"
)

// DefaultErrorCode tags failures raised by the waiter itself.
const DefaultErrorCode = "XAT0000"

// SourceName labels the waiter's own messages.
const SourceName = "wait"

// DefaultCategories is used when no categories are requested.
var DefaultCategories = []string{registry.DefaultCategory}

// Waiter waits on categories of units registered in a session.
type Waiter struct {
	Categories []string
	ErrorCode  string
}

func (w Waiter) categories() []string {
	if len(w.Categories) == 0 {
		return DefaultCategories
	}
	return w.Categories
}

func (w Waiter) errorCode() string {
	if w.ErrorCode == "" {
		return DefaultErrorCode
	}
	return w.ErrorCode
}

// Execute waits, on the calling goroutine, for every unit in the requested
// categories and reports whether the session's reporter is still free of
// errors. Units listed under more than one requested category are waited
// once per listing.
func (w Waiter) Execute(ctx context.Context, bc *build.Context) bool {
	log := unit.OwnerLogger(logevent.Source{UnitID: uuid.NewString(), UnitName: SourceName}, bc.Reporter)
	categories := w.categories()
	list := strings.Join(categories, ",")

	reg := bc.Registry
	if reg == nil || reg.Count() == 0 {
		log.Message("No tasks found in registry")
		return true
	}

	var units []*unit.Unit
	for _, category := range categories {
		found := reg.Lookup(category)
		if len(found) == 0 {
			log.Messagef("No tasks found for %s", category)
			continue
		}
		log.Messagef("Waiting on Tasks %s", category)
		units = append(units, found...)
	}
	if len(units) == 0 {
		log.Messagef("No Tasks found for Categories [%s]", list)
		return true
	}

	opts := bc.WaitOptions()
	for _, u := range units {
		log.Messagef("Waiting on %s", u.Label())
		u.Wait(ctx, bc.Reporter, opts)
	}
	if err := ctx.Err(); err != nil {
		log.CodedError(w.errorCode(), fmt.Sprintf("wait for categories [%s] interrupted: %v", list, err))
	}

	log.Messagef("All Tasks in Categories [%s] have Completed.", list)
	return !bc.Reporter.HasLoggedErrors()
}
