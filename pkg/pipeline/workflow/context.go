package workflow

import (
	"github.com/brightlake/brightlake/pkg/pipeline/activity"
)

// Context binds the workflow definitions to the activity implementations a
// worker registers alongside them.
type Context struct {
	ActivityContext *activity.Context
}
