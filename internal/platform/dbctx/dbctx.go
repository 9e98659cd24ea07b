package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context is what a transactional unit of work receives: the cancellation
// context it must honor and the open transaction every statement in the unit
// goes through.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
