package blueprint

import (
	"encoding/json"

	"github.com/gqlgate/gqlgate/internal/config"
	"github.com/gqlgate/gqlgate/internal/valid"
)

// compileConst validates that the constant is JSON-representable and lifts
// it into a literal expression.
func compileConst(cnst *config.Const) valid.Valid[Expression] {
	if _, err := json.Marshal(cnst.Data); err != nil {
		return valid.FailWith[Expression]("invalid const data", err.Error()).Trace("const")
	}
	return valid.Succeed[Expression](Literal{Value: cnst.Data})
}
