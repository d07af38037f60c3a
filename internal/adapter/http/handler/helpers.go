package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// callbackIDParam is the path parameter carrying the per-run binding ID
const callbackIDParam = "id"

// CallbackID parses the callback binding ID out of the request path. Bindings
// are keyed by the UUID minted in Bind, so a malformed ID can never match one.
func CallbackID(c *gin.Context) (uuid.UUID, error) {
	raw := c.Param(callbackIDParam)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("malformed callback id %q: %w", raw, err)
	}
	return id, nil
}
