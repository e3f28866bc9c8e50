package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
)

// parseIDParam rejects malformed identifiers at the boundary, before
// anything reaches the order engine.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, apperr.ErrInvalidArgument)
	}
	return uint(id), nil
}

func invalidBody(err error) error {
	return fmt.Errorf("invalid request body: %v: %w", err, apperr.ErrInvalidArgument)
}

func parseLimitQuery(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}
